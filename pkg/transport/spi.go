// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/kbw/scanctl/pkg/wire"
)

// SPITransport drives the device directly over a local SPI bus. Each
// Exchange is one periph.io spi.Conn.Tx call; the port handles
// chip-select for the duration of the transaction.
type SPITransport struct {
	port  spi.PortCloser
	conn  spi.Conn
	reset gpio.PinOut
}

// SPIOptions configures OpenSPI.
type SPIOptions struct {
	// BusName selects a specific SPI bus; empty uses the first
	// available bus, as spireg.Open("") does.
	BusName string
	// Speed is the SPI clock; defaults to 1 MHz, matching F_MOTOR.
	Speed physic.Frequency
	// ResetPin, if non-empty, is toggled low-then-high once on open to
	// reset the device before the first exchange.
	ResetPin string
}

// OpenSPI opens a local SPI bus and returns a Transport bound to it.
func OpenSPI(opts SPIOptions) (*SPITransport, error) {
	if _, err := host.Init(); err != nil {
		return nil, ioError("host init", err)
	}

	p, err := spireg.Open(opts.BusName)
	if err != nil {
		return nil, ioError("open spi bus", err)
	}

	speed := opts.Speed
	if speed == 0 {
		speed = physic.MegaHertz
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, ioError("connect spi", err)
	}

	t := &SPITransport{port: p, conn: c}

	if opts.ResetPin != "" {
		pin := gpioreg.ByName(opts.ResetPin)
		if pin == nil {
			p.Close()
			return nil, ioError("reset pin", fmt.Errorf("no such gpio pin %q", opts.ResetPin))
		}
		t.reset = pin
		if err := t.pulseReset(); err != nil {
			p.Close()
			return nil, err
		}
	}

	return t, nil
}

func (t *SPITransport) pulseReset() error {
	if err := t.reset.Out(gpio.Low); err != nil {
		return ioError("reset low", err)
	}
	if err := t.reset.Out(gpio.High); err != nil {
		return ioError("reset high", err)
	}
	return nil
}

// Exchange transmits one 9-byte frame and captures the 9-byte reply.
// context cancellation is checked before the transfer; periph.io's
// spi.Conn.Tx does not itself accept a context, so an already-expired
// context aborts before the bus is touched rather than mid-transfer.
func (t *SPITransport) Exchange(ctx context.Context, frame wire.Frame) (wire.Reply, error) {
	if err := ctx.Err(); err != nil {
		return wire.Reply{}, err
	}
	out := wire.EncodeFrame(frame)
	var in [wire.FrameSize]byte
	if err := t.conn.Tx(out[:], in[:]); err != nil {
		return wire.Reply{}, ioError("spi tx", err)
	}
	return wire.DecodeReply(in), nil
}

func (t *SPITransport) Close() error {
	return t.port.Close()
}
