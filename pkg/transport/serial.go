// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/kbw/scanctl/pkg/wire"
)

// SerialBridgeTransport talks to a microcontroller bridge that
// forwards each 9-byte frame onto the device's SPI bus and echoes
// back the 9-byte reply, full duplex. There are no framing or
// escape bytes: every exchange is a fixed 9-byte write followed by a
// 9-byte read.
type SerialBridgeTransport struct {
	port serial.Port
}

// OpenSerialBridge opens portName at baud and returns a Transport.
func OpenSerialBridge(portName string, baud int) (*SerialBridgeTransport, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, ioError("open serial port", fmt.Errorf("%s: %w", portName, err))
	}
	return &SerialBridgeTransport{port: port}, nil
}

func (t *SerialBridgeTransport) Exchange(ctx context.Context, frame wire.Frame) (wire.Reply, error) {
	if err := ctx.Err(); err != nil {
		return wire.Reply{}, err
	}
	out := wire.EncodeFrame(frame)
	if _, err := t.port.Write(out[:]); err != nil {
		return wire.Reply{}, ioError("serial write", err)
	}
	var in [wire.FrameSize]byte
	if _, err := io.ReadFull(t.port, in[:]); err != nil {
		return wire.Reply{}, ioError("serial read", err)
	}
	return wire.DecodeReply(in), nil
}

func (t *SerialBridgeTransport) Close() error {
	return t.port.Close()
}
