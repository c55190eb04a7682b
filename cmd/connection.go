// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/kbw/scanctl/pkg/dispatch"
	"github.com/kbw/scanctl/pkg/params"
	"github.com/kbw/scanctl/pkg/transport"
	"github.com/kbw/scanctl/pkg/wire"
)

// OpenTransport opens whichever backend the persistent connection
// flags select. --ws-url and --port take precedence over the SPI
// default, so a single binary can drive a network bridge without an
// explicit mode flag.
func OpenTransport() (transport.Transport, string, error) {
	switch {
	case wsURL != "":
		password := ""
		if wsUsername != "" {
			var err error
			password, err = transport.ReadPassword()
			if err != nil {
				return nil, "", err
			}
		}
		t, err := transport.OpenWSBridge(transport.WSOptions{
			URL:           wsURL,
			Username:      wsUsername,
			Password:      password,
			SkipSSLVerify: wsNoSSLVerify,
		})
		if err != nil {
			return nil, "", err
		}
		return t, fmt.Sprintf("WebSocket: %s", wsURL), nil

	case portName != "":
		t, err := transport.OpenSerialBridge(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return t, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil

	default:
		t, err := transport.OpenSPI(transport.SPIOptions{BusName: spiBus, ResetPin: resetPin})
		if err != nil {
			return nil, "", err
		}
		desc := spiBus
		if desc == "" {
			desc = "(first available)"
		}
		return t, fmt.Sprintf("SPI: %s", desc), nil
	}
}

// OpenSession opens a transport per the connection flags and a
// parameter model per the parameter flags, returning a ready
// dispatch.Session.
func OpenSession() (*dispatch.Session, string, error) {
	t, desc, err := OpenTransport()
	if err != nil {
		return nil, "", err
	}

	direction := wire.Forward
	if backward {
		direction = wire.Backward
	}
	p, err := params.New(params.Parameters{
		RPM:         rpm,
		StartFrac:   startFrac,
		EndFrac:     endFrac,
		SpinupS:     spinupS,
		StableS:     stableS,
		Facets:      facets,
		Direction:   direction,
		SingleLine:  singleLine,
		SingleFacet: singleFacet,
		FMotor:      fMotor,
		TicksMove:   ticksMove,
		Motors:      motors,
		LaserHz:     laserHz,
	})
	if err != nil {
		t.Close()
		return nil, "", err
	}

	return dispatch.NewSession(t, p), desc, nil
}
