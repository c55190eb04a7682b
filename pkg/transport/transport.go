// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package transport owns the full-duplex channel to the device and
// its chip-select discipline. It never interprets a reply's status
// byte; that belongs to pkg/dispatch.
package transport

import (
	"context"
	"fmt"

	"github.com/kbw/scanctl/pkg/wire"
)

// Transport exchanges one 9-byte frame for one 9-byte reply,
// atomically: the implementation must hold the bus (chip-select,
// serial write-then-read, or the WebSocket round trip) for the
// duration of a single Exchange call and release it on every return
// path, including errors.
type Transport interface {
	Exchange(ctx context.Context, frame wire.Frame) (wire.Reply, error)
	Close() error
}

// IoError wraps a driver-level failure (bus timeout, closed
// connection, malformed reply length).
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

func ioError(op string, err error) error {
	return &IoError{Op: op, Err: err}
}
