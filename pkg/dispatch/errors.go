// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dispatch

import (
	"fmt"

	"github.com/kbw/scanctl/pkg/wire"
)

// DeviceRejectedError is returned when the device's reply carries
// parse_error or dispatch_error. The instruction is aborted at the
// frame that triggered it; Status is the rejecting reply.
type DeviceRejectedError struct {
	Kind   string // "parse" or "dispatch"
	Status wire.StatusByte
}

func (e *DeviceRejectedError) Error() string {
	return fmt.Sprintf("dispatch: device rejected frame (%s error), status=0x%02X", e.Kind, byte(e.Status))
}

// BackpressureExhaustedError is returned when the memory-full backoff
// protocol runs out of retries without the device draining its FIFO.
type BackpressureExhaustedError struct {
	Retries int
}

func (e *BackpressureExhaustedError) Error() string {
	return fmt.Sprintf("dispatch: device memory stayed full after %d retries", e.Retries)
}

// CancelledError is returned when the caller's context is cancelled
// between frames of an in-flight submit_instruction.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "dispatch: cancelled" }

// SyncTimeoutError mirrors scanline.SyncTimeoutError at the dispatch
// level, returned by WaitStable when the photodiode sync bit never
// appears within stable_s.
type SyncTimeoutError struct {
	StableS float64
}

func (e *SyncTimeoutError) Error() string {
	return fmt.Sprintf("dispatch: no facet sync within stable_s=%.3fs", e.StableS)
}

// SingleLineHeldError is returned by Scanline when single_line mode
// already has a pattern loaded: the device repeats it until Stop, so
// a second Scanline call before Stop would just be ignored data.
type SingleLineHeldError struct{}

func (e *SingleLineHeldError) Error() string {
	return "dispatch: single_line pattern already held; call Stop before submitting another"
}
