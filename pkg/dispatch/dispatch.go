// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package dispatch implements the single-threaded cooperative session
// that owns one transport and streams instructions to the device,
// applying the memory-full backoff protocol and surfacing device-side
// rejections.
//
// A Session is not safe for concurrent use. Concurrent use requires
// external serialization; the transport handle is exclusively owned
// by one session.
package dispatch

import (
	"context"
	"time"

	"github.com/kbw/scanctl/pkg/params"
	"github.com/kbw/scanctl/pkg/position"
	"github.com/kbw/scanctl/pkg/scanline"
	"github.com/kbw/scanctl/pkg/segment"
	"github.com/kbw/scanctl/pkg/transport"
	"github.com/kbw/scanctl/pkg/wire"
)

// Session dispatches instructions to one device over one transport.
type Session struct {
	params         *params.Parameters
	transport      transport.Transport
	position       *position.Tracker
	backoff        backoffPolicy
	singleLineHeld bool
}

// NewSession builds a Session bound to t, using p's geometry and
// motor count. The position mirror starts at all zeros.
func NewSession(t transport.Transport, p *params.Parameters) *Session {
	return &Session{
		params:    p,
		transport: t,
		position:  position.NewTracker(p.Motors),
		backoff:   defaultBackoff,
	}
}

// Params returns the session's frozen parameter model.
func (s *Session) Params() *params.Parameters { return s.params }

// Position returns the session's cached position mirror.
func (s *Session) Position() *position.Tracker { return s.position }

// Close releases the underlying transport.
func (s *Session) Close() error { return s.transport.Close() }

// Start issues the START command. Not retried or cancellable: it is
// a single exchange.
func (s *Session) Start(ctx context.Context) error {
	_, err := s.transport.Exchange(ctx, wire.Frame{Command: wire.CmdStart})
	return err
}

// Stop issues the STOP command. Not retried or cancellable. Releases
// the single_line hold, if any, so a subsequent Scanline call may
// load a new pattern.
func (s *Session) Stop(ctx context.Context) error {
	_, err := s.transport.Exchange(ctx, wire.Frame{Command: wire.CmdStop})
	s.singleLineHeld = false
	return err
}

// ReadState issues a single READ exchange. The reply word carries the
// auxiliary pin snapshot; the caller interprets it alongside the
// status byte.
func (s *Session) ReadState(ctx context.Context) (wire.StatusByte, uint64, error) {
	reply, err := s.transport.Exchange(ctx, wire.Frame{Command: wire.CmdRead})
	if err != nil {
		return 0, 0, err
	}
	return reply.Status, reply.Word, nil
}

// ReadPosition issues one POSITION exchange per motor index, matching
// the gateware's mtrcntr-multiplexed reply, and updates the cached
// position mirror before returning it.
func (s *Session) ReadPosition(ctx context.Context) ([]int64, error) {
	positions := make([]int64, s.params.Motors)
	for motor := 0; motor < s.params.Motors; motor++ {
		reply, err := s.transport.Exchange(ctx, wire.Frame{Command: wire.CmdPosition, Word: uint64(motor)})
		if err != nil {
			return nil, err
		}
		positions[motor] = int64(reply.Word)
	}
	s.position.Set(positions)
	return positions, nil
}

// Move splits (totalTicks, coefs) into TICKS_MOVE-bounded segments
// and submits them back-to-back, with no intervening non-move
// instruction.
func (s *Session) Move(ctx context.Context, totalTicks uint64, coefs [][3]int64) error {
	segments, err := segment.Split(totalTicks, coefs, s.params.TicksMove, s.params.FMotor)
	if err != nil {
		return err
	}
	for _, seg := range segments {
		frames, err := wire.EncodeMove(wire.Move{Ticks: seg.Ticks, Coefs: seg.Coefs}, s.params.TicksMove)
		if err != nil {
			return err
		}
		if err := s.SubmitInstruction(ctx, frames); err != nil {
			return err
		}
	}
	return nil
}

// SetPins submits a PIN instruction with the given pin vector.
func (s *Session) SetPins(ctx context.Context, vector byte) error {
	return s.SubmitInstruction(ctx, wire.EncodePin(vector))
}

// Scanline builds and submits one LASERLINE instruction from bits,
// using the session's parameter model for geometry and direction.
// final marks the last scanline of a run (see wire.Laserline.Final).
//
// In single_line mode the device repeats whatever pattern it last
// received until Stop; Scanline enforces that contract by rejecting
// a second call once a pattern is held, rather than silently
// streaming data the device would never consume.
func (s *Session) Scanline(ctx context.Context, bits []bool, final bool) error {
	if s.params.SingleLine && s.singleLineHeld {
		return &SingleLineHeldError{}
	}
	l, err := scanline.Build(bits, s.params, s.params.Direction, final)
	if err != nil {
		return err
	}
	frames, err := wire.EncodeLaserline(l)
	if err != nil {
		return err
	}
	if err := s.SubmitInstruction(ctx, frames); err != nil {
		return err
	}
	if s.params.SingleLine {
		s.singleLineHeld = true
	}
	return nil
}

// SubmitInstruction streams frames to the device in order, applying
// a bounded backoff on memory-full replies:
// a frame whose reply sets memory_full is re-exchanged unchanged
// after a bounded exponential backoff (the device discards writes
// while full and republishes status, so the retry is idempotent); a
// reply setting parse_error or dispatch_error aborts the instruction.
// Frames are never reordered and the call never buffers across
// invocations.
func (s *Session) SubmitInstruction(ctx context.Context, frames []wire.Frame) error {
	for i := 0; i < len(frames); {
		if err := ctx.Err(); err != nil {
			return &CancelledError{}
		}

		reply, err := s.transport.Exchange(ctx, frames[i])
		if err != nil {
			return err
		}

		switch {
		case reply.Status.ParseError():
			return &DeviceRejectedError{Kind: "parse", Status: reply.Status}
		case reply.Status.DispatchError():
			return &DeviceRejectedError{Kind: "dispatch", Status: reply.Status}
		case reply.Status.MemoryFull():
			if err := s.retryMemoryFull(ctx, i, frames); err != nil {
				return err
			}
			// retryMemoryFull only returns nil once a non-full reply
			// for frames[i] has been observed and handled; advance.
			i++
		default:
			i++
		}
	}
	return nil
}

// retryMemoryFull re-exchanges frames[i] with bounded exponential
// backoff until the device reports something other than memory_full,
// returning a DeviceRejectedError or BackpressureExhaustedError as
// appropriate.
func (s *Session) retryMemoryFull(ctx context.Context, i int, frames []wire.Frame) error {
	for attempt := 1; attempt <= s.backoff.MaxRetries; attempt++ {
		if err := s.backoff.sleep(ctx, attempt); err != nil {
			return &CancelledError{}
		}
		reply, err := s.transport.Exchange(ctx, frames[i])
		if err != nil {
			return err
		}
		switch {
		case reply.Status.ParseError():
			return &DeviceRejectedError{Kind: "parse", Status: reply.Status}
		case reply.Status.DispatchError():
			return &DeviceRejectedError{Kind: "dispatch", Status: reply.Status}
		case reply.Status.MemoryFull():
			continue
		default:
			return nil
		}
	}
	return &BackpressureExhaustedError{Retries: s.backoff.MaxRetries}
}

// WaitFacetSync blocks until syncBit has risen n times, used to pace
// scanline submission in single_facet mode: the device only accepts
// new line data once per rotation, so the caller waits for
// params.FacetSyncsPerLine() syncs between successive Scanline calls
// instead of submitting on every facet.
func (s *Session) WaitFacetSync(ctx context.Context, n int, syncBit func(word uint64) bool) error {
	seen := 0
	wasSet := false
	for seen < n {
		if err := ctx.Err(); err != nil {
			return &CancelledError{}
		}
		_, word, err := s.ReadState(ctx)
		if err != nil {
			return err
		}
		set := syncBit(word)
		if set && !wasSet {
			seen++
		}
		wasSet = set
	}
	return nil
}

// WaitStable polls ReadState until the device's sync bit is set or
// stableS elapses, per the scanline lifecycle: pin(polygon-on),
// spinupS wait, then poll for stable. syncBit reports whether a
// READ reply word indicates facet sync; its layout is device-specific
// and supplied by the caller.
func (s *Session) WaitStable(ctx context.Context, stableS float64, syncBit func(word uint64) bool) error {
	deadline := time.Now().Add(time.Duration(stableS * float64(time.Second)))
	for {
		if err := ctx.Err(); err != nil {
			return &CancelledError{}
		}
		_, word, err := s.ReadState(ctx)
		if err != nil {
			return err
		}
		if syncBit(word) {
			return nil
		}
		if time.Now().After(deadline) {
			return &SyncTimeoutError{StableS: stableS}
		}
	}
}
