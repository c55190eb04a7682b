// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package tracelog captures and replays frame-level exchanges for
// offline debugging, encoding each recorded exchange as CBOR.
package tracelog

import (
	"context"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/kbw/scanctl/pkg/transport"
	"github.com/kbw/scanctl/pkg/wire"
)

// Entry is one recorded exchange.
type Entry struct {
	Frame wire.Frame
	Reply wire.Reply
}

// Recorder wraps a transport.Transport, appending an Entry for every
// successful Exchange to w before returning the reply to the caller.
// An Exchange that fails is not recorded.
type Recorder struct {
	transport.Transport
	enc *cbor.Encoder
}

// NewRecorder wraps t, writing a CBOR entry stream to w.
func NewRecorder(t transport.Transport, w io.Writer) *Recorder {
	return &Recorder{Transport: t, enc: cbor.NewEncoder(w)}
}

func (r *Recorder) Exchange(ctx context.Context, frame wire.Frame) (wire.Reply, error) {
	reply, err := r.Transport.Exchange(ctx, frame)
	if err != nil {
		return reply, err
	}
	if encErr := r.enc.Encode(Entry{Frame: frame, Reply: reply}); encErr != nil {
		return reply, fmt.Errorf("tracelog: record: %w", encErr)
	}
	return reply, nil
}

// Player implements transport.Transport by replaying a recorded entry
// stream. It does not talk to any hardware; it is a drop-in
// substitute for a transport.Transport in tests and offline replay.
type Player struct {
	dec     *cbor.Decoder
	verify  bool
	pending []Entry
}

// NewPlayer reads entries from r on demand. If verify is true,
// Exchange rejects a call whose frame does not match the next
// recorded frame.
func NewPlayer(r io.Reader, verify bool) *Player {
	return &Player{dec: cbor.NewDecoder(r), verify: verify}
}

func (p *Player) Exchange(ctx context.Context, frame wire.Frame) (wire.Reply, error) {
	if err := ctx.Err(); err != nil {
		return wire.Reply{}, err
	}
	var e Entry
	if err := p.dec.Decode(&e); err != nil {
		return wire.Reply{}, fmt.Errorf("tracelog: replay exhausted: %w", err)
	}
	if p.verify && e.Frame != frame {
		return wire.Reply{}, fmt.Errorf("tracelog: replay mismatch: got %+v, recording has %+v", frame, e.Frame)
	}
	return e.Reply, nil
}

func (p *Player) Close() error { return nil }
