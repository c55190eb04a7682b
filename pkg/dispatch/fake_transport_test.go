// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dispatch

import (
	"context"

	"github.com/kbw/scanctl/pkg/wire"
)

// fakeTransport replays a scripted sequence of replies, one per
// Exchange call, recording every frame it was asked to send. Once the
// script runs out it repeats the last reply, so tests that loop (e.g.
// WaitStable) don't need to over-provision the script.
type fakeTransport struct {
	script []wire.Reply
	sent   []wire.Frame
	calls  int
}

func (f *fakeTransport) Exchange(ctx context.Context, frame wire.Frame) (wire.Reply, error) {
	if err := ctx.Err(); err != nil {
		return wire.Reply{}, err
	}
	f.sent = append(f.sent, frame)
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	return f.script[idx], nil
}

func (f *fakeTransport) Close() error { return nil }
