// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tracelog

import (
	"bytes"
	"context"
	"testing"

	"github.com/kbw/scanctl/pkg/wire"
)

type scriptedTransport struct {
	replies []wire.Reply
	i       int
}

func (s *scriptedTransport) Exchange(ctx context.Context, frame wire.Frame) (wire.Reply, error) {
	r := s.replies[s.i]
	s.i++
	return r, nil
}

func (s *scriptedTransport) Close() error { return nil }

func TestRecordThenReplay_RoundTrip(t *testing.T) {
	under := &scriptedTransport{replies: []wire.Reply{
		{Status: 0, Word: 1},
		{Status: wire.StatusByte(1 << 2), Word: 2},
	}}
	var buf bytes.Buffer
	rec := NewRecorder(under, &buf)

	frames := []wire.Frame{
		{Command: wire.CmdRead, Word: 0},
		{Command: wire.CmdWrite, Word: 0xAA},
	}
	var got []wire.Reply
	for _, f := range frames {
		reply, err := rec.Exchange(context.Background(), f)
		if err != nil {
			t.Fatalf("Exchange: %v", err)
		}
		got = append(got, reply)
	}

	player := NewPlayer(&buf, true)
	for i, f := range frames {
		reply, err := player.Exchange(context.Background(), f)
		if err != nil {
			t.Fatalf("replay Exchange %d: %v", i, err)
		}
		if reply != got[i] {
			t.Errorf("replay %d = %+v, want %+v", i, reply, got[i])
		}
	}
}

func TestPlayer_VerifyRejectsMismatch(t *testing.T) {
	under := &scriptedTransport{replies: []wire.Reply{{Status: 0, Word: 1}}}
	var buf bytes.Buffer
	rec := NewRecorder(under, &buf)
	if _, err := rec.Exchange(context.Background(), wire.Frame{Command: wire.CmdRead, Word: 0}); err != nil {
		t.Fatalf("Exchange: %v", err)
	}

	player := NewPlayer(&buf, true)
	_, err := player.Exchange(context.Background(), wire.Frame{Command: wire.CmdWrite, Word: 99})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestPlayer_ExhaustedStream(t *testing.T) {
	player := NewPlayer(&bytes.Buffer{}, false)
	if _, err := player.Exchange(context.Background(), wire.Frame{}); err == nil {
		t.Fatal("expected exhausted-stream error")
	}
}
