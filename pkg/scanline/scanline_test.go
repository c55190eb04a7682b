// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package scanline

import (
	"testing"

	"github.com/kbw/scanctl/pkg/params"
	"github.com/kbw/scanctl/pkg/wire"
)

func scenario5Params(t *testing.T) *params.Parameters {
	t.Helper()
	p, err := params.New(params.Parameters{
		RPM:       2400,
		StartFrac: 0.35,
		EndFrac:   0.85,
		Facets:    4,
		FMotor:    1_000_000,
		TicksMove: 10_000,
		Motors:    3,
		LaserHz:   200_000,
	})
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	return p
}

func TestBuild_ScanlineGeometry(t *testing.T) {
	p := scenario5Params(t)
	bits := make([]bool, p.BitsPerLine())
	for i := range bits {
		bits[i] = true
	}
	l, err := Build(bits, p, wire.Forward, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(l.DataWords) != 10 {
		t.Fatalf("got %d data words, want 10", len(l.DataWords))
	}
	if l.TicksPerHalfStep != 5 {
		t.Errorf("TicksPerHalfStep = %d, want 5", l.TicksPerHalfStep)
	}
	// 625 bits set, packed over 10 words: the first 9 are fully set
	// (576 bits), the 10th carries the remaining 49 bits in its low
	// bits with the high 15 bits zero-padded.
	for i := 0; i < 9; i++ {
		if l.DataWords[i] != ^uint64(0) {
			t.Errorf("word %d = 0x%016X, want all bits set", i, l.DataWords[i])
		}
	}
	lastWant := uint64(1)<<49 - 1
	if l.DataWords[9] != lastWant {
		t.Errorf("last word = 0x%016X, want 0x%016X", l.DataWords[9], lastWant)
	}
}

func TestBuild_OverLong(t *testing.T) {
	p := scenario5Params(t)
	bits := make([]bool, p.BitsPerLine()+1)
	if _, err := Build(bits, p, wire.Forward, false); err == nil {
		t.Fatal("expected OverLongError")
	}
}

func TestBuild_ShortPadsHighBitsOfLastWord(t *testing.T) {
	p := scenario5Params(t)
	l, err := Build([]bool{true}, p, wire.Forward, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l.DataWords[0] != 1 {
		t.Errorf("word 0 = 0x%016X, want 0x1", l.DataWords[0])
	}
	for i := 1; i < len(l.DataWords); i++ {
		if l.DataWords[i] != 0 {
			t.Errorf("word %d = 0x%016X, want 0", i, l.DataWords[i])
		}
	}
}

func TestBuild_DirectionBitOrder(t *testing.T) {
	p := scenario5Params(t)
	bits := []bool{true, false, false}

	fwd, err := Build(bits, p, wire.Forward, false)
	if err != nil {
		t.Fatalf("Build forward: %v", err)
	}
	if fwd.DataWords[0] != 1<<0 {
		t.Errorf("forward word 0 = 0x%X, want bit 0 set", fwd.DataWords[0])
	}

	back, err := Build(bits, p, wire.Backward, false)
	if err != nil {
		t.Fatalf("Build backward: %v", err)
	}
	if back.DataWords[0] != 1<<63 {
		t.Errorf("backward word 0 = 0x%X, want bit 63 set", back.DataWords[0])
	}
}

func TestUnpack_RoundTrip(t *testing.T) {
	p := scenario5Params(t)
	bits := make([]bool, p.BitsPerLine())
	for i := range bits {
		bits[i] = i%3 == 0
	}
	for _, dir := range []wire.Direction{wire.Forward, wire.Backward} {
		l, err := Build(bits, p, dir, true)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		got := Unpack(l, len(bits))
		for i := range bits {
			if got[i] != bits[i] {
				t.Fatalf("direction %v: bit %d = %v, want %v", dir, i, got[i], bits[i])
			}
		}
		if !l.Final {
			t.Error("Final = false, want true")
		}
	}
}
