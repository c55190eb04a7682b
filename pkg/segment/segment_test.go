// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package segment

import "testing"

const testFMotor = 1_000_000.0

func TestSplit_ThreeSegments(t *testing.T) {
	segs, err := Split(25_000, [][3]int64{{1, 0, 0}}, 10_000, testFMotor)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []uint64{10_000, 10_000, 5_000}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i, w := range want {
		if segs[i].Ticks != w {
			t.Errorf("segment %d: ticks = %d, want %d", i, segs[i].Ticks, w)
		}
	}
}

func TestSplit_ExactMultipleBoundary(t *testing.T) {
	segs, err := Split(10_000, [][3]int64{{1, 0, 0}}, 10_000, testFMotor)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(segs) != 1 || segs[0].Ticks != 10_000 {
		t.Fatalf("got %+v, want one segment of 10000 ticks", segs)
	}
}

func TestSplit_OneOverDoubleBoundary(t *testing.T) {
	segs, err := Split(20_001, [][3]int64{{1, 0, 0}}, 10_000, testFMotor)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []uint64{10_000, 10_000, 1}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i, w := range want {
		if segs[i].Ticks != w {
			t.Errorf("segment %d: ticks = %d, want %d", i, segs[i].Ticks, w)
		}
	}
}

func TestSplit_NyquistRejection(t *testing.T) {
	// F_MOTOR=1e6, c0=600000, c1=c2=0 -> |v|=6e5 > 5e5.
	_, err := Split(100, [][3]int64{{600_000, 0, 0}}, 10_000, testFMotor)
	if err == nil {
		t.Fatal("expected Nyquist rejection")
	}
	if _, ok := err.(*NyquistError); !ok {
		t.Fatalf("got %T, want *NyquistError", err)
	}
}

func TestSplit_NyquistAcceptsWithinBound(t *testing.T) {
	_, err := Split(100, [][3]int64{{400_000, 0, 0}}, 10_000, testFMotor)
	if err != nil {
		t.Fatalf("did not expect rejection: %v", err)
	}
}

func TestSplit_Reorigination(t *testing.T) {
	// c1=0, c2=0 keeps the coefficients unchanged across segments.
	segs, err := Split(20_000, [][3]int64{{10, 0, 0}}, 10_000, testFMotor)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	for i, seg := range segs {
		if seg.Coefs[0] != [3]int64{10, 0, 0} {
			t.Errorf("segment %d: coefs = %v, want {10,0,0}", i, seg.Coefs[0])
		}
	}
}

func TestSplit_ReoriginationShiftsLinearTerm(t *testing.T) {
	// c1=1, c2=0: c1' = c1 (unchanged, no c2 term), c0' = c0 + 2*c1*tau.
	segs, err := Split(20_000, [][3]int64{{0, 1, 0}}, 10_000, testFMotor)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if segs[0].Coefs[0] != [3]int64{0, 1, 0} {
		t.Fatalf("segment 0 coefs = %v, want {0,1,0}", segs[0].Coefs[0])
	}
	want1 := [3]int64{2 * 1 * 10_000, 1, 0}
	if segs[1].Coefs[0] != want1 {
		t.Fatalf("segment 1 coefs = %v, want %v", segs[1].Coefs[0], want1)
	}
}

func TestReorigin_OverflowRejected(t *testing.T) {
	// reorigin is exercised directly: Split would always trip the
	// Nyquist check first for coefficients large enough to overflow a
	// re-origination, since both conditions are driven by the same
	// magnitude.
	const maxInt64 = 1<<63 - 1
	_, err := reorigin([3]int64{0, 0, maxInt64}, 10_000, 0)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if _, ok := err.(*OverflowError); !ok {
		t.Fatalf("got %T, want *OverflowError", err)
	}
}

func TestSplit_MultiMotor(t *testing.T) {
	segs, err := Split(15_000, [][3]int64{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, 10_000, testFMotor)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	for _, seg := range segs {
		if len(seg.Coefs) != 3 {
			t.Fatalf("got %d motors, want 3", len(seg.Coefs))
		}
	}
}
