// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package position

import "testing"

func TestNewTracker_Zeroed(t *testing.T) {
	tr := NewTracker(3)
	got := tr.Get()
	if len(got) != 3 {
		t.Fatalf("Get() returned %d positions, want 3", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("position[%d] = %d, want 0", i, v)
		}
	}
}

func TestTracker_SetAndGet(t *testing.T) {
	tr := NewTracker(3)
	tr.Set([]int64{10, -20, 30})

	got := tr.Get()
	want := []int64{10, -20, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	for i, v := range want {
		if m := tr.Motor(i); m != v {
			t.Errorf("Motor(%d) = %d, want %d", i, m, v)
		}
	}
}

func TestTracker_GetIsCopy(t *testing.T) {
	tr := NewTracker(2)
	tr.Set([]int64{1, 2})

	got := tr.Get()
	got[0] = 999

	if m := tr.Motor(0); m != 1 {
		t.Errorf("mutating Get() result leaked into tracker: Motor(0) = %d, want 1", m)
	}
}

func TestTracker_SetShorterThanCapacityLeavesRemainderUnchanged(t *testing.T) {
	tr := NewTracker(3)
	tr.Set([]int64{5, 6, 7})
	tr.Set([]int64{42})

	got := tr.Get()
	want := []int64{42, 6, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
