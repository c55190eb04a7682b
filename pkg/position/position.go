// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package position holds the host-side mirror of motor position. The
// device's own counters are authoritative; this is a cached shadow
// used for scheduling and test assertions, updated only by an
// explicit read_position exchange.
package position

// Tracker holds one signed position per motor.
type Tracker struct {
	positions []int64
}

// NewTracker returns a Tracker for motors motors, all zeroed.
func NewTracker(motors int) *Tracker {
	return &Tracker{positions: make([]int64, motors)}
}

// Set overwrites the mirror with a freshly read position vector.
func (t *Tracker) Set(positions []int64) {
	copy(t.positions, positions)
}

// Get returns a copy of the current mirror.
func (t *Tracker) Get() []int64 {
	out := make([]int64, len(t.positions))
	copy(out, t.positions)
	return out
}

// Motor returns the cached position for one motor index.
func (t *Tracker) Motor(i int) int64 {
	return t.positions[i]
}
