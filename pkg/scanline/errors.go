// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package scanline

import "fmt"

// OverLongError is returned when a caller supplies more bits than the
// geometry's bits_per_line.
type OverLongError struct {
	Got, Want int
}

func (e *OverLongError) Error() string {
	return fmt.Sprintf("scanline: %d bits exceeds bits_per_line=%d", e.Got, e.Want)
}

// SyncTimeoutError describes a photodiode-sync bit that does not
// indicate stable rotation within stable_s of spin-up completing. No
// function in this package returns it; dispatch.Session.WaitStable
// reports the same condition as dispatch.SyncTimeoutError.
type SyncTimeoutError struct {
	StableS float64
}

func (e *SyncTimeoutError) Error() string {
	return fmt.Sprintf("scanline: no facet sync within stable_s=%.3fs", e.StableS)
}
