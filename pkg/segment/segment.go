// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package segment splits an arbitrarily long polynomial move into the
// bounded-length segments the device's trajectory evaluator accepts,
// re-originating each segment's coefficients so their concatenation
// reproduces the original trajectory exactly.
//
// The re-origination follows the fixed-point accumulator semantics of
// the gateware's polynomial evaluator: each segment restarts its own
// local clock at t=0, so the coefficients must be shifted forward by
// the elapsed ticks before the next segment begins.
package segment

import (
	"math/big"
)

// Segment is one bounded-length, re-originated slice of a trajectory.
type Segment struct {
	Ticks uint64
	Coefs [][3]int64
}

// Split divides a trajectory of totalTicks ticks, with per-motor
// coefficients [c0, c1, c2], into segments no longer than maxTicks.
// fMotor is the device's sample frequency, used to bound the Nyquist
// check (F_MOTOR/2).
func Split(totalTicks uint64, coefs [][3]int64, maxTicks uint64, fMotor float64) ([]Segment, error) {
	motors := len(coefs)
	current := make([][3]int64, motors)
	copy(current, coefs)

	var segments []Segment
	remaining := totalTicks
	for remaining > 0 {
		ticks := maxTicks
		if remaining < maxTicks {
			ticks = remaining
		}

		segCoefs := make([][3]int64, motors)
		copy(segCoefs, current)
		for m := 0; m < motors; m++ {
			if err := checkNyquist(segCoefs[m], ticks, fMotor, m); err != nil {
				return nil, err
			}
		}
		segments = append(segments, Segment{Ticks: ticks, Coefs: segCoefs})

		next := make([][3]int64, motors)
		for m := 0; m < motors; m++ {
			re, err := reorigin(current[m], ticks, m)
			if err != nil {
				return nil, err
			}
			next[m] = re
		}
		current = next
		remaining -= ticks
	}
	return segments, nil
}

// reorigin shifts coefficients forward by tau ticks: c0' = c0 +
// 2*c1*tau + 3*c2*tau^2, c1' = c1 + 3*c2*tau, c2' = c2. Arithmetic
// runs in arbitrary precision so overflow is detected exactly rather
// than silently wrapping.
func reorigin(c [3]int64, tau uint64, motor int) ([3]int64, error) {
	t := new(big.Int).SetUint64(tau)
	t2 := new(big.Int).Mul(t, t)
	c1 := big.NewInt(c[1])
	c2 := big.NewInt(c[2])

	newC0 := new(big.Int).Add(big.NewInt(c[0]), new(big.Int).Mul(big.NewInt(2), new(big.Int).Mul(c1, t)))
	newC0.Add(newC0, new(big.Int).Mul(big.NewInt(3), new(big.Int).Mul(c2, t2)))
	newC1 := new(big.Int).Add(c1, new(big.Int).Mul(big.NewInt(3), new(big.Int).Mul(c2, t)))

	v0, ok := fitsInt64(newC0)
	if !ok {
		return [3]int64{}, overflow(motor, "coef0")
	}
	v1, ok := fitsInt64(newC1)
	if !ok {
		return [3]int64{}, overflow(motor, "coef1")
	}
	return [3]int64{v0, v1, c[2]}, nil
}

func fitsInt64(v *big.Int) (int64, bool) {
	if !v.IsInt64() {
		return 0, false
	}
	return v.Int64(), true
}

// checkNyquist rejects a segment whose step-rate v(t) = c0 + 2*c1*t +
// 3*c2*t^2 meets or exceeds fMotor/2 for any integer t in [0, ticks).
// v is a quadratic in t, so its extrema over the range lie at the
// endpoints or at its vertex; those are the only points that need
// checking. The comparison itself runs entirely in exact big.Int and
// big.Rat arithmetic: v(t) is an exact integer, and fMotor's halved
// threshold is kept as the exact rational big.Rat.SetFloat64
// produces, so no float64 round-trip can shift a borderline segment
// across the boundary. float64 only reappears when formatting the
// rejecting error for display.
func checkNyquist(c [3]int64, ticks uint64, fMotor float64, motor int) error {
	threshold := new(big.Rat).SetFloat64(fMotor)
	if threshold == nil {
		return nyquist(motor, 0, 0)
	}
	threshold.Quo(threshold, big.NewRat(2, 1))

	candidates := []uint64{0}
	if ticks > 0 {
		candidates = append(candidates, ticks-1)
	}
	if c[2] != 0 {
		num := big.NewInt(-c[1])
		den := new(big.Int).Mul(big.NewInt(3), big.NewInt(c[2]))
		vertex := new(big.Rat).SetFrac(num, den)
		candidates = append(candidates, vertexCandidates(vertex, ticks)...)
	}

	for _, t := range candidates {
		v := evalVelocity(c, t)
		abs := new(big.Rat).SetInt(v)
		abs.Abs(abs)
		if abs.Cmp(threshold) >= 0 {
			vf, _ := new(big.Float).SetInt(v).Float64()
			return nyquist(motor, vf, fMotor/2)
		}
	}
	return nil
}

// vertexCandidates returns the integer ticks in [0, ticks) adjacent to
// vertex (its exact floor and ceiling), since the true extremum of a
// quadratic rarely lands on an integer tick.
func vertexCandidates(vertex *big.Rat, ticks uint64) []uint64 {
	if ticks == 0 {
		return nil
	}
	floor := floorRat(vertex)
	ceil := new(big.Int).Add(floor, big.NewInt(1))

	var out []uint64
	for _, cand := range []*big.Int{floor, ceil} {
		if cand.Sign() < 0 || !cand.IsUint64() {
			continue
		}
		if u := cand.Uint64(); u < ticks {
			out = append(out, u)
		}
	}
	return out
}

// floorRat returns floor(r) exactly, via Euclidean division of r's
// numerator by its (always positive) denominator.
func floorRat(r *big.Rat) *big.Int {
	q, m := new(big.Int), new(big.Int)
	q.DivMod(r.Num(), r.Denom(), m)
	return q
}

// evalVelocity computes v(t) = c0 + 2*c1*t + 3*c2*t^2 exactly.
func evalVelocity(c [3]int64, t uint64) *big.Int {
	tb := new(big.Int).SetUint64(t)
	v := new(big.Int).Add(big.NewInt(c[0]), new(big.Int).Mul(big.NewInt(2), new(big.Int).Mul(big.NewInt(c[1]), tb)))
	v.Add(v, new(big.Int).Mul(big.NewInt(3), new(big.Int).Mul(big.NewInt(c[2]), new(big.Int).Mul(tb, tb))))
	return v
}
