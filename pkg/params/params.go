// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package params holds the frozen parameter model shared by the
// segmenter, scanline engine and dispatcher: one immutable value
// built once per session and passed around by reference.
package params

import (
	"math"

	"github.com/kbw/scanctl/pkg/wire"
)

// maxTicksMove is 2^56 - 1, the largest value that fits the MOVE
// instruction's 7-byte tick field.
const maxTicksMove = (uint64(1) << 56) - 1

// Parameters is the frozen, validated configuration of one scanning
// session. Build with New; the zero value is not valid.
type Parameters struct {
	RPM         float64
	StartFrac   float64
	EndFrac     float64
	SpinupS     float64
	StableS     float64
	Facets      int
	Direction   wire.Direction
	SingleLine  bool
	SingleFacet bool
	FMotor      float64
	TicksMove   uint64
	Motors      int

	// LaserHz is the bit clock the scanline engine ticks at; it
	// determines ticks_per_half_step as round(FMotor / LaserHz), from
	// which bits_per_line follows via the facet geometry.
	LaserHz float64

	// Cached derived quantities, computed once in New.
	ticksPerFacet    uint64
	windowTicks      uint64
	ticksPerHalfStep uint64
	bitsPerLine      uint64
	wordsPerLine     uint64
}

// Defaults returns the parameter values used by the original firmware
// (platform.laser_var): 2000 RPM, 4 facets, a 0.35-0.7 active window,
// 10s spin-up, 1.125s stabilization, 3 motors, 1 MHz motor clock and
// 10 000-tick moves. LaserHz is 40 kHz rather than the original's
// 100 kHz: the original tolerates a remainder by rounding
// bits_per_line up to the next multiple of 8, but this model requires
// ticks_per_half_step to divide the active window exactly, so the
// default is chosen to satisfy that with the same RPM/facet/window
// shape.
func Defaults() Parameters {
	return Parameters{
		RPM:       2000,
		StartFrac: 0.35,
		EndFrac:   0.7,
		SpinupS:   10,
		StableS:   1.125,
		Facets:    4,
		Direction: wire.Forward,
		FMotor:    wire.DefaultMotorFreq,
		TicksMove: wire.DefaultTicksMove,
		Motors:    3,
		LaserHz:   40_000,
	}
}

// New validates p and returns a Parameters with its derived fields
// cached, or a *ValidationError.
func New(p Parameters) (*Parameters, error) {
	if !(0 < p.StartFrac && p.StartFrac < p.EndFrac && p.EndFrac < 1) {
		return nil, invalid("start_frac/end_frac", "require 0 < start_frac < end_frac < 1")
	}
	if p.Facets < 1 {
		return nil, invalid("facets", "must be >= 1")
	}
	if p.RPM <= 0 {
		return nil, invalid("rpm", "must be > 0")
	}
	if p.Motors < 1 {
		return nil, invalid("motors", "must be >= 1")
	}
	if p.TicksMove > maxTicksMove {
		return nil, invalid("ticks_move", "does not fit in 7 bytes")
	}
	if p.FMotor <= 0 {
		return nil, invalid("f_motor", "must be > 0")
	}
	if p.LaserHz <= 0 {
		return nil, invalid("laser_hz", "must be > 0")
	}
	if p.SingleFacet && p.Facets < 2 {
		return nil, invalid("single_facet", "requires facets >= 2 (one facet exposed, the rest gated off)")
	}

	out := p
	out.ticksPerFacet = uint64(math.Round(out.FMotor * 60 / (out.RPM * float64(out.Facets))))
	out.windowTicks = uint64(math.Round((out.EndFrac - out.StartFrac) * float64(out.ticksPerFacet)))
	out.ticksPerHalfStep = uint64(math.Round(out.FMotor / out.LaserHz))
	if out.ticksPerHalfStep == 0 {
		return nil, invalid("laser_hz", "too high: ticks_per_half_step rounds to zero")
	}
	if out.windowTicks%out.ticksPerHalfStep != 0 {
		return nil, invalid("ticks_per_half_step", "does not divide the active window exactly")
	}
	out.bitsPerLine = out.windowTicks / out.ticksPerHalfStep
	if out.bitsPerLine == 0 {
		return nil, invalid("bits_per_line", "active window yields zero bits")
	}
	out.wordsPerLine = (out.bitsPerLine + 63) / 64

	return &out, nil
}

// TicksPerFacet is round(F_MOTOR * 60 / (rpm * facets)).
func (p *Parameters) TicksPerFacet() uint64 { return p.ticksPerFacet }

// WindowTicks is the active laser-on window within one facet, in ticks.
func (p *Parameters) WindowTicks() uint64 { return p.windowTicks }

// TicksPerHalfStep is the device clock divisor between successive
// scanline bits.
func (p *Parameters) TicksPerHalfStep() uint64 { return p.ticksPerHalfStep }

// BitsPerLine is the number of laser-on/off bits in one scanline.
func (p *Parameters) BitsPerLine() uint64 { return p.bitsPerLine }

// WordsPerLine is ceil(bits_per_line / 64), the data word count a
// LASERLINE instruction carries.
func (p *Parameters) WordsPerLine() uint64 { return p.wordsPerLine }

// FacetSyncsPerLine is the number of facet-sync pulses the host must
// observe between successive scanline submissions. In single_facet
// mode the device exposes only one of p.Facets facets per rotation
// and gates the rest off, so it only accepts new line data once per
// rotation instead of once per facet.
func (p *Parameters) FacetSyncsPerLine() int {
	if p.SingleFacet {
		return p.Facets
	}
	return 1
}
