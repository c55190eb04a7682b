// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package scanline turns a flat bit pattern and a parameter model's
// geometry into the LASERLINE instruction payload the wire codec
// transmits, including the direction-dependent bit order the
// gateware expects.
package scanline

import (
	"github.com/kbw/scanctl/pkg/params"
	"github.com/kbw/scanctl/pkg/wire"
)

// Build packs bits into a wire.Laserline using p's cached geometry.
// Fewer bits than bits_per_line are zero-padded (laser off) at the
// high side of the last word; more than bits_per_line is rejected
// with OverLongError. final marks the last scanline of a run (see
// wire.Laserline.Final).
func Build(bits []bool, p *params.Parameters, direction wire.Direction, final bool) (wire.Laserline, error) {
	want := int(p.BitsPerLine())
	if len(bits) > want {
		return wire.Laserline{}, &OverLongError{Got: len(bits), Want: want}
	}

	words := int(p.WordsPerLine())
	data := make([]uint64, words)
	for i := 0; i < len(bits); i++ {
		if !bits[i] {
			continue
		}
		word, bit := i/64, i%64
		data[word] |= bitMask(bit, direction)
	}

	return wire.Laserline{
		Direction:        direction,
		TicksPerHalfStep: p.TicksPerHalfStep(),
		DataWords:        data,
		Final:            final,
	}, nil
}

// bitMask returns the mask for logical bit position `bit` (0-63)
// within one 64-bit data word, given the transmission direction:
// forward transmits LSB-first (logical bit i is physical bit i),
// backward transmits MSB-first (logical bit i is physical bit 63-i).
func bitMask(bit int, direction wire.Direction) uint64 {
	if direction == wire.Backward {
		return uint64(1) << (63 - bit)
	}
	return uint64(1) << bit
}

// Unpack is the inverse of Build, recovering the logical bit sequence
// from a laserline payload's data words. Used by tests to verify
// round-tripping.
func Unpack(l wire.Laserline, bitsPerLine int) []bool {
	bits := make([]bool, bitsPerLine)
	for i := 0; i < bitsPerLine; i++ {
		word, bit := i/64, i%64
		if word >= len(l.DataWords) {
			break
		}
		bits[i] = l.DataWords[word]&bitMask(bit, l.Direction) != 0
	}
	return bits
}
