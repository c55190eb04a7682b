// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package wire implements the scanhead command/word wire protocol: a
// fixed 9-byte full-duplex frame (1 command byte + 8 big-endian word
// bytes out, 1 status byte + 8 big-endian word bytes in) and the
// instruction payloads built on top of it (move, pin, laserline).
package wire

// FrameSize is the number of bytes in one direction of an exchange:
// one command/status byte plus one 64-bit word, big-endian.
const FrameSize = 1 + 8

// Command kinds. Values are stable across the codebase; anything else
// is reserved and makes the device reply with ParseError set.
const (
	CmdPosition byte = iota
	CmdRead
	CmdStart
	CmdStop
	CmdWrite
)

// Instruction tags, carried in the high byte of the first WRITE word of
// an instruction.
const (
	TagMove byte = iota + 1
	TagPin
	TagLaserline
)

// DefaultTicksMove is the maximum tick count of a single move segment.
const DefaultTicksMove = 10_000

// DefaultMotorFreq is the device's motion-clock sample frequency in Hz.
const DefaultMotorFreq = 1_000_000

// tickBytes is the width of the MOVE instruction's tick-count field.
const tickBytes = 7

// tickMask masks a uint64 down to the 7-byte (56-bit) tick-count field.
const tickMask = (uint64(1) << (tickBytes * 8)) - 1
