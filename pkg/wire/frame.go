// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

import "encoding/binary"

// Frame is one host-to-device exchange: a command byte and a 64-bit
// word, transmitted MSB-first (command byte first, then the eight word
// bytes most-significant first).
type Frame struct {
	Command byte
	Word    uint64
}

// Reply is one device-to-host exchange, captured simultaneously with
// the Frame that produced it.
type Reply struct {
	Status StatusByte
	Word   uint64
}

// EncodeCommand packs a command/word pair into the 9-byte wire form.
func EncodeCommand(cmd byte, word uint64) [FrameSize]byte {
	var out [FrameSize]byte
	out[0] = cmd
	binary.BigEndian.PutUint64(out[1:], word)
	return out
}

// EncodeFrame is a convenience wrapper around EncodeCommand for a Frame value.
func EncodeFrame(f Frame) [FrameSize]byte {
	return EncodeCommand(f.Command, f.Word)
}

// DecodeReply unpacks a 9-byte reply window into a status byte and word.
func DecodeReply(frame [FrameSize]byte) Reply {
	return Reply{
		Status: StatusByte(frame[0]),
		Word:   binary.BigEndian.Uint64(frame[1:]),
	}
}

// DecodeReplyBytes is like DecodeReply but accepts a slice, returning a
// DecodeError if it is not exactly FrameSize bytes long.
func DecodeReplyBytes(b []byte) (Reply, error) {
	if len(b) != FrameSize {
		return Reply{}, &DecodeError{Reason: "reply is not 9 bytes"}
	}
	var frame [FrameSize]byte
	copy(frame[:], b)
	return DecodeReply(frame), nil
}
