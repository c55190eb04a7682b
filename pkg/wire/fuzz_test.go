// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

import "testing"

func FuzzDecodeReply(f *testing.F) {
	f.Add([]byte{0x00, 0, 0, 0, 0, 0, 0, 0, 0x2A})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	f.Add([]byte{})
	f.Add([]byte{0x01, 0x02, 0x03})

	f.Fuzz(func(t *testing.T, b []byte) {
		reply, err := DecodeReplyBytes(b)
		if len(b) != FrameSize {
			if err == nil {
				t.Fatalf("DecodeReplyBytes(%d bytes) returned no error for wrong length", len(b))
			}
			return
		}
		if err != nil {
			t.Fatalf("DecodeReplyBytes(%d bytes): unexpected error %v", len(b), err)
		}
		back := EncodeCommand(byte(reply.Status), reply.Word)
		var want [FrameSize]byte
		copy(want[:], b)
		if back[0] != want[0] {
			t.Errorf("round trip status byte = 0x%02X, want 0x%02X", back[0], want[0])
		}
	})
}
