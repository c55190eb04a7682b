// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"errors"
	"testing"
)

func TestIoError_Unwrap(t *testing.T) {
	inner := errors.New("bus reset")
	err := ioError("spi tx", inner)
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is did not find wrapped error")
	}
	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("errors.As did not match *IoError")
	}
	if ioErr.Op != "spi tx" {
		t.Errorf("Op = %q, want %q", ioErr.Op, "spi tx")
	}
}
