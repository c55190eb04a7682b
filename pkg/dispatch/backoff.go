// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dispatch

import (
	"context"
	"time"
)

// backoffPolicy is a bounded exponential backoff applied per-frame:
// base delay doubles on every retry up to cap, and MaxRetries bounds
// the number of retries after the first attempt before giving up.
type backoffPolicy struct {
	Base       time.Duration
	Cap        time.Duration
	MaxRetries int
}

// defaultBackoff is the memory-full retry policy: 2ms base, 200ms
// cap, 8 retries.
var defaultBackoff = backoffPolicy{
	Base:       2 * time.Millisecond,
	Cap:        200 * time.Millisecond,
	MaxRetries: 8,
}

// delay returns the sleep duration before retry attempt n (1-indexed).
func (b backoffPolicy) delay(attempt int) time.Duration {
	d := b.Base << uint(attempt-1)
	if d > b.Cap || d <= 0 {
		d = b.Cap
	}
	return d
}

// sleep waits for the attempt's backoff delay, or returns ctx.Err()
// if the context is cancelled first.
func (b backoffPolicy) sleep(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.delay(attempt)):
		return nil
	}
}
