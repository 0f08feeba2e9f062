// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package rate paces operations with a token bucket.
package rate // import "github.com/freefdb/ffdb/internal/rate"

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/tokenbucket"
)

// A Limiter allows operations at up to r per second, with bursts of up to b.
// A nil *Limiter allows everything. Limiter is safe for concurrent use.
type Limiter struct {
	mu struct {
		sync.Mutex
		tb tokenbucket.TokenBucket
	}
}

// NewLimiter returns a Limiter refilled at r tokens per second that holds at
// most b tokens. It returns nil if r is not positive.
func NewLimiter(r, b float64) *Limiter {
	if r <= 0 {
		return nil
	}
	l := &Limiter{}
	l.mu.tb.Init(tokenbucket.TokensPerSecond(r), tokenbucket.Tokens(b))
	return l
}

// Wait blocks until n tokens are available and takes them, or until ctx is
// done.
func (l *Limiter) Wait(ctx context.Context, n float64) error {
	if l == nil {
		return nil
	}
	for {
		l.mu.Lock()
		ok, d := l.mu.tb.TryToFulfill(tokenbucket.Tokens(n))
		l.mu.Unlock()
		if ok {
			return nil
		}
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
