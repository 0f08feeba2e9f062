// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"sync/atomic"
	"time"

	"github.com/freefdb/ffdb/engine"
	"github.com/freefdb/ffdb/internal/invariants"
)

// future is the completion handle of one operation. The result fields are
// written before done is closed and never after.
type future struct {
	done chan struct{}

	err     engine.ErrorCode
	value   []byte
	present bool
	kvs     []engine.KeyValue
	more    bool

	released   atomic.Bool
	closeCheck invariants.CloseChecker
}

var _ engine.Future = (*future)(nil)

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

// failed returns a future that is already ready with err.
func failed(err engine.ErrorCode) *future {
	f := newFuture()
	f.err = err
	close(f.done)
	return f
}

// resolve makes f ready after the configured latency.
func (f *future) resolve(latency time.Duration) *future {
	if latency <= 0 {
		close(f.done)
		return f
	}
	go func() {
		time.Sleep(latency)
		close(f.done)
	}()
	return f
}

func (f *future) BlockUntilReady() engine.ErrorCode {
	if f.released.Load() {
		return engine.ClientInvalidOperation
	}
	<-f.done
	return engine.Success
}

func (f *future) ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *future) Err() engine.ErrorCode {
	if !f.ready() {
		return engine.ClientInvalidOperation
	}
	return f.err
}

func (f *future) Value() ([]byte, bool, engine.ErrorCode) {
	if err := f.Err(); err != engine.Success {
		return nil, false, err
	}
	return f.value, f.present, engine.Success
}

func (f *future) KeyValues() ([]engine.KeyValue, bool, engine.ErrorCode) {
	if err := f.Err(); err != engine.Success {
		return nil, false, err
	}
	return f.kvs, f.more, engine.Success
}

func (f *future) Release() {
	f.closeCheck.Close()
	f.released.Store(true)
}
