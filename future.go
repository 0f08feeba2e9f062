// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/freefdb/ffdb/engine"
)

// future adapts one engine future: it blocks for completion, classifies the
// outcome, decodes the result and releases the handle. Callers defer
// release as soon as the future is created.
type future struct {
	api     engine.API
	metrics *Metrics
	op      string
	f       engine.Future
}

func newFuture(api engine.API, metrics *Metrics, op string, f engine.Future) *future {
	return &future{api: api, metrics: metrics, op: op, f: f}
}

// await blocks until f is ready and decodes its result. A failure to wait is
// always fatal; the operation's own error is classified.
func await[T any](f *future, decode func(engine.Future) (T, engine.ErrorCode)) (T, error) {
	var zero T
	if f.f == nil {
		return zero, errors.Mark(ErrNoFuture, ErrFatal)
	}
	start := crtime.NowMono()
	err := f.block()
	var v T
	if err == nil && decode != nil {
		var code engine.ErrorCode
		if v, code = decode(f.f); code != engine.Success {
			err = classify(f.api, code)
		}
	}
	f.metrics.observeWait(f.op, start.Elapsed(), err)
	if err != nil {
		return zero, err
	}
	return v, nil
}

func (f *future) block() error {
	if code := f.f.BlockUntilReady(); code != engine.Success {
		return fatal(f.api, code)
	}
	return classify(f.api, f.f.Err())
}

// wait blocks until f is ready and returns its outcome.
func (f *future) wait() error {
	_, err := await[struct{}](f, nil)
	return err
}

// release frees the engine handle. It is safe to call more than once.
func (f *future) release() {
	if f.f != nil {
		f.f.Release()
		f.f = nil
	}
}

type valueResult struct {
	value   []byte
	present bool
}

func decodeValue(f engine.Future) (valueResult, engine.ErrorCode) {
	v, present, code := f.Value()
	return valueResult{value: v, present: present}, code
}

type rangeWindow struct {
	kvs  []KeyValue
	more bool
}

func decodeKeyValues(f engine.Future) (rangeWindow, engine.ErrorCode) {
	kvs, more, code := f.KeyValues()
	return rangeWindow{kvs: kvs, more: more}, code
}
