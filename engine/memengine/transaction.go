// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"bytes"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/freefdb/ffdb/engine"
	"github.com/freefdb/ffdb/internal/base"
	"github.com/google/btree"
)

// span is the half-open key range [start, end).
type span struct {
	start, end []byte
}

func (s span) contains(key []byte) bool {
	return bytes.Compare(s.start, key) <= 0 && bytes.Compare(key, s.end) < 0
}

func (s span) overlaps(o span) bool {
	return bytes.Compare(s.start, o.end) < 0 && bytes.Compare(o.start, s.end) < 0
}

func pointSpan(key []byte) span {
	return span{start: clone(key), end: immediateSuccessor(key)}
}

// mutation is a buffered point write. A clear hides the key.
type mutation struct {
	key   []byte
	value []byte
	clear bool
}

func mutationLess(a, b mutation) bool {
	return bytes.Compare(a.key, b.key) < 0
}

type txnState int8

const (
	txnActive txnState = iota
	txnCommitting
	txnCommitted
	txnDestroyed
)

type transaction struct {
	db *database

	// commit is held by an in-flight commit. Reset and Destroy wait for it.
	commit sync.WaitGroup

	mu          sync.Mutex
	state       txnState
	snap        *pebble.Snapshot
	readVersion uint64
	// buffer holds point writes in key order. cleared holds range clears in
	// the order they were issued; a range clear removes the buffered writes
	// it covers, so writes in buffer always take precedence.
	buffer  *btree.BTreeG[mutation]
	cleared []span
	// reads and writes are the conflict ranges checked at commit.
	reads  []span
	writes []span
	size   int
	// deferred is the first error provoked by a mutation. It fails the
	// commit.
	deferred engine.ErrorCode
}

var _ engine.Transaction = (*transaction)(nil)

func newTransaction(db *database) *transaction {
	t := &transaction{
		db:     db,
		buffer: btree.NewG[mutation](16, mutationLess),
	}
	t.snap, t.readVersion = db.snapshot()
	return t
}

func (t *transaction) Get(key []byte, snapshot bool) engine.Future {
	t.mu.Lock()
	defer t.mu.Unlock()
	if code := t.checkReadable(); code != engine.Success {
		return failed(code)
	}
	if bytes.Compare(key, base.KeyspaceEnd) >= 0 {
		return failed(engine.KeyOutsideLegalRange)
	}
	if !snapshot {
		t.reads = append(t.reads, pointSpan(key))
	}
	f := newFuture()
	if m, ok := t.buffer.Get(mutation{key: key}); ok {
		f.value, f.present = clone(m.value), !m.clear
		return f.resolve(t.db.opts.Latency)
	}
	if _, ok := t.clearedAt(key); ok {
		return f.resolve(t.db.opts.Latency)
	}
	value, closer, err := t.snap.Get(key)
	switch {
	case errors.Is(err, pebble.ErrNotFound):
	case err != nil:
		t.db.opts.Logger.Errorf("memengine: reading %q: %v", key, err)
		f.err = engine.InternalError
	default:
		f.value, f.present = clone(value), true
		if err := closer.Close(); err != nil {
			t.db.opts.Logger.Errorf("memengine: releasing %q: %v", key, err)
		}
	}
	return f.resolve(t.db.opts.Latency)
}

func (t *transaction) GetRange(req engine.RangeRequest) engine.Future {
	t.mu.Lock()
	defer t.mu.Unlock()
	if code := t.checkReadable(); code != engine.Success {
		return failed(code)
	}
	rows, size, code := windowLimits(req, t.db.opts.MaxBatchRows)
	if code != engine.Success {
		return failed(code)
	}
	v, err := t.newView()
	if err != nil {
		t.db.opts.Logger.Errorf("memengine: %v", err)
		return failed(engine.InternalError)
	}
	w, err := v.scan(req, rows, size)
	if cerr := v.close(); err == nil {
		err = cerr
	}
	if err != nil {
		t.db.opts.Logger.Errorf("memengine: %v", err)
		return failed(engine.InternalError)
	}
	if !req.Snapshot && bytes.Compare(w.read.start, w.read.end) < 0 {
		t.reads = append(t.reads, w.read)
	}
	f := newFuture()
	f.kvs, f.more = w.kvs, w.more
	return f.resolve(t.db.opts.Latency)
}

func (t *transaction) Set(key, value []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.checkWritable(key) {
		return
	}
	if len(value) > MaxValueSize {
		t.fail(engine.ValueTooLarge)
		return
	}
	t.buffer.ReplaceOrInsert(mutation{key: clone(key), value: clone(value)})
	t.wrote(pointSpan(key), len(key)+len(value))
}

func (t *transaction) Clear(key []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.checkWritable(key) {
		return
	}
	t.buffer.ReplaceOrInsert(mutation{key: clone(key), clear: true})
	t.wrote(pointSpan(key), len(key))
}

func (t *transaction) ClearRange(begin, end []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != txnActive {
		t.fail(engine.UsedDuringCommit)
		return
	}
	switch c := bytes.Compare(begin, end); {
	case c > 0:
		t.fail(engine.InvertedRange)
		return
	case c == 0:
		return
	}
	if bytes.Compare(end, base.KeyspaceEnd) > 0 {
		t.fail(engine.KeyOutsideLegalRange)
		return
	}
	s := span{start: clone(begin), end: clone(end)}
	var covered []mutation
	t.buffer.AscendRange(mutation{key: s.start}, mutation{key: s.end}, func(m mutation) bool {
		covered = append(covered, m)
		return true
	})
	for _, m := range covered {
		t.buffer.Delete(m)
	}
	t.cleared = append(t.cleared, s)
	t.wrote(s, len(begin)+len(end))
}

func (t *transaction) Commit() engine.Future {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != txnActive {
		return failed(engine.UsedDuringCommit)
	}
	if t.deferred != engine.Success {
		t.state = txnCommitted
		return failed(t.deferred)
	}
	t.state = txnCommitting
	f := newFuture()
	t.commit.Add(1)
	go func() {
		defer t.commit.Done()
		f.err = t.db.commit(t)
		t.mu.Lock()
		t.state = txnCommitted
		t.mu.Unlock()
		f.resolve(t.db.opts.Latency)
	}()
	return f
}

func (t *transaction) Reset() {
	t.commit.Wait()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == txnDestroyed {
		return
	}
	t.releaseSnapshot()
	t.snap, t.readVersion = t.db.snapshot()
	t.buffer.Clear(false)
	t.cleared, t.reads, t.writes = nil, nil, nil
	t.size = 0
	t.deferred = engine.Success
	t.state = txnActive
}

func (t *transaction) Destroy() {
	t.commit.Wait()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == txnDestroyed {
		return
	}
	t.releaseSnapshot()
	t.state = txnDestroyed
}

func (t *transaction) releaseSnapshot() {
	if err := t.snap.Close(); err != nil {
		t.db.opts.Logger.Errorf("memengine: closing snapshot: %v", err)
	}
	t.snap = nil
}

func (t *transaction) checkReadable() engine.ErrorCode {
	if t.state != txnActive {
		return engine.UsedDuringCommit
	}
	return engine.Success
}

// checkWritable validates a point mutation of key, recording the error that
// will fail the commit if it is not allowed.
func (t *transaction) checkWritable(key []byte) bool {
	switch {
	case t.state != txnActive:
		t.fail(engine.UsedDuringCommit)
	case len(key) > MaxKeySize:
		t.fail(engine.KeyTooLarge)
	case bytes.Compare(key, base.KeyspaceEnd) >= 0:
		t.fail(engine.KeyOutsideLegalRange)
	default:
		return true
	}
	return false
}

func (t *transaction) wrote(s span, size int) {
	t.writes = append(t.writes, s)
	t.size += size
	if t.size > MaxTransactionSize {
		t.fail(engine.TransactionTooLarge)
	}
}

func (t *transaction) fail(code engine.ErrorCode) {
	if t.deferred == engine.Success {
		t.deferred = code
	}
}

// clearedAt returns a cleared span containing key.
func (t *transaction) clearedAt(key []byte) (span, bool) {
	for _, s := range t.cleared {
		if s.contains(key) {
			return s, true
		}
	}
	return span{}, false
}

// buffered reports whether the write buffer decides the visibility of key.
func (t *transaction) buffered(key []byte) bool {
	return t.buffer.Has(mutation{key: key})
}

// bufferFirst returns the first buffered set at or after key.
func (t *transaction) bufferFirst(key []byte) (m mutation, ok bool) {
	t.buffer.AscendGreaterOrEqual(mutation{key: key}, func(item mutation) bool {
		if item.clear {
			return true
		}
		m, ok = item, true
		return false
	})
	return m, ok
}

// bufferLast returns the last buffered set before key.
func (t *transaction) bufferLast(key []byte) (m mutation, ok bool) {
	t.buffer.DescendLessOrEqual(mutation{key: key}, func(item mutation) bool {
		if item.clear || bytes.Equal(item.key, key) {
			return true
		}
		m, ok = item, true
		return false
	})
	return m, ok
}
