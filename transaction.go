// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"sync/atomic"

	"github.com/freefdb/ffdb/engine"
	"github.com/freefdb/ffdb/internal/invariants"
)

// Transaction is a transaction against the engine. Reads see the
// transaction's own writes; writes are buffered until Commit.
//
// A Transaction and its iterators must be used from one goroutine at a time.
// Distinct transactions may be used concurrently.
type Transaction struct {
	store *Store
	txn   engine.Transaction
	// snapshot disables read-conflict tracking for reads made through this
	// transaction. It does not affect writes.
	snapshot bool
	// generation is incremented by Reset. Iterators positioned under an older
	// generation are exhausted.
	generation uint64
	// refs counts the owner's reference plus one per open Iterator. The
	// engine handle is destroyed when it drops to zero.
	refs   atomic.Int32
	closed bool
}

func newTransaction(s *Store, txn engine.Transaction) *Transaction {
	t := &Transaction{store: s, txn: txn}
	t.refs.Store(1)
	s.openTxns.Add(1)
	invariants.SetFinalizer(t, func(t *Transaction) {
		if t.refs.Load() != 0 {
			s.opts.Logger.Fatalf("ffdb: transaction garbage collected without Close")
		}
	})
	return t
}

// Get returns the value stored under key. A missing key is reported with
// ok=false and a nil error.
func (t *Transaction) Get(key []byte) (kv KeyValue, ok bool, err error) {
	t.checkOpen()
	f := t.future(opGet, t.txn.Get(key, t.snapshot))
	defer f.release()
	r, err := await(f, decodeValue)
	if err != nil || !r.present {
		return KeyValue{}, false, err
	}
	return KeyValue{Key: append([]byte(nil), key...), Value: r.value}, true, nil
}

// GetRange reads the keys between from and to in one round trip. opts may be
// nil.
func (t *Transaction) GetRange(from, to []byte, opts *RangeOptions) (RangeResult, error) {
	t.checkOpen()
	if opts == nil {
		opts = &RangeOptions{}
	}
	begin, end := rangeSelectors(from, to, !opts.LowerExclusive, opts.UpperInclusive)
	f := t.future(opGetRange, t.txn.GetRange(engine.RangeRequest{
		Begin:       begin,
		End:         end,
		Limit:       opts.Limit,
		TargetBytes: opts.MaxBytes,
		Mode:        opts.mode(),
		Iteration:   1,
		Snapshot:    t.snapshot,
		Reverse:     opts.Reverse,
	}))
	defer f.release()
	w, err := await(f, decodeKeyValues)
	if err != nil {
		return RangeResult{}, err
	}
	t.store.metrics.RowsFetched.Add(float64(len(w.kvs)))
	return RangeResult{Values: w.kvs, Truncated: w.more}, nil
}

// Put sets key to value. Errors, such as an oversized key, are reported by
// Commit.
func (t *Transaction) Put(key, value []byte) {
	t.checkOpen()
	t.txn.Set(key, value)
}

// Delete removes key.
func (t *Transaction) Delete(key []byte) {
	t.checkOpen()
	t.txn.Clear(key)
}

// DeleteRange removes every key in [begin, end).
func (t *Transaction) DeleteRange(begin, end []byte) {
	t.checkOpen()
	t.txn.ClearRange(begin, end)
}

// Commit applies the transaction's writes atomically. A conflict with a
// concurrent transaction fails with a retryable error; the writes are then
// not applied and the transaction must be Reset before it is reused.
func (t *Transaction) Commit() error {
	t.checkOpen()
	f := t.future(opCommit, t.txn.Commit())
	defer f.release()
	if err := f.wait(); err != nil {
		return err
	}
	t.store.metrics.Commits.Inc()
	return nil
}

// Reset discards buffered writes and returns the transaction to its newly
// created state. Open iterators are exhausted.
func (t *Transaction) Reset() {
	t.checkOpen()
	t.txn.Reset()
	t.generation++
}

// EnableSnapshot makes later reads snapshot reads: they no longer cause
// conflicts with concurrent writers.
func (t *Transaction) EnableSnapshot() {
	t.checkOpen()
	t.snapshot = true
}

// NewIterator returns an iterator over the transaction. The iterator is
// unpositioned until one of its seek methods is called. opts may be nil.
func (t *Transaction) NewIterator(opts *IteratorOptions) *Iterator {
	t.checkOpen()
	t.refs.Add(1)
	return newIterator(t, opts)
}

// Close releases the transaction. Uncommitted writes are discarded. The
// engine handle lives on until every iterator of the transaction is closed.
func (t *Transaction) Close() error {
	t.checkOpen()
	t.closed = true
	t.unref()
	return nil
}

func (t *Transaction) unref() {
	switch n := t.refs.Add(-1); {
	case n == 0:
		t.txn.Destroy()
		t.store.openTxns.Add(-1)
	case n < 0:
		panic(ErrClosed)
	}
}

func (t *Transaction) checkOpen() {
	if t.closed {
		panic(ErrClosed)
	}
}

func (t *Transaction) future(op string, f engine.Future) *future {
	return newFuture(t.store.api, t.store.metrics, op, f)
}
