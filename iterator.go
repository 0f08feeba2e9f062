// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"github.com/freefdb/ffdb/engine"
	"github.com/freefdb/ffdb/internal/base"
)

// IteratorOptions hold the optional per-iterator parameters.
type IteratorOptions struct {
	// LowerBound is the inclusive lower bound of SeekFirst and SeekLast.
	// Empty means the start of the key space.
	LowerBound []byte
	// UpperBound is the exclusive upper bound of SeekFirst and SeekLast.
	// Empty means the end of the user key space.
	UpperBound []byte
	// Limit caps the number of rows a positioned iterator yields. Zero means
	// no limit.
	Limit int
	// MaxBytes is the target size of each window fetched from the engine.
	// Zero leaves window sizing to the engine.
	MaxBytes int
	// Snapshot makes the iterator's reads snapshot reads even if its
	// transaction does not use snapshot reads.
	Snapshot bool
}

// Iterator iterates over a transaction's view of a key range, fetching rows
// from the engine in windows that grow as iteration proceeds.
//
// An iterator is unpositioned until one of SeekFirst, SeekLast, Seek or
// SeekForPrev is called. Every seek discards the previous position and
// fetch state, then moves to the first row in the direction of travel. Next
// advances; once it returns false the iterator is exhausted until the next
// seek.
//
// Seek and SeekForPrev ignore LowerBound and UpperBound: the range they
// iterate is derived from the seek key alone.
//
// After exhaustion Key, Value and Current still return the last row that was
// yielded; callers must check Valid (or the return value of the positioning
// call) first.
type Iterator struct {
	txn  *Transaction
	opts IteratorOptions

	// generation is the transaction generation at the last seek.
	generation uint64
	valid      bool
	reverse    bool
	// begin and end bound the range of the last seek.
	begin, end engine.KeySelector

	// batch is the window most recently fetched and index is the 1-based
	// position in it of the next row to yield.
	batch   []KeyValue
	index   int
	fetched bool
	// more records whether the engine holds rows past batch.
	more      bool
	iteration int
	yielded   int

	current KeyValue
	err     error
	closed  bool
}

func newIterator(t *Transaction, opts *IteratorOptions) *Iterator {
	i := &Iterator{txn: t}
	if opts != nil {
		i.opts = *opts
	}
	return i
}

// SeekFirst moves the iterator to the first key within the bounds and
// iterates forward.
func (i *Iterator) SeekFirst() bool {
	begin, end := rangeSelectors(i.opts.LowerBound, base.UpperOrEnd(i.opts.UpperBound), true, false)
	return i.seek(begin, end, false)
}

// SeekLast moves the iterator to the last key within the bounds and iterates
// backward.
func (i *Iterator) SeekLast() bool {
	begin, end := rangeSelectors(i.opts.LowerBound, base.UpperOrEnd(i.opts.UpperBound), true, false)
	return i.seek(begin, end, true)
}

// Seek iterates forward over the keys from key up to, not including, the
// successor of key: the key with the last byte incremented, after dropping
// trailing 0xff bytes. Seek("A") visits every key that starts with "A".
func (i *Iterator) Seek(key []byte) bool {
	upper, ok := base.Successor(key)
	if !ok {
		upper = base.KeyspaceEnd
	}
	begin, end := rangeSelectors(key, upper, true, false)
	return i.seek(begin, end, false)
}

// SeekForPrev iterates backward over the keys below key, down to and
// including the predecessor of key: the key with the last byte decremented,
// or with a trailing 0x00 dropped. SeekForPrev("B") starts at the greatest
// key below "B" that starts with "A". The empty key has no predecessor; the
// iterator is exhausted at once.
func (i *Iterator) SeekForPrev(key []byte) bool {
	lower, ok := base.Predecessor(key)
	if !ok {
		i.reset(engine.KeySelector{}, engine.KeySelector{}, true)
		i.valid = false
		return false
	}
	begin, end := rangeSelectors(lower, key, true, false)
	return i.seek(begin, end, true)
}

func (i *Iterator) seek(begin, end engine.KeySelector, reverse bool) bool {
	i.reset(begin, end, reverse)
	return i.Next()
}

func (i *Iterator) reset(begin, end engine.KeySelector, reverse bool) {
	i.checkOpen()
	*i = Iterator{
		txn:        i.txn,
		opts:       i.opts,
		generation: i.txn.generation,
		valid:      true,
		reverse:    reverse,
		begin:      begin,
		end:        end,
		index:      1,
	}
}

// Next moves the iterator to the next row in the direction of the last seek,
// fetching another window from the engine when the current one is used up.
// It returns false, leaving the iterator exhausted, when the range is
// exhausted, Limit rows were yielded, the transaction was Reset since the
// seek, or a fetch failed. Next on an exhausted or unpositioned iterator
// returns false.
func (i *Iterator) Next() bool {
	i.checkOpen()
	switch {
	case !i.valid:
		return false
	case i.generation != i.txn.generation:
		return i.exhaust()
	case i.opts.Limit > 0 && i.yielded >= i.opts.Limit:
		return i.exhaust()
	}
	if i.index > len(i.batch) {
		if i.fetched && !i.more {
			return i.exhaust()
		}
		if err := i.fetch(); err != nil {
			i.err = err
			return i.exhaust()
		}
		if len(i.batch) == 0 {
			return i.exhaust()
		}
	}
	i.current = i.batch[i.index-1]
	i.index++
	i.yielded++
	return true
}

func (i *Iterator) exhaust() bool {
	i.valid = false
	return false
}

// fetch reads the window following the current one.
func (i *Iterator) fetch() error {
	begin, end := i.begin, i.end
	if i.fetched {
		last := i.batch[len(i.batch)-1].Key
		if i.reverse {
			end = engine.FirstGreaterOrEqual(last)
		} else {
			begin = engine.FirstGreaterThan(last)
		}
	}
	var limit int
	if i.opts.Limit > 0 {
		limit = i.opts.Limit - i.yielded
	}
	i.iteration++
	t := i.txn
	f := t.future(opGetRange, t.txn.GetRange(engine.RangeRequest{
		Begin:       begin,
		End:         end,
		Limit:       limit,
		TargetBytes: i.opts.MaxBytes,
		Mode:        engine.StreamingModeIterator,
		Iteration:   i.iteration,
		Snapshot:    i.opts.Snapshot || t.snapshot,
		Reverse:     i.reverse,
	}))
	defer f.release()
	w, err := await(f, decodeKeyValues)
	if err != nil {
		return err
	}
	t.store.metrics.IteratorFetches.Inc()
	t.store.metrics.RowsFetched.Add(float64(len(w.kvs)))
	i.batch, i.more, i.index, i.fetched = w.kvs, w.more, 1, true
	return nil
}

// Valid reports whether the iterator is positioned at a row. Resetting the
// transaction invalidates it.
func (i *Iterator) Valid() bool {
	return i.valid && i.generation == i.txn.generation
}

// Key returns the key of the current row.
func (i *Iterator) Key() []byte {
	return i.current.Key
}

// Value returns the value of the current row.
func (i *Iterator) Value() []byte {
	return i.current.Value
}

// Current returns the current row.
func (i *Iterator) Current() KeyValue {
	return i.current
}

// Error returns the error that exhausted the iterator, if any. It is cleared
// by the next seek.
func (i *Iterator) Error() error {
	return i.err
}

// Close releases the iterator's reference to its transaction and returns the
// iterator's error.
func (i *Iterator) Close() error {
	i.checkOpen()
	i.closed = true
	i.txn.unref()
	return i.err
}

func (i *Iterator) checkOpen() {
	if i.closed {
		panic(ErrClosed)
	}
}
