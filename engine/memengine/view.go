// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/freefdb/ffdb/engine"
	"github.com/freefdb/ffdb/internal/base"
)

// view is the key space as a transaction sees it: its write buffer and
// cleared ranges layered over the snapshot taken at its read version. A view
// is positioned by seeks only; every seek is independent of the last.
type view struct {
	t  *transaction
	it *pebble.Iterator
}

func (t *transaction) newView() (*view, error) {
	it, err := t.snap.NewIter(&pebble.IterOptions{UpperBound: base.KeyspaceEnd})
	if err != nil {
		return nil, err
	}
	return &view{t: t, it: it}, nil
}

func (v *view) close() error {
	return v.it.Close()
}

// first returns the first visible key/value at or after key.
func (v *view) first(key []byte) (engine.KeyValue, bool) {
	sk, sv, sok := v.snapshotFirst(key)
	bm, bok := v.t.bufferFirst(key)
	switch {
	case !sok && !bok:
		return engine.KeyValue{}, false
	case !bok || (sok && bytes.Compare(sk, bm.key) < 0):
		return engine.KeyValue{Key: clone(sk), Value: clone(sv)}, true
	}
	return engine.KeyValue{Key: clone(bm.key), Value: clone(bm.value)}, true
}

// last returns the last visible key/value before key.
func (v *view) last(key []byte) (engine.KeyValue, bool) {
	sk, sv, sok := v.snapshotLast(key)
	bm, bok := v.t.bufferLast(key)
	switch {
	case !sok && !bok:
		return engine.KeyValue{}, false
	case !bok || (sok && bytes.Compare(sk, bm.key) > 0):
		return engine.KeyValue{Key: clone(sk), Value: clone(sv)}, true
	}
	return engine.KeyValue{Key: clone(bm.key), Value: clone(bm.value)}, true
}

// snapshotFirst returns the first snapshot key at or after key that is
// neither cleared nor shadowed by the write buffer.
func (v *view) snapshotFirst(key []byte) ([]byte, []byte, bool) {
	valid := v.it.SeekGE(key)
	for valid {
		k := v.it.Key()
		if span, ok := v.t.clearedAt(k); ok {
			valid = v.it.SeekGE(span.end)
			continue
		}
		if v.t.buffered(k) {
			valid = v.it.Next()
			continue
		}
		return k, v.it.Value(), true
	}
	return nil, nil, false
}

func (v *view) snapshotLast(key []byte) ([]byte, []byte, bool) {
	valid := v.it.SeekLT(key)
	for valid {
		k := v.it.Key()
		if span, ok := v.t.clearedAt(k); ok {
			valid = v.it.SeekLT(span.start)
			continue
		}
		if v.t.buffered(k) {
			valid = v.it.Prev()
			continue
		}
		return k, v.it.Value(), true
	}
	return nil, nil, false
}

// resolve returns the key sel selects. A selector that moves past the first
// key resolves to the empty key; one that moves past the last key resolves to
// the end of the key space.
func (v *view) resolve(sel engine.KeySelector) []byte {
	key := sel.Key
	if bytes.Compare(key, base.KeyspaceEnd) > 0 {
		key = base.KeyspaceEnd
	}
	if sel.OrEqual {
		key = immediateSuccessor(key)
	}
	if sel.Offset >= 1 {
		kv, ok := v.first(key)
		for n := sel.Offset - 1; ok && n > 0; n-- {
			kv, ok = v.first(immediateSuccessor(kv.Key))
		}
		if !ok {
			return base.KeyspaceEnd
		}
		return kv.Key
	}
	kv, ok := v.last(key)
	for n := -sel.Offset; ok && n > 0; n-- {
		kv, ok = v.last(kv.Key)
	}
	if !ok {
		return []byte{}
	}
	return kv.Key
}

// window is the result of one range read.
type window struct {
	kvs  []engine.KeyValue
	more bool
	// read is the key span the result depends on.
	read span
}

// scan reads the window of req. maxRows and maxBytes cap the window; zero means
// uncapped. At least one row is returned if the range holds any.
func (v *view) scan(req engine.RangeRequest, maxRows, maxBytes int) (window, error) {
	begin, end := v.resolve(req.Begin), v.resolve(req.End)
	s := window{read: span{start: begin, end: end}}
	if compare(begin, end) >= 0 {
		return s, nil
	}
	var size int
	capped := func() bool {
		return (maxRows > 0 && len(s.kvs) >= maxRows) || (maxBytes > 0 && size >= maxBytes)
	}
	if !req.Reverse {
		kv, ok := v.first(begin)
		for ; ok && compare(kv.Key, end) < 0; kv, ok = v.first(immediateSuccessor(kv.Key)) {
			if capped() {
				s.more = true
				s.read.end = kv.Key
				break
			}
			s.kvs = append(s.kvs, kv)
			size += len(kv.Key) + len(kv.Value)
		}
	} else {
		kv, ok := v.last(end)
		for ; ok && compare(kv.Key, begin) >= 0; kv, ok = v.last(kv.Key) {
			if capped() {
				s.more = true
				s.read.start = immediateSuccessor(kv.Key)
				break
			}
			s.kvs = append(s.kvs, kv)
			size += len(kv.Key) + len(kv.Value)
		}
	}
	if err := v.it.Error(); err != nil {
		return window{}, errors.Wrap(err, "memengine: scanning snapshot")
	}
	return s, nil
}

// immediateSuccessor returns the smallest key greater than key.
func immediateSuccessor(key []byte) []byte {
	return append(clone(key), 0)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}

func compare(a, b []byte) int {
	return bytes.Compare(a, b)
}
