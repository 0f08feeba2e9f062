// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// Counter is a signed 64-bit integer stored under a single key as 8
// little-endian bytes. A missing key reads as zero.
//
// Counter updates read the current value, so concurrent updates conflict;
// run them through Store.Transact.
type Counter struct {
	key []byte
}

// NewCounter returns the counter stored under key.
func NewCounter(key []byte) *Counter {
	return &Counter{key: append([]byte(nil), key...)}
}

// Key returns the key the counter is stored under.
func (c *Counter) Key() []byte {
	return c.key
}

// Value returns the value of the counter as seen by txn.
func (c *Counter) Value(txn *Transaction) (int64, error) {
	kv, ok, err := txn.Get(c.key)
	if err != nil || !ok {
		return 0, err
	}
	if len(kv.Value) != 8 {
		return 0, errors.Newf("ffdb: counter %q holds %d bytes, want 8", c.key, errors.Safe(len(kv.Value)))
	}
	return int64(binary.LittleEndian.Uint64(kv.Value)), nil
}

// Add adds delta to the counter in txn.
func (c *Counter) Add(txn *Transaction, delta int64) error {
	v, err := c.Value(txn)
	if err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v+delta))
	txn.Put(c.key, buf[:])
	return nil
}

// Sub subtracts delta from the counter in txn.
func (c *Counter) Sub(txn *Transaction, delta int64) error {
	return c.Add(txn, -delta)
}

// Inc adds one to the counter in txn.
func (c *Counter) Inc(txn *Transaction) error {
	return c.Add(txn, 1)
}

// Dec subtracts one from the counter in txn.
func (c *Counter) Dec(txn *Transaction) error {
	return c.Add(txn, -1)
}
