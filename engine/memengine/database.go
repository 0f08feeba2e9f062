// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/freefdb/ffdb/engine"
)

// commitRecord remembers the writes of one committed transaction.
type commitRecord struct {
	version uint64
	writes  []span
}

// database is one cluster: a pebble store plus the commit history used for
// conflict detection. It outlives the handles opened on it.
type database struct {
	name string
	opts *Options
	db   *pebble.DB

	mu struct {
		sync.Mutex
		// version is the version of the latest commit.
		version uint64
		// log holds the most recent commits in version order.
		log []commitRecord
		// floor is the newest version dropped from log. Transactions that
		// read before it cannot be checked for conflicts.
		floor uint64
	}
}

// snapshot returns a snapshot of the store together with the version it
// reflects.
func (d *database) snapshot() (*pebble.Snapshot, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db.NewSnapshot(), d.mu.version
}

// commit applies t if none of the keys it read were written by a transaction
// that committed after t's read version.
func (d *database) commit(t *transaction) engine.ErrorCode {
	if len(t.writes) == 0 {
		return engine.Success
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if t.readVersion < d.mu.floor {
		return engine.TransactionTooOld
	}
	for i := len(d.mu.log) - 1; i >= 0 && d.mu.log[i].version > t.readVersion; i-- {
		if intersects(d.mu.log[i].writes, t.reads) {
			return engine.NotCommitted
		}
	}

	b := d.db.NewBatch()
	defer func() { _ = b.Close() }()
	for _, s := range t.cleared {
		if err := b.DeleteRange(s.start, s.end, nil); err != nil {
			d.opts.Logger.Errorf("memengine: %s: clearing range: %v", d.name, err)
			return engine.InternalError
		}
	}
	var err error
	t.buffer.Ascend(func(m mutation) bool {
		if m.clear {
			err = b.Delete(m.key, nil)
		} else {
			err = b.Set(m.key, m.value, nil)
		}
		return err == nil
	})
	if err == nil {
		err = b.Commit(d.opts.writeOptions())
	}
	if err != nil {
		d.opts.Logger.Errorf("memengine: %s: applying commit: %v", d.name, err)
		return engine.InternalError
	}

	d.mu.version++
	d.mu.log = append(d.mu.log, commitRecord{version: d.mu.version, writes: t.writes})
	if n := len(d.mu.log) - d.opts.CommitWindow; n > 0 {
		d.mu.floor = d.mu.log[n-1].version
		d.mu.log = append(d.mu.log[:0], d.mu.log[n:]...)
	}
	return engine.Success
}

// intersects reports whether any span of a overlaps any span of b.
func intersects(a, b []span) bool {
	for _, x := range a {
		for _, y := range b {
			if x.overlaps(y) {
				return true
			}
		}
	}
	return false
}

// handle is a connection to a database.
type handle struct {
	db        *database
	destroyed atomic.Bool
}

var _ engine.Database = (*handle)(nil)

func (h *handle) CreateTransaction() (engine.Transaction, engine.ErrorCode) {
	if h.destroyed.Load() {
		return nil, engine.ClientInvalidOperation
	}
	return newTransaction(h.db), engine.Success
}

func (h *handle) Destroy() {
	h.destroyed.Store(true)
}
