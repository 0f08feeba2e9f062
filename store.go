// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package ffdb is a transactional client layer over an ordered key-value
// engine with FoundationDB semantics. A Store connects to a cluster and hands
// out Transactions; a Transaction reads, writes and commits, and creates
// Iterators that stream key ranges in windows.
//
// Engine errors are classified as retryable (conflicts and transient
// conditions, see IsRetryable) or fatal. ffdb never retries on its own
// except in Store.Transact.
package ffdb // import "github.com/freefdb/ffdb"

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/freefdb/ffdb/engine"
	"github.com/freefdb/ffdb/engine/native"
)

// Store is a connection to a cluster. It is safe for concurrent use.
type Store struct {
	clusterFile string
	opts        *Options
	api         engine.API
	network     *engine.Network
	db          engine.Database
	metrics     *Metrics

	openTxns atomic.Int64
	closed   atomic.Bool
}

// Open connects to the cluster described by clusterFile, booting the
// engine's network on first use. opts may be nil.
func Open(clusterFile string, opts *Options) (*Store, error) {
	opts = opts.EnsureDefaults()
	api := opts.Engine
	if api == nil {
		lib, err := native.Load(opts.LibraryPath)
		if err != nil {
			return nil, err
		}
		api = lib
	}
	network, err := engine.Boot(api, opts.APIVersion)
	if err != nil {
		return nil, err
	}
	db, code := api.CreateDatabase(clusterFile)
	if code != engine.Success {
		return nil, errors.Wrapf(classify(api, code), "ffdb: opening %q", clusterFile)
	}
	s := &Store{
		clusterFile: clusterFile,
		opts:        opts,
		api:         api,
		network:     network,
		db:          db,
		metrics:     newMetrics(),
	}
	if opts.MetricsRegisterer != nil {
		if err := s.metrics.register(opts.MetricsRegisterer); err != nil {
			db.Destroy()
			return nil, err
		}
	}
	opts.Logger.Infof("ffdb: opened %q (API version %d)", clusterFile, opts.APIVersion)
	return s, nil
}

// NewTransaction starts a transaction. It must be closed.
func (s *Store) NewTransaction() (*Transaction, error) {
	s.checkOpen()
	txn, code := s.db.CreateTransaction()
	if code != engine.Success {
		return nil, classify(s.api, code)
	}
	return newTransaction(s, txn), nil
}

// NewIterator returns an iterator over a fresh transaction owned by the
// iterator. Closing the iterator releases the transaction.
func (s *Store) NewIterator(opts *IteratorOptions) (*Iterator, error) {
	txn, err := s.NewTransaction()
	if err != nil {
		return nil, err
	}
	iter := txn.NewIterator(opts)
	if err := txn.Close(); err != nil {
		_ = iter.Close()
		return nil, err
	}
	return iter, nil
}

// Transact runs fn in a new transaction and commits it. If fn or the commit
// fails with a retryable error the transaction is reset and fn runs again, up
// to Options.MaxRetries times. fn must not retain the transaction.
func (s *Store) Transact(fn func(txn *Transaction) error) error {
	txn, err := s.NewTransaction()
	if err != nil {
		return err
	}
	defer txn.Close()
	for attempt := 0; ; attempt++ {
		err := fn(txn)
		if err == nil {
			err = txn.Commit()
		}
		if err == nil || !IsRetryable(err) {
			return err
		}
		if s.opts.MaxRetries >= 0 && attempt >= s.opts.MaxRetries {
			return errors.Wrapf(err, "ffdb: giving up after %d retries", errors.Safe(attempt))
		}
		s.opts.Logger.Infof("ffdb: retrying transaction (attempt %d): %v", attempt+1, err)
		s.metrics.Retries.Inc()
		txn.Reset()
	}
}

// Metrics returns the Store's collectors.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// Network returns the engine network the Store runs on. Stopping it is the
// caller's job, once every Store on the engine is closed.
func (s *Store) Network() *engine.Network {
	return s.network
}

// Close releases the connection. Transactions should be closed first;
// leaked transactions are reported as an error.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		panic(ErrClosed)
	}
	s.db.Destroy()
	s.opts.Logger.Infof("ffdb: closed %q", s.clusterFile)
	if n := s.openTxns.Load(); n > 0 {
		return errors.Errorf("ffdb: leaked transactions: %d", errors.Safe(n))
	}
	return nil
}

func (s *Store) checkOpen() {
	if s.closed.Load() {
		panic(ErrClosed)
	}
}
