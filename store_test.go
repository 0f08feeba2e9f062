// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/freefdb/ffdb/engine/memengine"
	"github.com/freefdb/ffdb/internal/base"
	"github.com/stretchr/testify/require"
)

// openTestStore opens a Store on a fresh in-process engine. The returned
// function closes the Store, stops the engine network and closes the engine;
// it must run before leak checks.
func openTestStore(t testing.TB, engineOpts *memengine.Options, opts *Options) (*Store, func()) {
	t.Helper()
	api := memengine.New(engineOpts)
	if opts == nil {
		opts = &Options{}
	}
	opts.Engine = api
	if opts.Logger == nil {
		opts.Logger = base.NoopLoggerForTesting{}
	}
	s, err := Open("test.cluster", opts)
	require.NoError(t, err)
	return s, func() {
		require.NoError(t, s.Close())
		require.NoError(t, s.Network().Stop())
		require.NoError(t, api.Close())
	}
}

// loadAlphabet writes A_key_1..4, B_key_1..2, C_key_1 and D_key_1..3, each
// with a value made of its letter and number.
func loadAlphabet(t testing.TB, s *Store) {
	t.Helper()
	require.NoError(t, s.Transact(func(txn *Transaction) error {
		for _, g := range []struct {
			prefix string
			n      int
		}{{"A", 4}, {"B", 2}, {"C", 1}, {"D", 3}} {
			for i := 1; i <= g.n; i++ {
				txn.Put([]byte(fmt.Sprintf("%s_key_%d", g.prefix, i)), []byte(fmt.Sprintf("%s%d", g.prefix, i)))
			}
		}
		return nil
	}))
}

func formatKVs(kvs []KeyValue) string {
	var b strings.Builder
	for _, kv := range kvs {
		fmt.Fprintf(&b, "%s:%s\n", kv.Key, kv.Value)
	}
	return b.String()
}

func TestOpenBootsOnce(t *testing.T) {
	defer leaktest.AfterTest(t)()

	api := memengine.New(nil)
	opts := &Options{Engine: api, Logger: base.NoopLoggerForTesting{}}
	s1, err := Open("a.cluster", opts)
	require.NoError(t, err)
	s2, err := Open("a.cluster", &Options{Engine: api, Logger: base.NoopLoggerForTesting{}})
	require.NoError(t, err)
	require.Same(t, s1.Network(), s2.Network())

	// Both stores talk to the same database.
	require.NoError(t, s1.Transact(func(txn *Transaction) error {
		txn.Put([]byte("k"), []byte("v"))
		return nil
	}))
	txn, err := s2.NewTransaction()
	require.NoError(t, err)
	kv, ok, err := txn.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", string(kv.Value))
	require.NoError(t, txn.Close())

	require.NoError(t, s1.Close())
	require.NoError(t, s2.Close())
	require.NoError(t, s1.Network().Stop())
	require.NoError(t, api.Close())
}

func TestOpenVersionError(t *testing.T) {
	defer leaktest.AfterTest(t)()

	api := memengine.New(nil)
	defer func() { require.NoError(t, api.Close()) }()
	_, err := Open("", &Options{Engine: api, APIVersion: memengine.MaxAPIVersion + 1, Logger: base.NoopLoggerForTesting{}})
	require.ErrorContains(t, err, "API version not supported")
}

func TestStoreClose(t *testing.T) {
	defer leaktest.AfterTest(t)()

	api := memengine.New(nil)
	s, err := Open("", &Options{Engine: api, Logger: base.NoopLoggerForTesting{}})
	require.NoError(t, err)

	txn, err := s.NewTransaction()
	require.NoError(t, err)
	require.ErrorContains(t, s.Close(), "leaked transactions: 1")
	require.PanicsWithValue(t, ErrClosed, func() { _ = s.Close() })
	require.PanicsWithValue(t, ErrClosed, func() { _, _ = s.NewTransaction() })

	require.NoError(t, txn.Close())
	require.NoError(t, s.Network().Stop())
	require.NoError(t, api.Close())
}

func TestStoreNewIterator(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, closeStore := openTestStore(t, nil, nil)
	defer closeStore()
	loadAlphabet(t, s)

	iter, err := s.NewIterator(&IteratorOptions{LowerBound: []byte("C"), UpperBound: []byte("D_key_2")})
	require.NoError(t, err)
	// The iterator holds the only reference to its transaction.
	require.True(t, iter.txn.closed)
	require.EqualValues(t, 1, iter.txn.refs.Load())
	var kvs []KeyValue
	for valid := iter.SeekFirst(); valid; valid = iter.Next() {
		kvs = append(kvs, iter.Current())
	}
	require.Equal(t, "C_key_1:C1\nD_key_1:D1\n", formatKVs(kvs))
	require.EqualValues(t, 1, s.openTxns.Load())
	require.NoError(t, iter.Close())
	require.EqualValues(t, 0, s.openTxns.Load())
}

func TestTransactRetries(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, closeStore := openTestStore(t, nil, &Options{MaxRetries: 3})
	defer closeStore()

	// Every attempt reads k, then a competing commit writes it.
	var attempts int
	err := s.Transact(func(txn *Transaction) error {
		attempts++
		if _, _, err := txn.Get([]byte("k")); err != nil {
			return err
		}
		require.NoError(t, s.Transact(func(other *Transaction) error {
			other.Put([]byte("k"), []byte(fmt.Sprint(attempts)))
			return nil
		}))
		txn.Put([]byte("k"), []byte("mine"))
		return nil
	})
	require.True(t, IsRetryable(err))
	require.ErrorContains(t, err, "giving up after 3 retries")
	require.Equal(t, 4, attempts)
	require.Equal(t, 3.0, counterValue(t, s.Metrics().Retries))

	// Fatal errors are not retried.
	attempts = 0
	err = s.Transact(func(txn *Transaction) error {
		attempts++
		txn.Put([]byte("\xffsystem"), nil)
		return nil
	})
	require.True(t, IsFatal(err))
	require.Equal(t, 1, attempts)

	// Errors from fn are returned as is.
	boom := fmt.Errorf("boom")
	require.Equal(t, boom, s.Transact(func(*Transaction) error { return boom }))
}
