// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/datadriven"
	"github.com/freefdb/ffdb/engine"
	"github.com/stretchr/testify/require"
)

func TestTransaction(t *testing.T) {
	defer leaktest.AfterTest(t)()

	ts := &testStore{}
	defer ts.reset()
	datadriven.RunTest(t, "testdata/transaction", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "define":
			return runDefineCmd(t, td, ts)
		case "txn":
			return runTxnCmd(t, td, ts.s)
		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

// runTxnCmd runs the input's operations against a new transaction, which is
// closed once the input is done.
//
//	txn [snapshot]
//	get <key> | put <key> <value> | delete <key> | delete-range <begin> <end>
//	get-range <from> <to> [lower-exclusive] [upper-inclusive] [reverse]
//	          [limit=<n>] [max-bytes=<n>]
//	commit | reset
func runTxnCmd(t *testing.T, td *datadriven.TestData, s *Store) string {
	txn, err := s.NewTransaction()
	require.NoError(t, err)
	defer txn.Close()
	if td.HasArg("snapshot") {
		txn.EnableSnapshot()
	}

	var b strings.Builder
	for _, line := range strings.Split(td.Input, "\n") {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		arg := func(i int) []byte {
			if len(parts) <= i {
				td.Fatalf(t, "%s: missing argument %d", parts[0], i)
			}
			return parseKey(t, parts[i])
		}
		switch parts[0] {
		case "get":
			kv, ok, err := txn.Get(arg(1))
			switch {
			case err != nil:
				fmt.Fprintf(&b, "err=%v\n", err)
			case ok:
				fmt.Fprintf(&b, "%s\n", formatKV(kv))
			default:
				b.WriteString(".\n")
			}
		case "get-range":
			opts := &RangeOptions{}
			for _, flag := range parts[3:] {
				name, value, _ := strings.Cut(flag, "=")
				switch name {
				case "lower-exclusive":
					opts.LowerExclusive = true
				case "upper-inclusive":
					opts.UpperInclusive = true
				case "reverse":
					opts.Reverse = true
				case "limit":
					_, err := fmt.Sscan(value, &opts.Limit)
					require.NoError(t, err)
				case "max-bytes":
					_, err := fmt.Sscan(value, &opts.MaxBytes)
					require.NoError(t, err)
				default:
					td.Fatalf(t, "unknown get-range flag: %s", flag)
				}
			}
			res, err := txn.GetRange(arg(1), arg(2), opts)
			if err != nil {
				fmt.Fprintf(&b, "err=%v\n", err)
				continue
			}
			b.WriteString(formatKVs(res.Values))
			fmt.Fprintf(&b, "rows=%d", len(res.Values))
			if res.Truncated {
				b.WriteString(" truncated")
			}
			b.WriteString("\n")
		case "put":
			txn.Put(arg(1), arg(2))
			b.WriteString("ok\n")
		case "delete":
			txn.Delete(arg(1))
			b.WriteString("ok\n")
		case "delete-range":
			txn.DeleteRange(arg(1), arg(2))
			b.WriteString("ok\n")
		case "commit":
			if err := txn.Commit(); err != nil {
				fmt.Fprintf(&b, "err=%v\n", err)
				continue
			}
			b.WriteString("committed\n")
		case "reset":
			txn.Reset()
			b.WriteString("ok\n")
		default:
			td.Fatalf(t, "unknown op: %s", parts[0])
		}
	}
	return b.String()
}

func TestTransactionVisibility(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, closeStore := openTestStore(t, nil, nil)
	defer closeStore()

	writer, err := s.NewTransaction()
	require.NoError(t, err)
	defer writer.Close()
	reader, err := s.NewTransaction()
	require.NoError(t, err)
	defer reader.Close()

	key := []byte("k")
	writer.Put(key, []byte("v"))
	_, ok, err := reader.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, writer.Commit())

	// The reader keeps its read version; a new transaction sees the write.
	_, ok, err = reader.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
	txn, err := s.NewTransaction()
	require.NoError(t, err)
	defer txn.Close()
	kv, ok, err := txn.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", string(kv.Value))
}

func TestTransactionConflict(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, closeStore := openTestStore(t, nil, nil)
	defer closeStore()
	loadAlphabet(t, s)

	t1, err := s.NewTransaction()
	require.NoError(t, err)
	defer t1.Close()
	_, ok, err := t1.Get([]byte("A_key_1"))
	require.NoError(t, err)
	require.True(t, ok)
	t1.Put([]byte("Z"), []byte("from t1"))

	require.NoError(t, s.Transact(func(txn *Transaction) error {
		txn.Put([]byte("A_key_1"), []byte("from t2"))
		return nil
	}))

	err = t1.Commit()
	require.True(t, IsRetryable(err), "%v", err)
	require.False(t, IsFatal(err))
	require.Equal(t, engine.NotCommitted, errorCode(err))

	// After a reset the transaction reads the new value and commits.
	t1.Reset()
	kv, ok, err := t1.Get([]byte("A_key_1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "from t2", string(kv.Value))
	t1.Put([]byte("Z"), []byte("from t1"))
	require.NoError(t, t1.Commit())

	txn, err := s.NewTransaction()
	require.NoError(t, err)
	defer txn.Close()
	kv, ok, err = txn.Get([]byte("Z"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "from t1", string(kv.Value))
}

func TestTransactionSnapshotReads(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, closeStore := openTestStore(t, nil, nil)
	defer closeStore()
	loadAlphabet(t, s)

	txn, err := s.NewTransaction()
	require.NoError(t, err)
	defer txn.Close()
	txn.EnableSnapshot()
	_, _, err = txn.Get([]byte("A_key_1"))
	require.NoError(t, err)
	_, err = txn.GetRange([]byte("B"), []byte("C"), nil)
	require.NoError(t, err)
	iter := txn.NewIterator(nil)
	require.True(t, iter.SeekLast())
	require.NoError(t, iter.Close())
	txn.Put([]byte("Z"), []byte("z"))

	require.NoError(t, s.Transact(func(txn *Transaction) error {
		txn.Put([]byte("A_key_1"), []byte("changed"))
		txn.Put([]byte("B_key_1"), []byte("changed"))
		txn.Put([]byte("D_key_4"), []byte("added"))
		return nil
	}))
	require.NoError(t, txn.Commit())
}

func TestTransactionReadOnlyCommit(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, closeStore := openTestStore(t, nil, nil)
	defer closeStore()
	loadAlphabet(t, s)

	txn, err := s.NewTransaction()
	require.NoError(t, err)
	defer txn.Close()
	res, err := txn.GetRange([]byte("A"), []byte("B"), nil)
	require.NoError(t, err)
	require.Len(t, res.Values, 4)
	require.False(t, res.Truncated)

	require.NoError(t, s.Transact(func(txn *Transaction) error {
		txn.Delete([]byte("A_key_1"))
		return nil
	}))
	// Nothing was written, so there is nothing to conflict.
	require.NoError(t, txn.Commit())
	require.Equal(t, 4.0, counterValue(t, s.Metrics().RowsFetched))
}

func TestTransactionClosed(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, closeStore := openTestStore(t, nil, nil)
	defer closeStore()

	txn, err := s.NewTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.Close())

	key := []byte("k")
	for name, fn := range map[string]func(){
		"get":          func() { _, _, _ = txn.Get(key) },
		"get-range":    func() { _, _ = txn.GetRange(key, key, nil) },
		"put":          func() { txn.Put(key, key) },
		"delete":       func() { txn.Delete(key) },
		"delete-range": func() { txn.DeleteRange(key, key) },
		"commit":       func() { _ = txn.Commit() },
		"reset":        func() { txn.Reset() },
		"snapshot":     func() { txn.EnableSnapshot() },
		"iterator":     func() { txn.NewIterator(nil) },
		"close":        func() { _ = txn.Close() },
	} {
		require.PanicsWithValue(t, ErrClosed, fn, name)
	}
}
