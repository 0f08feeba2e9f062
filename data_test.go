// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/freefdb/ffdb/engine/memengine"
	"github.com/stretchr/testify/require"
)

// testStore is the store shared by the commands of one datadriven file.
type testStore struct {
	s     *Store
	close func()
}

func (ts *testStore) reset() {
	if ts.close != nil {
		ts.close()
	}
	ts.s, ts.close = nil, nil
}

// runDefineCmd replaces the store with one holding the key:value pairs of
// the input.
//
//	define [max-batch-rows=<n>]
func runDefineCmd(t *testing.T, td *datadriven.TestData, ts *testStore) string {
	ts.reset()
	engineOpts := &memengine.Options{}
	td.MaybeScanArgs(t, "max-batch-rows", &engineOpts.MaxBatchRows)
	ts.s, ts.close = openTestStore(t, engineOpts, nil)
	require.NoError(t, ts.s.Transact(func(txn *Transaction) error {
		for _, line := range strings.Split(td.Input, "\n") {
			if line == "" {
				continue
			}
			k, v, ok := strings.Cut(line, ":")
			if !ok {
				return fmt.Errorf("malformed pair %q", line)
			}
			txn.Put([]byte(k), []byte(v))
		}
		return nil
	}))
	return ""
}

// parseKey unquotes quoted keys so tests can spell arbitrary bytes.
func parseKey(t *testing.T, s string) []byte {
	if strings.HasPrefix(s, "\"") {
		u, err := strconv.Unquote(s)
		require.NoError(t, err)
		return []byte(u)
	}
	return []byte(s)
}

func formatKV(kv KeyValue) string {
	if kv.Key == nil {
		return "."
	}
	return fmt.Sprintf("%s:%s", kv.Key, kv.Value)
}
