// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package native

import (
	"os"
	"testing"

	"github.com/freefdb/ffdb/engine"
	"github.com/stretchr/testify/require"
)

// openCluster connects to the cluster named by FFDB_CLUSTER_FILE using the
// library at FFDB_LIBFDB, skipping the test if either is unset.
func openCluster(t *testing.T) (*API, engine.Database) {
	lib, cluster := os.Getenv("FFDB_LIBFDB"), os.Getenv("FFDB_CLUSTER_FILE")
	if lib == "" || cluster == "" {
		t.Skip("FFDB_LIBFDB and FFDB_CLUSTER_FILE must be set")
	}
	api, err := Load(lib)
	require.NoError(t, err)
	_, err = engine.Boot(api, 620)
	require.NoError(t, err)
	db, code := api.CreateDatabase(cluster)
	require.Equal(t, engine.Success, code, api.ErrorString(code))
	return api, db
}

func await(t *testing.T, f engine.Future) engine.ErrorCode {
	defer f.Release()
	require.Equal(t, engine.Success, f.BlockUntilReady())
	return f.Err()
}

func TestRoundTrip(t *testing.T) {
	api, db := openCluster(t)
	defer db.Destroy()

	txn, code := db.CreateTransaction()
	require.Equal(t, engine.Success, code)
	defer txn.Destroy()

	prefix := []byte("ffdb-native-test/")
	end := append(append([]byte{}, prefix...), 0xff)
	txn.ClearRange(prefix, end)
	for _, k := range []string{"a", "b", "c"} {
		txn.Set(append(append([]byte{}, prefix...), k...), []byte("v"+k))
	}
	require.Equal(t, engine.Success, await(t, txn.Commit()))

	txn.Reset()
	f := txn.Get(append(append([]byte{}, prefix...), 'b'), false)
	require.Equal(t, engine.Success, f.BlockUntilReady())
	v, present, code := f.Value()
	f.Release()
	require.Equal(t, engine.Success, code)
	require.True(t, present)
	require.Equal(t, "vb", string(v))

	f = txn.GetRange(engine.RangeRequest{
		Begin:   engine.FirstGreaterOrEqual(prefix),
		End:     engine.FirstGreaterOrEqual(end),
		Mode:    engine.StreamingModeWantAll,
		Reverse: true,
	})
	require.Equal(t, engine.Success, f.BlockUntilReady())
	kvs, more, code := f.KeyValues()
	f.Release()
	require.Equal(t, engine.Success, code)
	require.False(t, more)
	require.Len(t, kvs, 3)
	require.Equal(t, string(prefix)+"c", string(kvs[0].Key))
	require.Equal(t, "va", string(kvs[2].Value))

	require.True(t, api.ErrorPredicate(engine.PredicateRetryable, engine.NotCommitted))
	require.False(t, api.ErrorPredicate(engine.PredicateRetryable, engine.KeyOutsideLegalRange))

	txn.ClearRange(prefix, end)
	require.Equal(t, engine.Success, await(t, txn.Commit()))
}
