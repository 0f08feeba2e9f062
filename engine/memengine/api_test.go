// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/freefdb/ffdb/engine"
	"github.com/stretchr/testify/require"
)

func TestNetworkLifecycle(t *testing.T) {
	defer leaktest.AfterTest(t)()

	api := New(nil)
	defer func() { require.NoError(t, api.Close()) }()

	require.Equal(t, engine.APIVersionUnset, api.SetupNetwork())
	require.Equal(t, engine.NetworkNotSetup, api.RunNetwork())
	_, code := api.CreateDatabase("")
	require.Equal(t, engine.NetworkNotSetup, code)

	require.Equal(t, engine.APIVersionInvalid, api.SelectAPIVersion(1))
	require.Equal(t, engine.APIVersionNotSupported, api.SelectAPIVersion(MaxAPIVersion+1))
	require.Equal(t, engine.Success, api.SelectAPIVersion(620))
	require.Equal(t, engine.Success, api.SelectAPIVersion(620))
	require.Equal(t, engine.APIVersionAlreadySet, api.SelectAPIVersion(630))

	require.Equal(t, engine.Success, api.SetupNetwork())
	require.Equal(t, engine.NetworkAlreadySetup, api.SetupNetwork())

	done := make(chan engine.ErrorCode)
	go func() { done <- api.RunNetwork() }()
	require.Equal(t, engine.Success, api.StopNetwork())
	require.Equal(t, engine.Success, <-done)
	require.Equal(t, engine.Success, api.StopNetwork())

	_, code = api.CreateDatabase("")
	require.Equal(t, engine.NetworkNotSetup, code)
}

func TestBoot(t *testing.T) {
	defer leaktest.AfterTest(t)()

	api := New(nil)
	defer func() { require.NoError(t, api.Close()) }()
	n, err := engine.Boot(api, 620)
	require.NoError(t, err)
	defer func() { require.NoError(t, n.Stop()) }()

	db, code := api.CreateDatabase("boot")
	require.Equal(t, engine.Success, code)
	defer db.Destroy()
	commit(t, db, "a", "1")
}

func TestSharedDatabase(t *testing.T) {
	defer leaktest.AfterTest(t)()

	fs := vfs.NewMem()
	api := New(&Options{FS: fs, Dir: "data"})
	defer func() { require.NoError(t, api.Close()) }()
	require.Equal(t, engine.Success, api.SelectAPIVersion(620))
	require.Equal(t, engine.Success, api.SetupNetwork())
	defer api.StopNetwork()

	db1, code := api.CreateDatabase("/etc/foundationdb/fdb.cluster")
	require.Equal(t, engine.Success, code)
	commit(t, db1, "a", "1")
	db1.Destroy()
	_, code = db1.CreateTransaction()
	require.Equal(t, engine.ClientInvalidOperation, code)

	// A new handle on the same descriptor sees the data; another descriptor
	// does not.
	db2, _ := api.CreateDatabase("/etc/foundationdb/fdb.cluster")
	defer db2.Destroy()
	txn := newTxn(t, db2)
	v, ok := get(t, txn, "a")
	txn.Destroy()
	require.True(t, ok)
	require.Equal(t, "1", v)

	db3, _ := api.CreateDatabase("other")
	defer db3.Destroy()
	txn = newTxn(t, db3)
	_, ok = get(t, txn, "a")
	txn.Destroy()
	require.False(t, ok)

	names, err := fs.List("data")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"_etc_foundationdb_fdb.cluster", "other"}, names)
}

func TestDatabaseName(t *testing.T) {
	require.Equal(t, "default", databaseName(""))
	require.Equal(t, "fdb.cluster", databaseName("fdb.cluster"))
	require.Equal(t, "a_b_c", databaseName("a/b c"))
}
