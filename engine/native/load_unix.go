// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build darwin || linux || freebsd

package native

import (
	"github.com/cockroachdb/errors"
	"github.com/ebitengine/purego"
)

func open(path string) (*lib, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.Wrapf(err, "native: loading %s", path)
	}
	l := &lib{}
	for _, fn := range []struct {
		ptr  any
		name string
	}{
		{&l.selectAPIVersion, "fdb_select_api_version_impl"},
		{&l.getError, "fdb_get_error"},
		{&l.errorPredicate, "fdb_error_predicate"},
		{&l.setupNetwork, "fdb_setup_network"},
		{&l.runNetwork, "fdb_run_network"},
		{&l.stopNetwork, "fdb_stop_network"},
		{&l.createDatabase, "fdb_create_database"},
		{&l.databaseDestroy, "fdb_database_destroy"},
		{&l.databaseCreateTransaction, "fdb_database_create_transaction"},
		{&l.transactionDestroy, "fdb_transaction_destroy"},
		{&l.transactionGet, "fdb_transaction_get"},
		{&l.transactionGetRange, "fdb_transaction_get_range"},
		{&l.transactionSet, "fdb_transaction_set"},
		{&l.transactionClear, "fdb_transaction_clear"},
		{&l.transactionClearRange, "fdb_transaction_clear_range"},
		{&l.transactionCommit, "fdb_transaction_commit"},
		{&l.transactionReset, "fdb_transaction_reset"},
		{&l.futureBlockUntilReady, "fdb_future_block_until_ready"},
		{&l.futureGetError, "fdb_future_get_error"},
		{&l.futureGetValue, "fdb_future_get_value"},
		{&l.futureGetKeyValueArray, "fdb_future_get_keyvalue_array"},
		{&l.futureDestroy, "fdb_future_destroy"},
	} {
		if _, err := purego.Dlsym(h, fn.name); err != nil {
			return nil, errors.Wrapf(err, "native: %s: missing %s", path, fn.name)
		}
		purego.RegisterLibFunc(fn.ptr, h, fn.name)
	}
	return l, nil
}
