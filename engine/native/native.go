// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package native implements the engine interfaces on top of the FoundationDB
// C client library, libfdb_c. The library is loaded at runtime, so building
// this package needs neither cgo nor the client headers.
package native

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/freefdb/ffdb/engine"
)

// lib holds the libfdb_c entry points. Pointers to Go memory passed as *byte
// are only read for the duration of the call; the library copies keys and
// values it needs to keep.
type lib struct {
	selectAPIVersion          func(runtimeVersion, headerVersion int32) int32
	getError                  func(code int32) string
	errorPredicate            func(predicate, code int32) int32
	setupNetwork              func() int32
	runNetwork                func() int32
	stopNetwork               func() int32
	createDatabase            func(clusterFile string, out *uintptr) int32
	databaseDestroy           func(db uintptr)
	databaseCreateTransaction func(db uintptr, out *uintptr) int32
	transactionDestroy        func(tr uintptr)
	transactionGet            func(tr uintptr, key *byte, keyLen, snapshot int32) uintptr
	transactionGetRange       func(tr uintptr,
		beginKey *byte, beginKeyLen, beginOrEqual, beginOffset int32,
		endKey *byte, endKeyLen, endOrEqual, endOffset int32,
		limit, targetBytes, mode, iteration, snapshot, reverse int32) uintptr
	transactionSet         func(tr uintptr, key *byte, keyLen int32, value *byte, valueLen int32)
	transactionClear       func(tr uintptr, key *byte, keyLen int32)
	transactionClearRange  func(tr uintptr, begin *byte, beginLen int32, end *byte, endLen int32)
	transactionCommit      func(tr uintptr) uintptr
	transactionReset       func(tr uintptr)
	futureBlockUntilReady  func(f uintptr) int32
	futureGetError         func(f uintptr) int32
	futureGetValue         func(f uintptr, present *int32, value *unsafe.Pointer, length *int32) int32
	futureGetKeyValueArray func(f uintptr, kvs *unsafe.Pointer, count *int32, more *int32) int32
	futureDestroy          func(f uintptr)
}

var loaded struct {
	once sync.Once
	api  *API
	err  error
}

// Load loads libfdb_c from path, or from the platform's default library name
// if path is empty. The library is loaded once per process; later calls
// return the first result regardless of path.
func Load(path string) (*API, error) {
	loaded.once.Do(func() {
		if path == "" {
			path = defaultLibrary()
		}
		var l *lib
		l, loaded.err = open(path)
		if loaded.err == nil {
			loaded.api = &API{lib: l}
		}
	})
	return loaded.api, loaded.err
}

func defaultLibrary() string {
	switch runtime.GOOS {
	case "darwin":
		return "libfdb_c.dylib"
	case "windows":
		return "fdb_c.dll"
	}
	return "libfdb_c.so"
}

// API is the libfdb_c client. It is safe for concurrent use.
type API struct {
	lib *lib
}

var _ engine.API = (*API)(nil)

func (a *API) SelectAPIVersion(version int) engine.ErrorCode {
	return engine.ErrorCode(a.lib.selectAPIVersion(int32(version), int32(version)))
}

func (a *API) SetupNetwork() engine.ErrorCode {
	return engine.ErrorCode(a.lib.setupNetwork())
}

func (a *API) RunNetwork() engine.ErrorCode {
	// The network thread must stay on one OS thread for its lifetime.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return engine.ErrorCode(a.lib.runNetwork())
}

func (a *API) StopNetwork() engine.ErrorCode {
	return engine.ErrorCode(a.lib.stopNetwork())
}

func (a *API) CreateDatabase(clusterFile string) (engine.Database, engine.ErrorCode) {
	var h uintptr
	if code := engine.ErrorCode(a.lib.createDatabase(clusterFile, &h)); code != engine.Success {
		return nil, code
	}
	return &database{lib: a.lib, h: h}, engine.Success
}

func (a *API) ErrorPredicate(p engine.ErrorPredicate, code engine.ErrorCode) bool {
	return a.lib.errorPredicate(int32(p), int32(code)) != 0
}

func (a *API) ErrorString(code engine.ErrorCode) string {
	return a.lib.getError(int32(code))
}

type database struct {
	lib *lib
	h   uintptr
}

func (d *database) CreateTransaction() (engine.Transaction, engine.ErrorCode) {
	var h uintptr
	if code := engine.ErrorCode(d.lib.databaseCreateTransaction(d.h, &h)); code != engine.Success {
		return nil, code
	}
	return &transaction{lib: d.lib, h: h}, engine.Success
}

func (d *database) Destroy() {
	d.lib.databaseDestroy(d.h)
}

type transaction struct {
	lib *lib
	h   uintptr
}

func (t *transaction) Get(key []byte, snapshot bool) engine.Future {
	f := t.lib.transactionGet(t.h, ptr(key), int32(len(key)), boolInt(snapshot))
	runtime.KeepAlive(key)
	return newFuture(t.lib, f)
}

func (t *transaction) GetRange(req engine.RangeRequest) engine.Future {
	b, e := req.Begin, req.End
	f := t.lib.transactionGetRange(t.h,
		ptr(b.Key), int32(len(b.Key)), boolInt(b.OrEqual), int32(b.Offset),
		ptr(e.Key), int32(len(e.Key)), boolInt(e.OrEqual), int32(e.Offset),
		int32(req.Limit), int32(req.TargetBytes), int32(req.Mode), int32(req.Iteration),
		boolInt(req.Snapshot), boolInt(req.Reverse))
	runtime.KeepAlive(b.Key)
	runtime.KeepAlive(e.Key)
	return newFuture(t.lib, f)
}

func (t *transaction) Set(key, value []byte) {
	t.lib.transactionSet(t.h, ptr(key), int32(len(key)), ptr(value), int32(len(value)))
	runtime.KeepAlive(key)
	runtime.KeepAlive(value)
}

func (t *transaction) Clear(key []byte) {
	t.lib.transactionClear(t.h, ptr(key), int32(len(key)))
	runtime.KeepAlive(key)
}

func (t *transaction) ClearRange(begin, end []byte) {
	t.lib.transactionClearRange(t.h, ptr(begin), int32(len(begin)), ptr(end), int32(len(end)))
	runtime.KeepAlive(begin)
	runtime.KeepAlive(end)
}

func (t *transaction) Commit() engine.Future {
	return newFuture(t.lib, t.lib.transactionCommit(t.h))
}

func (t *transaction) Reset() {
	t.lib.transactionReset(t.h)
}

func (t *transaction) Destroy() {
	t.lib.transactionDestroy(t.h)
}

type future struct {
	lib *lib
	h   uintptr
}

// newFuture wraps h. The library returns a null future only when it cannot
// allocate one.
func newFuture(l *lib, h uintptr) engine.Future {
	if h == 0 {
		return nil
	}
	return &future{lib: l, h: h}
}

func (f *future) BlockUntilReady() engine.ErrorCode {
	return engine.ErrorCode(f.lib.futureBlockUntilReady(f.h))
}

func (f *future) Err() engine.ErrorCode {
	return engine.ErrorCode(f.lib.futureGetError(f.h))
}

func (f *future) Value() ([]byte, bool, engine.ErrorCode) {
	var present, n int32
	var p unsafe.Pointer
	if code := engine.ErrorCode(f.lib.futureGetValue(f.h, &present, &p, &n)); code != engine.Success {
		return nil, false, code
	}
	if present == 0 {
		return nil, false, engine.Success
	}
	return copyOut(p, n), true, engine.Success
}

func (f *future) KeyValues() ([]engine.KeyValue, bool, engine.ErrorCode) {
	var count, more int32
	var p unsafe.Pointer
	if code := engine.ErrorCode(f.lib.futureGetKeyValueArray(f.h, &p, &count, &more)); code != engine.Success {
		return nil, false, code
	}
	return decodeKeyValues(p, int(count)), more != 0, engine.Success
}

func (f *future) Release() {
	f.lib.futureDestroy(f.h)
}

var empty [1]byte

// ptr returns a pointer to the first byte of b, or to a static byte if b is
// empty. The library never reads past the given length.
func ptr(b []byte) *byte {
	if len(b) == 0 {
		return &empty[0]
	}
	return &b[0]
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
