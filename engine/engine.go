// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package engine defines the boundary between ffdb and the ordered,
// transactional key-value engine it drives. The interfaces mirror the
// engine's handle-based C API: a Database hands out Transactions, every
// remote operation returns a Future, and range reads are addressed by
// KeySelectors. Implementations live in the native (libfdb_c) and memengine
// (in-process) sub-packages.
//
// Engine handles are not safe for concurrent use unless stated otherwise.
// Errors are reported as ErrorCodes; classifying them is the caller's job.
package engine

// KeyValue is a key/value pair returned by a range read. Implementations
// return memory owned by the caller: it stays valid after the Future that
// produced it is released.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// RangeRequest describes one windowed range read.
type RangeRequest struct {
	// Begin and End select the half-open key range [Begin, End).
	Begin, End KeySelector
	// Limit caps the number of rows returned. Zero means no row limit.
	Limit int
	// TargetBytes caps the number of key and value bytes returned. The engine
	// always returns at least one row if any exist. Zero means no byte limit.
	TargetBytes int
	// Mode selects the batch sizing policy.
	Mode StreamingMode
	// Iteration is the 1-based number of this window within a scan. It only
	// affects StreamingModeIterator.
	Iteration int
	// Snapshot disables read-conflict tracking for this read.
	Snapshot bool
	// Reverse returns rows in descending key order, starting from End.
	Reverse bool
}

// Future is the completion handle of one asynchronous engine operation.
// Exactly one of the result accessors is meaningful, depending on the
// operation that produced the future. Release must be called exactly once.
type Future interface {
	// BlockUntilReady blocks the calling goroutine until the operation has
	// completed. A non-zero code means waiting itself failed.
	BlockUntilReady() ErrorCode
	// Err returns the outcome of a ready operation.
	Err() ErrorCode
	// Value returns the result of a point read.
	Value() (value []byte, present bool, err ErrorCode)
	// KeyValues returns the result of a range read. more is true if rows
	// remain in the requested range beyond those returned.
	KeyValues() (kvs []KeyValue, more bool, err ErrorCode)
	// Release frees the handle.
	Release()
}

// Transaction is an engine transaction handle. Set, Clear and ClearRange
// buffer mutations locally; any error they provoke surfaces from Commit.
type Transaction interface {
	Get(key []byte, snapshot bool) Future
	GetRange(req RangeRequest) Future
	Set(key, value []byte)
	Clear(key []byte)
	ClearRange(begin, end []byte)
	Commit() Future
	// Reset returns the transaction to its newly created state.
	Reset()
	// Destroy releases the handle. Uncommitted mutations are discarded.
	Destroy()
}

// Database is a connection to an engine cluster. It is safe for concurrent
// use.
type Database interface {
	CreateTransaction() (Transaction, ErrorCode)
	Destroy()
}

// API is an engine client library. The network methods follow the engine's
// process-wide lifecycle: SelectAPIVersion, then SetupNetwork, then
// RunNetwork on a dedicated goroutine until StopNetwork is called. Use Boot
// rather than calling them directly.
type API interface {
	SelectAPIVersion(version int) ErrorCode
	SetupNetwork() ErrorCode
	RunNetwork() ErrorCode
	StopNetwork() ErrorCode
	// CreateDatabase connects to the cluster described by clusterFile.
	CreateDatabase(clusterFile string) (Database, ErrorCode)
	// ErrorPredicate reports whether code satisfies p.
	ErrorPredicate(p ErrorPredicate, code ErrorCode) bool
	// ErrorString describes code.
	ErrorString(code ErrorCode) string
}
