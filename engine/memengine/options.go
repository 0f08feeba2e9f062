// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/freefdb/ffdb/internal/base"
)

// Size limits enforced on mutations. The values match the engine's defaults.
const (
	MaxKeySize         = 10_000
	MaxValueSize       = 100_000
	MaxTransactionSize = 10_000_000
)

// Options configures an in-process engine. The zero value is usable.
type Options struct {
	// FS holds the pebble stores backing each database. Every cluster
	// descriptor gets its own directory. Defaults to a fresh in-memory FS,
	// in which case data lives as long as the API.
	FS vfs.FS

	// Dir is the directory under which database directories are created.
	Dir string

	// Sync makes commits durable before they are acknowledged. It only
	// matters for an on-disk FS.
	Sync bool

	// MaxBatchRows caps the number of rows returned by a single range read,
	// regardless of the request's limits. Zero means no cap. Tests use it to
	// force multi-window scans over small data sets.
	MaxBatchRows int

	// CommitWindow is the number of committed transactions remembered for
	// conflict detection. A transaction whose read version predates the
	// window fails to commit with TransactionTooOld. Defaults to 4096.
	CommitWindow int

	// Latency delays the completion of every future, simulating a round
	// trip to the cluster.
	Latency time.Duration

	// Logger receives the pebble stores' log output. Defaults to
	// base.DefaultLogger.
	Logger base.Logger
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.FS == nil {
		o.FS = vfs.NewMem()
	}
	if o.CommitWindow <= 0 {
		o.CommitWindow = 4096
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	return o
}

func (o *Options) pebbleOptions() *pebble.Options {
	return &pebble.Options{
		FS:     o.FS,
		Logger: o.Logger,
	}
}

func (o *Options) writeOptions() *pebble.WriteOptions {
	if o.Sync {
		return pebble.Sync
	}
	return pebble.NoSync
}
