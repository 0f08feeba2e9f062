// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"github.com/freefdb/ffdb/engine"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultAPIVersion is the engine API version selected when
// Options.APIVersion is unset.
const DefaultAPIVersion = 620

// Options holds the optional parameters for opening a Store.
type Options struct {
	// Engine is the engine client library. If nil, Open loads libfdb_c from
	// LibraryPath.
	Engine engine.API

	// LibraryPath locates libfdb_c when Engine is nil. Empty means the
	// platform's default library name, resolved by the dynamic loader.
	LibraryPath string

	// APIVersion is the engine API version to select. The first Store opened
	// on an engine selects the version for the life of the process.
	APIVersion int

	// Logger used to write log messages.
	//
	// The default logger uses the Go standard library log package.
	Logger Logger

	// MetricsRegisterer, if set, receives the Store's prometheus collectors.
	MetricsRegisterer prometheus.Registerer

	// MaxRetries bounds the number of times Store.Transact runs a
	// transaction again after a retryable error. Zero selects the default of
	// 100; a negative value retries without bound.
	MaxRetries int
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.APIVersion == 0 {
		o.APIVersion = DefaultAPIVersion
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 100
	}
	return o
}
