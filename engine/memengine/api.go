// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package memengine is an in-process implementation of the engine
// interfaces. Each cluster descriptor names a pebble store; transactions read
// from a pebble snapshot through a private write buffer and commit
// optimistically, failing with NotCommitted when a key they read was written
// by a transaction that committed after they started. It is meant for tests,
// tools and local development.
package memengine

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/swiss"
	"github.com/freefdb/ffdb/engine"
)

// Supported API versions.
const (
	MinAPIVersion = 13
	MaxAPIVersion = 730
)

// API is an in-process engine. Create one with New and release it with
// Close once its network has been stopped.
type API struct {
	opts *Options
	stop chan struct{}

	mu struct {
		sync.Mutex
		version int
		setup   bool
		stopped bool
		// dbs holds the open databases by directory name.
		dbs swiss.Map[string, *database]
	}
}

var _ engine.API = (*API)(nil)

// New returns an in-process engine.
func New(opts *Options) *API {
	a := &API{
		opts: opts.EnsureDefaults(),
		stop: make(chan struct{}),
	}
	a.mu.dbs.Init(4)
	return a
}

func (a *API) SelectAPIVersion(version int) engine.ErrorCode {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.mu.version == version:
		return engine.Success
	case a.mu.version != 0:
		return engine.APIVersionAlreadySet
	case version < MinAPIVersion:
		return engine.APIVersionInvalid
	case version > MaxAPIVersion:
		return engine.APIVersionNotSupported
	}
	a.mu.version = version
	return engine.Success
}

func (a *API) SetupNetwork() engine.ErrorCode {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.mu.version == 0:
		return engine.APIVersionUnset
	case a.mu.setup:
		return engine.NetworkAlreadySetup
	}
	a.mu.setup = true
	return engine.Success
}

func (a *API) RunNetwork() engine.ErrorCode {
	if !a.isSetup() {
		return engine.NetworkNotSetup
	}
	<-a.stop
	return engine.Success
}

func (a *API) StopNetwork() engine.ErrorCode {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.mu.setup {
		return engine.NetworkNotSetup
	}
	if !a.mu.stopped {
		a.mu.stopped = true
		close(a.stop)
	}
	return engine.Success
}

func (a *API) isSetup() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mu.setup
}

// CreateDatabase opens the database named by clusterFile, creating it on
// first use. Handles on the same descriptor share data.
func (a *API) CreateDatabase(clusterFile string) (engine.Database, engine.ErrorCode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.mu.setup || a.mu.stopped {
		return nil, engine.NetworkNotSetup
	}
	name := databaseName(clusterFile)
	d, ok := a.mu.dbs.Get(name)
	if !ok {
		db, err := pebble.Open(a.opts.FS.PathJoin(a.opts.Dir, name), a.opts.pebbleOptions())
		if err != nil {
			a.opts.Logger.Errorf("memengine: opening %s: %v", name, err)
			return nil, engine.OperationFailed
		}
		d = &database{name: name, opts: a.opts, db: db}
		a.mu.dbs.Put(name, d)
	}
	return &handle{db: d}, engine.Success
}

func (a *API) ErrorPredicate(p engine.ErrorPredicate, code engine.ErrorCode) bool {
	return engine.DefaultErrorPredicate(p, code)
}

func (a *API) ErrorString(code engine.ErrorCode) string {
	return code.Message()
}

// Close closes every database. Transactions must have been destroyed.
func (a *API) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var err error
	a.mu.dbs.All(func(name string, d *database) bool {
		err = errors.CombineErrors(err, errors.Wrapf(d.db.Close(), "closing %s", name))
		return true
	})
	a.mu.dbs.Init(4)
	return err
}

// databaseName maps a cluster descriptor to a directory name.
func databaseName(clusterFile string) string {
	if clusterFile == "" {
		return "default"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, clusterFile)
}
