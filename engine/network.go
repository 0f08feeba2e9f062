// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package engine

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Network is the process-wide network of one API, started by Boot.
type Network struct {
	api API

	once sync.Once
	done chan struct{}
	// runErr is the code returned by RunNetwork. It is read after done is
	// closed.
	runErr ErrorCode
	// stopErr is the code returned by StopNetwork.
	stopErr ErrorCode
}

// networks holds the booted network of every API in the process. An engine
// allows its network to be configured once per process, so entries are never
// removed, not even after Stop.
var networks struct {
	sync.Mutex
	m map[API]*bootState
}

type bootState struct {
	n   *Network
	err error
}

// Boot selects the API version, sets up the engine network and starts
// RunNetwork on its own goroutine. It does so at most once per API; later
// calls return the first call's result.
func Boot(api API, version int) (*Network, error) {
	networks.Lock()
	defer networks.Unlock()
	if networks.m == nil {
		networks.m = make(map[API]*bootState)
	}
	if s, ok := networks.m[api]; ok {
		return s.n, s.err
	}
	s := &bootState{}
	s.n, s.err = boot(api, version)
	networks.m[api] = s
	return s.n, s.err
}

func boot(api API, version int) (*Network, error) {
	if code := api.SelectAPIVersion(version); code != Success {
		return nil, errors.Newf("engine: selecting API version %d: %s (%d)",
			errors.Safe(version), errors.Safe(api.ErrorString(code)), code)
	}
	if code := api.SetupNetwork(); code != Success {
		return nil, errors.Newf("engine: setting up network: %s (%d)",
			errors.Safe(api.ErrorString(code)), code)
	}
	n := &Network{api: api, done: make(chan struct{})}
	go func() {
		defer close(n.done)
		n.runErr = api.RunNetwork()
	}()
	return n, nil
}

// Stop stops the network and waits for RunNetwork to return. All databases
// of the API must have been destroyed. Stop is idempotent. Once stopped, the
// network cannot be started again in this process.
func (n *Network) Stop() error {
	n.once.Do(func() {
		n.stopErr = n.api.StopNetwork()
		if n.stopErr == Success {
			<-n.done
		}
	})
	if n.stopErr != Success {
		return errors.Newf("engine: stopping network: %s (%d)",
			errors.Safe(n.api.ErrorString(n.stopErr)), n.stopErr)
	}
	if n.runErr != Success {
		return errors.Newf("engine: network exited: %s (%d)",
			errors.Safe(n.api.ErrorString(n.runErr)), n.runErr)
	}
	return nil
}
