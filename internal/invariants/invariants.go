// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants holds assertions that are compiled in only when the
// "invariants" or "race" build tags are set.
package invariants

import "runtime"

// SetFinalizer is a wrapper around runtime.SetFinalizer that is a no-op
// unless invariants are enabled. It is used to catch transactions that are
// garbage collected without being closed.
func SetFinalizer(obj, finalizer interface{}) {
	if Enabled {
		runtime.SetFinalizer(obj, finalizer)
	}
}
