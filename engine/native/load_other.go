// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build !(darwin || linux || freebsd)

package native

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

func open(path string) (*lib, error) {
	return nil, errors.Newf("native: loading %s: unsupported on %s", path, errors.Safe(runtime.GOOS))
}
