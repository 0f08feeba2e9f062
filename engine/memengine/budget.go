// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import "github.com/freefdb/ffdb/engine"

// iteratorBytes is the byte budget of StreamingModeIterator windows, indexed
// by iteration. Iterations past the end use the last entry.
var iteratorBytes = [...]int{256, 1000, 4096, 6144, 9216, 13824, 20736, 31104, 46656, 69984, 80000}

// windowLimits returns the row and byte caps of one range read. Zero means
// uncapped.
func windowLimits(req engine.RangeRequest, maxBatchRows int) (rows, bytes int, err engine.ErrorCode) {
	rows, bytes = req.Limit, req.TargetBytes
	if rows < 0 || bytes < 0 {
		return 0, 0, engine.InvalidOptionValue
	}
	var modeBytes int
	switch req.Mode {
	case engine.StreamingModeWantAll:
	case engine.StreamingModeExact:
		if req.Limit == 0 {
			return 0, 0, engine.ExactModeWithoutLimits
		}
	case engine.StreamingModeIterator:
		i := req.Iteration - 1
		if i < 0 {
			i = 0
		}
		if i >= len(iteratorBytes) {
			i = len(iteratorBytes) - 1
		}
		modeBytes = iteratorBytes[i]
	case engine.StreamingModeSmall:
		modeBytes = 256
	case engine.StreamingModeMedium:
		modeBytes = 1000
	case engine.StreamingModeLarge:
		modeBytes = 4096
	case engine.StreamingModeSerial:
		modeBytes = 80000
	default:
		return 0, 0, engine.InvalidOptionValue
	}
	bytes = minPositive(bytes, modeBytes)
	rows = minPositive(rows, maxBatchRows)
	return rows, bytes, engine.Success
}

func minPositive(a, b int) int {
	switch {
	case a <= 0:
		return b
	case b <= 0:
		return a
	case a < b:
		return a
	}
	return b
}
