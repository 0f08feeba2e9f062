// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import "github.com/freefdb/ffdb/engine"

// KeyValue is a key/value pair read from the engine. Its bytes are owned by
// the caller.
type KeyValue = engine.KeyValue

// RangeOptions configures Transaction.GetRange. The zero value reads the whole
// half-open range [from, to) in ascending order.
type RangeOptions struct {
	// Limit caps the number of rows returned. Zero means no limit.
	Limit int
	// MaxBytes caps the key and value bytes returned. At least one row is
	// returned if any match. Zero means no limit.
	MaxBytes int
	// LowerExclusive leaves the key from out of the range.
	LowerExclusive bool
	// UpperInclusive brings the key to into the range.
	UpperInclusive bool
	// Reverse returns rows in descending order. Limit then keeps the rows
	// nearest to.
	Reverse bool
	// Mode sizes the engine's response. The zero value (StreamingModeExact)
	// is read as StreamingModeWantAll when Limit is zero; with a limit the two
	// behave the same.
	Mode engine.StreamingMode
}

// RangeResult is the result of Transaction.GetRange.
type RangeResult struct {
	Values []KeyValue
	// Truncated is set if rows matching the range were left out because of
	// Limit or MaxBytes.
	Truncated bool
}

// rangeSelectors returns the key selectors of the range from..to with the
// given end point inclusivity.
//
//	lower    upper    begin                    end
//	incl.    incl.    FirstGreaterOrEqual(from) FirstGreaterThan(to)
//	incl.    excl.    FirstGreaterOrEqual(from) FirstGreaterOrEqual(to)
//	excl.    incl.    FirstGreaterThan(from)    FirstGreaterThan(to)
//	excl.    excl.    FirstGreaterThan(from)    FirstGreaterOrEqual(to)
func rangeSelectors(
	from, to []byte, lowerInclusive, upperInclusive bool,
) (begin, end engine.KeySelector) {
	if lowerInclusive {
		begin = engine.FirstGreaterOrEqual(from)
	} else {
		begin = engine.FirstGreaterThan(from)
	}
	if upperInclusive {
		end = engine.FirstGreaterThan(to)
	} else {
		end = engine.FirstGreaterOrEqual(to)
	}
	return begin, end
}

func (o *RangeOptions) mode() engine.StreamingMode {
	if o.Mode == engine.StreamingModeExact && o.Limit == 0 {
		return engine.StreamingModeWantAll
	}
	return o.Mode
}
