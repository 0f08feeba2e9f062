// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package engine

import "fmt"

// KeySelector identifies a key relative to a reference key. It resolves to
// the last key less than Key (or less than or equal to Key, if OrEqual is
// set), moved Offset keys forward. Offset 1 from that base yields the first
// key at or after the reference.
type KeySelector struct {
	Key     []byte
	OrEqual bool
	Offset  int
}

// FirstGreaterOrEqual selects the first key >= key.
func FirstGreaterOrEqual(key []byte) KeySelector {
	return KeySelector{Key: key, OrEqual: false, Offset: 1}
}

// FirstGreaterThan selects the first key > key.
func FirstGreaterThan(key []byte) KeySelector {
	return KeySelector{Key: key, OrEqual: true, Offset: 1}
}

// LastLessThan selects the last key < key.
func LastLessThan(key []byte) KeySelector {
	return KeySelector{Key: key, OrEqual: false, Offset: 0}
}

// LastLessOrEqual selects the last key <= key.
func LastLessOrEqual(key []byte) KeySelector {
	return KeySelector{Key: key, OrEqual: true, Offset: 0}
}

// String implements fmt.Stringer.
func (s KeySelector) String() string {
	switch {
	case !s.OrEqual && s.Offset == 1:
		return fmt.Sprintf("first>=%q", s.Key)
	case s.OrEqual && s.Offset == 1:
		return fmt.Sprintf("first>%q", s.Key)
	case !s.OrEqual && s.Offset == 0:
		return fmt.Sprintf("last<%q", s.Key)
	case s.OrEqual && s.Offset == 0:
		return fmt.Sprintf("last<=%q", s.Key)
	}
	return fmt.Sprintf("sel(%q,%t,%d)", s.Key, s.OrEqual, s.Offset)
}

// StreamingMode selects how the engine sizes the windows of a range read.
type StreamingMode int32

// The values match the engine's C API.
const (
	// StreamingModeWantAll returns as much of the range as possible in one
	// window.
	StreamingModeWantAll StreamingMode = -2
	// StreamingModeIterator starts with small windows that grow with the
	// request's Iteration.
	StreamingModeIterator StreamingMode = -1
	// StreamingModeExact returns exactly Limit rows. Limit is required.
	StreamingModeExact  StreamingMode = 0
	StreamingModeSmall  StreamingMode = 1
	StreamingModeMedium StreamingMode = 2
	StreamingModeLarge  StreamingMode = 3
	StreamingModeSerial StreamingMode = 4
)

// SafeValue implements redact.SafeValue.
func (m StreamingMode) SafeValue() {}

// String implements fmt.Stringer.
func (m StreamingMode) String() string {
	switch m {
	case StreamingModeWantAll:
		return "want-all"
	case StreamingModeIterator:
		return "iterator"
	case StreamingModeExact:
		return "exact"
	case StreamingModeSmall:
		return "small"
	case StreamingModeMedium:
		return "medium"
	case StreamingModeLarge:
		return "large"
	case StreamingModeSerial:
		return "serial"
	}
	return fmt.Sprintf("mode(%d)", int32(m))
}
