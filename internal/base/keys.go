// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

// KeyspaceEnd is the exclusive end of the user keyspace. Keys at or beyond it
// belong to the engine's system keyspace.
var KeyspaceEnd = []byte{0xff}

// Successor returns the smallest key that is greater than every key having
// key as a prefix: the last byte is incremented after dropping any trailing
// 0xff bytes. The second return value is false if no such key exists (key is
// empty or consists only of 0xff bytes).
func Successor(key []byte) ([]byte, bool) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] != 0xff {
			s := make([]byte, i+1)
			copy(s, key[:i+1])
			s[i]++
			return s, true
		}
	}
	return nil, false
}

// Predecessor returns key with its last byte decremented. A trailing 0x00 is
// dropped instead, which yields the largest prefix of key that sorts before
// it. The second return value is false if key is empty.
func Predecessor(key []byte) ([]byte, bool) {
	n := len(key)
	if n == 0 {
		return nil, false
	}
	if key[n-1] == 0 {
		p := make([]byte, n-1)
		copy(p, key[:n-1])
		return p, true
	}
	p := make([]byte, n)
	copy(p, key)
	p[n-1]--
	return p, true
}

// UpperOrEnd returns upper, or KeyspaceEnd if upper is empty.
func UpperOrEnd(upper []byte) []byte {
	if len(upper) == 0 {
		return KeyspaceEnd
	}
	return upper
}
