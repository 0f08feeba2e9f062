// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuccessor(t *testing.T) {
	testCases := []struct {
		key      string
		expected string
		ok       bool
	}{
		{"A", "B", true},
		{"A_key", "A_kez", true},
		{"a\xff", "b", true},
		{"a\xff\xff", "b", true},
		{"\xff", "", false},
		{"", "", false},
		{"\x00", "\x01", true},
	}
	for _, tc := range testCases {
		s, ok := Successor([]byte(tc.key))
		require.Equal(t, tc.ok, ok, "key %q", tc.key)
		require.Equal(t, tc.expected, string(s), "key %q", tc.key)
	}
}

func TestPredecessor(t *testing.T) {
	testCases := []struct {
		key      string
		expected string
		ok       bool
	}{
		{"B", "A", true},
		{"@", "?", true},
		{"A\x00", "A", true},
		{"\x00", "", true},
		{"", "", false},
	}
	for _, tc := range testCases {
		p, ok := Predecessor([]byte(tc.key))
		require.Equal(t, tc.ok, ok, "key %q", tc.key)
		require.Equal(t, tc.expected, string(p), "key %q", tc.key)
	}
}

func TestSuccessorDoesNotAlias(t *testing.T) {
	key := []byte("abc")
	s, _ := Successor(key)
	s[0] = 'z'
	require.Equal(t, "abc", string(key))

	p, _ := Predecessor(key)
	p[0] = 'z'
	require.Equal(t, "abc", string(key))
}
