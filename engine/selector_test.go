// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeySelectorConstructors(t *testing.T) {
	k := []byte("k")
	require.Equal(t, KeySelector{Key: k, OrEqual: false, Offset: 1}, FirstGreaterOrEqual(k))
	require.Equal(t, KeySelector{Key: k, OrEqual: true, Offset: 1}, FirstGreaterThan(k))
	require.Equal(t, KeySelector{Key: k, OrEqual: false, Offset: 0}, LastLessThan(k))
	require.Equal(t, KeySelector{Key: k, OrEqual: true, Offset: 0}, LastLessOrEqual(k))

	require.Equal(t, `first>="k"`, FirstGreaterOrEqual(k).String())
	require.Equal(t, `first>"k"`, FirstGreaterThan(k).String())
	require.Equal(t, `last<"k"`, LastLessThan(k).String())
	require.Equal(t, `last<="k"`, LastLessOrEqual(k).String())
	require.Equal(t, `sel("k",false,3)`, KeySelector{Key: k, Offset: 3}.String())
}

func TestStreamingModeString(t *testing.T) {
	require.Equal(t, "iterator", StreamingModeIterator.String())
	require.Equal(t, "want-all", StreamingModeWantAll.String())
	require.Equal(t, "mode(9)", StreamingMode(9).String())
}
