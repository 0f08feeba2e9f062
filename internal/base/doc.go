// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base defines types and helpers shared by the ffdb package, the
// engine implementations and the ffdb tool: the Logger interface and the
// byte-key arithmetic used to build scan fences.
package base
