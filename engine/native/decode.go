// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package native

import (
	"encoding/binary"
	"unsafe"

	"github.com/freefdb/ffdb/engine"
)

// keyValueSize is the size of an FDBKeyValue. The struct is packed to 4-byte
// alignment:
//
//	offset  0: const uint8_t* key
//	offset  8: int key_length
//	offset 12: const uint8_t* value
//	offset 20: int value_length
const keyValueSize = 24

// decodeKeyValues copies count FDBKeyValue records starting at p into Go
// memory.
func decodeKeyValues(p unsafe.Pointer, count int) []engine.KeyValue {
	if count == 0 {
		return nil
	}
	raw := unsafe.Slice((*byte)(p), count*keyValueSize)
	kvs := make([]engine.KeyValue, count)
	for i := range kvs {
		rec := raw[i*keyValueSize : (i+1)*keyValueSize]
		kvs[i] = engine.KeyValue{
			Key:   copyOut(readPointer(rec[0:8]), int32(binary.LittleEndian.Uint32(rec[8:12]))),
			Value: copyOut(readPointer(rec[12:20]), int32(binary.LittleEndian.Uint32(rec[20:24]))),
		}
	}
	return kvs
}

// readPointer reads a possibly unaligned pointer from b. The pointer refers to
// memory owned by the library, never to the Go heap.
func readPointer(b []byte) unsafe.Pointer {
	var p unsafe.Pointer
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&p)), unsafe.Sizeof(p)), b)
	return p
}

// copyOut copies n bytes at p.
func copyOut(p unsafe.Pointer, n int32) []byte {
	if n <= 0 {
		return []byte{}
	}
	return append(make([]byte, 0, n), unsafe.Slice((*byte)(p), n)...)
}
