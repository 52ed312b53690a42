// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memory provides aligned byte allocation for buffers that hold
// encoded messages.
package memory

import (
	"unsafe"
)

const alignment = 64

// Allocator allocates and releases byte slices.
type Allocator interface {
	Allocate(size int) []byte
	Reallocate(size int, b []byte) []byte
	Free(b []byte)
}

// DefaultAllocator is used when callers do not supply one.
var DefaultAllocator Allocator = NewGoAllocator()

func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// roundUpToMultipleOf64 rounds n up to the next multiple of 64.
func roundUpToMultipleOf64(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// IsAligned reports whether the first byte of b is 64-byte aligned.
func IsAligned(b []byte) bool {
	return addressOf(b)%alignment == 0
}

// Clone copies b into memory obtained from mem. An optional size makes the
// new slice that long instead of len(b); bytes past len(b) are zero.
func Clone(mem Allocator, b []byte, size ...int) []byte {
	n := len(b)
	if len(size) > 0 {
		n = size[0]
	}
	out := mem.Allocate(n)
	copy(out, b)
	return out
}
