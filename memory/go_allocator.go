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

package memory

// GoAllocator hands out Go-managed slices whose first byte is 64-byte
// aligned. Buffers loaded from files or frames live in such slices so that
// every naturally aligned scalar in an encoded message is also aligned in
// memory.
type GoAllocator struct{}

// NewGoAllocator returns a GoAllocator.
func NewGoAllocator() *GoAllocator { return &GoAllocator{} }

// Allocate returns size zeroed bytes starting on a 64-byte boundary.
func (a *GoAllocator) Allocate(size int) []byte {
	return alignedSlice(make([]byte, size+alignment), size)
}

// alignedSlice 从 buf 中切出以第一个 64 字节对齐地址开头、长度为 size 的区域；
// buf 需多出 alignment 字节的 padding 。cap 截断为 size ，append 不会写进 padding 。
func alignedSlice(buf []byte, size int) []byte {
	addr := int(addressOf(buf))
	shift := roundUpToMultipleOf64(addr) - addr
	return buf[shift : shift+size : shift+size]
}

// Reallocate resizes b. Shrinking keeps b's memory; growing moves the
// contents into a new aligned slice.
func (a *GoAllocator) Reallocate(size int, b []byte) []byte {
	if size <= len(b) {
		return b[:size:size]
	}
	return Clone(a, b, size)
}

// Free is a no-op; the garbage collector reclaims the memory.
func (a *GoAllocator) Free(b []byte) {}

var (
	_ Allocator = (*GoAllocator)(nil)
)
