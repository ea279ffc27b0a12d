// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package alloc provides the replaceable allocator trait that every
// [Buffer]/[Journal] in protobluff is built on (spec §4.1), plus the
// sentinel zero-copy allocator and a default heap allocator.
//
// Allocators operate on whole byte slices rather than raw pointers, since
// Go buffers are already garbage-collected and bounds-checked; there is no
// analogue of the C library's void* block here.
package alloc

// Allocator is the replaceable {allocate, resize, free} contract every
// [Buffer] is built on.
//
// Resize may return ok == false without mutating buf, in which case the
// caller must treat the buffer as immovable at its current length (this is
// how the zero-copy sentinel communicates "cannot grow").
type Allocator interface {
	// Allocate returns a fresh zeroed block of the given size.
	Allocate(size int) []byte

	// Resize grows or shrinks buf to a new length, preserving its contents
	// up to min(len(buf), size). It may relocate the backing array. On
	// failure it returns (nil, false) and leaves buf untouched.
	Resize(buf []byte, size int) ([]byte, bool)

	// Free releases buf. It is always safe to do nothing here; Go's GC
	// reclaims unreferenced slices on its own. Allocators that pool memory
	// (such as [Arena]) use this as a hint.
	Free(buf []byte)
}

// heap is the default allocator: every operation defers straight to Go's
// allocator and garbage collector.
type heap struct{}

// Default is the allocator used when no explicit allocator is supplied.
var Default Allocator = heap{}

func (heap) Allocate(size int) []byte {
	return make([]byte, size)
}

func (heap) Resize(buf []byte, size int) ([]byte, bool) {
	if size <= cap(buf) {
		out := buf[:size]
		for i := len(buf); i < size; i++ {
			out[i] = 0
		}
		return out, true
	}
	out := make([]byte, size)
	copy(out, buf)
	return out, true
}

func (heap) Free([]byte) {}

// zeroCopy is the sentinel allocator. It is recognized by its unexported
// type: no other package can name zeroCopy, so a caller's own
// identical-looking zero-size struct never passes for the sentinel. Any
// growth attempt through it fails.
type zeroCopy struct{}

// ZeroCopy is the distinguished zero-copy allocator sentinel. A [Buffer] or
// [Journal] constructed with it borrows caller-owned bytes and can never
// change length; see [IsZeroCopy].
var ZeroCopy Allocator = zeroCopy{}

func (zeroCopy) Allocate(size int) []byte {
	if size == 0 {
		return nil
	}
	panic("protobluff: zero-copy allocator cannot allocate fresh memory")
}

func (zeroCopy) Resize(buf []byte, size int) ([]byte, bool) {
	if size == len(buf) {
		return buf, true
	}
	return nil, false
}

func (zeroCopy) Free([]byte) {}

// IsZeroCopy reports whether a is the zero-copy sentinel, by a type
// assertion against the unexported zeroCopy type. This stands in for the C
// library's pointer-identity comparison of two module-level allocator
// singletons.
func IsZeroCopy(a Allocator) bool {
	_, ok := a.(zeroCopy)
	return ok
}
