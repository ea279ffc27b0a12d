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

package alloc

// Arena is a bump-pointer allocator that amortizes many small journal
// growths into a handful of real calls into Go's allocator.
//
// This is adapted from the teacher's internal/arena package, which backs an
// arena with raw pointer arithmetic over untyped memory so that
// pointer-free values can be placed on it directly. That shape doesn't fit
// here: spec.md's [Allocator] trait hands out and resizes plain byte
// slices, not typed values, so this Arena is just a pool of []byte blocks
// bump-allocated from, with the same doubling-growth policy and the same
// "Free resets, doesn't release" semantics as the original.
type Arena struct {
	block   []byte
	off     int
	minSize int
}

// NewArena creates an Arena whose first block is at least minSize bytes.
// A minSize of 0 uses a small default.
func NewArena(minSize int) *Arena {
	if minSize <= 0 {
		minSize = 256
	}
	return &Arena{minSize: minSize}
}

// Allocate returns a zeroed size-byte slice carved out of the arena's
// current block, growing the block (by doubling, at minimum) if there is
// not enough room left.
func (a *Arena) Allocate(size int) []byte {
	if a.off+size > len(a.block) {
		a.grow(size)
	}
	out := a.block[a.off : a.off+size : a.off+size]
	clear(out) // a block reused after Free still holds earlier bytes
	a.off += size
	return out
}

// Resize grows or shrinks buf, which must be the most recently allocated
// block. Growing in place succeeds when buf is still the arena's tail;
// otherwise it falls back to a fresh Allocate + copy, matching the
// teacher's Arena.realloc fast/slow paths.
func (a *Arena) Resize(buf []byte, size int) ([]byte, bool) {
	tailStart := a.off - len(buf)
	isTail := len(buf) > 0 && tailStart >= 0 &&
		tailStart < len(a.block) && &a.block[tailStart] == &buf[0]

	if isTail {
		if tailStart+size <= len(a.block) {
			a.off = tailStart + size
			return a.block[tailStart : tailStart+size : tailStart+size], true
		}
	}

	out := a.Allocate(size)
	copy(out, buf)
	return out, true
}

// Free resets the arena so its memory can be reused by the next round of
// allocations. Like the teacher's Arena.Free, any slice previously handed
// out must not be referenced again afterwards.
func (a *Arena) Free([]byte) {
	a.off = 0
}

// Reset discards all blocks outright, including the reusable one Free()
// keeps around. Rarely needed; provided for symmetry with Free.
func (a *Arena) Reset() {
	a.block = nil
	a.off = 0
}

func (a *Arena) grow(need int) {
	size := max(a.minSize, need)
	if cur := len(a.block); cur > 0 {
		size = max(size, cur*2)
	}
	a.block = make([]byte, size)
	a.off = 0
}
