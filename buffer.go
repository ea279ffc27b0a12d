// Copyright 2025 Buf Technologies, Inc.
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

package protobluff

import "github.com/squidfunk/protobluff-go/internal/alloc"

// Buffer is an owning byte vector backed by a replaceable [alloc.Allocator]
// (spec §4.3, component 4). [Journal] is the only thing that ever touches
// a Buffer directly; every other component goes through a [Part].
type Buffer struct {
	allocator alloc.Allocator
	data      []byte
	// valid is false for a zero-value Buffer returned after a failed
	// allocating constructor, and after Destroy; Write and Clear on it fail
	// with [Invalid].
	valid bool
}

// NewBuffer copies data into a freshly allocated buffer using the default
// allocator.
func NewBuffer(data []byte) Buffer { return NewBufferWith(alloc.Default, data) }

// NewBufferWith copies data into a freshly allocated buffer using a.
func NewBufferWith(a alloc.Allocator, data []byte) Buffer {
	if len(data) == 0 {
		return NewEmptyBufferWith(a)
	}
	block := a.Allocate(len(data))
	if block == nil {
		return Buffer{}
	}
	copy(block, data)
	return Buffer{allocator: a, data: block, valid: true}
}

// NewEmptyBuffer creates a zero-length buffer using the default allocator.
func NewEmptyBuffer() Buffer { return NewEmptyBufferWith(alloc.Default) }

// NewEmptyBufferWith creates a zero-length buffer using a.
func NewEmptyBufferWith(a alloc.Allocator) Buffer {
	return Buffer{allocator: a, valid: true}
}

// NewZeroCopyBuffer creates a buffer that aliases data directly instead of
// copying it; see [alloc.ZeroCopy]. The caller must not mutate data outside
// of operations performed through this Buffer for the lifetime of its use.
func NewZeroCopyBuffer(data []byte) Buffer {
	return Buffer{allocator: alloc.ZeroCopy, data: data, valid: true}
}

// Valid reports whether the buffer is usable; false following a failed
// allocating constructor or a call to Destroy.
func (b *Buffer) Valid() bool { return b.valid }

// Size returns the buffer's current length in bytes.
func (b *Buffer) Size() int { return len(b.data) }

// Data returns the buffer's current contents. The returned slice aliases
// the buffer's storage and is invalidated by the next mutating call.
func (b *Buffer) Data() []byte { return b.data }

// Write replaces the byte range [start:end) with bytes, growing or
// shrinking the buffer by len(bytes)-(end-start) and shifting every byte
// after end accordingly. Returns [Alloc] if the allocator cannot satisfy a
// growth request (including any resize through a zero-copy buffer whose
// length would change).
func (b *Buffer) Write(start, end int, bytes []byte) Code {
	if !b.valid || start < 0 || start > end || end > len(b.data) {
		return Invalid
	}
	oldLen := end - start
	delta := len(bytes) - oldLen
	if delta == 0 {
		copy(b.data[start:end], bytes)
		return None
	}

	newSize := len(b.data) + delta
	if delta > 0 {
		grown, ok := b.allocator.Resize(b.data, newSize)
		if !ok {
			return Alloc
		}
		// Shift the tail right to make room, then overwrite [start:start+len(bytes)).
		copy(grown[start+len(bytes):], grown[end:len(b.data)])
		copy(grown[start:start+len(bytes)], bytes)
		b.data = grown
		return None
	}

	// Shrinking: shift the tail left before resizing down, since Resize may
	// relocate and only preserves min(len(buf), size) bytes from the front.
	copy(b.data[start+len(bytes):newSize], b.data[end:len(b.data)])
	copy(b.data[start:start+len(bytes)], bytes)
	shrunk, ok := b.allocator.Resize(b.data, newSize)
	if !ok {
		return Alloc
	}
	b.data = shrunk
	return None
}

// Clear removes the byte range [start:end), shrinking the buffer by
// end-start and shifting the tail left. Equivalent to Write(start, end,
// nil).
func (b *Buffer) Clear(start, end int) Code {
	return b.Write(start, end, nil)
}

// Destroy releases the buffer's storage back to its allocator. The buffer
// must not be used afterward.
func (b *Buffer) Destroy() {
	if b.valid {
		b.allocator.Free(b.data)
		b.data = nil
		b.valid = false
	}
}
