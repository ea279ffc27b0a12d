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

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squidfunk/protobluff-go/internal/alloc"
	"github.com/squidfunk/protobluff-go/internal/fixtures"
)

func TestJournalVersionAdvancesOnSizeChange(t *testing.T) {
	j := NewJournal([]byte{1, 2, 3, 4, 5})
	require.Equal(t, 0, j.Version())
	require.Equal(t, None, j.write(0, 1, 2, []byte{9, 9}))
	require.Equal(t, 1, j.Version())
	// Same-width write doesn't grow the log.
	require.Equal(t, None, j.write(0, 1, 2, []byte{8}))
	require.Equal(t, 1, j.Version())
}

func TestJournalAlignShiftsWindowBeforeStart(t *testing.T) {
	j := NewJournal([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	window := offsetTriple{start: 4, end: 6}
	require.Equal(t, None, j.write(0, 1, 2, []byte{9, 9, 9})) // +2 bytes at offset 1, before window.start
	aligned, version, code := j.align(0, window)
	require.Equal(t, None, code)
	require.Equal(t, 1, version)
	require.Equal(t, 6, aligned.start)
	require.Equal(t, 8, aligned.end)
}

func TestJournalAlignGrowsWindowContainingEntry(t *testing.T) {
	j := NewJournal([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	window := offsetTriple{start: 2, end: 6}
	require.Equal(t, None, j.write(0, 3, 4, []byte{9, 9, 9})) // +2 inside window
	aligned, _, code := j.align(0, window)
	require.Equal(t, None, code)
	require.Equal(t, 2, aligned.start)
	require.Equal(t, 8, aligned.end)
}

func TestJournalAlignIgnoresEntryAfterEnd(t *testing.T) {
	j := NewJournal([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	window := offsetTriple{start: 2, end: 4}
	require.Equal(t, None, j.write(0, 6, 7, []byte{9, 9, 9}))
	aligned, _, code := j.align(0, window)
	require.Equal(t, None, code)
	require.Equal(t, window, aligned)
}

func TestJournalAlignEraseMarksOffsetError(t *testing.T) {
	j := NewJournal([]byte{1, 2, 3, 4, 5, 6})
	window := offsetTriple{start: 2, end: 4, tagDiff: 0}
	require.Equal(t, None, j.clear(2, 2, 4, true))
	_, _, code := j.align(0, window)
	require.Equal(t, Offset, code)
}

func TestJournalDestroyInvalidatesBuffer(t *testing.T) {
	j := NewJournal([]byte{1, 2, 3})
	j.Destroy()
	require.False(t, j.Valid())
	require.Equal(t, Alloc, j.Error())
}

// TestJournalWithArenaAllocatorBuildsMessage builds a Person's name, id, and
// email from an empty journal configured with the
// bump-pointer [alloc.Arena] instead of the default heap allocator,
// exercising spec §4.1's replaceable-allocator trait end to end: every
// growth the message's Put calls trigger goes through the arena's
// Allocate/Resize, not Go's allocator directly.
func TestJournalWithArenaAllocatorBuildsMessage(t *testing.T) {
	arena := alloc.NewArena(8) // deliberately small, so the build forces several regrowths
	j := NewEmptyJournalWith(WithAllocator(arena), WithCapacityHint(4))
	m := NewMessage(fixtures.PersonDescriptor, j)

	require.Nil(t, m.Put(uint32(1), "Jane Doe"))
	require.Nil(t, m.Put(uint32(2), int32(42)))
	require.Nil(t, m.Put(uint32(3), "jane@example.com"))

	name, err := m.Get(1)
	require.Nil(t, err)
	require.Equal(t, "Jane Doe", name)
	id, err := m.Get(2)
	require.Nil(t, err)
	require.Equal(t, int32(42), id)
	email, err := m.Get(3)
	require.Nil(t, err)
	require.Equal(t, "jane@example.com", email)
}
