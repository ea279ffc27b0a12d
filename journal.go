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
	"github.com/squidfunk/protobluff-go/internal/alloc"
	"github.com/squidfunk/protobluff-go/internal/dbg"
)

// Journal owns a [Buffer] plus the append-only log of length deltas every
// write or clear through it produces (spec §4.4, component 5). A journal's
// version is simply the number of entries recorded so far; a [Part] stamped
// with an older version re-aligns against the entries recorded since, via
// [Journal.align].
type Journal struct {
	buffer  Buffer
	entries []journalEntry
}

// NewJournal builds a journal over a copy of data using the default
// allocator.
func NewJournal(data []byte) *Journal { return NewJournalWith(data) }

// NewJournalWith builds a journal over data using the given options.
func NewJournalWith(data []byte, opts ...JournalOption) *Journal {
	cfg := defaultJournalConfig()
	for _, o := range opts {
		o.apply(&cfg)
	}
	if alloc.IsZeroCopy(cfg.allocator) {
		return newJournal(NewZeroCopyBuffer(data), cfg)
	}
	return newJournal(NewBufferWith(cfg.allocator, data), cfg)
}

// NewEmptyJournal creates a journal with no data, ready to be built up field
// by field (spec §8 Scenario C).
func NewEmptyJournal() *Journal { return NewEmptyJournalWith() }

// NewEmptyJournalWith creates an empty journal using the given options.
func NewEmptyJournalWith(opts ...JournalOption) *Journal {
	cfg := defaultJournalConfig()
	for _, o := range opts {
		o.apply(&cfg)
	}
	return newJournal(NewEmptyBufferWith(cfg.allocator), cfg)
}

// NewZeroCopyJournal creates a journal that aliases data directly (spec
// §4.1 zero-copy allocator sentinel): any mutation that would change the
// buffer's length fails with [Alloc], but in-place same-width writes
// succeed without copying.
func NewZeroCopyJournal(data []byte) *Journal {
	return newJournal(NewZeroCopyBuffer(data), journalConfig{allocator: alloc.ZeroCopy})
}

func newJournal(buf Buffer, cfg journalConfig) *Journal {
	if cfg.capacityHint > buf.Size() && !alloc.IsZeroCopy(cfg.allocator) {
		if grown, ok := cfg.allocator.Resize(buf.data, cfg.capacityHint); ok {
			buf.data = grown[:buf.Size()]
		}
	}
	return &Journal{buffer: buf}
}

// Version returns the number of entries recorded so far; a fresh journal
// starts at version 0.
func (j *Journal) Version() int { return len(j.entries) }

// Size returns the current length of the journal's buffer in bytes.
func (j *Journal) Size() int { return j.buffer.Size() }

// Data returns the journal's current raw bytes. The returned slice aliases
// the journal's storage and is invalidated by the next mutation.
func (j *Journal) Data() []byte { return j.buffer.Data() }

// Valid reports whether the underlying buffer is usable.
func (j *Journal) Valid() bool { return j.buffer.Valid() }

// Destroy releases the journal's buffer.
func (j *Journal) Destroy() { j.buffer.Destroy() }

// write replaces [start:end) with data, appending a journalEntry if the
// byte count changes. origin is the absolute tag offset of the frame this
// write belongs to (0 for edits to the top-level message body).
func (j *Journal) write(origin, start, end int, data []byte) Code {
	delta := len(data) - (end - start)
	if code := j.buffer.Write(start, end, data); code != None {
		return code
	}
	if delta != 0 {
		j.entries = append(j.entries, journalEntry{origin: origin, offset: start, delta: delta})
		dbg.Log(nil, "journal.write", "origin=%d start=%d end=%d delta=%d version=%d",
			origin, start, end, delta, j.Version())
	}
	return None
}

// clear removes [start:end) entirely. If erase is set, the removed span is
// an entire field frame (tag, length prefix, payload): any [Part] whose own
// tag offset matches origin becomes permanently invalid with [Offset].
func (j *Journal) clear(origin, start, end int, erase bool) Code {
	delta := -(end - start)
	if delta == 0 {
		return None
	}
	if code := j.buffer.Clear(start, end); code != None {
		return code
	}
	j.entries = append(j.entries, journalEntry{origin: origin, offset: start, delta: delta, erase: erase})
	dbg.Log(nil, "journal.clear", "origin=%d start=%d end=%d erase=%v version=%d",
		origin, start, end, erase, j.Version())
	return None
}

// revertLast drops the most recently appended entry without rolling back
// the buffer mutation it describes. Used internally to undo a failed
// length-prefix cascade (spec §4.4 Design Notes): once the cascade fails
// partway up the tree, the buffer is left as-is (the caller reports
// [Varint] and the journal is no longer relied upon for that operation),
// but the entry log must not retain a dangling record a later align could
// misinterpret. Not part of the public API.
func (j *Journal) revertLast() {
	if n := len(j.entries); n > 0 {
		j.entries = j.entries[:n-1]
	}
}

// align replays every entry recorded since version against offset,
// returning the up-to-date offset and the journal's current version.
//
// The applicability test here is a deliberate simplification of spec
// §4.4's three-clause rule, justified in DESIGN.md: since every entry's
// offset is an absolute buffer position and a part's [start, end) is
// always either fully before, fully after, or properly nesting any entry
// recorded against a structurally related frame, two geometric cases
// cover every case the three-clause rule distinguishes:
//
//   - An entry at an offset strictly before this part's start occurred
//     either in an ancestor's framing or in an earlier sibling; either way
//     the whole window translates by delta.
//   - An entry at an offset within [start, end) occurred inside this
//     part's own payload (including a descendant's framing overhead); only
//     end grows or shrinks.
//
// An entry after end never affects this part. An erase entry whose origin
// equals this part's own current tag offset means the part's own frame was
// removed out from under it: the error becomes permanent, since nothing
// can recover which bytes (if any) now occupy that span.
func (j *Journal) align(version int, offset offsetTriple) (offsetTriple, int, Code) {
	cur := offset
	for _, e := range j.entries[version:] {
		if e.erase && e.origin == cur.tagOffset() {
			return cur, j.Version(), Offset
		}
		switch {
		case e.offset < cur.start:
			cur.start += e.delta
			cur.end += e.delta
		case e.offset >= cur.start && e.offset < cur.end:
			cur.end += e.delta
		}
	}
	return cur, j.Version(), None
}

// Error reports any error condition of the journal itself (as opposed to a
// part built on it).
func (j *Journal) Error() Code {
	if !j.Valid() {
		return Alloc
	}
	return None
}
