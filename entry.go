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
	"fmt"

	"github.com/squidfunk/protobluff-go/internal/dbg"
)

// journalEntry is one record of a [Journal]'s append-only replay log (spec
// §4.4, component 5), matching original_source's pb_journal_entry_t
// {origin, offset, delta} shape with one addition: erase records the
// absolute tag offset of a frame that was erased in its entirety, rather
// than merely resized, so that any [Part] anchored on that frame can be
// permanently invalidated with [Offset] instead of silently re-aligning
// onto whatever now occupies that span (original_source ships no journal.c
// to confirm how this distinction is represented on the wire of the
// replay log; recording it explicitly is this module's resolution — see
// DESIGN.md).
type journalEntry struct {
	// origin is the absolute tag offset of the frame this entry mutated:
	// the owning field's own tag byte position, or 0 for edits to the
	// top-level message body, which has no framing of its own.
	origin int
	// offset is the absolute buffer position at which delta bytes were
	// inserted (delta > 0) or removed (delta < 0).
	offset int
	// delta is the signed change in buffer length this entry records.
	delta int
	// erase is set when this entry removed a field's entire frame (tag,
	// length prefix if any, and payload) rather than resizing it in place.
	erase bool
}

// Format implements [fmt.Formatter] for %v, printing the entry's origin,
// offset, delta, and erase flag — diagnostic only, used when tracing a
// journal's replay log by hand.
func (e journalEntry) Format(s fmt.State, verb rune) {
	dbg.Fprintf("origin=%d offset=%d delta=%d erase=%v", e.origin, e.offset, e.delta, e.erase).Format(s, verb)
}
