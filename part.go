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
	"github.com/squidfunk/protobluff-go/wire"
)

// offsetTriple is the three-offset window spec §4.5/§6 calls pb_offset_t:
// an absolute [start, end) payload range plus three signed offsets,
// relative to start, locating this frame's origin, tag byte, and length
// prefix. A top-level message's part has all three diffs at zero — it has
// no framing of its own.
//
// A length-delimited field's layout satisfies tagDiff < lengthDiff < 0 <=
// start <= end: the tag byte comes first, then the length prefix, then the
// payload. A scalar (non-length-delimited) field has a tag but no length
// prefix: tagDiff != 0, lengthDiff == 0.
type offsetTriple struct {
	start, end                      int
	originDiff, tagDiff, lengthDiff int
}

// invalidOffset is the canonical invalid value: start == end and a nil tag
// diff (spec §4.5 "Part... canonical invalid value").
var invalidOffset = offsetTriple{}

func (o offsetTriple) tagOffset() int    { return o.start + o.tagDiff }
func (o offsetTriple) lengthOffset() int { return o.start + o.lengthDiff }
func (o offsetTriple) originOffset() int { return o.start + o.originDiff }
func (o offsetTriple) size() int         { return o.end - o.start }
func (o offsetTriple) isValid() bool     { return o.start != o.end || o.tagDiff != 0 }

// Format implements [fmt.Formatter] for %v, rendering the triple as its
// absolute payload range plus the three framing diffs — diagnostic only.
func (o offsetTriple) Format(s fmt.State, verb rune) {
	dbg.Fprintf("%d:%d origin=%d tag=%d length=%d",
		o.start, o.end, o.originDiff, o.tagDiff, o.lengthDiff).Format(s, verb)
}

// Part is a lightweight, versioned window into a [Journal]'s buffer (spec
// §4.5, component 6). It holds no bytes of its own; instead it self-heals
// against its journal's replay log before every read or write, so that a
// part created once and held across many operations never has to be
// recreated just because something earlier in the buffer moved.
//
// Part is a weak, non-owning handle, matching spec §9's design note: no
// reference counting, just a version stamp checked (and repaired) on
// access. enclosing is the part of the message this part's frame is
// nested within, used only to cascade a length-prefix rewrite upward; it
// is nil for a top-level message part.
type Part struct {
	journal   *Journal
	version   int
	offset    offsetTriple
	enclosing *Part
	err       Code
}

// rootPart returns the part spanning a journal's entire buffer: the
// top-level message's own part, with no framing of its own.
func rootPart(j *Journal) Part {
	return Part{journal: j, version: j.Version(), offset: offsetTriple{start: 0, end: j.Size()}}
}

// childPart builds a field's part nested within parent, given the absolute
// offsets of its tag byte, its length prefix (0 if it has none — scalar
// fields aren't length-delimited), and its payload range.
func childPart(parent *Part, tagOff, lengthOff, start, end int) Part {
	lengthDiff := 0
	if lengthOff != 0 {
		lengthDiff = lengthOff - start
	}
	return Part{
		journal: parent.journal,
		version: parent.journal.Version(),
		offset: offsetTriple{
			start: start, end: end,
			originDiff: parent.offset.start - start,
			tagDiff:    tagOff - start,
			lengthDiff: lengthDiff,
		},
		enclosing: parent,
	}
}

// Format implements [fmt.Formatter] for %v, printing the part's current
// offset triple, journal version, and sticky error if any — diagnostic
// only, matching the teacher's dbg.Dict-based Format methods.
func (p *Part) Format(s fmt.State, verb rune) {
	dbg.Dict(dbg.Fprintf("part@%p", p),
		"offset", p.offset,
		"version", p.version,
		"err", p.err,
	).Format(s, verb)
}

// Valid reports whether the part is free of any (including sticky) error.
func (p *Part) Valid() bool { return p.Error() == None }

// Error reports the part's current error state, re-aligning first.
func (p *Part) Error() Code {
	if p.err != None {
		return p.err
	}
	if p.journal == nil || !p.journal.Valid() {
		return Invalid
	}
	p.align()
	return p.err
}

// align re-aligns the part's offset against its journal's current version,
// sticking [Offset] permanently if its frame was erased out from under it
// (spec §4.5 "self-heals via journal.align before every read/write").
func (p *Part) align() {
	if p.err != None || p.journal == nil {
		return
	}
	if p.version == p.journal.Version() {
		return
	}
	next, version, code := p.journal.align(p.version, p.offset)
	p.offset, p.version = next, version
	if code != None {
		p.err = code
	}
}

// Size returns the part's current payload size in bytes, after aligning.
func (p *Part) Size() int {
	p.align()
	return p.offset.size()
}

// Start returns the part's current absolute payload start, after aligning.
func (p *Part) Start() int {
	p.align()
	return p.offset.start
}

// End returns the part's current absolute payload end, after aligning.
func (p *Part) End() int {
	p.align()
	return p.offset.end
}

// bytes returns the part's current payload, aliasing the journal's buffer.
func (p *Part) bytes() []byte {
	p.align()
	if p.err != None {
		return nil
	}
	return p.journal.Data()[p.offset.start:p.offset.end]
}

// origin is this part's own tag offset, the identity journal entries are
// matched against to detect that this exact frame was erased (0 for a
// top-level message part, which has no framing of its own).
func (p *Part) origin() int {
	if p.offset.tagDiff == 0 {
		return 0
	}
	return p.offset.tagOffset()
}

// write replaces the part's entire payload with data and cascades any
// resulting length change up through its enclosing chain (spec §4.5
// "create/write/clear/erase").
func (p *Part) write(data []byte) Code {
	p.align()
	if p.err != None {
		return p.err
	}
	delta := len(data) - p.offset.size()
	if code := p.journal.write(p.origin(), p.offset.start, p.offset.end, data); code != None {
		return code
	}
	p.offset.end += delta
	p.version = p.journal.Version()
	if delta != 0 {
		return p.propagate(delta)
	}
	return None
}

// clear empties the part's payload in place, leaving its own frame (tag,
// length prefix) intact.
func (p *Part) clear() Code { return p.write(nil) }

// propagate is called on a part whose payload just grew or shrank by
// delta, bytes that live nested one level further in. If this part owns a
// length prefix, it is rewritten to the part's new size, and any resulting
// change in the prefix's own width is added to delta before both are
// carried up to the enclosing part. Widening a deeply nested field's
// varint can therefore widen every length prefix between it and the root.
func (p *Part) propagate(delta int) Code {
	if delta == 0 {
		return None
	}
	total := delta
	if p.offset.lengthDiff != 0 {
		oldLen := p.offset.start - p.offset.lengthOffset()
		newBytes := wire.WriteVarint(nil, uint64(p.offset.size()))
		widen := len(newBytes) - oldLen

		if code := p.journal.write(p.origin(), p.offset.lengthOffset(), p.offset.start, newBytes); code != None {
			return code
		}
		p.offset.start += widen
		p.offset.end += widen
		p.version = p.journal.Version()
		total += widen
	}
	if p.enclosing == nil || total == 0 {
		return None
	}
	p.enclosing.offset.end += total
	p.enclosing.version = p.journal.Version()
	return p.enclosing.propagate(total)
}

// erase removes the part's entire frame — tag, length prefix if any, and
// payload — and cascades the resulting shrinkage upward. The part is left
// permanently invalid ([Offset]) afterward, matching spec §4.4's
// applicability rule clause (c): a handle whose origin was erased.
func (p *Part) erase() Code {
	p.align()
	if p.err != None {
		return p.err
	}
	from := p.offset.start
	if p.offset.tagDiff != 0 {
		from = p.offset.tagOffset()
	}
	delta := -(p.offset.end - from)
	if code := p.journal.clear(from, from, p.offset.end, true); code != None {
		return code
	}
	p.offset.start, p.offset.end = from, from
	p.version = p.journal.Version()
	p.err = Offset
	if p.enclosing != nil {
		p.enclosing.offset.end += delta
		p.enclosing.version = p.journal.Version()
		return p.enclosing.propagate(delta)
	}
	return None
}
