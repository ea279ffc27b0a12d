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

	"github.com/squidfunk/protobluff-go/descriptor"
	"github.com/squidfunk/protobluff-go/internal/dbg"
	"github.com/squidfunk/protobluff-go/wire"
)

// cursorState is the state machine spec §4.8 describes: Invalid, Before
// (rewound, no current element), At(pos) (sitting on a matched element),
// and After (ran off the end).
type cursorState int

const (
	cursorInvalid cursorState = iota
	cursorBefore
	cursorAt
	cursorAfter
)

func (s cursorState) String() string {
	switch s {
	case cursorInvalid:
		return "Invalid"
	case cursorBefore:
		return "Before"
	case cursorAt:
		return "At"
	case cursorAfter:
		return "After"
	default:
		return fmt.Sprintf("cursorState(%d)", int(s))
	}
}

// Cursor walks the occurrences of a field — or, with tag == 0, every
// field — in a message forward, optionally filtered by tag, with support
// for packed repeated scalars (spec §4.8, component 9).
//
// Cursor does not keep a parsed list of positions; every Next re-scans
// forward from where it left off, matching the no-intermediate-state
// model the rest of this package follows.
type Cursor struct {
	message Message
	tag     uint32
	state   cursorState
	err     Code

	pos int // absolute offset to resume scanning from when not inside a packed run

	current    occurrence
	currentFD  *descriptor.FieldDescriptor
	packedAt   bool // true while current sits inside a packed run
	packedPos  int  // absolute offset of the next unread element in the run
	packedFrom int  // absolute start of the whole packed run's payload
	packedTo   int  // absolute end of the whole packed run's payload
}

// NewCursor creates a cursor over msg's fields matching tag (0 for every
// field), positioned Before the first element.
func NewCursor(msg Message, tag uint32) Cursor {
	if code := msg.part.Error(); code != None {
		return Cursor{message: msg, tag: tag, state: cursorInvalid, err: code}
	}
	return Cursor{message: msg, tag: tag, state: cursorBefore, pos: msg.part.Start()}
}

// NewCursorNested creates (or retrieves) the nested messages named by
// tags[:len(tags)-1] and returns a cursor over tags[len(tags)-1] in the
// last one (spec "pb_cursor_create_nested").
func NewCursorNested(msg Message, tags ...uint32) (Cursor, *Error) {
	if len(tags) == 0 {
		return Cursor{}, newError(Invalid, 0, msg.part.Start())
	}
	cur := msg
	for _, t := range tags[:len(tags)-1] {
		next, err := cur.CreateWithin(t)
		if err != nil {
			return Cursor{}, err
		}
		cur = next
	}
	return NewCursor(cur, tags[len(tags)-1]), nil
}

// Valid reports whether the cursor is free of error.
func (c *Cursor) Valid() bool { return c.state != cursorInvalid }

// Error reports the cursor's current error state.
func (c *Cursor) Error() Code { return c.err }

// Descriptor returns the field descriptor of the current element.
func (c *Cursor) Descriptor() *descriptor.FieldDescriptor { return c.currentFD }

// Format implements [fmt.Formatter] for %v, printing the cursor's filter
// tag, state machine position, and (while inside a packed run) its
// position within that run — diagnostic only, matching the rest of this
// package's dbg.Dict-based Format methods.
func (c *Cursor) Format(s fmt.State, verb rune) {
	var fieldTag uint32
	if c.currentFD != nil {
		fieldTag = c.currentFD.Tag
	}
	dbg.Dict(dbg.Fprintf("cursor@%p", c),
		"tag", c.tag,
		"state", c.state,
		"field", fieldTag,
		"pos", c.pos,
		"packed", c.packedAt,
	).Format(s, verb)
}

func readPackedElement(data []byte, pos int, t descriptor.Type) (end int, code Code) {
	switch t.WireType() {
	case descriptor.WireVarint:
		_, n, err := wire.ReadVarint(data[pos:])
		if err != nil {
			return pos, wireError(err)
		}
		return pos + n, None
	case descriptor.Wire32Bit:
		return pos + 4, None
	case descriptor.Wire64Bit:
		return pos + 8, None
	default:
		return pos, Wiretype
	}
}

// Next advances to the next matching element, returning false and
// transitioning to After once none remain.
func (c *Cursor) Next() bool {
	if c.state == cursorInvalid {
		return false
	}
	data := c.message.part.journal.Data()
	limit := c.message.part.End()
	for {
		if c.packedAt && c.packedPos < c.packedTo {
			end, code := readPackedElement(data, c.packedPos, c.currentFD.Type)
			if code != None {
				c.err, c.state = code, cursorInvalid
				return false
			}
			c.current = occurrence{
				tag: c.currentFD.Tag, wireType: c.currentFD.Type.WireType(),
				tagOffset: c.current.tagOffset, lengthOffset: c.current.lengthOffset,
				start: c.packedPos, end: end,
			}
			c.packedPos = end
			c.state = cursorAt
			return true
		}
		c.packedAt = false

		if c.pos >= limit {
			c.state = cursorAfter
			return false
		}
		occ, next, code := scanOne(data, c.pos, limit)
		if code != None {
			c.err, c.state = code, cursorInvalid
			return false
		}
		c.pos = next
		if c.tag != 0 && occ.tag != c.tag {
			continue
		}
		fd := c.message.descriptor.FieldByTag(occ.tag)
		if fd == nil {
			continue
		}
		if fd.Packed() && occ.wireType == descriptor.WireLength && !fd.Type.IsLengthDelimited() {
			c.currentFD = fd
			c.current = occ
			c.packedAt, c.packedPos, c.packedFrom, c.packedTo = true, occ.start, occ.start, occ.end
			continue
		}
		c.currentFD = fd
		c.current = occ
		c.state = cursorAt
		return true
	}
}

// Rewind resets the cursor to Before, ready to scan from the start again.
func (c *Cursor) Rewind() bool {
	if c.state == cursorInvalid {
		return false
	}
	c.pos = c.message.part.Start()
	c.packedAt = false
	c.state = cursorBefore
	return true
}

// Last advances to the final matching element.
func (c *Cursor) Last() bool {
	if !c.Rewind() {
		return false
	}
	found := false
	for c.Next() {
		found = true
	}
	if found {
		c.state = cursorAt
	}
	return found
}

func (c *Cursor) valueBytes() []byte {
	return c.message.part.journal.Data()[c.current.start:c.current.end]
}

// Match scans forward from the current position until an element equal to
// value is found, halting there, or reaches After.
func (c *Cursor) Match(value any) bool {
	for c.Next() {
		got, code := decodeScalar(c.currentFD.Type, c.valueBytes())
		if code == None && scalarEqual(got, value) {
			return true
		}
	}
	return false
}

// Seek rewinds and then scans for value, equivalent to Rewind followed by
// Match.
func (c *Cursor) Seek(value any) bool {
	if !c.Rewind() {
		return false
	}
	return c.Match(value)
}

// Get decodes the current element's value.
func (c *Cursor) Get() (any, *Error) {
	if c.state != cursorAt {
		return nil, newError(Absent, 0, c.pos)
	}
	v, code := decodeScalar(c.currentFD.Type, c.valueBytes())
	if code != None {
		return nil, newError(code, c.current.tag, c.current.start)
	}
	return v, nil
}

// Put overwrites the current element's value in place.
func (c *Cursor) Put(value any) *Error {
	if c.state != cursorAt {
		return newError(Invalid, 0, c.pos)
	}
	raw, code := encodeScalar(c.currentFD.Type, value)
	if code != None {
		return newError(code, c.current.tag, c.current.start)
	}
	if c.packedAt {
		return c.putPackedElement(raw)
	}
	delta := len(raw) - (c.current.end - c.current.start)
	fieldPart := childPart(&c.message.part, c.current.tagOffset, c.current.lengthOffset, c.current.start, c.current.end)
	if code := fieldPart.write(raw); code != None {
		return newError(code, c.current.tag, c.current.start)
	}
	c.current.end += delta
	c.pos += delta
	return nil
}

// putPackedElement overwrites one element of a packed repeated run. Unlike
// a standalone field, the run's length prefix (at lengthOffset) covers
// every element in the run, not just this one, so this cannot go through
// the generic [Part.write]/[Part.propagate] cascade the way a standalone
// scalar field's Put does: building a childPart spanning just
// [current.start, current.end) with lengthDiff pointing at the run's
// length prefix would make propagate mistake the element's own new size
// for the whole run's size and clobber the length byte and every
// preceding element with it. Instead this writes the replacement bytes
// directly into the element's absolute sub-range and then grows or shrinks
// the run's own Part by the same delta, the same sub-range pattern
// erasePackedElement already uses for packed erase.
func (c *Cursor) putPackedElement(raw []byte) *Error {
	elemStart, elemEnd := c.current.start, c.current.end
	delta := len(raw) - (elemEnd - elemStart)
	runPart := childPart(&c.message.part, c.current.tagOffset, c.current.lengthOffset, c.packedFrom, c.packedTo)
	if code := runPart.journal.write(runPart.origin(), elemStart, elemEnd, raw); code != None {
		return newError(code, c.current.tag, elemStart)
	}
	if delta != 0 {
		runPart.offset.end += delta
		runPart.version = runPart.journal.Version()
		if code := runPart.propagate(delta); code != None {
			return newError(code, c.current.tag, elemStart)
		}
	}
	c.current.end += delta
	c.packedTo += delta
	c.packedPos += delta
	c.pos += delta
	return nil
}

// Erase removes the current element and advances to whatever now matches
// next, or to After (spec §4.8 "erased current element advances to next
// match or After").
func (c *Cursor) Erase() *Error {
	if c.state != cursorAt {
		return newError(Invalid, 0, c.pos)
	}
	if c.packedAt {
		if err := c.erasePackedElement(); err != nil {
			return err
		}
	} else if err := c.eraseField(); err != nil {
		return err
	}
	c.state = cursorAt
	c.Next()
	return nil
}

func (c *Cursor) eraseField() *Error {
	fieldPart := childPart(&c.message.part, c.current.tagOffset, c.current.lengthOffset, c.current.start, c.current.end)
	shrink := c.current.end - c.current.tagOffset
	if code := fieldPart.erase(); code != None {
		return newError(code, c.current.tag, c.current.tagOffset)
	}
	c.pos -= shrink
	return nil
}

func (c *Cursor) erasePackedElement() *Error {
	elemStart, elemEnd := c.current.start, c.current.end
	runPart := childPart(&c.message.part, c.current.tagOffset, c.current.lengthOffset, c.packedFrom, c.packedTo)
	if code := runPart.journal.write(runPart.origin(), elemStart, elemEnd, nil); code != None {
		return newError(code, c.current.tag, elemStart)
	}
	shrink := elemEnd - elemStart
	runPart.offset.end -= shrink
	runPart.version = runPart.journal.Version()
	if code := runPart.propagate(-shrink); code != None {
		return newError(code, c.current.tag, elemStart)
	}
	c.packedTo -= shrink
	c.packedPos = elemStart
	c.pos -= shrink
	if c.packedPos >= c.packedTo {
		c.packedAt = false
	}
	return nil
}
