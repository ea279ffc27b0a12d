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
	"github.com/squidfunk/protobluff-go/descriptor"
	"github.com/squidfunk/protobluff-go/wire"
)

// occurrence is one tag+value pair found while scanning a message's byte
// range: the absolute offsets of its tag, its length prefix (0 if it has
// none), and its value payload. [Message] and [Cursor] both build on this;
// neither a pre-built index nor a parsed tree is kept anywhere, matching
// spec §1's in-place, no-intermediate-representation model.
type occurrence struct {
	tag          uint32
	wireType     descriptor.WireType
	tagOffset    int
	lengthOffset int
	start, end   int
}

func (o occurrence) hasLengthPrefix() bool { return o.wireType == descriptor.WireLength }

// scanOne parses a single tag+value pair starting at pos, which must be <
// limit. next is the absolute offset immediately following the value.
func scanOne(data []byte, pos, limit int) (occ occurrence, next int, code Code) {
	tag, wt, n, err := wire.ReadTag(data[pos:limit])
	if err != nil {
		return occurrence{}, pos, wireError(err)
	}
	tagOffset := pos
	valStart := pos + n

	var lengthOffset, start, end int
	switch wt {
	case descriptor.WireVarint:
		_, vn, err := wire.ReadVarint(data[valStart:limit])
		if err != nil {
			return occurrence{}, pos, wireError(err)
		}
		start, end = valStart, valStart+vn

	case descriptor.Wire32Bit:
		start, end = valStart, valStart+4

	case descriptor.Wire64Bit:
		start, end = valStart, valStart+8

	case descriptor.WireLength:
		length, ln, err := wire.ReadVarint(data[valStart:limit])
		if err != nil {
			return occurrence{}, pos, wireError(err)
		}
		lengthOffset = valStart
		start = valStart + ln
		end = start + int(length)

	default:
		return occurrence{}, pos, Wiretype
	}
	if end > limit {
		return occurrence{}, pos, Varint
	}
	return occurrence{
		tag: tag, wireType: wt,
		tagOffset: tagOffset, lengthOffset: lengthOffset,
		start: start, end: end,
	}, end, None
}

// findField returns the first occurrence of tag within [base, limit), or
// ok == false if absent. tag == 0 matches any field, used by [Cursor] when
// it isn't filtering.
func findField(data []byte, base, limit int, tag uint32) (occ occurrence, ok bool, code Code) {
	pos := base
	for pos < limit {
		o, next, code := scanOne(data, pos, limit)
		if code != None {
			return occurrence{}, false, code
		}
		if tag == 0 || o.tag == tag {
			return o, true, None
		}
		pos = next
	}
	return occurrence{}, false, None
}
