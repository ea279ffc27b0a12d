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

// Message is a descriptor paired with a [Part] spanning a submessage's
// bytes (spec §4.7, component 8). The top-level message returned by
// [NewMessage] has a part spanning its journal's entire buffer; every
// other message comes from [Message.CreateWithin]/[Message.CreateNested].
type Message struct {
	descriptor *descriptor.MessageDescriptor
	part       Part
}

// NewMessage creates the top-level message view over journal's entire
// buffer (spec "pb_message_create").
func NewMessage(d *descriptor.MessageDescriptor, j *Journal) Message {
	return Message{descriptor: d, part: rootPart(j)}
}

// Descriptor returns the message's static schema.
func (m *Message) Descriptor() *descriptor.MessageDescriptor { return m.descriptor }

// Valid reports whether the message's part is free of error.
func (m *Message) Valid() bool { return m.part.Valid() }

// Error reports the message's current error state.
func (m *Message) Error() Code { return m.part.Error() }

// Raw returns the message's current wire-encoded bytes.
func (m *Message) Raw() []byte { return m.part.bytes() }

func (m *Message) findOccurrence(tag uint32) (occurrence, bool, Code) {
	if code := m.part.Error(); code != None {
		return occurrence{}, false, code
	}
	return findField(m.part.journal.Data(), m.part.Start(), m.part.End(), tag)
}

// Has reports whether tag occurs at least once in the message.
func (m *Message) Has(tag uint32) bool {
	_, ok, code := m.findOccurrence(tag)
	return code == None && ok
}

// field returns the [Field] for tag's first occurrence, creating it (with
// the descriptor's default, or a type's zero value) if absent (spec §4.6
// "create").
func (m *Message) field(tag uint32) (*Field, *Error) {
	fd := m.descriptor.FieldByTag(tag)
	if fd == nil {
		return nil, newError(Descriptor, tag, m.part.Start())
	}
	occ, ok, code := m.findOccurrence(tag)
	if code != None {
		return nil, newError(code, tag, m.part.Start())
	}
	if ok {
		return &Field{descriptor: fd, part: childPart(&m.part, occ.tagOffset, occ.lengthOffset, occ.start, occ.end)}, nil
	}
	return m.createField(fd)
}

// createField appends a fresh occurrence of fd at the end of the message's
// payload, using its descriptor default if one is declared, or the type's
// zero value otherwise.
func (m *Message) createField(fd *descriptor.FieldDescriptor) (*Field, *Error) {
	payload := fd.Default
	if payload == nil {
		payload = zeroValuePayload(fd.Type)
	}
	full := wire.WriteTag(nil, fd.Tag, fd.WireType())
	if fd.Type.IsLengthDelimited() {
		full = wire.WriteLengthDelimited(full, payload)
	} else {
		full = append(full, payload...)
	}

	insertAt := m.part.End()
	if code := m.part.journal.write(m.part.origin(), insertAt, insertAt, full); code != None {
		return nil, newError(code, fd.Tag, insertAt)
	}
	occ, _, code := scanOne(m.part.journal.Data(), insertAt, insertAt+len(full))
	if code != None {
		return nil, newError(code, fd.Tag, insertAt)
	}

	m.part.offset.end += len(full)
	m.part.version = m.part.journal.Version()
	fieldPart := childPart(&m.part, occ.tagOffset, occ.lengthOffset, occ.start, occ.end)

	if code := m.part.propagate(len(full)); code != None {
		return nil, newError(code, fd.Tag, insertAt)
	}
	return &Field{descriptor: fd, part: fieldPart}, nil
}

// zeroValuePayload is the wire-encoded zero value of t, used when a field
// has no declared default (spec §4.6: requesting a default without one is
// [Absent], but creating a fresh field without one gets the type's zero
// value instead, matching pb_field_create_without_default's caller
// contract of supplying its own value immediately afterward).
func zeroValuePayload(t descriptor.Type) []byte {
	switch {
	case t == descriptor.Fixed32 || t == descriptor.Sfixed32 || t == descriptor.Float:
		return wire.WriteFixed32(nil, 0)
	case t == descriptor.Fixed64 || t == descriptor.Sfixed64 || t == descriptor.Double:
		return wire.WriteFixed64(nil, 0)
	case t.IsLengthDelimited():
		return nil
	default:
		return wire.WriteVarint(nil, 0)
	}
}

// Get decodes tag's current value, or the descriptor default if absent, or
// [Absent] if neither exists.
func (m *Message) Get(tag uint32) (any, *Error) {
	fd := m.descriptor.FieldByTag(tag)
	if fd == nil {
		return nil, newError(Descriptor, tag, m.part.Start())
	}
	occ, ok, code := m.findOccurrence(tag)
	if code != None {
		return nil, newError(code, tag, m.part.Start())
	}
	if !ok {
		if fd.Default == nil {
			return nil, newError(Absent, tag, m.part.Start())
		}
		v, code := decodeScalar(fd.Type, fd.Default)
		if code != None {
			return nil, newError(code, tag, m.part.Start())
		}
		return v, nil
	}
	data := m.part.journal.Data()
	v, code := decodeScalar(fd.Type, data[occ.start:occ.end])
	if code != None {
		return nil, newError(code, tag, occ.start)
	}
	return v, nil
}

// Put creates or overwrites tag's value.
func (m *Message) Put(tag uint32, value any) *Error {
	f, err := m.field(tag)
	if err != nil {
		return err
	}
	return f.Put(value)
}

// Match reports whether tag's current (or default) value equals value.
func (m *Message) Match(tag uint32, value any) bool {
	got, err := m.Get(tag)
	return err == nil && scalarEqual(got, value)
}

// Erase removes tag's occurrence entirely, including its tag and any
// length prefix. Erasing an absent tag is a no-op.
func (m *Message) Erase(tag uint32) *Error {
	occ, ok, code := m.findOccurrence(tag)
	if code != None {
		return newError(code, tag, m.part.Start())
	}
	if !ok {
		return nil
	}
	fieldPart := childPart(&m.part, occ.tagOffset, occ.lengthOffset, occ.start, occ.end)
	if code := fieldPart.erase(); code != None {
		return newError(code, tag, occ.tagOffset)
	}
	return nil
}

// Clear empties the message's entire payload, removing every field at
// once, without removing the message's own frame.
func (m *Message) Clear() *Error {
	if code := m.part.clear(); code != None {
		return newError(code, 0, m.part.Start())
	}
	return nil
}

// CreateWithin creates (or retrieves) the nested [Message] living at tag,
// which must name a Message-typed field (spec §4.6 "create_within").
func (m *Message) CreateWithin(tag uint32) (Message, *Error) {
	fd := m.descriptor.FieldByTag(tag)
	if fd == nil || fd.Type != descriptor.Message || fd.Refer == nil {
		return Message{}, newError(Descriptor, tag, m.part.Start())
	}
	f, err := m.field(tag)
	if err != nil {
		return Message{}, err
	}
	return Message{descriptor: fd.Refer, part: f.part}, nil
}

// CreateNested walks a path of tags, creating each nested message in turn
// (spec §4.6 "create_nested(msg, tag_path[])").
func (m *Message) CreateNested(tags ...uint32) (Message, *Error) {
	cur := *m
	for _, tag := range tags {
		next, err := cur.CreateWithin(tag)
		if err != nil {
			return Message{}, err
		}
		cur = next
	}
	return cur, nil
}

// existingNested returns the nested message at tag without creating one if
// absent; used by [Message.Check], which must never mutate.
func (m *Message) existingNested(tag uint32) (Message, bool, Code) {
	fd := m.descriptor.FieldByTag(tag)
	if fd == nil || fd.Type != descriptor.Message || fd.Refer == nil {
		return Message{}, false, None
	}
	occ, ok, code := m.findOccurrence(tag)
	if code != None || !ok {
		return Message{}, false, code
	}
	return Message{descriptor: fd.Refer, part: childPart(&m.part, occ.tagOffset, occ.lengthOffset, occ.start, occ.end)}, true, None
}

// Check recursively validates the message against its descriptor: every
// required field is present, at most one field in a oneof is set, and
// enum values fall within their declared range (spec §4.7 "check()").
//
// Each field is checked through its first occurrence only: for a field
// that occurs more than once, the enum values and nested messages of the
// later occurrences are not validated.
//
// Descriptors in this module don't carry oneof group identity (spec §3
// doesn't require one for the component set built here); all fields
// marked [descriptor.Oneof] on a single message are treated as one
// combined group, which is correct for messages with a single oneof and
// conservative (over-reports conflicts) for messages with more than one.
func (m *Message) Check() *Error {
	if code := m.part.Error(); code != None {
		return newError(code, 0, m.part.Start())
	}
	oneofSet := 0
	for i := range m.descriptor.Fields {
		fd := &m.descriptor.Fields[i]
		has := m.Has(fd.Tag)

		switch fd.Label {
		case descriptor.Required:
			if !has {
				return newError(Invalid, fd.Tag, m.part.Start())
			}
		case descriptor.Oneof:
			if has {
				oneofSet++
			}
		}

		if !has {
			continue
		}
		if fd.Type == descriptor.Enum && fd.EnumType != nil {
			v, err := m.Get(fd.Tag)
			if err != nil {
				return err
			}
			if n, ok := v.(int32); ok && !fd.EnumType.InRange(n) {
				return newError(Invalid, fd.Tag, m.part.Start())
			}
		}
		if fd.Type == descriptor.Message {
			nested, ok, code := m.existingNested(fd.Tag)
			if code != None {
				return newError(code, fd.Tag, m.part.Start())
			}
			if ok {
				if err := nested.Check(); err != nil {
					return err
				}
			}
		}
	}
	if oneofSet > 1 {
		return newError(Invalid, 0, m.part.Start())
	}
	return nil
}
