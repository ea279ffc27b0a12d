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

// Package descriptor is the static, read-only schema model protobluff's
// journal/part/field/message/cursor layer is compiled against (spec §2
// component 3, §3 "Descriptor", §6 "Descriptor layout").
//
// Descriptors are produced elsewhere — by hand, or by a .proto-to-Go code
// generator that this module deliberately does not include (spec §1) — and
// consumed here as immutable static data. A [MessageDescriptor]'s Fields
// must be supplied in ascending tag order; [MessageDescriptor.FieldByTag]
// relies on this invariant for its O(1)-expected lookup (spec §4.7) and
// does not re-sort or validate it at construction, matching the C
// original's documented contract ("you better ensure that or be pleasantly
// surprised by undefined behaviour").
package descriptor

import "fmt"

// Type is a field's wire-level value type (spec §6 "type").
type Type uint8

// The field types protobluff understands, matching proto2/proto3 scalar
// kinds plus MESSAGE for submessages. Numeric values are internal, not a
// wire-stable encoding.
const (
	Int32 Type = iota + 1
	Int64
	Uint32
	Uint64
	Sint32
	Sint64
	Fixed32
	Fixed64
	Sfixed32
	Sfixed64
	Bool
	Enum
	Float
	Double
	String
	Bytes
	Message
)

func (t Type) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

var typeNames = [...]string{
	Int32: "int32", Int64: "int64", Uint32: "uint32", Uint64: "uint64",
	Sint32: "sint32", Sint64: "sint64", Fixed32: "fixed32", Fixed64: "fixed64",
	Sfixed32: "sfixed32", Sfixed64: "sfixed64", Bool: "bool", Enum: "enum",
	Float: "float", Double: "double", String: "string", Bytes: "bytes",
	Message: "message",
}

// WireType is the 3-bit tag suffix telling the parser how many bytes follow
// a field's tag byte (spec §4.2, §6 "Wire type").
type WireType uint8

// The four wire types protobluff supports. Wire types 3 and 4 (the
// deprecated START_GROUP/END_GROUP pair) are never produced here; any
// attempt to decode them is an error (spec §4.2).
const (
	WireVarint WireType = 0
	Wire64Bit  WireType = 1
	WireLength WireType = 2
	Wire32Bit  WireType = 5
)

func (w WireType) String() string {
	switch w {
	case WireVarint:
		return "varint"
	case Wire64Bit:
		return "64-bit"
	case WireLength:
		return "length-delimited"
	case Wire32Bit:
		return "32-bit"
	default:
		return fmt.Sprintf("WireType(%d)", uint8(w))
	}
}

// wireTypeMap and sizeMap are the fixed type->wiretype and type->native-size
// tables from spec §4.2/§6, ported directly from
// original_source/src/lib/field/descriptor.c's wiretype_map/size_map.
var wireTypeMap = [...]WireType{
	Int32: WireVarint, Int64: WireVarint, Uint32: WireVarint, Uint64: WireVarint,
	Sint32: WireVarint, Sint64: WireVarint,
	Fixed32: Wire32Bit, Fixed64: Wire64Bit, Sfixed32: Wire32Bit, Sfixed64: Wire64Bit,
	Bool: WireVarint, Enum: WireVarint,
	Float: Wire32Bit, Double: Wire64Bit,
	String: WireLength, Bytes: WireLength, Message: WireLength,
}

// sizeMap gives the native in-memory size of each scalar type; Message is 0,
// since submessages are never stored inline as a fixed-size value.
var sizeMap = [...]int{
	Int32: 4, Int64: 8, Uint32: 4, Uint64: 8,
	Sint32: 4, Sint64: 8,
	Fixed32: 4, Fixed64: 8, Sfixed32: 4, Sfixed64: 8,
	Bool: 1, Enum: 4,
	Float: 4, Double: 8,
	String: 0, Bytes: 0, Message: 0,
}

// WireType returns the wire type a field of type t must be encoded with.
func (t Type) WireType() WireType { return wireTypeMap[t] }

// NativeSize returns the in-memory size in bytes of a scalar value of type
// t, or 0 for String, Bytes, and Message, which are not fixed-size.
func (t Type) NativeSize() int { return sizeMap[t] }

// IsLengthDelimited reports whether t is always wire-encoded with a length
// prefix: string, bytes, and message. It looks at the type alone, so it
// reports false for a scalar type even when the field is packed (see
// [FieldDescriptor.Packed]).
func (t Type) IsLengthDelimited() bool { return t.WireType() == WireLength }

// Label is a field's cardinality/grouping (spec §3 "label").
type Label uint8

const (
	Required Label = iota + 1
	Optional
	Repeated
	Oneof
)

func (l Label) String() string {
	switch l {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Repeated:
		return "repeated"
	case Oneof:
		return "oneof"
	default:
		return fmt.Sprintf("Label(%d)", uint8(l))
	}
}

// Flags are per-field bit flags (spec §6 "flags").
type Flags uint8

// Packed marks a repeated scalar field as using the packed wire
// representation: a single length-delimited run of back-to-back values
// instead of one tag+value pair per element (spec §4.2, §6, §8 "packed").
const Packed Flags = 1 << 0

// FieldDescriptor is the immutable static schema for a single field of a
// message (spec §3 "Field", §6 "Per field").
type FieldDescriptor struct {
	Tag   uint32
	Name  string
	Type  Type
	Label Label
	Flags Flags

	// Refer is the descriptor of the submessage type this field refers to.
	// Non-nil iff Type == Message.
	Refer *MessageDescriptor

	// EnumType is the descriptor of the enum this field refers to. Non-nil
	// iff Type == Enum; used by [Message.Check] for enum-range validation.
	EnumType *EnumDescriptor

	// Default is the wire-encoded default value for an absent optional
	// scalar field (spec §4.6 "create"). Nil means "no declared default";
	// requesting one without a default returns the Absent error.
	Default []byte
}

// WireType returns the wire type this field must be encoded with.
func (f *FieldDescriptor) WireType() WireType { return f.Type.WireType() }

// Packed reports whether this field uses the packed repeated encoding.
func (f *FieldDescriptor) Packed() bool { return f.Flags&Packed != 0 }

// EnumValueDescriptor names a single declared value of an enum (spec §3
// "Descriptor... enum descriptors carry {number, name} pairs").
type EnumValueDescriptor struct {
	Number int32
	Name   string
}

// EnumDescriptor is the immutable static schema for an enum type.
type EnumDescriptor struct {
	Name   string
	Values []EnumValueDescriptor
}

// ValueByName performs a linear scan for a value by name (spec §6
// pb_enum_descriptor_value_by_name is likewise O(n)).
func (e *EnumDescriptor) ValueByName(name string) (EnumValueDescriptor, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v, true
		}
	}
	return EnumValueDescriptor{}, false
}

// InRange reports whether n is one of this enum's declared values (used by
// [Message.Check]'s enum-range validation, spec §4.7).
func (e *EnumDescriptor) InRange(n int32) bool {
	for _, v := range e.Values {
		if v.Number == n {
			return true
		}
	}
	return false
}

// MessageDescriptor is the immutable static schema for a message type (spec
// §3 "Descriptor", §6 "Per message").
//
// Fields must be listed in ascending Tag order; see [MessageDescriptor.FieldByTag].
type MessageDescriptor struct {
	Name   string
	Fields []FieldDescriptor
}

// FieldByTag retrieves the field descriptor for tag, or nil if none.
//
// This leverages the fact that fields are always supplied in ascending tag
// order (protobluff's generator guarantees this): using the tag number as
// an array index gives two useful facts — (1) the field we want, if
// present, is at index < min(tag, len(Fields)), so the search never needs
// to look further right than that; and (2) fields are scanned in
// descending index order until either a match is found or a smaller tag is
// seen, at which point no field with the queried tag can exist and the
// search aborts early. This is ported directly from
// original_source/src/lib/message/descriptor.c's
// pb_message_descriptor_field_by_tag.
func (m *MessageDescriptor) FieldByTag(tag uint32) *FieldDescriptor {
	if tag == 0 {
		return nil
	}
	n := min(int(tag), len(m.Fields))
	for i := n; i > 0; i-- {
		switch {
		case m.Fields[i-1].Tag == tag:
			return &m.Fields[i-1]
		case m.Fields[i-1].Tag < tag:
			return nil
		}
	}
	return nil
}

// FieldByName performs a linear scan for a field by name. Far less
// efficient than FieldByTag; use sparingly (spec §4.7 "by name (O(n))").
func (m *MessageDescriptor) FieldByName(name string) *FieldDescriptor {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i]
		}
	}
	return nil
}
