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
	"bytes"
	"math"

	"github.com/squidfunk/protobluff-go/descriptor"
	"github.com/squidfunk/protobluff-go/wire"
)

// Field is a descriptor paired with a [Part] locating one occurrence of
// that field's value in a journal's buffer (spec §4.6, component 7). It is
// typically obtained from a [Message], never constructed directly.
type Field struct {
	descriptor *descriptor.FieldDescriptor
	part       Part
}

// Descriptor returns the field's static schema.
func (f *Field) Descriptor() *descriptor.FieldDescriptor { return f.descriptor }

// Valid reports whether the field's part is free of error.
func (f *Field) Valid() bool { return f.part.Valid() }

// Error reports the field's current error state.
func (f *Field) Error() Code { return f.part.Error() }

// Get decodes the field's current value. Scalar and string/bytes types are
// returned as the matching Go type (int32, string, []byte, ...); Enum is
// returned as int32. A [Message]-typed field cannot be read through Get —
// use [Message.CreateWithin] to obtain a nested [Message] instead.
func (f *Field) Get() (any, *Error) {
	if code := f.Error(); code != None {
		return nil, newError(code, f.descriptor.Tag, f.part.Start())
	}
	v, code := decodeScalar(f.descriptor.Type, f.part.bytes())
	if code != None {
		return nil, newError(code, f.descriptor.Tag, f.part.Start())
	}
	return v, nil
}

// Put replaces the field's current value in place, cascading any resulting
// length-prefix change up through its enclosing message (spec §4.5/§4.6).
func (f *Field) Put(value any) *Error {
	if code := f.Error(); code != None {
		return newError(code, f.descriptor.Tag, f.part.Start())
	}
	raw, code := encodeScalar(f.descriptor.Type, value)
	if code != None {
		return newError(code, f.descriptor.Tag, f.part.Start())
	}
	if code := f.part.write(raw); code != None {
		return newError(code, f.descriptor.Tag, f.part.Start())
	}
	return nil
}

// Clear empties the field's value in place without removing its frame; a
// subsequent Get returns the zero value for its type, not the descriptor's
// default. Use [Message.Erase] to remove a field entirely.
func (f *Field) Clear() *Error {
	if code := f.Error(); code != None {
		return newError(code, f.descriptor.Tag, f.part.Start())
	}
	if code := f.part.clear(); code != None {
		return newError(code, f.descriptor.Tag, f.part.Start())
	}
	return nil
}

// Match reports whether the field's current value equals value, without
// returning an error for an absent or invalid field (spec §4.6 "match").
func (f *Field) Match(value any) bool {
	got, err := f.Get()
	if err != nil {
		return false
	}
	return scalarEqual(got, value)
}

// Raw returns the field's raw, still wire-encoded value bytes. Deprecated
// in the original library in favor of typed accessors; kept only for
// interop with code generated around a specific wire representation.
func (f *Field) Raw() []byte { return f.part.bytes() }

func scalarEqual(a, b any) bool {
	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && bytes.Equal(ab, bb)
	}
	return a == b
}

// decodeScalar interprets raw (a field's isolated payload bytes, excluding
// tag and any length prefix) according to t.
func decodeScalar(t descriptor.Type, raw []byte) (any, Code) {
	switch t {
	case descriptor.Int32:
		v, _, err := wire.ReadVarint(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return int32(v), None
	case descriptor.Int64:
		v, _, err := wire.ReadVarint(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return int64(v), None
	case descriptor.Uint32:
		v, _, err := wire.ReadVarint(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return uint32(v), None
	case descriptor.Uint64:
		v, _, err := wire.ReadVarint(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return v, None
	case descriptor.Sint32:
		v, _, err := wire.ReadSVarint[int32](raw)
		if err != nil {
			return nil, wireError(err)
		}
		return v, None
	case descriptor.Sint64:
		v, _, err := wire.ReadSVarint[int64](raw)
		if err != nil {
			return nil, wireError(err)
		}
		return v, None
	case descriptor.Bool:
		v, _, err := wire.ReadVarint(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return v != 0, None
	case descriptor.Enum:
		v, _, err := wire.ReadVarint(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return int32(v), None
	case descriptor.Fixed32:
		v, _, err := wire.ReadFixed32(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return v, None
	case descriptor.Sfixed32:
		v, _, err := wire.ReadFixed32(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return int32(v), None
	case descriptor.Float:
		v, _, err := wire.ReadFixed32(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return math.Float32frombits(v), None
	case descriptor.Fixed64:
		v, _, err := wire.ReadFixed64(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return v, None
	case descriptor.Sfixed64:
		v, _, err := wire.ReadFixed64(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return int64(v), None
	case descriptor.Double:
		v, _, err := wire.ReadFixed64(raw)
		if err != nil {
			return nil, wireError(err)
		}
		return math.Float64frombits(v), None
	case descriptor.String:
		return string(raw), None
	case descriptor.Bytes:
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, None
	default:
		return nil, Descriptor
	}
}

// encodeScalar is the Put-side inverse of decodeScalar: it produces the raw
// payload bytes for value (no tag, no length prefix — [Part.propagate]
// rewrites length prefixes separately).
func encodeScalar(t descriptor.Type, value any) ([]byte, Code) {
	switch t {
	case descriptor.Int32:
		v, ok := value.(int32)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteVarint(nil, uint64(v)), None
	case descriptor.Int64:
		v, ok := value.(int64)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteVarint(nil, uint64(v)), None
	case descriptor.Uint32:
		v, ok := value.(uint32)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteVarint(nil, uint64(v)), None
	case descriptor.Uint64:
		v, ok := value.(uint64)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteVarint(nil, v), None
	case descriptor.Sint32:
		v, ok := value.(int32)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteSVarint(nil, v), None
	case descriptor.Sint64:
		v, ok := value.(int64)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteSVarint(nil, v), None
	case descriptor.Bool:
		v, ok := value.(bool)
		if !ok {
			return nil, Invalid
		}
		n := uint64(0)
		if v {
			n = 1
		}
		return wire.WriteVarint(nil, n), None
	case descriptor.Enum:
		v, ok := value.(int32)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteVarint(nil, uint64(uint32(v))), None
	case descriptor.Fixed32:
		v, ok := value.(uint32)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteFixed32(nil, v), None
	case descriptor.Sfixed32:
		v, ok := value.(int32)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteFixed32(nil, uint32(v)), None
	case descriptor.Float:
		v, ok := value.(float32)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteFixed32(nil, math.Float32bits(v)), None
	case descriptor.Fixed64:
		v, ok := value.(uint64)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteFixed64(nil, v), None
	case descriptor.Sfixed64:
		v, ok := value.(int64)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteFixed64(nil, uint64(v)), None
	case descriptor.Double:
		v, ok := value.(float64)
		if !ok {
			return nil, Invalid
		}
		return wire.WriteFixed64(nil, math.Float64bits(v)), None
	case descriptor.String:
		v, ok := value.(string)
		if !ok {
			return nil, Invalid
		}
		return []byte(v), None
	case descriptor.Bytes:
		v, ok := value.([]byte)
		if !ok {
			return nil, Invalid
		}
		return v, None
	default:
		return nil, Descriptor
	}
}
