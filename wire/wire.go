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

// Package wire implements the wire-format primitives of spec §4.2: varint
// and zigzag codecs, 32/64-bit fixed-width codecs, tag packing, and
// length-delimited framing.
//
// These are shared by every mode of operation described in spec §1
// (streaming decode, append-only encode, and the in-place journal this
// module implements) — but only the journal's consumer is built here; the
// streaming decoder and encoder are out of scope (spec §1) and are expected
// to share this package the same way.
//
// Rather than hand-roll varint math, this wraps
// google.golang.org/protobuf/encoding/protowire, the same wire-primitive
// package the teacher imports (github.com/bufbuild/hyperpb/internal/zigzag
// calls protowire.DecodeZigZag directly). Error classification mirrors the
// teacher's error.go, whose comment notes verbatim that its error codes
// "match the errors in protowire": this package turns a failing
// protowire call (recognized by its negative byte count) into one of the
// sentinel errors below via protowire.ParseError.
package wire

import (
	"errors"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/squidfunk/protobluff-go/descriptor"
	"github.com/squidfunk/protobluff-go/internal/zigzag"
)

// Sentinel wire-format errors, one per spec §7 wire-related code
// (Varint, Wiretype). Truncated/Overflow/FieldNumber/Reserved/EndGroup all
// map to Varint except Reserved, which maps to Wiretype (see the root
// package's error.go for that mapping).
var (
	ErrTruncated   = io.ErrUnexpectedEOF
	ErrOverflow    = errors.New("wire: variable length integer overflow")
	ErrFieldNumber = errors.New("wire: invalid field number")
	ErrReserved    = errors.New("wire: cannot parse reserved (group) wire type")
	ErrEndGroup    = errors.New("wire: mismatching end group marker")
)

// classify turns a protowire (value, n) pair with n < 0 into one of the
// sentinels above.
func classify(n int) error {
	err := protowire.ParseError(n)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return ErrTruncated
	case err == nil:
		return nil
	}
	switch err.Error() {
	case "variable length integer overflow":
		return ErrOverflow
	case "invalid field number":
		return ErrFieldNumber
	case "cannot parse reserved wire type":
		return ErrReserved
	case "mismatching end group marker":
		return ErrEndGroup
	default:
		return ErrTruncated
	}
}

// ReadVarint reads a base-128 varint, returning its value and the number of
// bytes consumed. Fails with ErrTruncated or ErrOverflow per spec §4.2.
func ReadVarint(b []byte) (v uint64, n int, err error) {
	v, n = protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, classify(n)
	}
	return v, n, nil
}

// SizeVarint returns the number of bytes ReadVarint/WriteVarint uses to
// encode v: 1-5 bytes for a u32-range value, 1-10 for u64.
func SizeVarint(v uint64) int { return protowire.SizeVarint(v) }

// WriteVarint appends v to dst as a base-128 varint and returns the result.
func WriteVarint(dst []byte, v uint64) []byte {
	return protowire.AppendVarint(dst, v)
}

// ReadSVarint reads a zigzag-encoded signed varint of width T (int32 or
// int64).
func ReadSVarint[T zigzag.Signed](b []byte) (v T, n int, err error) {
	raw, n, err := ReadVarint(b)
	if err != nil {
		return 0, 0, err
	}
	return zigzag.Decode64[T](raw), n, nil
}

// WriteSVarint zigzag-encodes v and appends it to dst.
func WriteSVarint[T zigzag.Signed](dst []byte, v T) []byte {
	return WriteVarint(dst, zigzag.Encode(v))
}

// ReadFixed32 reads a little-endian 32-bit word.
func ReadFixed32(b []byte) (v uint32, n int, err error) {
	v, n = protowire.ConsumeFixed32(b)
	if n < 0 {
		return 0, 0, classify(n)
	}
	return v, n, nil
}

// WriteFixed32 appends v to dst as a little-endian 32-bit word.
func WriteFixed32(dst []byte, v uint32) []byte {
	return protowire.AppendFixed32(dst, v)
}

// ReadFixed64 reads a little-endian 64-bit word.
func ReadFixed64(b []byte) (v uint64, n int, err error) {
	v, n = protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, 0, classify(n)
	}
	return v, n, nil
}

// WriteFixed64 appends v to dst as a little-endian 64-bit word.
func WriteFixed64(dst []byte, v uint64) []byte {
	return protowire.AppendFixed64(dst, v)
}

// ReadTag reads a field tag byte(s): (field_number << 3) | wire_type (spec
// §4.2). Deprecated group wire types (3, 4) are rejected with ErrReserved.
func ReadTag(b []byte) (tag uint32, wt descriptor.WireType, n int, err error) {
	num, typ, n := protowire.ConsumeTag(b)
	if n < 0 {
		return 0, 0, 0, classify(n)
	}
	switch typ {
	case protowire.VarintType:
		wt = descriptor.WireVarint
	case protowire.Fixed64Type:
		wt = descriptor.Wire64Bit
	case protowire.BytesType:
		wt = descriptor.WireLength
	case protowire.Fixed32Type:
		wt = descriptor.Wire32Bit
	default:
		return 0, 0, 0, ErrReserved
	}
	return uint32(num), wt, n, nil
}

// WriteTag appends a packed (tag, wireType) byte sequence to dst.
func WriteTag(dst []byte, tag uint32, wt descriptor.WireType) []byte {
	return protowire.AppendTag(dst, protowire.Number(tag), protowireType(wt))
}

// SizeTag returns the number of bytes WriteTag uses to encode (tag, wt).
func SizeTag(tag uint32, wt descriptor.WireType) int {
	return SizeVarint(uint64(tag)<<3 | uint64(wt))
}

func protowireType(wt descriptor.WireType) protowire.Type {
	switch wt {
	case descriptor.WireVarint:
		return protowire.VarintType
	case descriptor.Wire64Bit:
		return protowire.Fixed64Type
	case descriptor.WireLength:
		return protowire.BytesType
	case descriptor.Wire32Bit:
		return protowire.Fixed32Type
	default:
		panic("wire: unknown wire type")
	}
}

// ReadLengthDelimited reads a varint length prefix followed by that many
// payload bytes, returning the payload (aliasing b) and bytes consumed.
func ReadLengthDelimited(b []byte) (payload []byte, n int, err error) {
	payload, n = protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, classify(n)
	}
	return payload, n, nil
}

// WriteLengthDelimited appends a varint length prefix and payload to dst.
func WriteLengthDelimited(dst []byte, payload []byte) []byte {
	return protowire.AppendBytes(dst, payload)
}
