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

// Package zigzag implements zigzag encoding/decoding for the sint32/sint64
// wire types (spec §4.2), on top of protowire's zigzag primitives.
package zigzag

import (
	"unsafe"

	"golang.org/x/exp/constraints"
	"google.golang.org/protobuf/encoding/protowire"
)

// Signed is the set of fixed-width signed integer types zigzag can operate
// over. Unlike the teacher's hand-rolled tdp.Number constraint (which also
// admits floats and unsigned types, since it is shared with the compiled
// dispatch engine's numeric thunks), this is narrowed to exactly the types
// spec §4.2 says zigzag applies to.
type Signed interface {
	constraints.Signed
}

// Decode decodes a zigzag-encoded value of any signed integer width.
//
// Calling Decode does not work correctly when sign extension is involved,
// e.g. passing a sint32 stored sign-extended into an int64 — callers must
// mask to the wire width first, which is what the T(raw) truncation below
// does.
func Decode[T Signed](raw T) T {
	n := uint64(raw)
	n &= (1 << (unsafe.Sizeof(raw) * 8)) - 1
	return T(protowire.DecodeZigZag(n))
}

// Decode64 is a helper for decoding a zigzag value out of a raw 64-bit wire
// word into a narrower signed type.
func Decode64[T Signed](raw uint64) T {
	return Decode(T(raw))
}

// Encode zigzag-encodes a signed integer of any width for the wire.
func Encode[T Signed](v T) uint64 {
	return protowire.EncodeZigZag(int64(v))
}
