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
	"errors"
	"fmt"

	"github.com/squidfunk/protobluff-go/wire"
)

// Code is the error taxonomy every operation on a [Buffer], [Journal],
// [Part], [Field], [Message], or [Cursor] reports through, matching spec §7
// one-for-one.
type Code int

const (
	// None indicates success; the zero value, so a zeroed [Error] reads as
	// success.
	None Code = iota
	// Alloc reports that an allocator failed to grow, shrink, or free a
	// buffer.
	Alloc
	// Invalid reports invalid arguments or data passed to an operation.
	Invalid
	// Descriptor reports a malformed or mismatched descriptor.
	Descriptor
	// Wiretype reports a wire type that does not match the field
	// descriptor, or a reserved (group) wire type.
	Wiretype
	// Varint reports a malformed varint, including one that would overflow
	// its target width, or a length-prefix cascade that cannot be encoded
	// (spec §4.5 Design Notes: "preserve the documented Varint error; do
	// not guess").
	Varint
	// Offset reports that a handle's origin was erased from its journal;
	// permanent once set (spec §4.4's applicability rule, clause (c)).
	Offset
	// Absent reports that a requested field or value does not occur in the
	// message, or has no declared default.
	Absent
)

// errs is the exact phrase table from original_source's error_map, ported
// 1:1 so [Code.String] matches the C library's pb_error_string output.
var errs = [...]string{
	None:       "None",
	Alloc:      "Allocation failed",
	Invalid:    "Invalid arguments or data",
	Descriptor: "Invalid descriptor",
	Wiretype:   "Invalid wiretype",
	Varint:     "Invalid varint",
	Offset:     "Invalid offset",
	Absent:     "Absent field or value",
}

// String implements [fmt.Stringer].
func (c Code) String() string {
	if int(c) >= 0 && int(c) < len(errs) {
		return errs[c]
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error wraps a [Code] with the context that produced it: the field tag (0
// if not applicable) and the byte offset into the owning journal's buffer,
// if known.
type Error struct {
	Code   Code
	Tag    uint32
	Offset int
}

// Error implements [error].
func (e *Error) Error() string {
	if e == nil || e.Code == None {
		return "protobluff: no error"
	}
	if e.Tag != 0 {
		return fmt.Sprintf("protobluff: %s (tag %d, offset %d)", e.Code, e.Tag, e.Offset)
	}
	return fmt.Sprintf("protobluff: %s (offset %d)", e.Code, e.Offset)
}

// Is reports whether target is a codeError carrying the same Code as e.
// A bare Code is not an error, so it cannot be passed to errors.Is itself;
// the match goes through the unexported codeError adapter.
func (e *Error) Is(target error) bool {
	var c codeError
	if errors.As(target, &c) {
		return e != nil && e.Code == Code(c)
	}
	return false
}

// codeError adapts a bare Code into an error so it can be used as an
// errors.Is target; Code itself intentionally does not implement error.
type codeError Code

func (c codeError) Error() string { return Code(c).String() }

// newError is a constructor shorthand used throughout the journal/part
// layer.
func newError(code Code, tag uint32, offset int) *Error {
	return &Error{Code: code, Tag: tag, Offset: offset}
}

// wireError folds a failure from the wire package into a Code, the same way
// the teacher's error.go folds protowire failures into its own errCode (see
// that file's "These match the errors in protowire" comment): every
// malformed-varint-family failure becomes Varint, and the one wire-type
// level failure — a reserved group tag — becomes Wiretype.
func wireError(err error) Code {
	if err == nil {
		return None
	}
	if errors.Is(err, wire.ErrReserved) {
		return Wiretype
	}
	return Varint
}
