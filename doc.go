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

// Package protobluff implements in-place, random-access mutation of
// Protobuf-encoded messages directly in their wire-format byte buffer — no
// decode-mutate-reencode round trip.
//
// A [Journal] owns a growable [Buffer] and an append-only log of the length
// deltas every write or clear produces. A [Part] is a lightweight,
// versioned window into a journal's buffer — the offsets of one field or
// submessage's bytes — that re-aligns itself against the journal's log
// before every read or write, so creating a part once and reusing it across
// many operations stays cheap even as earlier writes shift everything after
// them. [Field], [Message], and [Cursor] are typed views built on top of a
// Part: Message addresses submessage fields by tag (the ascending-tag
// shortcut from the descriptor package), Field reads and writes scalar and
// string values, and Cursor walks repeated fields forwards, including
// packed repeated scalars.
//
// # Support Status
//
// This package implements the in-place mutation core only (spec
// component table, §2): the streaming decoder that builds a [Journal] from
// raw bytes, the append-only encoder that serializes one without a journal,
// and the .proto-to-descriptor code generator are companion concerns built
// on the same [descriptor] and [wire] packages, not part of this module.
//
// The following are explicitly out of scope, matching the original
// library's own non-goals:
//
//   - Protobuf reflection beyond tag/name descriptor lookup.
//   - Text format or JSON mapping.
//   - Schema evolution beyond ordinary wire-format forward compatibility.
//   - Thread safety for concurrent writers to the same journal.
package protobluff
