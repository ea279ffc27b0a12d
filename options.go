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

import "github.com/squidfunk/protobluff-go/internal/alloc"

// JournalOption is a configuration setting for [NewJournal] and its
// siblings. Not an interface, following the teacher's own options.go
// comment about https://github.com/golang/go/issues/74356 and the
// With*() functions sitting on the critical construction path.
type JournalOption struct{ apply func(*journalConfig) }

type journalConfig struct {
	allocator    alloc.Allocator
	capacityHint int
}

func defaultJournalConfig() journalConfig {
	return journalConfig{allocator: alloc.Default}
}

// WithAllocator supplies a custom [alloc.Allocator] for the journal's
// buffer. The journal does not take ownership of it; the caller must keep
// it alive for as long as the journal is in use (spec §4.1, matching the
// original library's own allocator-lifetime warning).
func WithAllocator(a alloc.Allocator) JournalOption {
	return JournalOption{func(c *journalConfig) { c.allocator = a }}
}

// WithCapacityHint pre-sizes the journal's buffer allocation to at least n
// bytes, avoiding incremental regrowth when the caller knows the
// approximate encoded size up front.
func WithCapacityHint(n int) JournalOption {
	return JournalOption{func(c *journalConfig) { c.capacityHint = n }}
}

// WithZeroCopy is shorthand for WithAllocator(alloc.ZeroCopy): the journal
// aliases its input buffer instead of copying it, and any mutation that
// would grow or shrink the buffer fails with [Alloc] instead (spec §4.1
// "Zero-copy allocator sentinel marks non-growable buffers").
func WithZeroCopy() JournalOption {
	return WithAllocator(alloc.ZeroCopy)
}
