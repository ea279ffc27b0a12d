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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squidfunk/protobluff-go/internal/fixtures"
)

// TestPersonWalkthrough runs the Person/phone message end to end, the same
// fixture the original C library's examples/ directory builds by hand, as
// one continuous narrative covering every top-level operation this module
// exposes: decode, build from scratch, update in place, erase, and seek.
func TestPersonWalkthrough(t *testing.T) {
	scenarioA := loadScenario(t, "scenario_a")

	t.Run("decode", func(t *testing.T) {
		m := NewMessage(fixtures.PersonDescriptor, NewJournal(scenarioA))

		name, err := m.Get(1)
		require.Nil(t, err)
		require.Equal(t, "John Doe", name)

		id, err := m.Get(2)
		require.Nil(t, err)
		require.Equal(t, int32(1234), id)

		email, err := m.Get(3)
		require.Nil(t, err)
		require.Equal(t, "jdoe@example.com", email)

		phone1, err := m.CreateWithin(4)
		require.Nil(t, err)
		num1, err := phone1.Get(1)
		require.Nil(t, err)
		require.Equal(t, "+1-541-754-3010", num1)
		typ1, err := phone1.Get(2)
		require.Nil(t, err)
		require.Equal(t, int32(1), typ1) // HOME
	})

	t.Run("build from scratch", func(t *testing.T) {
		j := NewEmptyJournal()
		m := NewMessage(fixtures.PersonDescriptor, j)

		require.Nil(t, m.Put(uint32(1), "John Doe"))
		require.Nil(t, m.Put(uint32(2), int32(1234)))
		require.Nil(t, m.Put(uint32(3), "jdoe@example.com"))

		phone1, err := m.CreateWithin(4)
		require.Nil(t, err)
		require.Nil(t, phone1.Put(uint32(1), "+1-541-754-3010"))
		require.Nil(t, phone1.Put(uint32(2), int32(1))) // HOME

		require.Nil(t, m.Check()) // name and id, the only required fields, are set

		num, err := phone1.Get(1)
		require.Nil(t, err)
		require.Equal(t, "+1-541-754-3010", num)
	})

	t.Run("in-place update widens the id varint", func(t *testing.T) {
		before := len(scenarioA)
		m := NewMessage(fixtures.PersonDescriptor, NewJournal(append([]byte(nil), scenarioA...)))

		// 1234 ("d2 09") is a 2-byte varint; 16384 is the smallest value that
		// needs a 3rd byte (2^14, the first value past the 2-byte ceiling of
		// 16383), so this put is guaranteed to widen the field by one byte.
		// Person is the root message and has no length prefix of its own, so
		// the buffer grows by exactly that byte.
		require.Nil(t, m.Put(uint32(2), int32(16384)))
		id, err := m.Get(2)
		require.Nil(t, err)
		require.Equal(t, int32(16384), id)

		require.Equal(t, before+1, len(m.part.journal.Data()))

		name, err := m.Get(1)
		require.Nil(t, err)
		require.Equal(t, "John Doe", name)
		email, err := m.Get(3)
		require.Nil(t, err)
		require.Equal(t, "jdoe@example.com", email)
	})

	t.Run("erase removes the first phone", func(t *testing.T) {
		before := len(scenarioA)
		m := NewMessage(fixtures.PersonDescriptor, NewJournal(append([]byte(nil), scenarioA...)))

		require.Nil(t, m.Erase(4))
		require.Equal(t, before-21, len(m.part.journal.Data()))

		c := NewCursor(m, 4)
		require.True(t, c.Next())
		phone, err := m.CreateWithin(4)
		require.Nil(t, err)
		num, err := phone.Get(1)
		require.Nil(t, err)
		require.Equal(t, "+1-541-293-8228", num)
		require.False(t, c.Next()) // exactly one phone remains
	})

	t.Run("cursor seek halts on the first HOME phone", func(t *testing.T) {
		m := NewMessage(fixtures.PersonDescriptor, NewJournal(append([]byte(nil), scenarioA...)))
		c := NewCursor(m, 4)

		isHome := func() bool {
			phone := Message{descriptor: fixtures.PhoneDescriptor, part: childPart(&m.part,
				c.current.tagOffset, c.current.lengthOffset, c.current.start, c.current.end)}
			return phone.Match(2, int32(1))
		}

		found := false
		for c.Next() {
			if isHome() {
				found = true
				break
			}
		}
		require.True(t, found)
		num, err := (&Message{descriptor: fixtures.PhoneDescriptor, part: childPart(&m.part,
			c.current.tagOffset, c.current.lengthOffset, c.current.start, c.current.end)}).Get(1)
		require.Nil(t, err)
		require.Equal(t, "+1-541-754-3010", num)

		// Scanning onward for another HOME phone runs off the end: only one
		// phone in the fixture has type == HOME.
		foundAgain := false
		for c.Next() {
			if isHome() {
				foundAgain = true
				break
			}
		}
		require.False(t, foundAgain)
		require.True(t, c.Valid())
	})
}
