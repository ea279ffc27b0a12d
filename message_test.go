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

func loadScenario(t *testing.T, name string) []byte {
	t.Helper()
	all, err := fixtures.Load()
	require.NoError(t, err)
	data, ok := all[name]
	require.True(t, ok, "missing fixture %q", name)
	return data
}

func TestMessageGetDecodesScenarioA(t *testing.T) {
	data := loadScenario(t, "scenario_a")
	m := NewMessage(fixtures.PersonDescriptor, NewJournal(data))

	name, err := m.Get(1)
	require.Nil(t, err)
	require.Equal(t, "John Doe", name)

	id, err := m.Get(2)
	require.Nil(t, err)
	require.Equal(t, int32(1234), id)

	email, err := m.Get(3)
	require.Nil(t, err)
	require.Equal(t, "jdoe@example.com", email)
}

func TestMessageHasAndAbsentDefault(t *testing.T) {
	data := loadScenario(t, "scenario_a")
	m := NewMessage(fixtures.PersonDescriptor, NewJournal(data))
	require.True(t, m.Has(1))
	require.False(t, m.Has(99))

	_, err := m.Get(99)
	require.NotNil(t, err)
}

func TestMessagePutCreatesAbsentField(t *testing.T) {
	j := NewEmptyJournal()
	m := NewMessage(fixtures.PersonDescriptor, j)
	require.Nil(t, m.Put(uint32(1), "Jane Doe"))
	require.Nil(t, m.Put(uint32(2), int32(42)))

	name, err := m.Get(1)
	require.Nil(t, err)
	require.Equal(t, "Jane Doe", name)
	id, err := m.Get(2)
	require.Nil(t, err)
	require.Equal(t, int32(42), id)
}

func TestMessagePutOverwritesInPlaceAndCascades(t *testing.T) {
	data := loadScenario(t, "scenario_a")
	before := len(data)
	m := NewMessage(fixtures.PersonDescriptor, NewJournal(data))

	// 1234 ("d2 09") is a 2-byte varint; 16384 is the smallest value that
	// needs a 3rd byte (2^14, the first value past the 2-byte ceiling of
	// 16383).
	require.Nil(t, m.Put(uint32(2), int32(16384)))

	id, err := m.Get(2)
	require.Nil(t, err)
	require.Equal(t, int32(16384), id)

	// id widens from a 2-byte to a 3-byte varint; the message itself has no
	// length prefix of its own, so the buffer just grows by 1 byte.
	require.Equal(t, before+1, len(m.part.journal.Data()))

	name, err := m.Get(1)
	require.Nil(t, err)
	require.Equal(t, "John Doe", name)
	email, err := m.Get(3)
	require.Nil(t, err)
	require.Equal(t, "jdoe@example.com", email)
}

func TestMessageEraseShrinksByFrameSize(t *testing.T) {
	data := loadScenario(t, "scenario_a")
	before := len(data)
	m := NewMessage(fixtures.PersonDescriptor, NewJournal(data))

	require.Nil(t, m.Erase(4)) // erase the first occurrence of "phone"

	after := len(m.part.journal.Data())
	require.Equal(t, before-21, after)

	want := loadScenario(t, "scenario_e_expected")
	require.Equal(t, want, m.part.journal.Data())
}

func TestMessageCreateWithinAndNested(t *testing.T) {
	j := NewEmptyJournal()
	m := NewMessage(fixtures.PersonDescriptor, j)
	phone, err := m.CreateWithin(4)
	require.Nil(t, err)
	require.Nil(t, phone.Put(uint32(1), "+1-000"))

	num, err := phone.Get(1)
	require.Nil(t, err)
	require.Equal(t, "+1-000", num)
}

func TestMessageCheckRequiresRequiredFields(t *testing.T) {
	j := NewEmptyJournal()
	m := NewMessage(fixtures.PersonDescriptor, j)
	require.NotNil(t, m.Check(), "name and id are required and absent")

	require.Nil(t, m.Put(uint32(1), "X"))
	require.Nil(t, m.Put(uint32(2), int32(1)))
	require.Nil(t, m.Check())
}

func TestMessageClearEmptiesPayload(t *testing.T) {
	data := loadScenario(t, "scenario_a")
	m := NewMessage(fixtures.PersonDescriptor, NewJournal(data))
	require.Nil(t, m.Clear())
	require.Equal(t, 0, m.part.Size())
	require.False(t, m.Has(1))
}
