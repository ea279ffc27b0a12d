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

package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squidfunk/protobluff-go/descriptor"
)

func personDescriptor() *descriptor.MessageDescriptor {
	phone := &descriptor.MessageDescriptor{
		Name: "Person.PhoneNumber",
		Fields: []descriptor.FieldDescriptor{
			{Tag: 1, Name: "number", Type: descriptor.String, Label: descriptor.Optional},
			{Tag: 2, Name: "type", Type: descriptor.Enum, Label: descriptor.Optional},
		},
	}
	return &descriptor.MessageDescriptor{
		Name: "Person",
		Fields: []descriptor.FieldDescriptor{
			{Tag: 1, Name: "name", Type: descriptor.String, Label: descriptor.Optional},
			{Tag: 2, Name: "id", Type: descriptor.Int32, Label: descriptor.Optional},
			{Tag: 3, Name: "email", Type: descriptor.String, Label: descriptor.Optional},
			{Tag: 4, Name: "phone", Type: descriptor.Message, Label: descriptor.Repeated, Refer: phone},
		},
	}
}

func TestFieldByTag(t *testing.T) {
	t.Parallel()
	d := personDescriptor()

	for _, tt := range []uint32{1, 2, 3, 4} {
		fd := d.FieldByTag(tt)
		require.NotNil(t, fd)
		assert.Equal(t, tt, fd.Tag)
	}

	assert.Nil(t, d.FieldByTag(0))
	assert.Nil(t, d.FieldByTag(5))
	assert.Nil(t, d.FieldByTag(100))
}

func TestFieldByTagSparse(t *testing.T) {
	t.Parallel()

	// Tags need not be contiguous; the ascending-order shortcut still has
	// to find the right field or correctly report absence.
	d := &descriptor.MessageDescriptor{
		Fields: []descriptor.FieldDescriptor{
			{Tag: 1, Name: "a"},
			{Tag: 5, Name: "b"},
			{Tag: 9, Name: "c"},
		},
	}

	assert.Equal(t, "a", d.FieldByTag(1).Name)
	assert.Equal(t, "b", d.FieldByTag(5).Name)
	assert.Equal(t, "c", d.FieldByTag(9).Name)
	for _, tt := range []uint32{2, 3, 4, 6, 7, 8, 10} {
		assert.Nilf(t, d.FieldByTag(tt), "tag %d", tt)
	}
}

func TestFieldByName(t *testing.T) {
	t.Parallel()
	d := personDescriptor()

	fd := d.FieldByName("email")
	require.NotNil(t, fd)
	assert.Equal(t, uint32(3), fd.Tag)

	assert.Nil(t, d.FieldByName("nope"))
}

func TestTypeWireTypeAndSize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		typ  descriptor.Type
		wire descriptor.WireType
		size int
	}{
		{descriptor.Int32, descriptor.WireVarint, 4},
		{descriptor.Int64, descriptor.WireVarint, 8},
		{descriptor.Sint32, descriptor.WireVarint, 4},
		{descriptor.Fixed32, descriptor.Wire32Bit, 4},
		{descriptor.Fixed64, descriptor.Wire64Bit, 8},
		{descriptor.Sfixed32, descriptor.Wire32Bit, 4},
		{descriptor.Float, descriptor.Wire32Bit, 4},
		{descriptor.Double, descriptor.Wire64Bit, 8},
		{descriptor.Bool, descriptor.WireVarint, 1},
		{descriptor.Enum, descriptor.WireVarint, 4},
		{descriptor.String, descriptor.WireLength, 0},
		{descriptor.Bytes, descriptor.WireLength, 0},
		{descriptor.Message, descriptor.WireLength, 0},
	}

	for _, tt := range cases {
		assert.Equalf(t, tt.wire, tt.typ.WireType(), "%v", tt.typ)
		assert.Equalf(t, tt.size, tt.typ.NativeSize(), "%v", tt.typ)
	}
}

func TestEnumLookup(t *testing.T) {
	t.Parallel()
	e := &descriptor.EnumDescriptor{
		Name: "Person.PhoneType",
		Values: []descriptor.EnumValueDescriptor{
			{Number: 0, Name: "MOBILE"},
			{Number: 1, Name: "HOME"},
		},
	}

	v, ok := e.ValueByName("HOME")
	require.True(t, ok)
	assert.Equal(t, int32(1), v.Number)

	assert.True(t, e.InRange(0))
	assert.True(t, e.InRange(1))
	assert.False(t, e.InRange(2))

	_, ok = e.ValueByName("WORK")
	assert.False(t, ok)
}
