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

	"github.com/squidfunk/protobluff-go/descriptor"
)

func TestScanOneVarint(t *testing.T) {
	data := []byte{0x08, 0x96, 0x01} // tag=1 varint, value=150
	occ, next, code := scanOne(data, 0, len(data))
	require.Equal(t, None, code)
	require.Equal(t, uint32(1), occ.tag)
	require.Equal(t, descriptor.WireVarint, occ.wireType)
	require.Equal(t, 1, occ.start)
	require.Equal(t, 3, occ.end)
	require.Equal(t, 3, next)
}

func TestScanOneLengthDelimited(t *testing.T) {
	data := []byte{0x12, 0x03, 'f', 'o', 'o'}
	occ, next, code := scanOne(data, 0, len(data))
	require.Equal(t, None, code)
	require.True(t, occ.hasLengthPrefix())
	require.Equal(t, 1, occ.lengthOffset)
	require.Equal(t, 2, occ.start)
	require.Equal(t, 5, occ.end)
	require.Equal(t, 5, next)
}

func TestScanOneTruncatedFails(t *testing.T) {
	data := []byte{0x12, 0x05, 'f', 'o'}
	_, _, code := scanOne(data, 0, len(data))
	require.Equal(t, Varint, code)
}

func TestScanOneReservedWireTypeFails(t *testing.T) {
	data := []byte{0x0b} // tag=1, wire type 3 (START_GROUP)
	_, _, code := scanOne(data, 0, len(data))
	require.Equal(t, Wiretype, code)
}

func TestFindFieldSkipsNonMatching(t *testing.T) {
	data := []byte{0x08, 0x01, 0x10, 0x02, 0x08, 0x03}
	occ, ok, code := findField(data, 0, len(data), 2)
	require.Equal(t, None, code)
	require.True(t, ok)
	require.Equal(t, 3, occ.start)
}

func TestFindFieldAnyTag(t *testing.T) {
	data := []byte{0x08, 0x01}
	occ, ok, code := findField(data, 0, len(data), 0)
	require.Equal(t, None, code)
	require.True(t, ok)
	require.Equal(t, uint32(1), occ.tag)
}

func TestFindFieldAbsent(t *testing.T) {
	data := []byte{0x08, 0x01}
	_, ok, code := findField(data, 0, len(data), 99)
	require.Equal(t, None, code)
	require.False(t, ok)
}
