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

package fixtures

import "github.com/squidfunk/protobluff-go/descriptor"

// PhoneType is the phone{type} enum used throughout the Person walkthrough
// (spec.md §8, examples/messages/example.c): HOME=1, MOBILE=0.
var PhoneType = &descriptor.EnumDescriptor{
	Name: "PhoneType",
	Values: []descriptor.EnumValueDescriptor{
		{Number: 0, Name: "MOBILE"},
		{Number: 1, Name: "HOME"},
		{Number: 2, Name: "WORK"},
	},
}

// PhoneDescriptor describes the Person.phone nested message: number@1
// (string), type@2 (enum, defaulting to HOME as the schema declares).
var PhoneDescriptor = &descriptor.MessageDescriptor{
	Name: "Person.PhoneNumber",
	Fields: []descriptor.FieldDescriptor{
		{Tag: 1, Name: "number", Type: descriptor.String, Label: descriptor.Required},
		{Tag: 2, Name: "type", Type: descriptor.Enum, Label: descriptor.Optional,
			EnumType: PhoneType, Default: []byte{1}},
	},
}

// PersonDescriptor describes the canonical Person message from spec.md §8
// Scenario A-F and examples/{encoding,decoding,messages}/example.c: name@1
// (string), id@2 (int32), email@3 (optional string), phone@4 (repeated
// message).
var PersonDescriptor = &descriptor.MessageDescriptor{
	Name: "Person",
	Fields: []descriptor.FieldDescriptor{
		{Tag: 1, Name: "name", Type: descriptor.String, Label: descriptor.Required},
		{Tag: 2, Name: "id", Type: descriptor.Int32, Label: descriptor.Required},
		{Tag: 3, Name: "email", Type: descriptor.String, Label: descriptor.Optional},
		{Tag: 4, Name: "phone", Type: descriptor.Message, Label: descriptor.Repeated, Refer: PhoneDescriptor},
	},
}
