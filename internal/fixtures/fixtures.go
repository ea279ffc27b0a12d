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

// Package fixtures holds the declarative wire fixtures the root package's
// tests are built against: the Person/phone walkthrough from spec.md §8
// Scenario A-F and examples/{encoding,decoding,messages}/example.c.
//
// This mirrors the teacher's internal/testdata package, which loads
// YAML-described test cases through gopkg.in/yaml.v3 rather than embedding
// raw byte literals in Go source; unlike the teacher's corpus, these
// fixtures don't carry a message type name to resolve against a global
// proto registry, since this module has no descriptor registry of its own
// (spec §1 Non-goal) — only raw wire bytes are data-driven here.
package fixtures

import (
	"embed"
	"encoding/hex"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testdata embed.FS

// scenario is one named hex-encoded wire fixture.
type scenario struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// Load reads every fixture in testdata, keyed by name, with each Hex value
// decoded to raw bytes.
func Load() (map[string][]byte, error) {
	out := make(map[string][]byte)
	entries, err := testdata.ReadDir("testdata")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data, err := testdata.ReadFile("testdata/" + e.Name())
		if err != nil {
			return nil, err
		}
		var scenarios []scenario
		if err := yaml.Unmarshal(data, &scenarios); err != nil {
			return nil, err
		}
		for _, s := range scenarios {
			raw, err := decodeHex(s.Hex)
			if err != nil {
				return nil, err
			}
			out[s.Name] = raw
		}
	}
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	joined := strings.Join(strings.Fields(s), "")
	return hex.DecodeString(joined)
}
