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
	"fmt"
	"io"
)

// Dump writes a hex/ASCII rendering of the journal's current buffer to w,
// sixteen bytes per row: the row's base address, its bytes in hex, and an
// ASCII gutter for the printable ones (spec.md "pb_buffer_dump", referenced
// from pb_journal_dump).
//
// This is a debug aid, not part of the module's stability surface; its
// exact column layout may change between releases.
func (j *Journal) Dump(w io.Writer) error {
	data := j.Data()
	for base := 0; base < len(data); base += 16 {
		row := data[base:min(base+16, len(data))]
		if _, err := fmt.Fprintf(w, "%08x  ", base); err != nil {
			return err
		}
		for i := 0; i < 16; i++ {
			if i == 8 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if i < len(row) {
				if _, err := fmt.Fprintf(w, "%02x ", row[i]); err != nil {
					return err
				}
			} else if _, err := io.WriteString(w, "   "); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, " |"); err != nil {
			return err
		}
		for _, b := range row {
			c := byte('.')
			if b >= 0x20 && b < 0x7f {
				c = b
			}
			if _, err := w.Write([]byte{c}); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "|\n"); err != nil {
			return err
		}
	}
	return nil
}
