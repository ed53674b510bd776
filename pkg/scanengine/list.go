// Copyright 2021 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scanengine

import "fmt"

// MatchRecord is one displayable match, the unit List/the REPL prints
// (§4.11): address, which region it fell in (if known), the live
// width flags, and the byte the last scan recorded at that offset.
type MatchRecord struct {
	Index   int
	Address uint64
	Region  string
	Flags   MatchFlags
	OldByte byte
}

// List produces up to limit records in ascending address order (§4.10,
// §5 ordering guarantee c); limit <= 0 means unbounded. This is the
// same enumeration WriteNthMatch/WriteAllMatches rely on, grounded on
// the teacher's TrackerCounters.String() "one line per entry, in a
// stable order" formatting idiom.
func List(m *MatchArray, limit int) []MatchRecord {
	out := []MatchRecord{}
	idx := 0
	m.ForEach(func(s *Swath) int {
		for i, cell := range s.Data {
			if cell.MatchInfo.IsEmpty() {
				continue
			}
			if limit > 0 && len(out) >= limit {
				return -1
			}
			out = append(out, MatchRecord{
				Index:   idx,
				Address: s.FirstByteInChild + uint64(i),
				Flags:   cell.MatchInfo,
				OldByte: cell.OldByte,
			})
			idx++
		}
		return 0
	})
	return out
}

// nthMatchAddress finds the address of the N-th live cell in the same
// ascending order List uses, without materializing the full record
// list.
func nthMatchAddress(m *MatchArray, index int) (uint64, bool) {
	if index < 0 {
		return 0, false
	}
	idx := 0
	var found uint64
	ok := false
	m.ForEach(func(s *Swath) int {
		for i, cell := range s.Data {
			if cell.MatchInfo.IsEmpty() {
				continue
			}
			if idx == index {
				found = s.FirstByteInChild + uint64(i)
				ok = true
				return -1
			}
			idx++
		}
		return 0
	})
	return found, ok
}

func (r MatchRecord) String() string {
	if r.Region == "" {
		return fmt.Sprintf("%d %#016x %s %#02x", r.Index, r.Address, r.Flags, r.OldByte)
	}
	return fmt.Sprintf("%d %#016x [%s] %s %#02x", r.Index, r.Address, r.Region, r.Flags, r.OldByte)
}
