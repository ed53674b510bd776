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

import (
	"fmt"
	"sort"
	"strings"
)

// MatchArray is an ordered, non-overlapping sequence of Swaths in
// ascending FirstByteInChild order. An empty MatchArray is the
// well-defined initial state of a session.
type MatchArray struct {
	swaths []*Swath
}

func NewMatchArray() *MatchArray {
	return &MatchArray{swaths: []*Swath{}}
}

func (m *MatchArray) Swaths() []*Swath {
	return m.swaths
}

func (m *MatchArray) IsEmpty() bool {
	return len(m.swaths) == 0
}

// Count returns the total number of non-EMPTY cells across every
// swath (§3, §8 property 4).
func (m *MatchArray) Count() int {
	n := 0
	for _, s := range m.swaths {
		n += s.MatchCount()
	}
	return n
}

// ForEach visits swaths in ascending address order. handle's return
// value mirrors the teacher's ForEach convention: 0 continues, -1
// breaks.
func (m *MatchArray) ForEach(handle func(*Swath) int) {
	for _, s := range m.swaths {
		switch handle(s) {
		case 0:
			continue
		case -1:
			return
		default:
			panic("illegal MatchArray.ForEach handler return value")
		}
	}
}

// AppendSwath appends a swath known to start after every existing
// swath's end address, as produced by a sequential first-pass walking
// regions in ascending order. It is a fast path for the common case;
// SetSwath below handles the general (possibly overlapping) case.
func (m *MatchArray) AppendSwath(s *Swath) {
	m.swaths = append(m.swaths, s)
}

// SetSwath inserts or replaces the data covering [addr, addr+len(data))
// in the array, splicing any existing swaths that partially overlap
// the new range. This generalizes the teacher's AddrDatas.SetData
// three-way split (reuse-the-left-remainder / insert / reuse-the-right-
// remainder) from arbitrary interface{} payloads to dense
// OldValueAndMatchInfo runs, so a region can be freely re-scanned
// without first tearing down the array.
func (m *MatchArray) SetSwath(addr uint64, data []OldValueAndMatchInfo) {
	if len(data) == 0 {
		return
	}
	newSwath := NewSwath(addr, data)
	first, count := m.overlapping(addr, uint64(len(data)))
	last := first + count - 1

	newLen := len(m.swaths) - count + 1
	var leftRemainder, rightRemainder *Swath
	if count > 0 {
		if m.swaths[first].FirstByteInChild < newSwath.FirstByteInChild {
			leftRemainder = &Swath{
				FirstByteInChild: m.swaths[first].FirstByteInChild,
				Data:             m.swaths[first].Data[:newSwath.FirstByteInChild-m.swaths[first].FirstByteInChild],
			}
			newLen++
		}
		if m.swaths[last].EndAddr() > newSwath.EndAddr() {
			cut := newSwath.EndAddr() - m.swaths[last].FirstByteInChild
			rightRemainder = &Swath{
				FirstByteInChild: newSwath.EndAddr(),
				Data:             m.swaths[last].Data[cut:],
			}
			newLen++
		}
	}

	out := make([]*Swath, 0, newLen)
	out = append(out, m.swaths[:first]...)
	if leftRemainder != nil {
		out = append(out, leftRemainder)
	}
	out = append(out, newSwath)
	if rightRemainder != nil {
		out = append(out, rightRemainder)
	}
	if last+1 < len(m.swaths) {
		out = append(out, m.swaths[last+1:]...)
	}
	m.swaths = out
}

// overlapping returns the index of the first swath overlapping
// [addr, addr+length) and how many consecutive swaths overlap it,
// mirroring the teacher's binary-search helper.
func (m *MatchArray) overlapping(addr, length uint64) (int, int) {
	end := addr + length
	first := sort.Search(len(m.swaths), func(i int) bool { return m.swaths[i].EndAddr() > addr })
	count := 0
	for _, s := range m.swaths[first:] {
		if end <= s.FirstByteInChild {
			break
		}
		count++
	}
	return first, count
}

// PruneEmpty drops any swath whose every cell is EMPTY, per §4.6 step 3.
func (m *MatchArray) PruneEmpty() {
	out := m.swaths[:0]
	for _, s := range m.swaths {
		if s.MatchCount() > 0 {
			out = append(out, s)
		}
	}
	m.swaths = out
}

func (m *MatchArray) String() string {
	parts := make([]string, len(m.swaths))
	for i, s := range m.swaths {
		parts[i] = s.String()
	}
	return fmt.Sprintf("MatchArray{%s}", strings.Join(parts, ","))
}
