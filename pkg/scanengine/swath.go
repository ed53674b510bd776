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

// OldValueAndMatchInfo is one candidate byte's match metadata.
// matchInfo == FlagEmpty means the byte is no longer a candidate; once
// empty, a cell is never revived.
type OldValueAndMatchInfo struct {
	OldByte   byte
	MatchInfo MatchFlags
}

// Swath is a contiguous run of candidate bytes anchored at a single
// remote base address: Data[i] always corresponds to remote address
// FirstByteInChild+i. This is a dense "arena + indices" structure
// (§9): index arithmetic is the invariant, not per-cell ownership.
type Swath struct {
	FirstByteInChild uint64
	Data             []OldValueAndMatchInfo
}

func NewSwath(base uint64, data []OldValueAndMatchInfo) *Swath {
	return &Swath{FirstByteInChild: base, Data: data}
}

func (s *Swath) EndAddr() uint64 {
	return s.FirstByteInChild + uint64(len(s.Data))
}

// MatchCount returns the number of non-empty cells in the swath.
func (s *Swath) MatchCount() int {
	n := 0
	for _, c := range s.Data {
		if !c.MatchInfo.IsEmpty() {
			n++
		}
	}
	return n
}

func (s *Swath) String() string {
	return fmt.Sprintf("Swath{%#x,len=%d,matches=%d}", s.FirstByteInChild, len(s.Data), s.MatchCount())
}
