// Copyright 2022 Intel Corporation. All Rights Reserved.
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

import "testing"

func cellsOf(b ...byte) []OldValueAndMatchInfo {
	out := make([]OldValueAndMatchInfo, len(b))
	for i, v := range b {
		out[i] = OldValueAndMatchInfo{OldByte: v, MatchInfo: FlagB8}
	}
	return out
}

func TestMatchArraySetSwathNonOverlapping(t *testing.T) {
	m := NewMatchArray()
	m.SetSwath(0x1000, cellsOf(1, 2, 3))
	m.SetSwath(0x2000, cellsOf(4, 5))
	if len(m.Swaths()) != 2 {
		t.Fatalf("expected 2 swaths, got %d", len(m.Swaths()))
	}
	if m.Count() != 5 {
		t.Errorf("expected 5 matches, got %d", m.Count())
	}
}

func TestMatchArraySetSwathOverlapMiddle(t *testing.T) {
	m := NewMatchArray()
	m.SetSwath(0x1000, cellsOf(1, 2, 3, 4, 5))
	m.SetSwath(0x1001, cellsOf(9, 9))
	swaths := m.Swaths()
	if len(swaths) != 3 {
		t.Fatalf("expected 3 swaths after middle overlap, got %d: %s", len(swaths), m)
	}
	if swaths[0].FirstByteInChild != 0x1000 || len(swaths[0].Data) != 1 {
		t.Errorf("unexpected left remainder: %s", swaths[0])
	}
	if swaths[1].FirstByteInChild != 0x1001 || len(swaths[1].Data) != 2 {
		t.Errorf("unexpected inserted swath: %s", swaths[1])
	}
	if swaths[2].FirstByteInChild != 0x1003 || len(swaths[2].Data) != 2 {
		t.Errorf("unexpected right remainder: %s", swaths[2])
	}
}

func TestMatchArraySetSwathExactOverwrite(t *testing.T) {
	m := NewMatchArray()
	m.SetSwath(0x1000, cellsOf(1, 2))
	m.SetSwath(0x1000, cellsOf(9, 9))
	if len(m.Swaths()) != 1 {
		t.Fatalf("expected exact overwrite to keep 1 swath, got %d", len(m.Swaths()))
	}
	if m.Swaths()[0].Data[0].OldByte != 9 {
		t.Errorf("expected overwritten data, got %v", m.Swaths()[0].Data)
	}
}

func TestMatchArraySetSwathSpanningMultiple(t *testing.T) {
	m := NewMatchArray()
	m.SetSwath(0x1000, cellsOf(1, 2))
	m.SetSwath(0x2000, cellsOf(3, 4))
	// 0x1000..0x2002 covers both existing swaths exactly: the splice
	// must subsume them rather than leaving stale remainders behind.
	big := make([]byte, 0x1002)
	m.SetSwath(0x1000, cellsOf(big...))
	if len(m.Swaths()) != 1 {
		t.Fatalf("expected a single swath to subsume both, got %d", len(m.Swaths()))
	}
}

func TestMatchArrayPruneEmpty(t *testing.T) {
	m := NewMatchArray()
	m.AppendSwath(NewSwath(0x1000, []OldValueAndMatchInfo{{MatchInfo: FlagEmpty}, {MatchInfo: FlagEmpty}}))
	m.AppendSwath(NewSwath(0x2000, cellsOf(1)))
	m.PruneEmpty()
	if len(m.Swaths()) != 1 {
		t.Errorf("expected empty swath to be pruned, got %d swaths", len(m.Swaths()))
	}
}
