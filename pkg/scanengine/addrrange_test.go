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

func TestNewAddrRange(t *testing.T) {
	tcases := []struct {
		name          string
		start, stop   uint64
		expectAddr    uint64
		expectLength  uint64
	}{
		{"ordered", 0x1000, 0x2000, 0x1000, 0x1000},
		{"reversed endpoints swap", 0x2000, 0x1000, 0x1000, 0x1000},
		{"empty range", 0x1000, 0x1000, 0x1000, 0},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			ar := NewAddrRange(tc.start, tc.stop)
			if ar.Addr() != tc.expectAddr || ar.Length() != tc.expectLength {
				t.Errorf("expected {%x,%x}, got {%x,%x}", tc.expectAddr, tc.expectLength, ar.Addr(), ar.Length())
			}
		})
	}
}

func TestAddrRangeContains(t *testing.T) {
	ar := NewAddrRange(0x1000, 0x2000)
	if !ar.Contains(0x1000) {
		t.Error("expected range to contain its own start")
	}
	if ar.Contains(0x2000) {
		t.Error("range must not contain its end address")
	}
	if ar.Contains(0xfff) {
		t.Error("range must not contain an address before its start")
	}
}

func TestAddrRangesIntersection(t *testing.T) {
	ars := &AddrRanges{pid: 1, addrs: []AddrRange{
		*NewAddrRange(0x1000, 0x3000),
		*NewAddrRange(0x5000, 0x6000),
	}}
	ars.Intersection([]AddrRange{*NewAddrRange(0x2000, 0x5500)})
	ranges := ars.Ranges()
	if len(ranges) != 2 {
		t.Fatalf("expected 2 overlapping ranges, got %d", len(ranges))
	}
	if ranges[0].Addr() != 0x2000 || ranges[0].EndAddr() != 0x3000 {
		t.Errorf("unexpected first intersection: %+v", ranges[0])
	}
	if ranges[1].Addr() != 0x5000 || ranges[1].EndAddr() != 0x5500 {
		t.Errorf("unexpected second intersection: %+v", ranges[1])
	}
}
