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

// AddrRange is a contiguous byte range in a target process's address
// space: [addr, addr+length).
type AddrRange struct {
	addr   uint64
	length uint64
}

// NewAddrRange normalises a [start, stop) pair into an AddrRange,
// swapping the endpoints if given in reverse order.
func NewAddrRange(startAddr, stopAddr uint64) *AddrRange {
	if stopAddr < startAddr {
		startAddr, stopAddr = stopAddr, startAddr
	}
	return &AddrRange{addr: startAddr, length: stopAddr - startAddr}
}

func (ar *AddrRange) Addr() uint64 {
	return ar.addr
}

func (ar *AddrRange) Length() uint64 {
	return ar.length
}

// EndAddr returns the address one past the last byte in the range.
func (ar *AddrRange) EndAddr() uint64 {
	return ar.addr + ar.length
}

// Contains reports whether addr falls within the range.
func (ar *AddrRange) Contains(addr uint64) bool {
	return addr >= ar.addr && addr < ar.EndAddr()
}

// AddrRanges is a pid's collection of address ranges, as produced by
// parsing /proc/<pid>/maps (see regions.go).
type AddrRanges struct {
	pid   int
	addrs []AddrRange
}

func (ar *AddrRanges) Pid() int {
	return ar.pid
}

func (ar *AddrRanges) Ranges() []AddrRange {
	return ar.addrs
}

// Intersection trims ar's ranges down to their overlap with cutRanges.
func (ar *AddrRanges) Intersection(cutRanges []AddrRange) {
	newAddrs := []AddrRange{}
	for _, oldRange := range ar.addrs {
		for _, cutRange := range cutRanges {
			start := oldRange.addr
			stop := oldRange.EndAddr()
			if cutRange.addr >= oldRange.addr && cutRange.addr <= stop {
				if cutRange.addr > start {
					start = cutRange.addr
				}
				cutStop := cutRange.EndAddr()
				if cutStop < stop {
					stop = cutStop
				}
				newAddrs = append(newAddrs, *NewAddrRange(start, stop))
			}
		}
	}
	ar.addrs = newAddrs
}
