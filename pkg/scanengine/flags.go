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

import "strings"

// MatchFlags is a bit-packed set of widths a candidate byte has
// participated in as the start of a live match. Flags form a lattice:
// narrowing clears bits, unioning sets them. The zero value, Empty,
// means the byte is not (or no longer) a candidate.
type MatchFlags uint16

const (
	FlagEmpty MatchFlags = 0
	FlagB8    MatchFlags = 1 << iota
	FlagB16
	FlagB32
	FlagB64
	FlagString
	FlagByteArray
)

// Set ORs other into f.
func (f MatchFlags) Set(other MatchFlags) MatchFlags {
	return f | other
}

// Clear ANDs-NOT other out of f.
func (f MatchFlags) Clear(other MatchFlags) MatchFlags {
	return f &^ other
}

// Intersect ANDs f and other, the narrowing operation.
func (f MatchFlags) Intersect(other MatchFlags) MatchFlags {
	return f & other
}

// Union ORs f and other.
func (f MatchFlags) Union(other MatchFlags) MatchFlags {
	return f | other
}

// Has reports whether every bit in other is set in f.
func (f MatchFlags) Has(other MatchFlags) bool {
	return f&other == other
}

// HasAny reports whether at least one bit of other is set in f.
func (f MatchFlags) HasAny(other MatchFlags) bool {
	return f&other != 0
}

// IsEmpty reports whether the candidate carries no live width.
func (f MatchFlags) IsEmpty() bool {
	return f == FlagEmpty
}

// setFlag is a null-safe OR into an optional out-pointer: predicates
// are handed an *MatchFlags that may be nil when the caller does not
// care which width satisfied the match.
func setFlag(out *MatchFlags, bit MatchFlags) {
	if out == nil {
		return
	}
	*out = out.Set(bit)
}

// widthOf returns the byte width a single flag bit denotes, or 0 for
// flags with no fixed byte width (String, ByteArray).
func widthOf(bit MatchFlags) int {
	switch bit {
	case FlagB8:
		return 1
	case FlagB16:
		return 2
	case FlagB32:
		return 4
	case FlagB64:
		return 8
	default:
		return 0
	}
}

// numericWidthFlags, in ascending width order, covers every fixed-width
// numeric flag bit. Callers needing widest-first iterate in reverse.
var numericWidthFlags = []MatchFlags{FlagB8, FlagB16, FlagB32, FlagB64}

func (f MatchFlags) String() string {
	if f == FlagEmpty {
		return "EMPTY"
	}
	names := []string{}
	if f.Has(FlagB8) {
		names = append(names, "B8")
	}
	if f.Has(FlagB16) {
		names = append(names, "B16")
	}
	if f.Has(FlagB32) {
		names = append(names, "B32")
	}
	if f.Has(FlagB64) {
		names = append(names, "B64")
	}
	if f.Has(FlagString) {
		names = append(names, "STRING")
	}
	if f.Has(FlagByteArray) {
		names = append(names, "BYTE_ARRAY")
	}
	return strings.Join(names, "|")
}
