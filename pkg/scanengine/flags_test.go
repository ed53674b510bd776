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

func TestMatchFlagsLattice(t *testing.T) {
	f := FlagEmpty.Set(FlagB8).Set(FlagB32)
	if !f.Has(FlagB8) || !f.Has(FlagB32) {
		t.Fatalf("expected B8|B32 set, got %s", f)
	}
	if f.Has(FlagB16) {
		t.Errorf("did not expect B16 set in %s", f)
	}
	if !f.HasAny(FlagB16 | FlagB32) {
		t.Errorf("expected HasAny to see the shared B32 bit")
	}

	cleared := f.Clear(FlagB8)
	if cleared.Has(FlagB8) {
		t.Errorf("expected B8 cleared, got %s", cleared)
	}
	if !cleared.Has(FlagB32) {
		t.Errorf("Clear must not disturb unrelated bits, got %s", cleared)
	}

	intersected := f.Intersect(FlagB8 | FlagB16)
	if intersected != FlagB8 {
		t.Errorf("expected Intersect to keep only the shared bit, got %s", intersected)
	}
}

func TestMatchFlagsIsEmpty(t *testing.T) {
	if !FlagEmpty.IsEmpty() {
		t.Error("FlagEmpty must report IsEmpty")
	}
	if FlagB8.IsEmpty() {
		t.Error("a set flag must not report IsEmpty")
	}
}

func TestSetFlagNilSafe(t *testing.T) {
	// Must not panic: predicates are routinely called with OutFlags == nil
	// when the caller only needs the matched byte count.
	setFlag(nil, FlagB32)
}

func TestSetFlagUnions(t *testing.T) {
	var out MatchFlags = FlagB8
	setFlag(&out, FlagB16)
	if !out.Has(FlagB8) || !out.Has(FlagB16) {
		t.Errorf("expected both bits set, got %s", out)
	}
}

func TestWidthOf(t *testing.T) {
	cases := []struct {
		bit   MatchFlags
		width int
	}{
		{FlagB8, 1},
		{FlagB16, 2},
		{FlagB32, 4},
		{FlagB64, 8},
		{FlagString, 0},
		{FlagByteArray, 0},
	}
	for _, tc := range cases {
		if got := widthOf(tc.bit); got != tc.width {
			t.Errorf("widthOf(%s) = %d, want %d", tc.bit, got, tc.width)
		}
	}
}

func TestMatchFlagsString(t *testing.T) {
	if FlagEmpty.String() != "EMPTY" {
		t.Errorf("expected EMPTY, got %q", FlagEmpty.String())
	}
	got := (FlagB8 | FlagString).String()
	if got != "B8|STRING" {
		t.Errorf("expected \"B8|STRING\", got %q", got)
	}
}
