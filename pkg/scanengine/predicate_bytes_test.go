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

func TestBytePredicateEqualTo(t *testing.T) {
	pred, err := PredicateFor(DataTypeByteArray)
	if err != nil {
		t.Fatal(err)
	}
	uv, err := ParseUserValue(DataTypeByteArray, MatchKindEqualTo, []string{"deadbeef"})
	if err != nil {
		t.Fatal(err)
	}
	current := []byte{0xde, 0xad, 0xbe, 0xef, 0x00}
	var out MatchFlags
	n := pred(PredicateInput{Current: current, AvailableLen: len(current), UserValue: uv, MatchKind: MatchKindEqualTo, OutFlags: &out})
	if n != 4 {
		t.Fatalf("expected a 4-byte match, got %d", n)
	}
	if !out.Has(FlagByteArray) {
		t.Errorf("expected FlagByteArray set, got %s", out)
	}
}

func TestBytePredicateMaskWildcard(t *testing.T) {
	pred, _ := PredicateFor(DataTypeByteArray)
	uv, err := ParseUserValue(DataTypeByteArray, MatchKindEqualTo, []string{"dead0000", "ffff0000"})
	if err != nil {
		t.Fatal(err)
	}
	current := []byte{0xde, 0xad, 0x99, 0x99}
	n := pred(PredicateInput{Current: current, AvailableLen: len(current), UserValue: uv, MatchKind: MatchKindEqualTo})
	if n != 4 {
		t.Fatalf("expected the masked wildcard bytes to be ignored, got %d", n)
	}
}

func TestBytePredicateAnyAlwaysMatchesNeedleLength(t *testing.T) {
	pred, _ := PredicateFor(DataTypeByteArray)
	uv, _ := ParseUserValue(DataTypeByteArray, MatchKindAny, nil)
	uv.Bytes = []byte{0, 0, 0}
	n := pred(PredicateInput{Current: []byte{9, 9, 9, 9}, AvailableLen: 4, UserValue: uv, MatchKind: MatchKindAny})
	if n != 3 {
		t.Fatalf("expected Any to report the needle length (3), got %d", n)
	}
}

func TestBytePredicateTooShort(t *testing.T) {
	pred, _ := PredicateFor(DataTypeByteArray)
	uv, _ := ParseUserValue(DataTypeByteArray, MatchKindEqualTo, []string{"deadbeef"})
	n := pred(PredicateInput{Current: []byte{0xde, 0xad}, AvailableLen: 2, UserValue: uv, MatchKind: MatchKindEqualTo})
	if n != 0 {
		t.Fatalf("expected a buffer shorter than the needle to never match, got %d", n)
	}
}
