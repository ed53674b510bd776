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

func TestStringPredicateEqualTo(t *testing.T) {
	pred, err := PredicateFor(DataTypeString)
	if err != nil {
		t.Fatal(err)
	}
	uv, err := ParseUserValue(DataTypeString, MatchKindEqualTo, []string{"hello"})
	if err != nil {
		t.Fatal(err)
	}
	current := []byte("hello, world")
	var out MatchFlags
	n := pred(PredicateInput{Current: current, AvailableLen: len(current), UserValue: uv, MatchKind: MatchKindEqualTo, OutFlags: &out})
	if n != 5 {
		t.Fatalf("expected a 5-byte match, got %d", n)
	}
	if !out.Has(FlagString) {
		t.Errorf("expected FlagString set, got %s", out)
	}
}

func TestStringPredicateEqualToMismatch(t *testing.T) {
	pred, _ := PredicateFor(DataTypeString)
	uv, _ := ParseUserValue(DataTypeString, MatchKindEqualTo, []string{"hello"})
	current := []byte("goodbye")
	if n := pred(PredicateInput{Current: current, AvailableLen: len(current), UserValue: uv, MatchKind: MatchKindEqualTo}); n != 0 {
		t.Fatalf("expected no match, got %d", n)
	}
}

func TestStringPredicateRegexAnchoredAtOffset(t *testing.T) {
	pred, err := PredicateFor(DataTypeString)
	if err != nil {
		t.Fatal(err)
	}
	uv, err := ParseUserValue(DataTypeString, MatchKindRegex, []string{"[a-z]+[0-9]+"})
	if err != nil {
		t.Fatal(err)
	}
	cache := newRegexCache()

	atOffset := []byte("abc123tail")
	n := pred(PredicateInput{Current: atOffset, AvailableLen: len(atOffset), UserValue: uv, MatchKind: MatchKindRegex, RegexCache: cache})
	if n != 6 {
		t.Fatalf("expected the match to cover \"abc123\" (6 bytes), got %d", n)
	}

	notAtOffset := []byte("___abc123")
	if n := pred(PredicateInput{Current: notAtOffset, AvailableLen: len(notAtOffset), UserValue: uv, MatchKind: MatchKindRegex, RegexCache: cache}); n != 0 {
		t.Fatalf("expected a match starting mid-buffer to be rejected as not anchored at offset 0, got %d", n)
	}
}

func TestStringPredicateRegexCompileErrorIsNoMatch(t *testing.T) {
	pred, _ := PredicateFor(DataTypeString)
	uv, _ := ParseUserValue(DataTypeString, MatchKindRegex, []string{"("})
	cache := newRegexCache()
	current := []byte("anything")
	if n := pred(PredicateInput{Current: current, AvailableLen: len(current), UserValue: uv, MatchKind: MatchKindRegex, RegexCache: cache}); n != 0 {
		t.Fatalf("expected an invalid pattern to simply never match, got %d", n)
	}
}

func TestStringPredicateRegexWithoutCacheNeverMatches(t *testing.T) {
	pred, _ := PredicateFor(DataTypeString)
	uv, _ := ParseUserValue(DataTypeString, MatchKindRegex, []string{"a+"})
	current := []byte("aaa")
	if n := pred(PredicateInput{Current: current, AvailableLen: len(current), UserValue: uv, MatchKind: MatchKindRegex, RegexCache: nil}); n != 0 {
		t.Fatalf("expected a nil RegexCache to fail closed, got %d", n)
	}
}
