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

import "github.com/pkg/errors"

// PredicateInput is everything a predicate family needs to decide a
// single candidate byte offset (§4.4).
type PredicateInput struct {
	Current      []byte // bytes read at this offset, len == AvailableLen
	AvailableLen int
	Old          *OldValueAndMatchInfo // nil on a first-ever scan
	OldBytes     func(width int) ([]byte, bool)
	UserValue    *UserValue
	MatchKind    MatchKind
	ReverseEndianness bool
	OutFlags     *MatchFlags
	RegexCache   *regexCache // only consulted by the string/regex family
}

// Predicate decides whether the candidate at this offset matches, and
// returns the number of bytes matched (0 = no match).
type Predicate func(in PredicateInput) int

// predicateFamily is keyed by DataType and dispatches to the concrete
// width/sign-specific predicate, mirroring the teacher's
// TrackerRegister/NewTracker name-to-creator registry (tracker.go),
// repurposed here from "name -> tracker constructor" to
// "data type -> predicate".
var predicateFamilies = map[DataType]Predicate{}

// RegisterPredicateFamily installs the predicate for a DataType. Called
// from each predicate_*.go file's init().
func RegisterPredicateFamily(dt DataType, p Predicate) {
	predicateFamilies[dt] = p
}

// PredicateFor returns the registered predicate for a DataType.
func PredicateFor(dt DataType) (Predicate, error) {
	p, ok := predicateFamilies[dt]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidArgument, "no predicate registered for data type %d", dt)
	}
	return p, nil
}
