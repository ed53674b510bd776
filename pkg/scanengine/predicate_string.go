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

import "bytes"

func init() {
	RegisterPredicateFamily(DataTypeString, stringPredicate())
}

// stringPredicate implements EqualTo (byte-exact compare) and Regex
// (leftmost match anchored at the candidate offset) for the string
// family (§4.4). Regex patterns are compiled through the session's
// bounded regexCache so repeated scans don't recompile on every byte.
func stringPredicate() Predicate {
	return func(in PredicateInput) int {
		if in.UserValue == nil {
			return 0
		}
		switch in.MatchKind {
		case MatchKindEqualTo:
			needle := []byte(in.UserValue.Str)
			n := len(needle)
			if in.AvailableLen < n {
				return 0
			}
			if !bytes.Equal(in.Current[:n], needle) {
				return 0
			}
			setFlag(in.OutFlags, FlagString)
			return n
		case MatchKindRegex:
			if in.RegexCache == nil {
				return 0
			}
			re, err := in.RegexCache.Compile(in.UserValue.Str)
			if err != nil {
				return 0
			}
			loc := re.FindIndex(in.Current[:in.AvailableLen])
			if loc == nil || loc[0] != 0 {
				return 0
			}
			setFlag(in.OutFlags, FlagString)
			return loc[1]
		default:
			return 0
		}
	}
}
