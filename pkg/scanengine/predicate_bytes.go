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

func init() {
	RegisterPredicateFamily(DataTypeByteArray, bytePredicate())
}

// bytePredicate implements the masked byte-array family (§4.4): Any
// always matches the needle's length; EqualTo matches iff every byte
// satisfies (current[i] & mask[i]) == (needle[i] & mask[i]), so a
// mask byte of 0x00 makes that position a wildcard.
func bytePredicate() Predicate {
	return func(in PredicateInput) int {
		if in.UserValue == nil {
			return 0
		}
		needle := in.UserValue.Bytes
		n := len(needle)
		if in.AvailableLen < n {
			return 0
		}
		if in.MatchKind == MatchKindAny {
			setFlag(in.OutFlags, FlagByteArray)
			return n
		}
		if in.MatchKind != MatchKindEqualTo {
			return 0
		}
		mask := in.UserValue.Mask
		for i := 0; i < n; i++ {
			m := byte(0xff)
			if mask != nil {
				m = mask[i]
			}
			if in.Current[i]&m != needle[i]&m {
				return 0
			}
		}
		setFlag(in.OutFlags, FlagByteArray)
		return n
	}
}
