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

import (
	"encoding/binary"
	"math"
)

func init() {
	RegisterPredicateFamily(DataTypeI8, numericPredicate(1, numericSigned))
	RegisterPredicateFamily(DataTypeI16, numericPredicate(2, numericSigned))
	RegisterPredicateFamily(DataTypeI32, numericPredicate(4, numericSigned))
	RegisterPredicateFamily(DataTypeI64, numericPredicate(8, numericSigned))
	RegisterPredicateFamily(DataTypeU8, numericPredicate(1, numericUnsigned))
	RegisterPredicateFamily(DataTypeU16, numericPredicate(2, numericUnsigned))
	RegisterPredicateFamily(DataTypeU32, numericPredicate(4, numericUnsigned))
	RegisterPredicateFamily(DataTypeU64, numericPredicate(8, numericUnsigned))
	RegisterPredicateFamily(DataTypeF32, numericPredicate(4, numericFloat))
	RegisterPredicateFamily(DataTypeF64, numericPredicate(8, numericFloat))
	RegisterPredicateFamily(DataTypeAnyInteger, anyNumericPredicate(numericSigned))
	RegisterPredicateFamily(DataTypeAnyFloat, anyNumericPredicate(numericFloat))
	RegisterPredicateFamily(DataTypeAnyNumber, anyNumberPredicate())
}

// numericKind distinguishes the three ways numericPredicate interprets
// the raw bytes it reads: as a two's-complement signed integer, as an
// unsigned integer (DataTypeU8..DataTypeU64), or as an IEEE
// float.
type numericKind int

const (
	numericSigned numericKind = iota
	numericUnsigned
	numericFloat
)

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func flagForWidth(width int) MatchFlags {
	switch width {
	case 1:
		return FlagB8
	case 2:
		return FlagB16
	case 4:
		return FlagB32
	case 8:
		return FlagB64
	default:
		return FlagEmpty
	}
}

// numericPredicate builds the width-W predicate for a signed integer,
// unsigned integer, or float data type, implementing the relation
// table of §4.4. kind controls only how the raw bytes are decoded and
// compared; the width/endianness/old-value plumbing is shared.
func numericPredicate(width int, kind numericKind) Predicate {
	bit := flagForWidth(width)
	return func(in PredicateInput) int {
		if in.AvailableLen < width {
			return 0
		}
		cur := in.Current[:width]
		if in.ReverseEndianness {
			cur = reverseBytes(cur)
		}

		needsOld := matchKindNeedsOld(in.MatchKind)
		var oldBuf []byte
		var haveOld bool
		if needsOld {
			oldBuf, haveOld = in.OldBytes(width)
			if !haveOld {
				return 0
			}
			if in.ReverseEndianness {
				oldBuf = reverseBytes(oldBuf)
			}
		}

		ok := false
		switch kind {
		case numericFloat:
			curF := bytesToFloat(cur, width)
			var oldF, loF, hiF float64
			if haveOld {
				oldF = bytesToFloat(oldBuf, width)
			}
			if in.UserValue != nil {
				loF, hiF = in.UserValue.FloatLow, in.UserValue.FloatHi
			}
			ok = evalFloatKind(in.MatchKind, curF, oldF, loF, hiF, in.UserValue)
		case numericUnsigned:
			curU := bytesToUint(cur, width)
			var oldU, loU, hiU uint64
			if haveOld {
				oldU = bytesToUint(oldBuf, width)
			}
			if in.UserValue != nil {
				loU, hiU = uint64(in.UserValue.IntLow), uint64(in.UserValue.IntHigh)
			}
			ok = evalUintKind(in.MatchKind, curU, oldU, loU, hiU)
		default:
			curI := bytesToInt(cur, width)
			var oldI, loI, hiI int64
			if haveOld {
				oldI = bytesToInt(oldBuf, width)
			}
			if in.UserValue != nil {
				loI, hiI = in.UserValue.IntLow, in.UserValue.IntHigh
			}
			ok = evalIntKind(in.MatchKind, curI, oldI, loI, hiI, in.UserValue)
		}
		if !ok {
			return 0
		}
		setFlag(in.OutFlags, bit)
		return width
	}
}

// anyNumericPredicate implements AnyInteger/AnyFloat: try every
// constituent width and union the bits of every width that matched,
// reporting the widest successful width's byte count (§4.4).
// Per the pinned open question (§9), this never sets a sign bit of its
// own — sign interpretation is controlled solely by dataType, so the
// aggregate simply reuses the signed numericPredicate per width; a
// caller wanting an unsigned aggregate scans DataTypeU8..DataTypeU64
// individually rather than through AnyInteger.
func anyNumericPredicate(kind numericKind) Predicate {
	widths := []int{1, 2, 4, 8}
	if kind == numericFloat {
		widths = []int{4, 8}
	}
	preds := make([]Predicate, len(widths))
	for i, w := range widths {
		preds[i] = numericPredicate(w, kind)
	}
	return func(in PredicateInput) int {
		best := 0
		var collected MatchFlags
		for _, p := range preds {
			var out MatchFlags
			scratch := in
			scratch.OutFlags = &out
			n := p(scratch)
			if n > 0 {
				collected = collected.Union(out)
				if n > best {
					best = n
				}
			}
		}
		if best == 0 {
			return 0
		}
		setFlag(in.OutFlags, collected)
		return best
	}
}

func anyNumberPredicate() Predicate {
	intPred := anyNumericPredicate(numericSigned)
	floatPred := anyNumericPredicate(numericFloat)
	return func(in PredicateInput) int {
		var intOut, floatOut MatchFlags
		scratch := in
		scratch.OutFlags = &intOut
		n1 := intPred(scratch)
		scratch.OutFlags = &floatOut
		n2 := floatPred(scratch)
		best := n1
		if n2 > best {
			best = n2
		}
		if best == 0 {
			return 0
		}
		setFlag(in.OutFlags, intOut.Union(floatOut))
		return best
	}
}

func matchKindNeedsOld(mk MatchKind) bool {
	switch mk {
	case MatchKindChanged, MatchKindNotChanged, MatchKindIncreased, MatchKindDecreased,
		MatchKindIncreasedBy, MatchKindDecreasedBy:
		return true
	default:
		return false
	}
}

func bytesToInt(b []byte, width int) int64 {
	switch width {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	case 8:
		return int64(binary.LittleEndian.Uint64(b))
	default:
		return 0
	}
}

func bytesToUint(b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	default:
		return 0
	}
}

func bytesToFloat(b []byte, width int) float64 {
	if width == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func evalIntKind(mk MatchKind, cur, old, lo, hi int64, uv *UserValue) bool {
	switch mk {
	case MatchKindAny:
		return true
	case MatchKindEqualTo:
		return cur == lo
	case MatchKindNotEqualTo:
		return cur != lo
	case MatchKindGreaterThan:
		return cur > lo
	case MatchKindLessThan:
		return cur < lo
	case MatchKindRange:
		return cur >= lo && cur <= hi
	case MatchKindChanged:
		return cur != old
	case MatchKindNotChanged:
		return cur == old
	case MatchKindIncreased:
		return cur > old
	case MatchKindDecreased:
		return cur < old
	case MatchKindIncreasedBy:
		return cur-old == lo
	case MatchKindDecreasedBy:
		return old-cur == lo
	default:
		return false
	}
}

// evalUintKind mirrors evalIntKind for the unsigned widths: IncreasedBy
// and DecreasedBy use the same subtraction-wraps-around comparison
// since Go's uint64 arithmetic is already modulo 2^64.
func evalUintKind(mk MatchKind, cur, old, lo, hi uint64) bool {
	switch mk {
	case MatchKindAny:
		return true
	case MatchKindEqualTo:
		return cur == lo
	case MatchKindNotEqualTo:
		return cur != lo
	case MatchKindGreaterThan:
		return cur > lo
	case MatchKindLessThan:
		return cur < lo
	case MatchKindRange:
		return cur >= lo && cur <= hi
	case MatchKindChanged:
		return cur != old
	case MatchKindNotChanged:
		return cur == old
	case MatchKindIncreased:
		return cur > old
	case MatchKindDecreased:
		return cur < old
	case MatchKindIncreasedBy:
		return cur-old == lo
	case MatchKindDecreasedBy:
		return old-cur == lo
	default:
		return false
	}
}

// evalFloatKind applies IEEE ordering; NaN compares false in every
// relational predicate (§4.4), which in Go's native float comparisons
// is already the case for ==, <, > — no special-casing is needed.
func evalFloatKind(mk MatchKind, cur, old, lo, hi float64, uv *UserValue) bool {
	switch mk {
	case MatchKindAny:
		return true
	case MatchKindEqualTo:
		return cur == lo
	case MatchKindNotEqualTo:
		return cur != lo
	case MatchKindGreaterThan:
		return cur > lo
	case MatchKindLessThan:
		return cur < lo
	case MatchKindRange:
		return cur >= lo && cur <= hi
	case MatchKindChanged:
		return cur != old
	case MatchKindNotChanged:
		return cur == old
	case MatchKindIncreased:
		return cur > old
	case MatchKindDecreased:
		return cur < old
	case MatchKindIncreasedBy:
		return cur-old == lo
	case MatchKindDecreasedBy:
		return old-cur == lo
	default:
		return false
	}
}
