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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DataType is the closed enum of value interpretations a scan may use.
type DataType int

const (
	DataTypeUnknown DataType = iota
	DataTypeI8
	DataTypeI16
	DataTypeI32
	DataTypeI64
	DataTypeU8
	DataTypeU16
	DataTypeU32
	DataTypeU64
	DataTypeF32
	DataTypeF64
	DataTypeString
	DataTypeByteArray
	DataTypeAnyInteger
	DataTypeAnyFloat
	DataTypeAnyNumber
)

// aliasToDataType recognises the CLI tokens named in the external
// interfaces: case-insensitive, with the abbreviations the REPL accepts.
var aliasToDataType = map[string]DataType{
	"int8": DataTypeI8, "i8": DataTypeI8,
	"int16": DataTypeI16, "i16": DataTypeI16,
	"int32": DataTypeI32, "i32": DataTypeI32,
	"int64": DataTypeI64, "i64": DataTypeI64,
	"int": DataTypeI64,
	"uint8": DataTypeU8, "u8": DataTypeU8,
	"uint16": DataTypeU16, "u16": DataTypeU16,
	"uint32": DataTypeU32, "u32": DataTypeU32,
	"uint64": DataTypeU64, "u64": DataTypeU64,
	"uint": DataTypeU64,
	"float": DataTypeF32, "f32": DataTypeF32,
	"double": DataTypeF64, "f64": DataTypeF64,
	"string": DataTypeString, "str": DataTypeString,
	"bytes": DataTypeByteArray, "bytearray": DataTypeByteArray,
	"any": DataTypeAnyNumber, "anynumber": DataTypeAnyNumber,
	"anyint": DataTypeAnyInteger, "anyinteger": DataTypeAnyInteger,
	"anyfloat": DataTypeAnyFloat,
}

// ParseDataType resolves a CLI token to a DataType.
func ParseDataType(token string) (DataType, error) {
	dt, ok := aliasToDataType[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return DataTypeUnknown, errors.Wrapf(ErrInvalidArgument, "unknown data type %q", token)
	}
	return dt, nil
}

// widthFlags returns the flag set a first scan of this data type
// should seed matches with (§4.1 "width-only helpers").
func (dt DataType) widthFlags() MatchFlags {
	switch dt {
	case DataTypeI8:
		return FlagB8
	case DataTypeI16:
		return FlagB16
	case DataTypeI32:
		return FlagB32
	case DataTypeI64:
		return FlagB64
	case DataTypeU8:
		return FlagB8
	case DataTypeU16:
		return FlagB16
	case DataTypeU32:
		return FlagB32
	case DataTypeU64:
		return FlagB64
	case DataTypeF32:
		return FlagB32
	case DataTypeF64:
		return FlagB64
	case DataTypeString:
		return FlagString
	case DataTypeByteArray:
		return FlagByteArray
	case DataTypeAnyInteger, DataTypeAnyNumber:
		return FlagB8 | FlagB16 | FlagB32 | FlagB64
	case DataTypeAnyFloat:
		return FlagB32 | FlagB64
	default:
		return FlagEmpty
	}
}

func (dt DataType) isFloat() bool {
	return dt == DataTypeF32 || dt == DataTypeF64 || dt == DataTypeAnyFloat
}

func (dt DataType) isAggregate() bool {
	switch dt {
	case DataTypeAnyInteger, DataTypeAnyFloat, DataTypeAnyNumber:
		return true
	default:
		return false
	}
}

// isUnsigned reports whether dt is one of the DataTypeU8..DataTypeU64
// widths, the distinct unsigned DataType values SPEC_FULL.md's data
// model calls for alongside the signed DataTypeI8..DataTypeI64 widths.
func (dt DataType) isUnsigned() bool {
	switch dt {
	case DataTypeU8, DataTypeU16, DataTypeU32, DataTypeU64:
		return true
	default:
		return false
	}
}

// MatchKind is the closed enum of relational predicates a scan applies.
type MatchKind int

const (
	MatchKindUnknown MatchKind = iota
	MatchKindAny
	MatchKindEqualTo
	MatchKindNotEqualTo
	MatchKindGreaterThan
	MatchKindLessThan
	MatchKindRange
	MatchKindChanged
	MatchKindNotChanged
	MatchKindIncreased
	MatchKindDecreased
	MatchKindIncreasedBy
	MatchKindDecreasedBy
	MatchKindRegex
)

var aliasToMatchKind = map[string]MatchKind{
	"any": MatchKindAny,
	"=":   MatchKindEqualTo, "eq": MatchKindEqualTo,
	"!=": MatchKindNotEqualTo, "neq": MatchKindNotEqualTo,
	">": MatchKindGreaterThan, "gt": MatchKindGreaterThan,
	"<": MatchKindLessThan, "lt": MatchKindLessThan,
	"range":      MatchKindRange,
	"changed":    MatchKindChanged,
	"notchanged": MatchKindNotChanged, "update": MatchKindNotChanged,
	"inc": MatchKindIncreased, "increased": MatchKindIncreased,
	"dec": MatchKindDecreased, "decreased": MatchKindDecreased,
	"incby": MatchKindIncreasedBy,
	"decby": MatchKindDecreasedBy,
	"regex": MatchKindRegex,
}

// ParseMatchKind resolves a CLI token to a MatchKind.
func ParseMatchKind(token string) (MatchKind, error) {
	mk, ok := aliasToMatchKind[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return MatchKindUnknown, errors.Wrapf(ErrInvalidArgument, "unknown match kind %q", token)
	}
	return mk, nil
}

// operandCount is how many user-supplied operands a kind expects.
func (mk MatchKind) operandCount() int {
	switch mk {
	case MatchKindAny, MatchKindChanged, MatchKindNotChanged, MatchKindIncreased, MatchKindDecreased:
		return 0
	case MatchKindRange:
		return 2
	default:
		return 1
	}
}

// UserValue is the tagged carrier a parser produces from CLI operands.
// It holds at most one operand shape; Width records which
// reinterpretations a predicate should attempt.
type UserValue struct {
	Width MatchFlags

	// Scalar integer/float operands, valid when Width names a numeric bit.
	Signed   bool
	IntLow   int64
	IntHigh  int64
	HasHigh  bool
	FloatLow float64
	FloatHi  float64

	// String operand, valid when Width == FlagString.
	Str string

	// Byte-sequence operand with optional mask, valid when
	// Width == FlagByteArray. Mask == nil means "no wildcard bytes".
	Bytes []byte
	Mask  []byte
}

// ParseUserValue parses the CLI operand(s) for dataType/matchKind.
// INTEGER_8 etc. reject out-of-range literals for the target width, as
// required by §4.1.
func ParseUserValue(dt DataType, mk MatchKind, operands []string) (*UserValue, error) {
	if mk.operandCount() != len(operands) {
		return nil, errors.Wrapf(ErrInvalidArgument, "match kind expects %d operand(s), got %d", mk.operandCount(), len(operands))
	}
	switch dt {
	case DataTypeString:
		if len(operands) == 0 {
			return nil, errors.Wrap(ErrInvalidArgument, "string match requires an operand")
		}
		return &UserValue{Width: FlagString, Str: operands[0]}, nil
	case DataTypeByteArray:
		return parseByteArrayValue(operands)
	case DataTypeF32, DataTypeF64, DataTypeAnyFloat:
		return parseFloatValue(dt, operands)
	default:
		return parseIntValue(dt, operands)
	}
}

// ByteWidthOf reports the storage width in bytes of a scanned DataType,
// defaulting to 8 for aggregate types (AnyNumber/AnyInteger/AnyFloat)
// where no single width applies.
func ByteWidthOf(dt DataType) int {
	return bitWidthOf(dt) / 8
}

func bitWidthOf(dt DataType) int {
	switch dt {
	case DataTypeI8, DataTypeU8:
		return 8
	case DataTypeI16, DataTypeU16:
		return 16
	case DataTypeI32, DataTypeU32, DataTypeF32:
		return 32
	case DataTypeI64, DataTypeU64, DataTypeF64:
		return 64
	default:
		return 64
	}
}

func parseIntValue(dt DataType, operands []string) (*UserValue, error) {
	width := bitWidthOf(dt)
	signed := !dt.isUnsigned()
	uv := &UserValue{Width: dt.widthFlags(), Signed: signed}
	if len(operands) == 0 {
		return uv, nil
	}
	low, err := parseIntLiteral(operands[0], width, signed)
	if err != nil {
		return nil, err
	}
	uv.IntLow = low
	if len(operands) == 2 {
		high, err := parseIntLiteral(operands[1], width, signed)
		if err != nil {
			return nil, err
		}
		uv.IntHigh = high
		uv.HasHigh = true
	}
	return uv, nil
}

// parseIntLiteral accepts decimal or 0x-prefixed hex. For a signed
// width it rejects literals outside the two's-complement signed range
// and allows a leading "-"; for an unsigned width it rejects a leading
// "-" outright and checks against [0, 2^width-1] instead. The literal
// is always returned as the raw bit pattern in an int64, which is
// reinterpreted as uint64 by the unsigned numeric predicates.
func parseIntLiteral(s string, width int, signed bool) (int64, error) {
	s = strings.TrimSpace(s)
	base := 10
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	if neg && !signed {
		return 0, errors.Wrapf(ErrInvalidArgument, "unsigned literal %q cannot be negative", s)
	}
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArgument, "bad integer literal %q", s)
	}
	if !signed {
		if width < 64 {
			max := (uint64(1) << width) - 1
			if u > max {
				return 0, errors.Wrapf(ErrInvalidArgument, "literal %q does not fit in %d unsigned bits", s, width)
			}
		}
		return int64(u), nil
	}
	if u > uint64(1)<<63 || (u == uint64(1)<<63 && !neg) {
		return 0, errors.Wrapf(ErrInvalidArgument, "literal %q does not fit in %d bits", s, width)
	}
	v := int64(u)
	if neg {
		v = -v
	}
	if width < 64 {
		min := int64(-1) << (width - 1)
		max := (int64(1) << (width - 1)) - 1
		if v < min || v > max {
			return 0, errors.Wrapf(ErrInvalidArgument, "literal %q does not fit in %d bits", s, width)
		}
	}
	return v, nil
}

func parseFloatValue(dt DataType, operands []string) (*UserValue, error) {
	uv := &UserValue{Width: dt.widthFlags()}
	if len(operands) == 0 {
		return uv, nil
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(operands[0]), 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidArgument, "bad float literal %q", operands[0])
	}
	uv.FloatLow = low
	if len(operands) == 2 {
		high, err := strconv.ParseFloat(strings.TrimSpace(operands[1]), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "bad float literal %q", operands[1])
		}
		uv.FloatHi = high
		uv.HasHigh = true
	}
	return uv, nil
}

// parseByteArrayValue accepts "AA BB CC" style hex pairs, with an
// optional second operand as a same-length hex mask (0xFF fixed, 0x00
// wildcard).
func parseByteArrayValue(operands []string) (*UserValue, error) {
	if len(operands) == 0 {
		return &UserValue{Width: FlagByteArray}, nil
	}
	pattern, err := parseHexBytes(operands[0])
	if err != nil {
		return nil, err
	}
	uv := &UserValue{Width: FlagByteArray, Bytes: pattern}
	if len(operands) > 1 {
		mask, err := parseHexBytes(operands[1])
		if err != nil {
			return nil, err
		}
		if len(mask) != len(pattern) {
			return nil, errors.Wrap(ErrInvalidArgument, "mask length must match pattern length")
		}
		uv.Mask = mask
	}
	return uv, nil
}

func parseHexBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "odd number of hex digits in %q", s)
	}
	out := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		b, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "bad hex byte %q", s[i:i+2])
		}
		out = append(out, byte(b))
	}
	return out, nil
}

// littleEndianBytes renders a scalar UserValue (or an arbitrary
// integer) as a little-endian byte sequence of the given width, used
// by the writer (§4.8).
func littleEndianBytes(v uint64, width int) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf[:width]
}
