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
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// WriteStats reports how many writes a WriteAllMatches call attempted and
// how many actually succeeded (§4.8); the writer does not abort a
// batch on a single failed address.
type WriteStats struct {
	Attempted int
	Succeeded int
}

// writeBytesFor renders the UserValue to the bytes a single write
// should place at a matched address: little-endian for numeric
// widths, verbatim for byte arrays (the mask is write-only-ignored),
// and the raw string bytes for string matches.
func writeBytesFor(uv *UserValue, width int) []byte {
	switch {
	case uv.Width == FlagByteArray:
		return uv.Bytes
	case uv.Width == FlagString:
		return []byte(uv.Str)
	case uv.Width.Has(FlagString) || uv.Width.Has(FlagByteArray):
		return nil
	default:
		if width <= 0 {
			return nil
		}
		return littleEndianBytes(uint64(uv.IntLow), width)
	}
}

// WriteAddress writes one value to a single address (§4.8).
func WriteAddress(pid int, io MemIO, addr uint64, uv *UserValue) error {
	width := widthOf(uv.Width)
	buf := writeBytesFor(uv, width)
	if len(buf) == 0 {
		return errors.Wrap(ErrInvalidArgument, "user value carries no writable width")
	}
	n, err := io.Write(pid, addr, buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return errors.Wrapf(ErrIo, "short write at %#x: wrote %d of %d bytes", addr, n, len(buf))
	}
	return nil
}

// WriteAllMatches writes uv to every live match in m, widest-bit-
// first per cell, then skips ahead that many cells so the same match
// is not written twice (§4.8). Per-address failures are collected but
// do not abort the batch.
func WriteAllMatches(pid int, io MemIO, m *MatchArray, uv *UserValue) (WriteStats, error) {
	stats := WriteStats{}
	var errs *multierror.Error

	m.ForEach(func(s *Swath) int {
		data := s.Data
		for i := 0; i < len(data); {
			if data[i].MatchInfo.IsEmpty() {
				i++
				continue
			}
			width := widestWidth(data[i].MatchInfo)
			if width <= 0 {
				width = 1
			}
			addr := s.FirstByteInChild + uint64(i)
			cellUv := uv
			if !uv.Width.Has(FlagString) && !uv.Width.Has(FlagByteArray) {
				if bit := flagForWidth(widestWidth(data[i].MatchInfo)); bit != FlagEmpty {
					widened := *uv
					widened.Width = bit
					cellUv = &widened
				}
			}
			stats.Attempted++
			if err := WriteAddress(pid, io, addr, cellUv); err != nil {
				errs = multierror.Append(errs, errors.Wrapf(err, "write at %#x", addr))
			} else {
				stats.Succeeded++
			}
			i += width
		}
		return 0
	})

	if errs != nil {
		return stats, errs.ErrorOrNil()
	}
	return stats, nil
}

// WriteNthMatch writes uv to the N-th match in the same ascending
// enumeration order List uses, so `list N` and `write ... N` address
// the same cell (§5 ordering guarantee d).
func WriteNthMatch(pid int, io MemIO, m *MatchArray, index int, uv *UserValue) error {
	addr, ok := nthMatchAddress(m, index)
	if !ok {
		return errors.Wrapf(ErrInvalidArgument, "no match at index %d", index)
	}
	return WriteAddress(pid, io, addr, uv)
}

// widestWidth returns the byte-width of the widest numeric bit set in
// f, or 0 if f carries no fixed-width numeric bit (string/byte-array
// matches are reported to the caller as width 1 by WriteAllMatches,
// since their true extent is a Predicate-time concept this dense
// representation does not retain).
func widestWidth(f MatchFlags) int {
	best := 0
	for _, bit := range numericWidthFlags {
		if f.Has(bit) {
			if w := widthOf(bit); w > best {
				best = w
			}
		}
	}
	return best
}
