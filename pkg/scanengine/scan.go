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
	"sync/atomic"

	"github.com/pkg/errors"
)

// ScanOptions configures one scan pass (§4.5).
type ScanOptions struct {
	DataType          DataType
	MatchKind         MatchKind
	ReverseEndianness bool
	Step              int
	BlockSize         int
	RegionLevel       RegionLevel
}

func (o ScanOptions) normalized() ScanOptions {
	if o.Step <= 0 {
		o.Step = 1
	}
	if o.BlockSize <= 0 {
		o.BlockSize = defaultBlockSize
	}
	return o
}

// ScanStats summarizes one completed pass.
type ScanStats struct {
	RegionsVisited int
	BytesScanned   int64
	Matches        int
}

// CancelToken is the shared atomic cancellation flag the engine checks
// between regions and between blocks within a region (§4.7). The zero
// value is "not cancelled".
type CancelToken struct {
	flag int32
}

func (c *CancelToken) Cancel() {
	if c != nil {
		atomic.StoreInt32(&c.flag, 1)
	}
}

func (c *CancelToken) Cancelled() bool {
	return c != nil && atomic.LoadInt32(&c.flag) != 0
}

// ScanFirstPass walks every region surviving options.RegionLevel and
// populates a fresh MatchArray (§4.5). A nil cancel is treated as
// never-cancelled.
func ScanFirstPass(pid int, io MemIO, options ScanOptions, uv *UserValue, cache *regexCache, cancel *CancelToken) (*MatchArray, ScanStats, error) {
	options = options.normalized()
	pred, err := PredicateFor(options.DataType)
	if err != nil {
		return nil, ScanStats{}, err
	}
	if err := validateRegex(options, uv, cache); err != nil {
		return nil, ScanStats{}, err
	}

	regions, err := procMaps(pid)
	if err != nil {
		return nil, ScanStats{}, err
	}
	regions = FilterRegions(regions, options.RegionLevel)

	result := NewMatchArray()
	stats := ScanStats{}
	buf := make([]byte, options.BlockSize)

	for _, region := range regions {
		if cancel.Cancelled() {
			return nil, ScanStats{}, errors.Wrap(ErrCancelled, "scan cancelled")
		}
		stats.RegionsVisited++
		swath := scanRegionFirstPass(pid, io, region, options, uv, pred, cache, buf, cancel, &stats)
		if swath == nil {
			return nil, ScanStats{}, errors.Wrap(ErrCancelled, "scan cancelled")
		}
		result.AppendSwath(swath)
	}
	stats.Matches = result.Count()
	return result, stats, nil
}

// validateRegex pre-compiles a Regex matchKind's pattern before any
// scan/narrow work starts. Predicate has no error channel of its own
// (predicate.go), so a broken pattern would otherwise surface as a
// silent, scan-wide no-match instead of the ErrRegexCompile failure
// §4.4/§7 require — and for narrowing, as the session's entire live
// MatchArray being wiped instead of left unchanged.
func validateRegex(options ScanOptions, uv *UserValue, cache *regexCache) error {
	if options.MatchKind != MatchKindRegex || uv == nil {
		return nil
	}
	if cache == nil {
		return errors.Wrap(ErrRegexCompile, "no regex cache configured")
	}
	_, err := cache.Compile(uv.Str)
	return err
}

// scanRegionFirstPass owns one region end-to-end; it is also the unit
// of work a parallel worker executes (§4.7). Returns nil on
// cancellation.
func scanRegionFirstPass(pid int, io MemIO, region Region, options ScanOptions, uv *UserValue, pred Predicate, cache *regexCache, buf []byte, cancel *CancelToken, stats *ScanStats) *Swath {
	data := make([]OldValueAndMatchInfo, region.Size)
	for offset := uint64(0); offset < region.Size; offset += uint64(len(buf)) {
		if cancel.Cancelled() {
			return nil
		}
		want := uint64(len(buf))
		if remain := region.Size - offset; remain < want {
			want = remain
		}
		n, err := io.Read(pid, region.Start+offset, buf[:want])
		if err != nil || n <= 0 {
			continue
		}
		if stats != nil {
			stats.BytesScanned += int64(n)
		}
		block := buf[:n]
		for i := 0; i < n; i += options.Step {
			var out MatchFlags
			m := pred(PredicateInput{
				Current:           block[i:],
				AvailableLen:      n - i,
				UserValue:         uv,
				MatchKind:         options.MatchKind,
				ReverseEndianness: options.ReverseEndianness,
				OutFlags:          &out,
				RegexCache:        cache,
			})
			if m <= 0 {
				continue
			}
			// A match only marks its start position: out records the
			// widths this byte participated in as a start, not every
			// byte the value spans. The continuation bytes get their
			// own (possibly different) verdict on their own iteration.
			// Every byte of the span keeps its own value as OldByte,
			// since narrowing reads a wide match's old value from the
			// cells it spans.
			cell := &data[offset+uint64(i)]
			cell.MatchInfo = cell.MatchInfo.Union(out)
			for j := 0; j < m && i+j < n; j++ {
				data[offset+uint64(i+j)].OldByte = block[i+j]
			}
		}
	}
	return NewSwath(region.Start, data)
}

// NarrowMatchArray re-evaluates every live cell of an existing
// MatchArray against new options/userValue (§4.6). It mutates the
// array's swaths in place and returns stats; the array itself stays
// owned by the caller's session.
func NarrowMatchArray(pid int, io MemIO, m *MatchArray, options ScanOptions, uv *UserValue, cache *regexCache, cancel *CancelToken) (ScanStats, error) {
	options = options.normalized()
	pred, err := PredicateFor(options.DataType)
	if err != nil {
		return ScanStats{}, err
	}
	if err := validateRegex(options, uv, cache); err != nil {
		return ScanStats{}, err
	}

	stats := ScanStats{}
	for _, swath := range m.Swaths() {
		if cancel.Cancelled() {
			return ScanStats{}, errors.Wrap(ErrCancelled, "scan cancelled")
		}
		stats.RegionsVisited++
		narrowSwath(pid, io, swath, options, uv, pred, cache, &stats)
	}
	m.PruneEmpty()
	stats.Matches = m.Count()
	return stats, nil
}

// cellBits lists every flag bit set on a cell, the unit of
// re-evaluation during narrowing: a numeric cell may carry several
// width bits at once, a string/byte-array cell carries exactly one.
func cellBits(f MatchFlags) []MatchFlags {
	all := []MatchFlags{FlagB8, FlagB16, FlagB32, FlagB64, FlagString, FlagByteArray}
	out := make([]MatchFlags, 0, len(all))
	for _, bit := range all {
		if f.Has(bit) {
			out = append(out, bit)
		}
	}
	return out
}

func narrowSwath(pid int, io MemIO, swath *Swath, options ScanOptions, uv *UserValue, pred Predicate, cache *regexCache, stats *ScanStats) {
	current := make([]byte, len(swath.Data))
	n, err := io.Read(pid, swath.FirstByteInChild, current)
	if err != nil {
		n = 0
	}
	if stats != nil {
		stats.BytesScanned += int64(n)
	}
	for i := range swath.Data {
		if i >= n {
			swath.Data[i].MatchInfo = FlagEmpty
			continue
		}
	}

	oldBytesAt := func(idx, width int) ([]byte, bool) {
		if idx+width > len(swath.Data) {
			return nil, false
		}
		out := make([]byte, width)
		for j := 0; j < width; j++ {
			out[j] = swath.Data[idx+j].OldByte
		}
		return out, true
	}

	for i := range swath.Data {
		cell := &swath.Data[i]
		if cell.MatchInfo.IsEmpty() {
			continue
		}
		avail := n - i
		if avail < 0 {
			avail = 0
		}
		var cur []byte
		if avail > 0 {
			cur = current[i:n]
		}
		idx := i
		kept := FlagEmpty
		for _, bit := range cellBits(cell.MatchInfo) {
			var out MatchFlags
			m := pred(PredicateInput{
				Current:           cur,
				AvailableLen:      avail,
				UserValue:         uv,
				MatchKind:         options.MatchKind,
				ReverseEndianness: options.ReverseEndianness,
				OutFlags:          &out,
				RegexCache:        cache,
				OldBytes: func(width int) ([]byte, bool) {
					return oldBytesAt(idx, width)
				},
			})
			if m > 0 && out.Has(bit) {
				kept = kept.Union(bit)
			}
		}
		cell.MatchInfo = kept
		if !kept.IsEmpty() && avail > 0 {
			cell.OldByte = current[i]
		}
	}
	// Re-baseline every byte read, so the cells a kept wide match spans
	// hold this pass's bytes for the next narrowing.
	for i := 0; i < n; i++ {
		swath.Data[i].OldByte = current[i]
	}
}
