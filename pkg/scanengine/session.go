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
	"context"

	"github.com/pkg/errors"
)

// Session is the façade a REPL (or any other caller) drives: it holds
// the target pid, the live MatchArray, and the scan defaults, and
// exposes exactly the operations of §4.10.
type Session struct {
	pid     int
	matches *MatchArray
	config  SessionConfig
	io      MemIO
	regex   *regexCache
	cancel  *CancelToken

	lastDataType DataType
}

// LastDataType returns the data type of the most recent scan, used by
// the writer to infer a literal's width when the caller does not
// repeat the data type (§6's `write <value>`).
func (s *Session) LastDataType() DataType {
	return s.lastDataType
}

// NewSession starts with no pid set and an empty MatchArray.
func NewSession() *Session {
	return &Session{
		matches: NewMatchArray(),
		config:  DefaultSessionConfig(),
		io:      NewMemIO(),
		regex:   newRegexCache(),
		cancel:  &CancelToken{},
	}
}

func (s *Session) Pid() int { return s.pid }

// SetPid changes the target and clears the MatchArray, since matches
// from a different process's address space are meaningless (§4.10).
func (s *Session) SetPid(pid int) {
	s.pid = pid
	s.matches = NewMatchArray()
	s.regex.Reset()
}

// Reset clears the MatchArray and the regex cache without changing
// the target pid.
func (s *Session) Reset() {
	s.matches = NewMatchArray()
	s.regex.Reset()
}

// Count returns the total live cell count.
func (s *Session) Count() int {
	return s.matches.Count()
}

func (s *Session) Config() SessionConfig      { return s.config }
func (s *Session) SetConfig(c SessionConfig)  { s.config = c }

func (s *Session) optionsFor(dt DataType, mk MatchKind, reverse bool) ScanOptions {
	return ScanOptions{
		DataType:          dt,
		MatchKind:         mk,
		ReverseEndianness: reverse,
		Step:              s.config.Step,
		BlockSize:         s.config.BlockSize,
		RegionLevel:       s.config.RegionLevel,
	}
}

// Scan runs a first pass if the MatchArray is empty, otherwise a
// narrowing pass against the live array, per §4.10.
func (s *Session) Scan(dt DataType, mk MatchKind, uv *UserValue, reverse bool) (ScanStats, error) {
	if s.pid == 0 {
		return ScanStats{}, errors.Wrap(ErrInvalidArgument, "no pid set")
	}
	options := s.optionsFor(dt, mk, reverse)
	s.cancel = &CancelToken{}
	s.lastDataType = dt

	if s.matches.IsEmpty() {
		var result *MatchArray
		var stats ScanStats
		var err error
		if s.config.Parallel {
			result, stats, err = ScanFirstPassParallel(s.pid, s.io, options, uv, s.regex, s.cancel)
		} else {
			result, stats, err = ScanFirstPass(s.pid, s.io, options, uv, s.regex, s.cancel)
		}
		if err != nil {
			return ScanStats{}, err
		}
		s.matches = result
		return stats, nil
	}

	stats, err := NarrowMatchArray(s.pid, s.io, s.matches, options, uv, s.regex, s.cancel)
	if err != nil {
		return ScanStats{}, err
	}
	return stats, nil
}

// Snapshot runs an explicit first pass with matchKind Any, discarding
// any existing matches, for users who want a baseline before
// narrowing (§4.10).
func (s *Session) Snapshot(dt DataType) (ScanStats, error) {
	s.matches = NewMatchArray()
	return s.Scan(dt, MatchKindAny, nil, false)
}

// List produces up to limit records in ascending address order, with
// Region filled in from a fresh read of the target's maps where
// possible. A failure to read maps (process exited, permission
// revoked) is not fatal to listing: Region is simply left blank.
func (s *Session) List(limit int) []MatchRecord {
	records := List(s.matches, limit)
	if s.pid == 0 {
		return records
	}
	regions, err := procMaps(s.pid)
	if err != nil {
		return records
	}
	for i := range records {
		records[i].Region = describeRegion(regions, records[i].Address)
	}
	return records
}

// Write writes uv to one match (when index is non-nil) or to every
// live match.
func (s *Session) Write(uv *UserValue, index *int) (WriteStats, error) {
	if s.pid == 0 {
		return WriteStats{}, errors.Wrap(ErrInvalidArgument, "no pid set")
	}
	if index != nil {
		if err := WriteNthMatch(s.pid, s.io, s.matches, *index, uv); err != nil {
			return WriteStats{Attempted: 1}, err
		}
		return WriteStats{Attempted: 1, Succeeded: 1}, nil
	}
	return WriteAllMatches(s.pid, s.io, s.matches, uv)
}

// Watch long-polls a single address until ctx is cancelled.
func (s *Session) Watch(ctx context.Context, addr uint64, width int, onUpdate func(WatchUpdate)) error {
	if s.pid == 0 {
		return errors.Wrap(ErrInvalidArgument, "no pid set")
	}
	Watch(ctx, s.pid, s.io, addr, width, s.config.WatchMs, onUpdate)
	return nil
}

// Cancel requests that an in-flight scan stop at its next checkpoint.
func (s *Session) Cancel() {
	s.cancel.Cancel()
}

// Close releases the underlying MemIO strategy's resources, if any.
func (s *Session) Close() {
	if s.io != nil {
		s.io.Close()
	}
}
