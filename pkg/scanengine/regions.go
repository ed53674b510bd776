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
	"io/ioutil"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RegionFlags are the permission/sharing bits parsed off a maps line.
type RegionFlags struct {
	Read    bool
	Write   bool
	Execute bool
	Shared  bool
}

// Region is one entry parsed from /proc/<pid>/maps.
type Region struct {
	Id       int
	Start    uint64
	Size     uint64
	Flags    RegionFlags
	Filename string
	Class    RegionClass
}

func (r *Region) EndAddr() uint64 {
	return r.Start + r.Size
}

func (r *Region) Range() AddrRange {
	return AddrRange{addr: r.Start, length: r.Size}
}

// procMaps parses /proc/<pid>/maps into classified regions, in the
// file's (ascending-address) order.
func procMaps(pid int) ([]Region, error) {
	path := "/proc/" + strconv.Itoa(pid) + "/maps"
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if isNoSuchProcess(err) {
			return nil, errors.Wrapf(ErrNoSuchProcess, "reading %s: %s", path, err)
		}
		return nil, errors.Wrapf(ErrIo, "reading %s: %s", path, err)
	}
	lines := strings.Split(string(data), "\n")
	regions := make([]Region, 0, len(lines))
	seenExe := map[string]bool{}
	var prev *Region
	for _, line := range lines {
		if line == "" {
			continue
		}
		region, ok := parseMapsLine(line)
		if !ok {
			continue
		}
		region.Id = len(regions)
		region.Class = classifyRegion(region, seenExe, prev)
		regions = append(regions, region)
		prev = &regions[len(regions)-1]
	}
	return regions, nil
}

// parseMapsLine parses one canonical line:
// START-END PERMS OFFSET DEV INODE PATH
// PATH is optional; absent PATH is tolerated (§6).
func parseMapsLine(line string) (Region, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Region{}, false
	}
	addrPart := fields[0]
	dash := strings.IndexByte(addrPart, '-')
	if dash <= 0 {
		return Region{}, false
	}
	start, err := strconv.ParseUint(addrPart[:dash], 16, 64)
	if err != nil {
		return Region{}, false
	}
	end, err := strconv.ParseUint(addrPart[dash+1:], 16, 64)
	if err != nil || end < start {
		return Region{}, false
	}
	permsPart := fields[1]
	flags := RegionFlags{}
	if len(permsPart) >= 4 {
		flags.Read = permsPart[0] == 'r'
		flags.Write = permsPart[1] == 'w'
		flags.Execute = permsPart[2] == 'x'
		flags.Shared = permsPart[3] == 's'
	}
	filename := ""
	if len(fields) >= 6 {
		filename = strings.Join(fields[5:], " ")
	}
	return Region{
		Start:    start,
		Size:     end - start,
		Flags:    flags,
		Filename: filename,
	}, true
}

// classifyRegion depends only on filename + permissions + the set of
// files that already produced an Exe mapping (seenExe), per §4.3; prev
// is not consulted.
func classifyRegion(r Region, seenExe map[string]bool, prev *Region) RegionClass {
	switch {
	case r.Filename == "[heap]":
		return RegionHeap
	case r.Filename == "[stack]" || strings.HasPrefix(r.Filename, "[stack:"):
		return RegionStack
	case isElfPath(r.Filename) && r.Flags.Execute:
		if seenExe[r.Filename] {
			return RegionCode
		}
		seenExe[r.Filename] = true
		return RegionExe
	case r.Filename == "" && r.Flags.Execute:
		return RegionCode
	default:
		return RegionMisc
	}
}

func isElfPath(filename string) bool {
	return filename != "" && !strings.HasPrefix(filename, "[")
}

// isBssCandidate reports whether r is a non-executable anonymous
// mapping immediately following an Exe/Code mapping, the
// HeapStackExecutableBss heuristic (§4.3).
func isBssCandidate(r Region, prev *Region) bool {
	if r.Filename != "" || r.Flags.Execute {
		return false
	}
	return prev != nil && (prev.Class == RegionExe || prev.Class == RegionCode) && prev.EndAddr() == r.Start
}

// FilterRegions applies a RegionLevel to a parsed region list, in
// order.
func FilterRegions(regions []Region, level RegionLevel) []Region {
	out := make([]Region, 0, len(regions))
	for i, r := range regions {
		if !r.Flags.Read {
			continue
		}
		switch level {
		case RegionLevelAll:
			out = append(out, r)
		case RegionLevelAllRW:
			if r.Flags.Write {
				out = append(out, r)
			}
		case RegionLevelHeapStackExecutable:
			if r.Class == RegionHeap || r.Class == RegionStack || r.Class == RegionExe || r.Class == RegionCode {
				out = append(out, r)
			}
		case RegionLevelHeapStackExecutableBss:
			if r.Class == RegionHeap || r.Class == RegionStack || r.Class == RegionExe || r.Class == RegionCode {
				out = append(out, r)
				continue
			}
			var prev *Region
			if i > 0 {
				prev = &regions[i-1]
			}
			if isBssCandidate(r, prev) {
				out = append(out, r)
			}
		}
	}
	return out
}

// describeRegion finds the region containing addr in a list already in
// ascending Start order (as procMaps/FilterRegions leave it) and
// formats it as "<class> <filename>" for MatchRecord.Region, or ""
// if addr falls outside every region (the target's maps changed since
// the scan that found it).
func describeRegion(regions []Region, addr uint64) string {
	i := sort.Search(len(regions), func(i int) bool {
		return regions[i].EndAddr() > addr
	})
	if i >= len(regions) || addr < regions[i].Start {
		return ""
	}
	r := regions[i]
	if r.Filename == "" {
		return r.Class.String()
	}
	return r.Class.String() + " " + r.Filename
}

func isNoSuchProcess(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory") || strings.Contains(err.Error(), "no such process")
}
