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
	"os"
)

// RegionClass classifies a parsed Region (§4.3).
type RegionClass int

const (
	RegionMisc RegionClass = iota
	RegionExe
	RegionCode
	RegionHeap
	RegionStack
)

func (c RegionClass) String() string {
	switch c {
	case RegionExe:
		return "exe"
	case RegionCode:
		return "code"
	case RegionHeap:
		return "heap"
	case RegionStack:
		return "stack"
	default:
		return "misc"
	}
}

// RegionLevel is the coarse filter over which regions participate in
// a scan.
type RegionLevel int

const (
	RegionLevelAll RegionLevel = iota
	RegionLevelAllRW
	RegionLevelHeapStackExecutable
	RegionLevelHeapStackExecutableBss
)

var aliasToRegionLevel = map[string]RegionLevel{
	"all":                    RegionLevelAll,
	"allrw":                  RegionLevelAllRW,
	"heapstackexecutable":    RegionLevelHeapStackExecutable,
	"heapstackexecutablebss": RegionLevelHeapStackExecutableBss,
}

var constPagesize int64 = int64(os.Getpagesize())
var constUPagesize uint64 = uint64(constPagesize)

// defaultBlockSize is the block-read granularity used by a scan when
// ScanOptions.BlockSize is left at its zero value.
const defaultBlockSize = 64 * 1024
