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

// SessionConfig is the small, JSON-tagged defaults struct a session
// starts from, in the shape of the teacher's MoverConfig: a handful
// of scalar knobs with a documented defaults literal rather than a
// config-file-loading framework.
type SessionConfig struct {
	Step        int         `json:"step"`
	BlockSize   int         `json:"blockSize"`
	RegionLevel RegionLevel `json:"regionLevel"`
	WatchMs     int         `json:"watchIntervalMs"`
	Parallel    bool        `json:"parallel"`
}

// DefaultSessionConfig mirrors the defaults named in §4.5/§4.10: a
// 64 KiB block, byte-granularity step, the HeapStackExecutable region
// level, and a half-second watch cadence.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Step:        1,
		BlockSize:   defaultBlockSize,
		RegionLevel: RegionLevelHeapStackExecutable,
		WatchMs:     500,
		Parallel:    false,
	}
}
