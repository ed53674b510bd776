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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Liveness classifies a pid by consulting /proc/<pid>/status (§4.9).
type Liveness int

const (
	LivenessError Liveness = iota
	LivenessRunning
	LivenessZombie
	LivenessDead
)

func (l Liveness) String() string {
	switch l {
	case LivenessRunning:
		return "running"
	case LivenessZombie:
		return "zombie"
	case LivenessDead:
		return "dead"
	default:
		return "error"
	}
}

// CheckLiveness reads only the State: line of /proc/<pid>/status, per
// §6 — never signal(0), which would misreport a pid the caller lacks
// permission to signal as dead.
func CheckLiveness(pid int) Liveness {
	path := "/proc/" + strconv.Itoa(pid) + "/status"
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if isNoSuchProcess(err) {
			return LivenessDead
		}
		return LivenessError
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "State:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return LivenessError
		}
		switch fields[1] {
		case "Z":
			return LivenessZombie
		case "X", "x":
			return LivenessDead
		default:
			return LivenessRunning
		}
	}
	return LivenessError
}

// RequireRunning is a convenience wrapper used before I/O-bearing
// operations that should fail fast with a clear error instead of
// racing the kernel's own ESRCH.
func RequireRunning(pid int) error {
	switch CheckLiveness(pid) {
	case LivenessRunning:
		return nil
	case LivenessZombie, LivenessDead:
		return errors.Wrapf(ErrNoSuchProcess, "pid %d is not running", pid)
	default:
		return errors.Wrapf(ErrPermissionDenied, "pid %d: could not determine liveness", pid)
	}
}
