// Copyright 2022 Intel Corporation. All Rights Reserved.
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
	"math"
	"os"
	"testing"
)

func TestCheckLivenessSelf(t *testing.T) {
	if got := CheckLiveness(os.Getpid()); got != LivenessRunning {
		t.Errorf("expected the running test binary to report LivenessRunning, got %s", got)
	}
}

func TestCheckLivenessNoSuchPid(t *testing.T) {
	// A pid this large cannot plausibly be assigned on any supported
	// kernel (pid_max tops out well below MaxInt32), so /proc/<pid>
	// reliably does not exist.
	if got := CheckLiveness(math.MaxInt32); got != LivenessDead {
		t.Errorf("expected a nonexistent pid to report LivenessDead, got %s", got)
	}
}

func TestLivenessString(t *testing.T) {
	cases := map[Liveness]string{
		LivenessRunning: "running",
		LivenessZombie:  "zombie",
		LivenessDead:    "dead",
		LivenessError:   "error",
	}
	for l, want := range cases {
		if got := l.String(); got != want {
			t.Errorf("Liveness(%d).String() = %q, want %q", l, got, want)
		}
	}
}

func TestRequireRunningSelf(t *testing.T) {
	if err := RequireRunning(os.Getpid()); err != nil {
		t.Errorf("expected the running test binary to satisfy RequireRunning, got %s", err)
	}
}

func TestRequireRunningNoSuchPid(t *testing.T) {
	if err := RequireRunning(math.MaxInt32); err == nil {
		t.Fatal("expected a nonexistent pid to fail RequireRunning")
	}
}
