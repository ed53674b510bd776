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
	"testing"
	"time"
)

func TestParseTimeDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"500ms", 500 * time.Millisecond},
		{"2s", 2 * time.Second},
		{"1m", time.Minute},
		{"1h", time.Hour},
		{"250us", 250 * time.Microsecond},
		{"10", 10 * time.Second},
	}
	for _, c := range cases {
		got, err := ParseTimeDuration(c.in)
		if err != nil {
			t.Errorf("ParseTimeDuration(%q): %s", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTimeDuration(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseTimeDurationRejectsGarbage(t *testing.T) {
	if _, err := ParseTimeDuration("not-a-duration"); err == nil {
		t.Fatal("expected a non-numeric duration to be rejected")
	}
}
