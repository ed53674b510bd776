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
	"regexp"
	"sync"

	"github.com/pkg/errors"
)

// regexCache compiles and memoizes patterns for the lifetime of a
// session, mirroring the simple map-based read-cache idiom the teacher
// uses for soft-dirty page state (tracker_softdirty.go), but bounded
// and scoped to one session rather than pinned process-wide: Reset
// drops every compiled pattern so a long-lived daemon does not
// accumulate regexes across unrelated sessions.
type regexCache struct {
	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
	maxSize  int
}

const defaultRegexCacheSize = 64

func newRegexCache() *regexCache {
	return &regexCache{
		compiled: make(map[string]*regexp.Regexp),
		maxSize:  defaultRegexCacheSize,
	}
}

func (c *regexCache) Compile(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if re, ok := c.compiled[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(ErrRegexCompile, "%q: %v", pattern, err)
	}
	if len(c.compiled) >= c.maxSize {
		c.compiled = make(map[string]*regexp.Regexp)
	}
	c.compiled[pattern] = re
	return re, nil
}

func (c *regexCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compiled = make(map[string]*regexp.Regexp)
}
