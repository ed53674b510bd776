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
	"fmt"
	"testing"
)

func TestRegexCacheCompileMemoizes(t *testing.T) {
	c := newRegexCache()
	re1, err := c.Compile("a+b*")
	if err != nil {
		t.Fatal(err)
	}
	re2, err := c.Compile("a+b*")
	if err != nil {
		t.Fatal(err)
	}
	if re1 != re2 {
		t.Error("expected a repeated Compile of the same pattern to return the cached *Regexp")
	}
}

func TestRegexCacheCompileError(t *testing.T) {
	c := newRegexCache()
	if _, err := c.Compile("("); err == nil {
		t.Fatal("expected an invalid pattern to fail to compile")
	}
}

func TestRegexCacheEvictsWhenFull(t *testing.T) {
	c := newRegexCache()
	c.maxSize = 2
	if _, err := c.Compile("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Compile("b"); err != nil {
		t.Fatal(err)
	}
	if len(c.compiled) != 2 {
		t.Fatalf("expected 2 compiled patterns, got %d", len(c.compiled))
	}
	if _, err := c.Compile("c"); err != nil {
		t.Fatal(err)
	}
	if len(c.compiled) != 1 {
		t.Fatalf("expected the cache to evict everything before adding the pattern that filled it, got %d entries", len(c.compiled))
	}
}

func TestRegexCacheReset(t *testing.T) {
	c := newRegexCache()
	if _, err := c.Compile("x"); err != nil {
		t.Fatal(err)
	}
	c.Reset()
	if len(c.compiled) != 0 {
		t.Errorf("expected Reset to empty the cache, got %d entries", len(c.compiled))
	}
}

func TestRegexCacheConcurrentCompile(t *testing.T) {
	c := newRegexCache()
	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		i := i
		go func() {
			_, err := c.Compile(fmt.Sprintf("pattern-%d", i%4))
			done <- err
		}()
	}
	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Compile failed: %s", err)
		}
	}
}
