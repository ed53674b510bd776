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
	"time"

	"golang.org/x/time/rate"
)

// WatchUpdate is one observed value at an address, handed to the
// caller's print callback (§4.10 watch).
type WatchUpdate struct {
	Addr  uint64
	Bytes []byte
	Err   error
}

// Watch long-polls a single address at approximately intervalMs,
// invoking onUpdate when the bytes differ from the previous read (or
// on the very first read), and with Err set on every failed read. It
// stops when ctx is cancelled, the
// channel-driven quit signal in the teacher's Mover task handler
// repurposed here as a context for read-interval pacing instead of
// page-migration pacing.
func Watch(ctx context.Context, pid int, io MemIO, addr uint64, width int, intervalMs int, onUpdate func(WatchUpdate)) {
	if intervalMs <= 0 {
		intervalMs = 500
	}
	limiter := rate.NewLimiter(rate.Every(time.Duration(intervalMs)*time.Millisecond), 1)

	var prev []byte
	first := true
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		buf := make([]byte, width)
		n, err := io.Read(pid, addr, buf)
		if err != nil {
			onUpdate(WatchUpdate{Addr: addr, Err: err})
			if ctx.Err() != nil {
				return
			}
			continue
		}
		buf = buf[:n]
		if first || !bytesEqual(prev, buf) {
			onUpdate(WatchUpdate{Addr: addr, Bytes: append([]byte(nil), buf...)})
			prev = buf
			first = false
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
