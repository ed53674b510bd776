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
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// ScanFirstPassParallel partitions regions across a worker pool sized
// to host concurrency, grounded on the semaphore+WaitGroup shape used
// for concurrent region scanning in the reference scan-parallel
// example, but concatenating per-region results in ascending region
// order rather than appending under a lock, so the result is
// bit-identical to ScanFirstPass for a quiescent target (§4.7, §8
// property 5): a single worker owns a region end-to-end, so no
// per-offset running state crosses a worker boundary.
func ScanFirstPassParallel(pid int, io MemIO, options ScanOptions, uv *UserValue, cache *regexCache, cancel *CancelToken) (*MatchArray, ScanStats, error) {
	options = options.normalized()
	pred, err := PredicateFor(options.DataType)
	if err != nil {
		return nil, ScanStats{}, err
	}
	if err := validateRegex(options, uv, cache); err != nil {
		return nil, ScanStats{}, err
	}

	regions, err := procMaps(pid)
	if err != nil {
		return nil, ScanStats{}, err
	}
	regions = FilterRegions(regions, options.RegionLevel)

	swaths := make([]*Swath, len(regions))
	byteCounts := make([]int64, len(regions))

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(regions) {
		workers = len(regions)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	var mu sync.Mutex
	var firstErr error

	for idx := range regions {
		if cancel.Cancelled() {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			buf := make([]byte, options.BlockSize)
			var localStats ScanStats
			swath := scanRegionFirstPass(pid, io, regions[i], options, uv, pred, cache, buf, cancel, &localStats)
			if swath == nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = errors.Wrap(ErrCancelled, "scan cancelled")
				}
				mu.Unlock()
				return
			}
			swaths[i] = swath
			byteCounts[i] = localStats.BytesScanned
		}(idx)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, ScanStats{}, firstErr
	}
	if cancel.Cancelled() {
		return nil, ScanStats{}, errors.Wrap(ErrCancelled, "scan cancelled")
	}

	result := NewMatchArray()
	stats := ScanStats{}
	for i, s := range swaths {
		if s == nil {
			continue
		}
		result.AppendSwath(s)
		stats.RegionsVisited++
		stats.BytesScanned += byteCounts[i]
	}
	stats.Matches = result.Count()
	return result, stats, nil
}
