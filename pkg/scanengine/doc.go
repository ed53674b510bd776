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

/*

	Package scanengine implements interactive scanning and patching of
	a running process's memory, in the shape of a scanmem-style memory
	scanner: locate live candidate addresses by value, narrow them
	across successive reads, and write new values back.

	Component types

	1. Process (process.go) and Region (regions.go) describe a target:
	a pid and its /proc/<pid>/maps regions, classified into
	{Misc, Exe, Code, Heap, Stack}.

	2. MemIO (procio.go) reads and writes the target's address space,
	either through the process_vm_readv/writev syscalls or through the
	/proc/<pid>/mem pseudo-file.

	3. Swath and MatchArray (swath.go, matcharray.go) hold the dense,
	byte-addressed candidate set a scan produces and a narrowing pass
	shrinks.

	4. Predicate families (predicate*.go) decide, for a data type and
	match kind, whether a candidate offset is a match and how many
	bytes it covers.

	5. The scan engine (scan.go, scan_parallel.go) walks regions in a
	first pass or re-evaluates an existing MatchArray in a narrowing
	pass, sequentially or across a region-partitioned worker pool.

	6. The writer (writer.go) composes a UserValue into bytes and
	writes them to one or every live match.

	7. Session (session.go) is the façade a REPL drives: pid, the live
	MatchArray, scan defaults, and the scan/list/write/watch
	operations.

	Supporting modules

	1. AddrRange/AddrRanges (addrrange.go) describe byte-addressed
	spans of a process's address space.
	2. liveness.go classifies a pid as running/zombie/dead/error from
	/proc/<pid>/status.
	3. regexcache.go bounds the session's compiled-regex cache.
*/

package scanengine
