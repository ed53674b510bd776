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
	"os"
	"testing"
	"unsafe"

	"github.com/pkg/errors"
)

// procIOTarget is read and written by the MemIO strategies below against
// this test binary's own pid: a process may always process_vm_readv/writev
// its own address space, so no privileged fixture is needed.
var procIOTarget uint32 = 0xcafef00d

func procIOTargetAddr() uint64 {
	return uint64(uintptr(unsafe.Pointer(&procIOTarget)))
}

func TestVectoredIOReadSelf(t *testing.T) {
	io := &VectoredIO{}
	buf := make([]byte, 4)
	n, err := io.Read(os.Getpid(), procIOTargetAddr(), buf)
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 bytes read, got %d", n)
	}
	got := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	if got != procIOTarget {
		t.Errorf("expected to read back %#x, got %#x", procIOTarget, got)
	}
}

func TestVectoredIOWriteSelf(t *testing.T) {
	io := &VectoredIO{}
	newValue := []byte{0xef, 0xbe, 0xad, 0xde}
	n, err := io.Write(os.Getpid(), procIOTargetAddr(), newValue)
	if err != nil {
		t.Fatalf("Write: %s", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 bytes written, got %d", n)
	}
	if procIOTarget != 0xdeadbeef {
		t.Errorf("expected the write to land on the live variable, got %#x", procIOTarget)
	}
}

func TestProcFileIOReadSelf(t *testing.T) {
	io, err := NewProcFileIO(os.Getpid())
	if err != nil {
		t.Fatalf("NewProcFileIO: %s", err)
	}
	defer io.Close()
	buf := make([]byte, 4)
	n, err := io.Read(os.Getpid(), procIOTargetAddr(), buf)
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 bytes read, got %d", n)
	}
}

func TestNewProcFileIOClassifiesOpenError(t *testing.T) {
	if _, err := NewProcFileIO(1); err != nil {
		// pid 1 commonly denies /proc/1/mem to an unprivileged test
		// runner; either a permission or a not-found-style wrap is
		// acceptable, but it must be one of the taxonomy's sentinels.
		cause := errors.Cause(err)
		if cause != ErrPermissionDenied && cause != ErrNoSuchProcess && cause != ErrIo {
			t.Errorf("expected a classified sentinel error, got %v", err)
		}
	}
}
