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

import "github.com/pkg/errors"

// Sentinel errors forming the semantic taxonomy of §7. Callers use
// errors.Is/errors.Cause (github.com/pkg/errors) against these rather
// than matching on message text.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoSuchProcess   = errors.New("no such process")
	ErrPermissionDenied = errors.New("permission denied")
	ErrRegexCompile    = errors.New("regex did not compile")
	ErrCancelled       = errors.New("operation cancelled")
	ErrIo              = errors.New("io error")
	ErrInternal        = errors.New("internal error")
)
