// Copyright 2020-2021 Dolthub, Inc.
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

package dibs

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrGroupConflict is returned by Acquire when a still-in-flight request
	// from the same group conflicts with the new request. Waiting on it
	// could deadlock, so the caller must abort or reorder instead.
	ErrGroupConflict = errors.NewKind("conflicting request in flight for group %d")

	// ErrTimeout is returned by Acquire when a conflicting peer did not
	// complete within the jittered timeout. The argument is the peer's
	// transaction id.
	ErrTimeout = errors.NewKind("timed out waiting on transaction %d")

	// ErrUnknownOptimizationLevel is returned when parsing an optimization
	// level from an unrecognized string.
	ErrUnknownOptimizationLevel = errors.NewKind("unknown optimization level %q%s")
)
