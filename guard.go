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

import (
	"fmt"
	"sync"
)

// requestBucket is one partition of a table's in-flight registry. The mutex
// is held only for constant-time map operations: snapshot, insert, remove.
// No solver work ever runs under it.
type requestBucket struct {
	mu       sync.Mutex
	requests map[uint64]*Request
}

func newRequestBucket() *requestBucket {
	return &requestBucket{requests: make(map[uint64]*Request)}
}

// snapshotAndInsert atomically captures the requests currently in flight and
// inserts the new one, so that of any two conflicting acquires at least one
// observes the other.
func (b *requestBucket) snapshotAndInsert(id uint64, r *Request) []*Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	others := make([]*Request, 0, len(b.requests))
	for _, other := range b.requests {
		others = append(others, other)
	}
	b.requests[id] = r

	return others
}

// remove deletes and returns the request with the given id. A missing entry
// is an invariant violation.
func (b *requestBucket) remove(id uint64) *Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.requests[id]
	if !ok {
		panic(fmt.Sprintf("no request with id %d", id))
	}
	delete(b.requests, id)

	return r
}

// RequestGuard is the scoped handle returned by a successful Acquire.
// Releasing it removes the request from every bucket it was inserted into
// and wakes every acquire blocked on it. Release must be called exactly
// once; releasing a guard twice panics.
type RequestGuard struct {
	id      uint64
	buckets []*requestBucket
}

// Release removes the request from the registry and completes it.
func (g *RequestGuard) Release() {
	for _, bucket := range g.buckets {
		bucket.remove(g.id).Complete()
	}
}
