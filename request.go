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
	"sync"
	"time"

	"github.com/dolthub/dibs/predicate"
)

// requestVariant carries the template information a live request needs: an
// ad hoc snapshot of the whole template at the lower optimization levels, or
// just the template id when registration-time conflict predicates do the
// work.
type requestVariant interface {
	isRequestVariant()
}

type adHocVariant struct {
	template *RequestTemplate
}

type preparedVariant struct {
	id int
}

func (adHocVariant) isRequestVariant()    {}
func (preparedVariant) isRequestVariant() {}

// Request is one live acquire: the caller's group and transaction ids, the
// template variant, the bound argument vector, and a one-shot completion
// latch other acquires block on. Arguments are immutable once supplied; the
// solver reads them concurrently from many goroutines.
type Request struct {
	groupID       int
	transactionID int
	variant       requestVariant
	arguments     []predicate.Value

	once sync.Once
	done chan struct{}
}

func newRequest(groupID, transactionID int, variant requestVariant, arguments []predicate.Value) *Request {
	return &Request{
		groupID:       groupID,
		transactionID: transactionID,
		variant:       variant,
		arguments:     arguments,
		done:          make(chan struct{}),
	}
}

// GroupID returns the caller-assigned group tag.
func (r *Request) GroupID() int {
	return r.groupID
}

// TransactionID returns the caller-assigned transaction id.
func (r *Request) TransactionID() int {
	return r.transactionID
}

// Arguments returns the argument vector bound at acquire time.
func (r *Request) Arguments() []predicate.Value {
	return r.arguments
}

// Complete sets the latch and wakes every waiter. The latch is one-shot and
// monotonic: completing an already-completed request is a no-op, and waiters
// arriving afterwards return immediately.
func (r *Request) Complete() {
	r.once.Do(func() {
		close(r.done)
	})
}

// Completed reports whether the latch is set, without blocking.
func (r *Request) Completed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// AwaitCompletion blocks until the request completes or the timeout
// elapses, and reports whether it timed out.
func (r *Request) AwaitCompletion(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.done:
		return false
	case <-timer.C:
		return true
	}
}
