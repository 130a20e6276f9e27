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

// Package dibs is a predicate-based concurrency control kernel. Transactions
// present each database operation as a request against a pre-registered
// template (table, read/write column sets, predicate); the engine admits the
// request once every previously admitted conflicting request on the same
// table has completed, and returns a guard whose release unblocks the
// successors. The kernel only gates operations, it never executes them.
package dibs

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/dibs/predicate"
	"github.com/dolthub/dibs/solver"
)

// filterMagnitude is the number of registry partitions per table at the
// Filtered optimization level.
const filterMagnitude = 1024

// NoFilter marks a table without an equality-filterable column.
const NoFilter = -1

// Dibs is the admission engine. It is safe for concurrent use; every method
// may be called from any goroutine.
type Dibs struct {
	prepared     []preparedTemplate
	inflight     [][]*requestBucket
	optimization OptimizationLevel
	blowupLimit  int
	timeout      time.Duration
	requestCount uint64

	logger *logrus.Entry
	tracer opentracing.Tracer
}

// New constructs an engine over the given templates. filters[table] is the
// column whose equality predicate partitions that table's in-flight
// registry, or NoFilter; it is only consulted at the Filtered level, but the
// registry is laid out at construction, so supply it whenever known.
// blowupLimit bounds the DNF work a single conflict test may do, and timeout
// bounds how long an acquire waits on any one conflicting peer.
func New(filters []int, templates []*RequestTemplate, optimization OptimizationLevel, blowupLimit int, timeout time.Duration) *Dibs {
	prepared := make([]preparedTemplate, len(templates))
	for i, template := range templates {
		filter := NoFilter
		if column := filters[template.table]; column != NoFilter {
			filter = deriveFilterSlot(template, column)
		}
		prepared[i] = preparedTemplate{
			template:  template,
			filter:    filter,
			conflicts: prepareConflicts(template, templates),
		}
	}

	inflight := make([][]*requestBucket, len(filters))
	for table, filter := range filters {
		partitions := 1
		if filter != NoFilter {
			partitions = filterMagnitude
		}
		buckets := make([]*requestBucket, partitions)
		for i := range buckets {
			buckets[i] = newRequestBucket()
		}
		inflight[table] = buckets
	}

	d := &Dibs{
		prepared:     prepared,
		inflight:     inflight,
		optimization: optimization,
		blowupLimit:  blowupLimit,
		timeout:      timeout,
		logger:       logrus.StandardLogger().WithField("engine", uuid.NewV4().String()),
		tracer:       opentracing.NoopTracer{},
	}

	d.logger.Debugf("registered %d templates over %d tables at optimization level %s",
		len(templates), len(filters), optimization)

	return d
}

// WithLogger overrides the engine's logger.
func (d *Dibs) WithLogger(logger *logrus.Entry) *Dibs {
	d.logger = logger
	return d
}

// WithTracer overrides the engine's tracer.
func (d *Dibs) WithTracer(tracer opentracing.Tracer) *Dibs {
	d.tracer = tracer
	return d
}

// Acquire admits a request instantiated from the given template with the
// given arguments, blocking until every conflicting in-flight request has
// completed. It returns ErrGroupConflict without waiting when a conflicting
// peer shares groupID, and ErrTimeout when a peer does not complete within
// the jittered timeout. The returned guard must be released when the guarded
// operation finishes.
func (d *Dibs) Acquire(groupID, transactionID, templateID int, arguments []predicate.Value) (*RequestGuard, error) {
	span := d.tracer.StartSpan("dibs.acquire")
	span.SetTag("template", templateID)
	span.SetTag("transaction", transactionID)
	defer span.Finish()

	prepared := &d.prepared[templateID]

	var variant requestVariant
	switch d.optimization {
	case Ungrouped, Grouped:
		variant = adHocVariant{template: prepared.template}
	default:
		variant = preparedVariant{id: templateID}
	}

	request := newRequest(groupID, transactionID, variant, arguments)
	requestID := atomic.AddUint64(&d.requestCount, 1)

	var conflicting []*Request
	var buckets []*requestBucket

	switch v := variant.(type) {
	case adHocVariant:
		buckets = d.inflight[v.template.table]
		for _, bucket := range buckets {
			conflicting = append(conflicting, d.solveAdHoc(requestID, request, v.template, bucket)...)
		}

	case preparedVariant:
		tableBuckets := d.inflight[prepared.template.table]
		if d.optimization == Filtered && prepared.filter != NoFilter {
			value, ok := arguments[prepared.filter].(predicate.Integer)
			if !ok {
				panic("filtering on non-integer columns is not supported")
			}
			bucket := tableBuckets[int(uint64(value)%uint64(len(tableBuckets)))]
			conflicting = d.solvePrepared(requestID, request, v.id, bucket)
			buckets = []*requestBucket{bucket}
		} else {
			buckets = tableBuckets
			for _, bucket := range buckets {
				conflicting = append(conflicting, d.solvePrepared(requestID, request, v.id, bucket)...)
			}
		}
	}

	guard := &RequestGuard{id: requestID, buckets: buckets}

	// Deadlock pre-check: waiting on a request from our own group could
	// close a cycle, so fail before blocking on anything.
	for _, other := range conflicting {
		if other.groupID == groupID {
			guard.Release()
			return nil, ErrGroupConflict.New(groupID)
		}
	}

	// The jitter is functional: it staggers waiters that would otherwise
	// time out in lock step under phased contention.
	timeout := time.Duration(float64(d.timeout) * (0.8 + 0.4*rand.Float64()))

	for _, other := range conflicting {
		d.logger.Tracef("request %d waiting on transaction %d", requestID, other.transactionID)
		if other.AwaitCompletion(timeout) {
			guard.Release()
			return nil, ErrTimeout.New(other.transactionID)
		}
	}

	return guard, nil
}

// solveAdHoc snapshots and joins one bucket, then filters the snapshot down
// to the requests that actually conflict, solving each pair from the raw
// predicates.
func (d *Dibs) solveAdHoc(requestID uint64, request *Request, template *RequestTemplate, bucket *requestBucket) []*Request {
	others := bucket.snapshotAndInsert(requestID, request)

	conflicting := others[:0]
	for _, other := range others {
		if other.transactionID == request.transactionID {
			continue
		}

		otherTemplate := d.templateOf(other)
		if !potentialConflict(template, otherTemplate) {
			continue
		}

		var conflicts bool
		if d.optimization == Ungrouped {
			conflicts = solver.SolveDNF(template.predicate, request.arguments,
				otherTemplate.predicate, other.arguments, d.blowupLimit)
		} else {
			conflicts = solver.SolveClustered(template.predicate, request.arguments,
				otherTemplate.predicate, other.arguments, d.blowupLimit)
		}
		if conflicts {
			conflicting = append(conflicting, other)
		}
	}

	return conflicting
}

// solvePrepared is solveAdHoc for the Prepared and Filtered levels: against
// prepared peers the conflict test is a single evaluation of the fused
// predicate, and only ad hoc peers fall back to the clustered solver.
func (d *Dibs) solvePrepared(requestID uint64, request *Request, templateID int, bucket *requestBucket) []*Request {
	others := bucket.snapshotAndInsert(requestID, request)
	prepared := &d.prepared[templateID]

	conflicting := others[:0]
	for _, other := range others {
		if other.transactionID == request.transactionID {
			continue
		}

		var conflicts bool
		switch v := other.variant.(type) {
		case adHocVariant:
			conflicts = potentialConflict(prepared.template, v.template) &&
				solver.SolveClustered(prepared.template.predicate, request.arguments,
					v.template.predicate, other.arguments, d.blowupLimit)
		case preparedVariant:
			if conflict := prepared.conflicts[v.id]; conflict != nil {
				conflicts = solver.Evaluate(conflict, request.arguments, other.arguments)
			}
		}
		if conflicts {
			conflicting = append(conflicting, other)
		}
	}

	return conflicting
}

func (d *Dibs) templateOf(r *Request) *RequestTemplate {
	switch v := r.variant.(type) {
	case adHocVariant:
		return v.template
	case preparedVariant:
		return d.prepared[v.id].template
	default:
		panic("unknown request variant")
	}
}
