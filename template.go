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
	"github.com/pilosa/pilosa/roaring"

	"github.com/dolthub/dibs/predicate"
	"github.com/dolthub/dibs/solver"
)

// RequestTemplate is the registered shape of a database operation: the table
// it touches, the column sets it reads and writes, and a predicate over the
// operation's arguments identifying the rows of interest. Templates are
// immutable and live for the engine lifetime; requests are instantiated from
// them by binding an argument vector at acquire time.
type RequestTemplate struct {
	table        int
	readColumns  *roaring.Bitmap
	writeColumns *roaring.Bitmap
	predicate    predicate.Predicate
}

// NewRequestTemplate registers the shape (table, read columns, write
// columns, predicate).
func NewRequestTemplate(table int, readColumns, writeColumns []uint64, pred predicate.Predicate) *RequestTemplate {
	return &RequestTemplate{
		table:        table,
		readColumns:  roaring.NewBitmap(readColumns...),
		writeColumns: roaring.NewBitmap(writeColumns...),
		predicate:    pred,
	}
}

// Table returns the table the template operates on.
func (t *RequestTemplate) Table() int {
	return t.table
}

// Predicate returns the template's predicate.
func (t *RequestTemplate) Predicate() predicate.Predicate {
	return t.predicate
}

// potentialConflict is the coarse column-set filter: two templates can only
// conflict when they share a table and one's writes intersect the other's
// reads or writes. The solver refines the answer with predicate logic.
func potentialConflict(p, q *RequestTemplate) bool {
	return p.table == q.table &&
		(p.readColumns.IntersectionCount(q.writeColumns) > 0 ||
			p.writeColumns.IntersectionCount(q.readColumns) > 0 ||
			p.writeColumns.IntersectionCount(q.writeColumns) > 0)
}

// preparedTemplate is the registration-time expansion of a template: the
// derived filter argument slot, if any, and one fused conflict predicate per
// peer template that can potentially conflict.
type preparedTemplate struct {
	template *RequestTemplate
	// filter is the argument slot whose value selects the bucket partition,
	// or NoFilter when the predicate has no equality on the table's filter
	// column.
	filter int
	// conflicts[j] is the fused conflict predicate against template j, nil
	// when column sets already rule a conflict out.
	conflicts []predicate.Predicate
}

// deriveFilterSlot finds the argument slot compared for equality against the
// table's filter column: either the whole predicate is `column = ?`, or one
// conjunct of a top-level conjunction is.
func deriveFilterSlot(t *RequestTemplate, column int) int {
	switch p := t.predicate.(type) {
	case *predicate.Comparison:
		if p.Operator == predicate.Eq && p.Left == column {
			return p.Right
		}
	case *predicate.Connective:
		if p.Kind != predicate.Conjunction {
			return NoFilter
		}
		for _, operand := range p.Operands {
			if c, ok := operand.(*predicate.Comparison); ok && c.Operator == predicate.Eq && c.Left == column {
				return c.Right
			}
		}
	}
	return NoFilter
}

// prepareConflicts fuses the template's predicate against every peer
// template that passes the column-set filter.
func prepareConflicts(t *RequestTemplate, templates []*RequestTemplate) []predicate.Predicate {
	conflicts := make([]predicate.Predicate, len(templates))
	for j, other := range templates {
		if potentialConflict(t, other) {
			conflicts[j] = solver.Prepare(t.predicate, other.predicate)
		}
	}
	return conflicts
}
