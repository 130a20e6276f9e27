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

package solver

import (
	"testing"

	"github.com/dolthub/dibs/predicate"
)

// The TATP-style shape: equality on a key column plus a range on another.
func benchPredicates() (predicate.Predicate, []predicate.Value, predicate.Predicate, []predicate.Value) {
	p := predicate.NewConjunction(
		predicate.NewComparison(predicate.Eq, 0, 0),
		predicate.NewComparison(predicate.Ge, 1, 1),
	)
	q := predicate.NewConjunction(
		predicate.NewComparison(predicate.Eq, 0, 0),
		predicate.NewComparison(predicate.Lt, 1, 1),
	)
	pArgs := predicate.MustValues(7, 3)
	qArgs := predicate.MustValues(7, 5)
	return p, pArgs, q, qArgs
}

func BenchmarkSolveDNF(b *testing.B) {
	p, pArgs, q, qArgs := benchPredicates()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SolveDNF(p, pArgs, q, qArgs, unlimited)
	}
}

func BenchmarkSolveClustered(b *testing.B) {
	p, pArgs, q, qArgs := benchPredicates()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SolveClustered(p, pArgs, q, qArgs, unlimited)
	}
}

func BenchmarkEvaluatePrepared(b *testing.B) {
	p, pArgs, q, qArgs := benchPredicates()
	conflict := Prepare(p, q)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(conflict, pArgs, qArgs)
	}
}
