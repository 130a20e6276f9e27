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

// Package solver decides whether two predicates, with their argument vectors
// substituted, can simultaneously admit a common row. The deciders only ever
// over-approximate: an answer of true means "treat as conflicting", and every
// shape or size the solver cannot analyze precisely degrades to true.
package solver

import (
	"github.com/dolthub/dibs/internal/unionfind"
	"github.com/dolthub/dibs/predicate"
)

// composeOperators returns the relation that must hold between the two
// compared argument values for the comparisons to admit a common row. The
// second return is false when no relation between the values can rule a
// common row out, which callers treat as an unconditional conflict.
func composeOperators(p, q predicate.ComparisonOperator) (predicate.ComparisonOperator, bool) {
	switch p {
	case predicate.Eq:
		return q, true
	case predicate.Ne:
		if q == predicate.Eq {
			return predicate.Ne, true
		}
	case predicate.Lt:
		switch q {
		case predicate.Eq, predicate.Gt, predicate.Ge:
			return predicate.Gt, true
		}
	case predicate.Le:
		switch q {
		case predicate.Eq:
			return predicate.Ge, true
		case predicate.Gt:
			return predicate.Gt, true
		case predicate.Ge:
			return predicate.Ge, true
		}
	case predicate.Gt:
		switch q {
		case predicate.Eq, predicate.Lt, predicate.Le:
			return predicate.Lt, true
		}
	case predicate.Ge:
		switch q {
		case predicate.Eq:
			return predicate.Le, true
		case predicate.Lt:
			return predicate.Lt, true
		case predicate.Le:
			return predicate.Le, true
		}
	}
	return 0, false
}

// satisfies applies a comparison operator to the outcome of Value.Compare.
func satisfies(cmp int, op predicate.ComparisonOperator) bool {
	switch op {
	case predicate.Eq:
		return cmp == 0
	case predicate.Ne:
		return cmp != 0
	case predicate.Lt:
		return cmp < 0
	case predicate.Le:
		return cmp <= 0
	case predicate.Gt:
		return cmp > 0
	default:
		return cmp >= 0
	}
}

// conjuncts views p as a conjunction: its operands if it is one, otherwise p
// alone.
func conjuncts(p predicate.Predicate) []predicate.Predicate {
	if c, ok := p.(*predicate.Connective); ok && c.Kind == predicate.Conjunction {
		return c.Operands
	}
	return []predicate.Predicate{p}
}

// cluster splits the paired predicate problem into independent sub-problems.
// Conjuncts of either predicate land in the same cluster when they mention a
// common column index, transitively. Each cluster yields the pair of
// sub-conjunctions contributed by p and q.
func cluster(p, q predicate.Predicate) [][2]predicate.Predicate {
	pConjuncts := conjuncts(p)
	qConjuncts := conjuncts(q)

	columns := make(map[int]int)
	uf := unionfind.New(len(pConjuncts) + len(qConjuncts))

	for i, conjunct := range append(append([]predicate.Predicate{}, pConjuncts...), qConjuncts...) {
		predicate.Preorder(conjunct, func(node predicate.Predicate) bool {
			if comparison, ok := node.(*predicate.Comparison); ok {
				if j, ok := columns[comparison.Left]; ok {
					if i != j {
						uf.Union(i, j)
					}
				} else {
					columns[comparison.Left] = i
				}
			}
			return true
		})
	}

	sets := uf.Sets()
	pairs := make([][2]predicate.Predicate, 0, len(sets))
	for _, indices := range sets {
		var pSub, qSub []predicate.Predicate
		for _, i := range indices {
			if i < len(pConjuncts) {
				pSub = append(pSub, pConjuncts[i])
			} else {
				qSub = append(qSub, qConjuncts[i-len(pConjuncts)])
			}
		}
		pairs = append(pairs, [2]predicate.Predicate{
			predicate.NewConjunction(pSub...),
			predicate.NewConjunction(qSub...),
		})
	}

	return pairs
}

func solveComparisonComparison(p *predicate.Comparison, pArgs []predicate.Value, q *predicate.Comparison, qArgs []predicate.Value) bool {
	if p.Left != q.Left {
		return true
	}

	op, ok := composeOperators(p.Operator, q.Operator)
	if !ok {
		return true
	}

	return satisfies(pArgs[p.Right].Compare(qArgs[q.Right]), op)
}

func solveComparisonConjunction(p *predicate.Comparison, pArgs []predicate.Value, q []predicate.Predicate, qArgs []predicate.Value) bool {
	for _, qConjunct := range q {
		if qComparison, ok := qConjunct.(*predicate.Comparison); ok {
			if !solveComparisonComparison(p, pArgs, qComparison, qArgs) {
				return false
			}
		}
	}
	return true
}

func solveComparisonDisjunction(p *predicate.Comparison, pArgs []predicate.Value, q []predicate.Predicate, qArgs []predicate.Value) bool {
	for _, qDisjunct := range q {
		switch qDisjunct := qDisjunct.(type) {
		case *predicate.Comparison:
			if solveComparisonComparison(p, pArgs, qDisjunct, qArgs) {
				return true
			}
		case *predicate.Connective:
			if qDisjunct.Kind == predicate.Conjunction {
				if solveComparisonConjunction(p, pArgs, qDisjunct.Operands, qArgs) {
					return true
				}
			} else {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func solveConjunctionComparison(p []predicate.Predicate, pArgs []predicate.Value, q *predicate.Comparison, qArgs []predicate.Value) bool {
	return solveComparisonConjunction(q, qArgs, p, pArgs)
}

func solveConjunctionConjunction(p []predicate.Predicate, pArgs []predicate.Value, q []predicate.Predicate, qArgs []predicate.Value) bool {
	for _, pConjunct := range p {
		if pComparison, ok := pConjunct.(*predicate.Comparison); ok {
			if !solveComparisonConjunction(pComparison, pArgs, q, qArgs) {
				return false
			}
		}
	}
	return true
}

func solveConjunctionDisjunction(p []predicate.Predicate, pArgs []predicate.Value, q []predicate.Predicate, qArgs []predicate.Value) bool {
	for _, qDisjunct := range q {
		switch qDisjunct := qDisjunct.(type) {
		case *predicate.Comparison:
			if solveConjunctionComparison(p, pArgs, qDisjunct, qArgs) {
				return true
			}
		case *predicate.Connective:
			if qDisjunct.Kind == predicate.Conjunction {
				if solveConjunctionConjunction(p, pArgs, qDisjunct.Operands, qArgs) {
					return true
				}
			} else {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func solveDisjunctionComparison(p []predicate.Predicate, pArgs []predicate.Value, q *predicate.Comparison, qArgs []predicate.Value) bool {
	return solveComparisonDisjunction(q, qArgs, p, pArgs)
}

func solveDisjunctionConjunction(p []predicate.Predicate, pArgs []predicate.Value, q []predicate.Predicate, qArgs []predicate.Value) bool {
	return solveConjunctionDisjunction(q, qArgs, p, pArgs)
}

func solveDisjunctionDisjunction(p []predicate.Predicate, pArgs []predicate.Value, q []predicate.Predicate, qArgs []predicate.Value) bool {
	for _, pDisjunct := range p {
		switch pDisjunct := pDisjunct.(type) {
		case *predicate.Comparison:
			if solveComparisonDisjunction(pDisjunct, pArgs, q, qArgs) {
				return true
			}
		case *predicate.Connective:
			if pDisjunct.Kind == predicate.Conjunction {
				if solveConjunctionDisjunction(pDisjunct.Operands, pArgs, q, qArgs) {
					return true
				}
			} else {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// SolveDNF decides whether p under pArgs and q under qArgs can admit a
// common row, normalizing both sides to DNF first. When the estimated DNF
// size of the pair exceeds blowupLimit the answer is a conservative true.
func SolveDNF(p predicate.Predicate, pArgs []predicate.Value, q predicate.Predicate, qArgs []predicate.Value, blowupLimit int) bool {
	if predicate.DNFBlowup(p)*predicate.DNFBlowup(q) > blowupLimit {
		return true
	}

	if !predicate.IsNormalized(p) {
		p = predicate.Normalize(p)
	}
	if !predicate.IsNormalized(q) {
		q = predicate.Normalize(q)
	}

	switch p := p.(type) {
	case *predicate.Comparison:
		switch q := q.(type) {
		case *predicate.Comparison:
			return solveComparisonComparison(p, pArgs, q, qArgs)
		case *predicate.Connective:
			if q.Kind == predicate.Conjunction {
				return solveComparisonConjunction(p, pArgs, q.Operands, qArgs)
			}
			return solveComparisonDisjunction(p, pArgs, q.Operands, qArgs)
		}
	case *predicate.Connective:
		switch q := q.(type) {
		case *predicate.Comparison:
			if p.Kind == predicate.Conjunction {
				return solveConjunctionComparison(p.Operands, pArgs, q, qArgs)
			}
			return solveDisjunctionComparison(p.Operands, pArgs, q, qArgs)
		case *predicate.Connective:
			switch {
			case p.Kind == predicate.Conjunction && q.Kind == predicate.Conjunction:
				return solveConjunctionConjunction(p.Operands, pArgs, q.Operands, qArgs)
			case p.Kind == predicate.Conjunction:
				return solveConjunctionDisjunction(p.Operands, pArgs, q.Operands, qArgs)
			case q.Kind == predicate.Conjunction:
				return solveDisjunctionConjunction(p.Operands, pArgs, q.Operands, qArgs)
			default:
				return solveDisjunctionDisjunction(p.Operands, pArgs, q.Operands, qArgs)
			}
		}
	}

	return true
}

// SolveClustered decomposes the pair into independent clusters and conflicts
// only when every cluster does. Clustering keeps the DNF blowup of each
// sub-problem small when predicates touch disjoint column groups.
func SolveClustered(p predicate.Predicate, pArgs []predicate.Value, q predicate.Predicate, qArgs []predicate.Value, blowupLimit int) bool {
	for _, pair := range cluster(p, q) {
		if !SolveDNF(pair[0], pArgs, pair[1], qArgs, blowupLimit) {
			return false
		}
	}
	return true
}
