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

import "github.com/dolthub/dibs/predicate"

// The prepare helpers mirror the solve helpers, but instead of evaluating
// against two argument vectors they build a symbolic conflict predicate over
// them: each emitted comparison's Left indexes the first request's arguments
// and Right the second's. The swap flag tracks how many times a dual helper
// has exchanged the two sides, so emitted comparisons keep their original
// orientation.

func prepareComparisonComparison(p, q *predicate.Comparison, swap bool) predicate.Predicate {
	if p.Left != q.Left {
		return predicate.Bool(true)
	}

	if swap {
		p, q = q, p
	}

	op, ok := composeOperators(p.Operator, q.Operator)
	if !ok {
		return predicate.Bool(true)
	}

	return predicate.NewComparison(op, p.Right, q.Right)
}

func prepareComparisonConjunction(p *predicate.Comparison, q []predicate.Predicate, swap bool) predicate.Predicate {
	var operands []predicate.Predicate
	for _, qConjunct := range q {
		if qComparison, ok := qConjunct.(*predicate.Comparison); ok {
			operands = append(operands, prepareComparisonComparison(p, qComparison, swap))
		}
	}
	return predicate.NewConjunction(operands...)
}

func prepareComparisonDisjunction(p *predicate.Comparison, q []predicate.Predicate, swap bool) predicate.Predicate {
	var operands []predicate.Predicate
	for _, qDisjunct := range q {
		switch qDisjunct := qDisjunct.(type) {
		case *predicate.Comparison:
			operands = append(operands, prepareComparisonComparison(p, qDisjunct, swap))
		case *predicate.Connective:
			if qDisjunct.Kind == predicate.Conjunction {
				operands = append(operands, prepareComparisonConjunction(p, qDisjunct.Operands, swap))
			}
		}
	}
	return predicate.NewDisjunction(operands...)
}

func prepareConjunctionComparison(p []predicate.Predicate, q *predicate.Comparison, swap bool) predicate.Predicate {
	return prepareComparisonConjunction(q, p, !swap)
}

func prepareConjunctionConjunction(p, q []predicate.Predicate, swap bool) predicate.Predicate {
	var operands []predicate.Predicate
	for _, pConjunct := range p {
		if pComparison, ok := pConjunct.(*predicate.Comparison); ok {
			operands = append(operands, prepareComparisonConjunction(pComparison, q, swap))
		}
	}
	return predicate.NewConjunction(operands...)
}

func prepareConjunctionDisjunction(p, q []predicate.Predicate, swap bool) predicate.Predicate {
	var operands []predicate.Predicate
	for _, qDisjunct := range q {
		switch qDisjunct := qDisjunct.(type) {
		case *predicate.Comparison:
			operands = append(operands, prepareConjunctionComparison(p, qDisjunct, swap))
		case *predicate.Connective:
			if qDisjunct.Kind == predicate.Conjunction {
				operands = append(operands, prepareConjunctionConjunction(p, qDisjunct.Operands, swap))
			}
		}
	}
	return predicate.NewDisjunction(operands...)
}

func prepareDisjunctionComparison(p []predicate.Predicate, q *predicate.Comparison, swap bool) predicate.Predicate {
	return prepareComparisonDisjunction(q, p, !swap)
}

func prepareDisjunctionConjunction(p, q []predicate.Predicate, swap bool) predicate.Predicate {
	return prepareConjunctionDisjunction(q, p, !swap)
}

func prepareDisjunctionDisjunction(p, q []predicate.Predicate, swap bool) predicate.Predicate {
	var operands []predicate.Predicate
	for _, pDisjunct := range p {
		switch pDisjunct := pDisjunct.(type) {
		case *predicate.Comparison:
			operands = append(operands, prepareComparisonDisjunction(pDisjunct, q, swap))
		case *predicate.Connective:
			if pDisjunct.Kind == predicate.Conjunction {
				operands = append(operands, prepareConjunctionDisjunction(pDisjunct.Operands, q, swap))
			}
		}
	}
	return predicate.NewDisjunction(operands...)
}

func prepareCluster(p, q predicate.Predicate) predicate.Predicate {
	switch p := p.(type) {
	case *predicate.Comparison:
		switch q := q.(type) {
		case *predicate.Comparison:
			return prepareComparisonComparison(p, q, false)
		case *predicate.Connective:
			if q.Kind == predicate.Conjunction {
				return prepareComparisonConjunction(p, q.Operands, false)
			}
			return prepareComparisonDisjunction(p, q.Operands, false)
		}
	case *predicate.Connective:
		switch q := q.(type) {
		case *predicate.Comparison:
			if p.Kind == predicate.Conjunction {
				return prepareConjunctionComparison(p.Operands, q, false)
			}
			return prepareDisjunctionComparison(p.Operands, q, false)
		case *predicate.Connective:
			switch {
			case p.Kind == predicate.Conjunction && q.Kind == predicate.Conjunction:
				return prepareConjunctionConjunction(p.Operands, q.Operands, false)
			case p.Kind == predicate.Conjunction:
				return prepareConjunctionDisjunction(p.Operands, q.Operands, false)
			case q.Kind == predicate.Conjunction:
				return prepareDisjunctionConjunction(p.Operands, q.Operands, false)
			default:
				return prepareDisjunctionDisjunction(p.Operands, q.Operands, false)
			}
		}
	}
	return predicate.Bool(true)
}

// Prepare fuses two predicates into a single conflict predicate over their
// paired argument vectors: evaluating the result under a concrete argument
// pair answers whether the two concrete requests conflict. The fusion runs
// once at registration time so steady-state conflict tests reduce to
// Evaluate.
func Prepare(p, q predicate.Predicate) predicate.Predicate {
	var operands []predicate.Predicate
	for _, pair := range cluster(p, q) {
		operands = append(operands, prepareCluster(
			predicate.Normalize(pair[0]),
			predicate.Normalize(pair[1]),
		))
	}

	return predicate.Condense(predicate.NewConjunction(operands...))
}

// Evaluate decides a prepared conflict predicate under a concrete argument
// pair. Each comparison's Left indexes pArgs and Right indexes qArgs;
// connectives short-circuit.
func Evaluate(conflict predicate.Predicate, pArgs, qArgs []predicate.Value) bool {
	switch conflict := conflict.(type) {
	case *predicate.Comparison:
		return satisfies(pArgs[conflict.Left].Compare(qArgs[conflict.Right]), conflict.Operator)
	case *predicate.Connective:
		if conflict.Kind == predicate.Conjunction {
			for _, operand := range conflict.Operands {
				if !Evaluate(operand, pArgs, qArgs) {
					return false
				}
			}
			return true
		}
		for _, operand := range conflict.Operands {
			if Evaluate(operand, pArgs, qArgs) {
				return true
			}
		}
		return false
	default:
		panic("unknown predicate node")
	}
}
