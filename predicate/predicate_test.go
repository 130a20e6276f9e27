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

package predicate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// admitsRow evaluates a predicate against a row, with each comparison's Left
// indexing the row and Right indexing the argument vector. The brute-force
// reference semantics for the rewrite tests.
func admitsRow(p Predicate, row, args []Value) bool {
	switch p := p.(type) {
	case *Comparison:
		cmp := row[p.Left].Compare(args[p.Right])
		switch p.Operator {
		case Eq:
			return cmp == 0
		case Ne:
			return cmp != 0
		case Lt:
			return cmp < 0
		case Le:
			return cmp <= 0
		case Gt:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case *Connective:
		if p.Kind == Conjunction {
			for _, operand := range p.Operands {
				if !admitsRow(operand, row, args) {
					return false
				}
			}
			return true
		}
		for _, operand := range p.Operands {
			if admitsRow(operand, row, args) {
				return true
			}
		}
		return false
	default:
		panic("unknown predicate node")
	}
}

const (
	testColumns = 3
	testSlots   = 3
	testDomain  = 3
)

// randomPredicate builds a random tree over testColumns columns and
// testSlots argument slots.
func randomPredicate(rnd *rand.Rand, depth int) Predicate {
	if depth == 0 || rnd.Intn(3) == 0 {
		return NewComparison(
			ComparisonOperator(rnd.Intn(6)),
			rnd.Intn(testColumns),
			rnd.Intn(testSlots),
		)
	}

	operands := make([]Predicate, rnd.Intn(3)+1)
	for i := range operands {
		operands[i] = randomPredicate(rnd, depth-1)
	}

	if rnd.Intn(2) == 0 {
		return NewConjunction(operands...)
	}
	return NewDisjunction(operands...)
}

func randomArguments(rnd *rand.Rand) []Value {
	args := make([]Value, testSlots)
	for i := range args {
		args[i] = Integer(rnd.Intn(testDomain))
	}
	return args
}

// forEachRow enumerates every row over the test domain.
func forEachRow(f func(row []Value)) {
	row := make([]Value, testColumns)
	var fill func(int)
	fill = func(i int) {
		if i == testColumns {
			f(row)
			return
		}
		for v := 0; v < testDomain; v++ {
			row[i] = Integer(v)
			fill(i + 1)
		}
	}
	fill(0)
}

func requireSameSemantics(t *testing.T, p, q Predicate, args []Value) {
	t.Helper()
	forEachRow(func(row []Value) {
		if admitsRow(p, row, args) != admitsRow(q, row, args) {
			t.Fatalf("semantics diverge on row %v:\n%s\nvs\n%s", row, p, q)
		}
	})
}

func TestCondense(t *testing.T) {
	tests := []struct {
		name     string
		input    Predicate
		expected Predicate
	}{
		{
			"flattens nested conjunctions",
			NewConjunction(
				NewComparison(Eq, 0, 0),
				NewConjunction(NewComparison(Eq, 1, 1), NewComparison(Eq, 2, 2)),
			),
			NewConjunction(
				NewComparison(Eq, 0, 0),
				NewComparison(Eq, 1, 1),
				NewComparison(Eq, 2, 2),
			),
		},
		{
			"collapses single-child connectives",
			NewDisjunction(NewConjunction(NewComparison(Lt, 0, 0))),
			NewComparison(Lt, 0, 0),
		},
		{
			"false absorbs a conjunction",
			NewConjunction(NewComparison(Eq, 0, 0), Bool(false)),
			Bool(false),
		},
		{
			"true absorbs a disjunction",
			NewDisjunction(NewComparison(Eq, 0, 0), Bool(true)),
			Bool(true),
		},
		{
			"true drops out of a conjunction",
			NewConjunction(NewComparison(Eq, 0, 0), Bool(true)),
			NewComparison(Eq, 0, 0),
		},
		{
			"false drops out of a disjunction",
			NewDisjunction(NewComparison(Eq, 0, 0), Bool(false)),
			NewComparison(Eq, 0, 0),
		},
		{
			"absorption cascades",
			NewConjunction(
				NewComparison(Eq, 0, 0),
				NewDisjunction(Bool(true), NewComparison(Eq, 1, 1)),
			),
			NewComparison(Eq, 0, 0),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Condense(test.input))
		})
	}
}

func TestCondensePreservesSemantics(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := randomPredicate(rnd, 3)
		args := randomArguments(rnd)
		requireSameSemantics(t, p, Condense(p), args)
	}
}

func TestCondenseRemovesNesting(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		condensed := Condense(randomPredicate(rnd, 3))
		Preorder(condensed, func(node Predicate) bool {
			c, ok := node.(*Connective)
			if !ok {
				return true
			}
			require.NotEqual(t, 1, len(c.Operands), "single-child connective survived condense")
			for _, operand := range c.Operands {
				if sub, ok := operand.(*Connective); ok {
					require.NotEqual(t, c.Kind, sub.Kind, "same-kind nesting survived condense")
				}
			}
			return true
		})
	}
}

func TestNormalize(t *testing.T) {
	// a AND (b OR c) => (a AND b) OR (a AND c)
	p := NewConjunction(
		NewComparison(Eq, 0, 0),
		NewDisjunction(NewComparison(Eq, 1, 1), NewComparison(Eq, 2, 2)),
	)

	normalized := Normalize(p)
	require.True(t, IsNormalized(normalized))
	require.Equal(t, NewDisjunction(
		NewConjunction(NewComparison(Eq, 0, 0), NewComparison(Eq, 1, 1)),
		NewConjunction(NewComparison(Eq, 0, 0), NewComparison(Eq, 2, 2)),
	), normalized)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		p := randomPredicate(rnd, 3)
		normalized := Normalize(p)
		require.True(t, IsNormalized(normalized), "not in DNF:\n%s", normalized)
		require.Equal(t, normalized, Normalize(normalized))
	}
}

func TestNormalizePreservesSemantics(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		p := randomPredicate(rnd, 3)
		args := randomArguments(rnd)
		requireSameSemantics(t, p, Normalize(p), args)
	}
}

func TestIsNormalized(t *testing.T) {
	tests := []struct {
		name       string
		predicate  Predicate
		normalized bool
	}{
		{"comparison", NewComparison(Eq, 0, 0), true},
		{"conjunction of comparisons", NewConjunction(NewComparison(Eq, 0, 0), NewComparison(Ne, 1, 1)), true},
		{"disjunction of comparisons", NewDisjunction(NewComparison(Eq, 0, 0), NewComparison(Ne, 1, 1)), true},
		{
			"disjunction of conjunctions",
			NewDisjunction(NewConjunction(NewComparison(Eq, 0, 0), NewComparison(Ne, 1, 1)), NewComparison(Lt, 2, 2)),
			true,
		},
		{
			"conjunction containing a disjunction",
			NewConjunction(NewComparison(Eq, 0, 0), NewDisjunction(NewComparison(Ne, 1, 1))),
			false,
		},
		{
			"disjunction nested in a disjunction",
			NewDisjunction(NewDisjunction(NewComparison(Eq, 0, 0))),
			false,
		},
		{
			"conjunction nested two deep",
			NewDisjunction(NewConjunction(NewConjunction(NewComparison(Eq, 0, 0)))),
			false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.normalized, IsNormalized(test.predicate))
		})
	}
}

func TestDNFBlowup(t *testing.T) {
	require.Equal(t, 1, DNFBlowup(NewComparison(Eq, 0, 0)))

	// (a OR b) AND (c OR d) blows up to 4 conjunctions.
	p := NewConjunction(
		NewDisjunction(NewComparison(Eq, 0, 0), NewComparison(Eq, 0, 1)),
		NewDisjunction(NewComparison(Eq, 1, 0), NewComparison(Eq, 1, 1)),
	)
	require.Equal(t, 4, DNFBlowup(p))

	require.Equal(t, 1, DNFBlowup(Bool(true)))
	require.Equal(t, 0, DNFBlowup(Bool(false)))
}

func TestPreorder(t *testing.T) {
	leafA := NewComparison(Eq, 0, 0)
	leafB := NewComparison(Ne, 1, 1)
	inner := NewConjunction(leafB)
	root := NewDisjunction(leafA, inner)

	var visited []Predicate
	Preorder(root, func(node Predicate) bool {
		visited = append(visited, node)
		return true
	})
	require.Equal(t, []Predicate{root, leafA, inner, leafB}, visited)

	// Returning false skips the children of the current node.
	visited = nil
	Preorder(root, func(node Predicate) bool {
		visited = append(visited, node)
		return node == root
	})
	require.Equal(t, []Predicate{root, leafA, inner}, visited)
}

func TestPredicateString(t *testing.T) {
	require.Equal(t, "param_0 = param_1", NewComparison(Eq, 0, 1).String())
	require.Equal(t, "TRUE", Bool(true).String())
	require.Equal(t, "FALSE", Bool(false).String())

	p := NewConjunction(
		NewComparison(Eq, 0, 0),
		NewDisjunction(NewComparison(Lt, 1, 1), NewComparison(Ge, 2, 2)),
	)
	expected := "AND\n" +
		" ├─ param_0 = param_0\n" +
		" └─ OR\n" +
		"     ├─ param_1 < param_1\n" +
		"     └─ param_2 >= param_2"
	require.Equal(t, expected, p.String())
}
