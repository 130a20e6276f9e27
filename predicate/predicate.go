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

// Package predicate implements the boolean predicate algebra the conflict
// kernel decides over: comparisons between a column position and an argument
// slot, connected by AND and OR, with normalization to disjunctive normal
// form and structural simplification.
package predicate

import (
	"fmt"
	"strings"
)

// ComparisonOperator is one of the six comparison operators a predicate leaf
// may carry.
type ComparisonOperator byte

const (
	Eq ComparisonOperator = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (op ComparisonOperator) String() string {
	switch op {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	default:
		panic(fmt.Sprintf("unknown comparison operator %d", op))
	}
}

// ConnectiveKind distinguishes conjunctions from disjunctions.
type ConnectiveKind byte

const (
	Conjunction ConnectiveKind = iota
	Disjunction
)

// Predicate is a node of a predicate tree: either a *Comparison leaf or a
// *Connective over child predicates. Trees are immutable once built;
// Condense and Normalize return rewritten trees rather than mutating in
// place.
type Predicate interface {
	fmt.Stringer
	predicateNode()
}

// Comparison is a predicate leaf. Left indexes the column side of the
// comparison; Right indexes a slot in the request's argument vector. In a
// conflict predicate built by the solver, Left and Right index the two
// paired argument vectors instead.
type Comparison struct {
	Operator ComparisonOperator
	Left     int
	Right    int
}

// NewComparison returns a comparison leaf.
func NewComparison(operator ComparisonOperator, left, right int) *Comparison {
	return &Comparison{Operator: operator, Left: left, Right: right}
}

func (c *Comparison) predicateNode() {}

func (c *Comparison) String() string {
	return fmt.Sprintf("param_%d %s param_%d", c.Left, c.Operator, c.Right)
}

// Connective is an n-ary AND or OR node. An empty conjunction is TRUE and an
// empty disjunction is FALSE.
type Connective struct {
	Kind     ConnectiveKind
	Operands []Predicate
}

// NewConjunction returns the conjunction of the given operands. With no
// operands it is TRUE.
func NewConjunction(operands ...Predicate) *Connective {
	return &Connective{Kind: Conjunction, Operands: operands}
}

// NewDisjunction returns the disjunction of the given operands. With no
// operands it is FALSE.
func NewDisjunction(operands ...Predicate) *Connective {
	return &Connective{Kind: Disjunction, Operands: operands}
}

// Bool returns the constant predicate for v: TRUE as an empty conjunction,
// FALSE as an empty disjunction.
func Bool(v bool) *Connective {
	if v {
		return NewConjunction()
	}
	return NewDisjunction()
}

func (c *Connective) predicateNode() {}

func (c *Connective) String() string {
	if len(c.Operands) == 0 {
		if c.Kind == Conjunction {
			return "TRUE"
		}
		return "FALSE"
	}

	tp := NewTreePrinter()

	if c.Kind == Conjunction {
		tp.WriteNode("AND")
	} else {
		tp.WriteNode("OR")
	}

	children := make([]string, len(c.Operands))
	for i, operand := range c.Operands {
		children[i] = operand.String()
	}
	tp.WriteChildren(children...)

	return strings.TrimSuffix(tp.String(), "\n")
}

// Preorder visits every node of p in depth-first pre-order. If visit returns
// false the children of the current node are skipped.
func Preorder(p Predicate, visit func(Predicate) bool) {
	if !visit(p) {
		return
	}
	if c, ok := p.(*Connective); ok {
		for _, operand := range c.Operands {
			Preorder(operand, visit)
		}
	}
}

// Condense simplifies a predicate tree: child connectives of the same kind
// are flattened into their parent, TRUE and FALSE constants absorb or drop
// out per boolean algebra, and single-child connectives collapse to that
// child. The result evaluates identically to the input on every argument
// assignment.
func Condense(p Predicate) Predicate {
	c, ok := p.(*Connective)
	if !ok {
		return p
	}

	operands := make([]Predicate, 0, len(c.Operands))
	for _, operand := range c.Operands {
		operand = Condense(operand)

		sub, ok := operand.(*Connective)
		if !ok {
			operands = append(operands, operand)
			continue
		}

		if sub.Kind == c.Kind {
			// A same-kind empty connective is the identity element and
			// vanishes with the flattening.
			operands = append(operands, sub.Operands...)
			continue
		}

		if len(sub.Operands) == 0 {
			// FALSE inside a conjunction, or TRUE inside a disjunction:
			// the whole connective collapses to the constant.
			return Bool(c.Kind == Disjunction)
		}

		operands = append(operands, operand)
	}

	switch len(operands) {
	case 0:
		return Bool(c.Kind == Conjunction)
	case 1:
		return operands[0]
	}

	return &Connective{Kind: c.Kind, Operands: operands}
}

// Normalize rewrites a predicate into disjunctive normal form: a single
// comparison, a conjunction of comparisons, or a disjunction whose children
// are comparisons or conjunctions of comparisons. Normalize is idempotent.
func Normalize(p Predicate) Predicate {
	return Condense(distribute(p))
}

// distribute applies A AND (B1 OR B2 OR ...) => (A AND B1) OR (A AND B2) OR
// ... until no conjunction has a disjunction child.
func distribute(p Predicate) Predicate {
	c, ok := p.(*Connective)
	if !ok {
		return p
	}

	operands := make([]Predicate, len(c.Operands))
	for i, operand := range c.Operands {
		operands[i] = distribute(operand)
	}

	if c.Kind == Conjunction {
		for i, operand := range operands {
			sub, ok := operand.(*Connective)
			if !ok || sub.Kind != Disjunction {
				continue
			}

			rest := make([]Predicate, 0, len(operands)-1)
			rest = append(rest, operands[:i]...)
			rest = append(rest, operands[i+1:]...)

			disjuncts := make([]Predicate, len(sub.Operands))
			for j, disjunct := range sub.Operands {
				conjuncts := make([]Predicate, 0, len(rest)+1)
				conjuncts = append(conjuncts, rest...)
				conjuncts = append(conjuncts, disjunct)
				disjuncts[j] = distribute(NewConjunction(conjuncts...))
			}

			return NewDisjunction(disjuncts...)
		}
	}

	return &Connective{Kind: c.Kind, Operands: operands}
}

// IsNormalized reports whether p is already in disjunctive normal form.
func IsNormalized(p Predicate) bool {
	c, ok := p.(*Connective)
	if !ok {
		return true
	}

	switch c.Kind {
	case Conjunction:
		for _, operand := range c.Operands {
			if _, ok := operand.(*Comparison); !ok {
				return false
			}
		}
		return true
	default:
		for _, operand := range c.Operands {
			sub, ok := operand.(*Connective)
			if !ok {
				continue
			}
			if sub.Kind == Disjunction {
				return false
			}
			for _, subOperand := range sub.Operands {
				if _, ok := subOperand.(*Comparison); !ok {
					return false
				}
			}
		}
		return true
	}
}

// DNFBlowup estimates the number of operands p would have after
// normalization: 1 for a leaf, the sum over children of a disjunction, the
// product over children of a conjunction. The solver uses it as an early
// cutoff before distributing.
func DNFBlowup(p Predicate) int {
	c, ok := p.(*Connective)
	if !ok {
		return 1
	}

	if c.Kind == Conjunction {
		blowup := 1
		for _, operand := range c.Operands {
			blowup *= DNFBlowup(operand)
		}
		return blowup
	}

	blowup := 0
	for _, operand := range c.Operands {
		blowup += DNFBlowup(operand)
	}
	return blowup
}
