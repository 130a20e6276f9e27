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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	columns := map[string]int{"s_id": 0, "sf_type": 1, "start_time": 2}

	tests := []struct {
		name     string
		expr     string
		expected Predicate
	}{
		{
			"single equality",
			"s_id = ?",
			NewComparison(Eq, 0, 0),
		},
		{
			"placeholders bind in order",
			"s_id = ? AND sf_type = ?",
			NewConjunction(NewComparison(Eq, 0, 0), NewComparison(Eq, 1, 1)),
		},
		{
			"every operator",
			"s_id = ? AND s_id != ? AND s_id < ? AND s_id <= ? AND s_id > ? AND s_id >= ?",
			NewConjunction(
				NewConjunction(
					NewConjunction(
						NewConjunction(
							NewConjunction(
								NewComparison(Eq, 0, 0),
								NewComparison(Ne, 0, 1),
							),
							NewComparison(Lt, 0, 2),
						),
						NewComparison(Le, 0, 3),
					),
					NewComparison(Gt, 0, 4),
				),
				NewComparison(Ge, 0, 5),
			),
		},
		{
			"disjunction with parens",
			"s_id = ? AND (start_time < ? OR start_time > ?)",
			NewConjunction(
				NewComparison(Eq, 0, 0),
				NewDisjunction(NewComparison(Lt, 2, 1), NewComparison(Gt, 2, 2)),
			),
		},
		{
			"column on the right mirrors the operator",
			"? > s_id",
			NewComparison(Lt, 0, 0),
		},
		{
			"equality is orientation-free",
			"? = s_id",
			NewComparison(Eq, 0, 0),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, err := Parse(test.expr, columns)
			require.NoError(t, err)
			require.Equal(t, test.expected, p)
		})
	}
}

func TestParseErrors(t *testing.T) {
	columns := map[string]int{"s_id": 0}

	_, err := Parse("not sql at all <>!", columns)
	require.Error(t, err)
	require.True(t, ErrParsePredicate.Is(err))

	_, err = Parse("s_idd = ?", columns)
	require.Error(t, err)
	require.True(t, ErrUnknownColumn.Is(err))
	require.Contains(t, err.Error(), "maybe you mean s_id?")

	// Comparisons must relate a column to a placeholder.
	_, err = Parse("s_id = 42", columns)
	require.Error(t, err)
	require.True(t, ErrUnsupportedExpression.Is(err))

	// Function calls are outside the algebra.
	_, err = Parse("lower(s_id) = ?", columns)
	require.Error(t, err)
	require.True(t, ErrUnsupportedExpression.Is(err))
}
