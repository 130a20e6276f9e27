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
	"fmt"
	"strconv"
	"strings"

	"github.com/dolthub/vitess/go/vt/sqlparser"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/dibs/internal/similartext"
)

var (
	// ErrParsePredicate is returned when the predicate text is not valid SQL.
	ErrParsePredicate = errors.NewKind("cannot parse predicate: %s")
	// ErrUnsupportedExpression is returned for SQL constructs outside the
	// comparison algebra, such as function calls or subqueries.
	ErrUnsupportedExpression = errors.NewKind("unsupported expression in predicate: %s")
	// ErrUnknownColumn is returned when a column name has no entry in the
	// column map supplied to Parse.
	ErrUnknownColumn = errors.NewKind("unknown column %q in predicate%s")
)

// Parse converts a SQL boolean expression into a Predicate. Column names are
// resolved through the columns map; `?` placeholders bind argument slots in
// order of appearance. Comparisons must relate a column to a placeholder;
// when the column appears on the right the operator is mirrored, so that
// `? > a` becomes `a < ?`.
func Parse(expr string, columns map[string]int) (Predicate, error) {
	stmt, err := sqlparser.Parse(fmt.Sprintf("select 1 from t where %s", expr))
	if err != nil {
		return nil, ErrParsePredicate.New(err)
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok || sel.Where == nil {
		return nil, ErrParsePredicate.New(expr)
	}

	return convertExpr(sel.Where.Expr, columns)
}

func convertExpr(expr sqlparser.Expr, columns map[string]int) (Predicate, error) {
	switch expr := expr.(type) {
	case *sqlparser.AndExpr:
		left, err := convertExpr(expr.Left, columns)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(expr.Right, columns)
		if err != nil {
			return nil, err
		}
		return NewConjunction(left, right), nil

	case *sqlparser.OrExpr:
		left, err := convertExpr(expr.Left, columns)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(expr.Right, columns)
		if err != nil {
			return nil, err
		}
		return NewDisjunction(left, right), nil

	case *sqlparser.ParenExpr:
		return convertExpr(expr.Expr, columns)

	case sqlparser.BoolVal:
		return Bool(bool(expr)), nil

	case *sqlparser.ComparisonExpr:
		return convertComparison(expr, columns)

	default:
		return nil, ErrUnsupportedExpression.New(sqlparser.String(expr))
	}
}

func convertComparison(expr *sqlparser.ComparisonExpr, columns map[string]int) (Predicate, error) {
	operator, ok := comparisonOperators[expr.Operator]
	if !ok {
		return nil, ErrUnsupportedExpression.New(sqlparser.String(expr))
	}

	if col, ok := expr.Left.(*sqlparser.ColName); ok {
		left, err := resolveColumn(col, columns)
		if err != nil {
			return nil, err
		}
		right, err := resolveArgument(expr.Right)
		if err != nil {
			return nil, err
		}
		return NewComparison(operator, left, right), nil
	}

	// The column is on the right; mirror the operator so the column stays on
	// the left of the comparison leaf.
	if col, ok := expr.Right.(*sqlparser.ColName); ok {
		left, err := resolveColumn(col, columns)
		if err != nil {
			return nil, err
		}
		right, err := resolveArgument(expr.Left)
		if err != nil {
			return nil, err
		}
		return NewComparison(mirror(operator), left, right), nil
	}

	return nil, ErrUnsupportedExpression.New(sqlparser.String(expr))
}

var comparisonOperators = map[string]ComparisonOperator{
	sqlparser.EqualStr:        Eq,
	sqlparser.NotEqualStr:     Ne,
	sqlparser.LessThanStr:     Lt,
	sqlparser.LessEqualStr:    Le,
	sqlparser.GreaterThanStr:  Gt,
	sqlparser.GreaterEqualStr: Ge,
}

func mirror(op ComparisonOperator) ComparisonOperator {
	switch op {
	case Lt:
		return Gt
	case Le:
		return Ge
	case Gt:
		return Lt
	case Ge:
		return Le
	default:
		return op
	}
}

func resolveColumn(col *sqlparser.ColName, columns map[string]int) (int, error) {
	name := col.Name.Lowered()
	if id, ok := columns[name]; ok {
		return id, nil
	}
	return 0, ErrUnknownColumn.New(name, similartext.FindFromMap(columns, name))
}

// resolveArgument maps a `?` placeholder to its argument slot. The parser
// rewrites placeholders to :v1, :v2, ... in order of appearance.
func resolveArgument(expr sqlparser.Expr) (int, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.ValArg {
		return 0, ErrUnsupportedExpression.New(sqlparser.String(expr))
	}

	slot, err := strconv.Atoi(strings.TrimPrefix(string(val.Val), ":v"))
	if err != nil {
		return 0, ErrUnsupportedExpression.New(sqlparser.String(expr))
	}

	return slot - 1, nil
}
