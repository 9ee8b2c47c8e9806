package executor

import (
	"github.com/mockcql/mockcql/cqlerr"
	"github.com/mockcql/mockcql/internal/cql/parser"
	"github.com/mockcql/mockcql/internal/record"
)

// rowPredicate decides whether a stored row matches a WHERE conjunction.
// A row with the condition column absent or null never matches.
type rowPredicate func(record.Row) (bool, error)

type matcher struct {
	column string
	op     parser.CompareOp
	want   record.Value
	in     []record.Value
}

// compilePredicate resolves and coerces every condition against the schema
// once, so scanning rows does no literal work. Unknown columns and literals
// that do not fit the declared column type fail here, before any row is
// looked at.
func compilePredicate(table string, schema record.Schema, types record.TypeResolver, conds []parser.Condition) (rowPredicate, error) {
	if len(conds) == 0 {
		return func(record.Row) (bool, error) { return true, nil }, nil
	}

	matchers := make([]matcher, 0, len(conds))
	for _, cond := range conds {
		col, ok := schema.Col(cond.Column)
		if !ok {
			return nil, &cqlerr.NoSuchColumnError{Column: cond.Column, Table: table}
		}

		m := matcher{column: col.Name, op: cond.Op}
		if cond.Op == parser.OpIn {
			for _, lit := range cond.In {
				v, err := record.Coerce(lit, col.Type, types)
				if err != nil {
					return nil, err
				}
				m.in = append(m.in, v)
			}
		} else {
			v, err := record.Coerce(cond.Value, col.Type, types)
			if err != nil {
				return nil, err
			}
			m.want = v
		}
		matchers = append(matchers, m)
	}

	return func(row record.Row) (bool, error) {
		for _, m := range matchers {
			got, ok := row.Get(m.column)
			if !ok || got.IsNull() {
				return false, nil
			}
			match, err := m.match(got)
			if err != nil {
				return false, err
			}
			if !match {
				return false, nil
			}
		}
		return true, nil
	}, nil
}

func (m matcher) match(got record.Value) (bool, error) {
	switch m.op {
	case parser.OpEq:
		return got.Equal(m.want), nil
	case parser.OpIn:
		for _, want := range m.in {
			if got.Equal(want) {
				return true, nil
			}
		}
		return false, nil
	}

	c, err := got.Compare(m.want)
	if err != nil {
		return false, err
	}
	switch m.op {
	case parser.OpGT:
		return c > 0, nil
	case parser.OpLT:
		return c < 0, nil
	case parser.OpGE:
		return c >= 0, nil
	case parser.OpLE:
		return c <= 0, nil
	}
	return false, cqlerr.UnsupportedQueryf("operator %s cannot be evaluated", m.op)
}
