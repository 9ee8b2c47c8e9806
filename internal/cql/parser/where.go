package parser

import (
	"strings"

	"github.com/mockcql/mockcql/cqlerr"
)

// parseWhere parses a WHERE clause: comparisons and IN terms joined by AND.
// OR and parenthesized sub-expressions are recognized but rejected as
// unsupported so callers get an actionable message.
func parseWhere(s string) ([]Condition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if indexKeyword(s, "OR") >= 0 {
		return nil, cqlerr.Unsupportedf("OR is not supported in WHERE clauses")
	}

	var conds []Condition
	for _, term := range splitConjunction(s) {
		cond, err := parseCondition(term)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func parseCondition(term string) (Condition, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Condition{}, cqlerr.Syntaxf("empty condition in WHERE clause")
	}
	if term[0] == '(' {
		return Condition{}, cqlerr.Unsupportedf("parenthesized conditions are not supported: %q", term)
	}

	if left, right, ok := splitKeyword(term, "IN"); ok {
		col, err := parseIdent(left)
		if err != nil {
			return Condition{}, err
		}
		if !strings.HasPrefix(right, "(") || !strings.HasSuffix(right, ")") {
			return Condition{}, cqlerr.Syntaxf("IN requires a parenthesized value list: %q", term)
		}
		lits, err := parseLiteralList(right[1 : len(right)-1])
		if err != nil {
			return Condition{}, err
		}
		if len(lits) == 0 {
			return Condition{}, cqlerr.Syntaxf("empty IN list: %q", term)
		}
		return Condition{Column: col, Op: OpIn, In: lits}, nil
	}

	opIdx, opLen, op := findCompareOp(term)
	if opIdx < 0 {
		return Condition{}, cqlerr.Syntaxf("unrecognized condition %q", term)
	}

	col, err := parseIdent(term[:opIdx])
	if err != nil {
		return Condition{}, err
	}
	lit, err := parseLiteral(term[opIdx+opLen:])
	if err != nil {
		return Condition{}, err
	}
	return Condition{Column: col, Op: op, Value: lit}, nil
}

// findCompareOp locates the first comparison operator outside quotes.
// Two-character operators are matched before their one-character prefixes.
func findCompareOp(s string) (int, int, CompareOp) {
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' {
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}
		switch c {
		case '>':
			if i+1 < len(s) && s[i+1] == '=' {
				return i, 2, OpGE
			}
			return i, 1, OpGT
		case '<':
			if i+1 < len(s) && s[i+1] == '=' {
				return i, 2, OpLE
			}
			return i, 1, OpLT
		case '=':
			return i, 1, OpEq
		}
	}
	return -1, 0, OpEq
}
