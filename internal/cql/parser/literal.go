package parser

import (
	"strings"

	"github.com/mockcql/mockcql/cqlerr"
	"github.com/mockcql/mockcql/internal/record"
)

// parseLiteral parses one value token: a quoted string, a bracketed list, a
// braced set/map/UDT literal, or a bare token. Nested literals recurse.
func parseLiteral(raw string) (record.Literal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return record.Literal{}, cqlerr.Syntaxf("missing value literal")
	}

	switch raw[0] {
	case '\'':
		return parseStringLiteral(raw)
	case '[':
		if !strings.HasSuffix(raw, "]") {
			return record.Literal{}, cqlerr.Syntaxf("unterminated list literal %q", raw)
		}
		elems, err := parseLiteralList(raw[1 : len(raw)-1])
		if err != nil {
			return record.Literal{}, err
		}
		return record.Literal{Kind: record.LitList, Elems: elems}, nil
	case '{':
		if !strings.HasSuffix(raw, "}") {
			return record.Literal{}, cqlerr.Syntaxf("unterminated collection literal %q", raw)
		}
		return parseBracedLiteral(raw[1 : len(raw)-1])
	case '(':
		return record.Literal{}, cqlerr.Unsupportedf("tuple literals are not supported: %q", raw)
	}

	if strings.ContainsAny(raw, " \t") {
		return record.Literal{}, cqlerr.Syntaxf("invalid value literal %q", raw)
	}
	return record.BareLiteral(raw), nil
}

// parseStringLiteral unquotes a single-quoted string, folding '' escapes.
func parseStringLiteral(raw string) (record.Literal, error) {
	if len(raw) < 2 || raw[0] != '\'' {
		return record.Literal{}, cqlerr.Syntaxf("invalid string literal %q", raw)
	}
	var b strings.Builder
	i := 1
	for i < len(raw) {
		c := raw[i]
		if c == '\'' {
			if i+1 < len(raw) && raw[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			if i != len(raw)-1 {
				return record.Literal{}, cqlerr.Syntaxf("invalid string literal %q", raw)
			}
			return record.StringLiteral(b.String()), nil
		}
		b.WriteByte(c)
		i++
	}
	return record.Literal{}, cqlerr.Syntaxf("unterminated string literal %q", raw)
}

func parseLiteralList(inner string) ([]record.Literal, error) {
	var elems []record.Literal
	for _, part := range splitTopLevel(inner) {
		lit, err := parseLiteral(part)
		if err != nil {
			return nil, err
		}
		elems = append(elems, lit)
	}
	return elems, nil
}

// parseBracedLiteral decides between a set literal {a, b} and a map/UDT
// literal {k: v}. Empty braces parse as an empty map; coercion accepts the
// empty shape for sets and UDTs as well.
func parseBracedLiteral(inner string) (record.Literal, error) {
	parts := splitTopLevel(inner)
	if len(parts) == 0 {
		return record.Literal{Kind: record.LitMap}, nil
	}

	withColon := 0
	for _, p := range parts {
		if topLevelColon(p) >= 0 {
			withColon++
		}
	}

	switch withColon {
	case 0:
		elems, err := parseLiteralList(inner)
		if err != nil {
			return record.Literal{}, err
		}
		return record.Literal{Kind: record.LitSet, Elems: elems}, nil
	case len(parts):
		var entries []record.LiteralEntry
		for _, p := range parts {
			idx := topLevelColon(p)
			key, err := parseLiteral(p[:idx])
			if err != nil {
				return record.Literal{}, err
			}
			val, err := parseLiteral(p[idx+1:])
			if err != nil {
				return record.Literal{}, err
			}
			entries = append(entries, record.LiteralEntry{Key: key, Val: val})
		}
		return record.Literal{Kind: record.LitMap, Entries: entries}, nil
	default:
		return record.Literal{}, cqlerr.Syntaxf("mixed set and map entries in literal {%s}", inner)
	}
}

// topLevelColon finds the first ':' outside quotes and nesting, or -1.
func topLevelColon(s string) int {
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ':' && depth == 0:
			return i
		}
	}
	return -1
}
