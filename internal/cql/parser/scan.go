package parser

import (
	"strings"
	"unicode"

	"github.com/mockcql/mockcql/cqlerr"
)

// parseIdent validates an identifier (keyspace/table/column/type name):
// exactly one token, first char letter or '_', rest letter/digit/'_'.
// The declared spelling is preserved.
func parseIdent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", cqlerr.Syntaxf("missing identifier")
	}

	parts := strings.Fields(s)
	if len(parts) != 1 {
		return "", cqlerr.Syntaxf("invalid identifier %q", s)
	}
	id := parts[0]

	for i, r := range id {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return "", cqlerr.Syntaxf("invalid identifier %q", id)
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return "", cqlerr.Syntaxf("invalid identifier %q", id)
		}
	}
	return id, nil
}

// cutKeywords consumes the given keywords (case-insensitive, any amount of
// whitespace between them) from the front of s and returns the remainder.
func cutKeywords(s string, words ...string) (string, bool) {
	rest := s
	for _, w := range words {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if len(rest) < len(w) || !strings.EqualFold(rest[:len(w)], w) {
			return s, false
		}
		tail := rest[len(w):]
		// Keyword must end at a word boundary.
		if tail != "" && isWordChar(rune(tail[0])) && isWordChar(rune(w[len(w)-1])) {
			return s, false
		}
		rest = tail
	}
	return strings.TrimLeft(rest, " \t\r\n"), true
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// indexKeyword finds the first occurrence of a keyword phrase (words
// separated by whitespace) outside quotes and outside any bracket nesting.
// It returns the byte offset of the phrase start, or -1.
func indexKeyword(s string, words ...string) int {
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
		case depth == 0:
			if i > 0 && isWordChar(rune(s[i-1])) {
				continue
			}
			if rest, ok := cutKeywords(s[i:], words...); ok {
				// A phrase at end-of-string has an empty rest; that still
				// counts as a boundary.
				_ = rest
				return i
			}
		}
	}
	return -1
}

// splitKeyword splits "X <keyword phrase> Y" at the first top-level
// occurrence of the phrase. If absent it returns (s, "", false).
func splitKeyword(s string, words ...string) (string, string, bool) {
	idx := indexKeyword(s, words...)
	if idx < 0 {
		return strings.TrimSpace(s), "", false
	}
	rest, _ := cutKeywords(s[idx:], words...)
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(rest), true
}

// splitTopLevel splits a comma-separated list, ignoring commas inside single
// quotes and inside (), [], {} or <> nesting.
func splitTopLevel(s string) []string {
	var parts []string
	cur := strings.Builder{}
	depth := 0
	inQuote := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			cur.WriteByte(c)
		case inQuote:
			cur.WriteByte(c)
		case c == '(' || c == '[' || c == '{' || c == '<':
			depth++
			cur.WriteByte(c)
		case c == ')' || c == ']' || c == '}' || c == '>':
			depth--
			cur.WriteByte(c)
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if strings.TrimSpace(cur.String()) != "" || len(parts) > 0 {
		parts = append(parts, strings.TrimSpace(cur.String()))
	}

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitConjunction splits a WHERE clause on top-level AND keywords.
func splitConjunction(s string) []string {
	var parts []string
	rest := s
	for {
		idx := indexKeyword(rest, "AND")
		if idx < 0 {
			break
		}
		parts = append(parts, strings.TrimSpace(rest[:idx]))
		after, _ := cutKeywords(rest[idx:], "AND")
		rest = after
	}
	if strings.TrimSpace(rest) != "" {
		parts = append(parts, strings.TrimSpace(rest))
	}
	return parts
}
