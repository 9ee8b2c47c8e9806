package record

import "strings"

// LiteralKind tags a parsed literal token before coercion.
type LiteralKind uint8

const (
	// LitBare is an unquoted token: a number, true/false, null, a UUID, ...
	LitBare LiteralKind = iota
	// LitString is a single-quoted string with quotes stripped and ''
	// unescaped.
	LitString
	// LitList is a bracketed [a, b, c] literal.
	LitList
	// LitSet is a braced {a, b, c} literal without key/value colons.
	LitSet
	// LitMap is a braced {k: v, ...} literal; UDT literals share this shape
	// with bare field names as keys.
	LitMap
)

// Literal is the parser's untyped representation of a value token. Coercion
// against a declared type (see Coerce) turns it into a Value.
type Literal struct {
	Kind    LiteralKind
	Text    string
	Elems   []Literal
	Entries []LiteralEntry
}

// LiteralEntry is one k: v pair of a map or UDT literal.
type LiteralEntry struct {
	Key Literal
	Val Literal
}

// BareLiteral wraps an unquoted token.
func BareLiteral(text string) Literal { return Literal{Kind: LitBare, Text: text} }

// StringLiteral wraps unquoted string content.
func StringLiteral(text string) Literal { return Literal{Kind: LitString, Text: text} }

// IsNull reports whether the literal is the bare token NULL.
func (l Literal) IsNull() bool {
	return l.Kind == LitBare && strings.EqualFold(l.Text, "null")
}

// String renders the literal roughly as it appeared in the statement; used
// in error messages only.
func (l Literal) String() string {
	switch l.Kind {
	case LitString:
		return "'" + l.Text + "'"
	case LitList:
		return "[" + joinLiterals(l.Elems) + "]"
	case LitSet:
		return "{" + joinLiterals(l.Elems) + "}"
	case LitMap:
		parts := make([]string, len(l.Entries))
		for i, e := range l.Entries {
			parts[i] = e.Key.String() + ": " + e.Val.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return l.Text
	}
}

func joinLiterals(ls []Literal) string {
	parts := make([]string, len(ls))
	for i, e := range ls {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
