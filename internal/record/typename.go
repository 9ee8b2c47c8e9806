package record

import (
	"strings"

	"github.com/mockcql/mockcql/cqlerr"
)

// TypeName is a declared CQL column type: a primitive name, a collection
// with element types, or a user-defined type reference. Name is stored
// lowercased; UDT references keep their original spelling in Raw.
type TypeName struct {
	Name string
	Raw  string
	Args []TypeName
}

func (t TypeName) String() string {
	if len(t.Args) == 0 {
		return t.Raw
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Raw + "<" + strings.Join(parts, ", ") + ">"
}

// primitiveKinds maps every recognized primitive type name (including
// aliases) to the value tag it stores as.
var primitiveKinds = map[string]Kind{
	"int":       KindInt,
	"bigint":    KindInt,
	"smallint":  KindInt,
	"tinyint":   KindInt,
	"varint":    KindInt,
	"counter":   KindInt,
	"float":     KindFloat,
	"double":    KindFloat,
	"decimal":   KindFloat,
	"boolean":   KindBool,
	"text":      KindText,
	"varchar":   KindText,
	"ascii":     KindText,
	"inet":      KindText,
	"uuid":      KindUUID,
	"timeuuid":  KindUUID,
	"timestamp": KindTimestamp,
}

// PrimitiveKind resolves a primitive type name to its value tag.
func (t TypeName) PrimitiveKind() (Kind, bool) {
	k, ok := primitiveKinds[t.Name]
	return k, ok
}

// IsCollection reports whether the type is list, set or map.
func (t TypeName) IsCollection() bool {
	return t.Name == "list" || t.Name == "set" || t.Name == "map"
}

// ParseTypeName parses a declared type such as "int", "map<text, int>" or
// "frozen<address>". frozen<> wrappers are unwrapped: frozenness has no
// observable effect in a purely in-memory engine.
func ParseTypeName(s string) (TypeName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeName{}, cqlerr.Syntaxf("empty type name")
	}

	open := strings.IndexByte(s, '<')
	if open < 0 {
		name := strings.ToLower(s)
		if strings.ContainsAny(s, " \t(),") {
			return TypeName{}, cqlerr.Syntaxf("invalid type name %q", s)
		}
		return TypeName{Name: name, Raw: s}, nil
	}

	if !strings.HasSuffix(s, ">") {
		return TypeName{}, cqlerr.Syntaxf("unbalanced angle brackets in type %q", s)
	}
	outer := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]

	args, err := splitTypeArgs(inner)
	if err != nil {
		return TypeName{}, err
	}

	name := strings.ToLower(outer)
	if name == "frozen" {
		if len(args) != 1 {
			return TypeName{}, cqlerr.Syntaxf("frozen<> takes exactly one type, got %q", s)
		}
		return ParseTypeName(args[0])
	}

	t := TypeName{Name: name, Raw: outer}
	for _, a := range args {
		arg, err := ParseTypeName(a)
		if err != nil {
			return TypeName{}, err
		}
		t.Args = append(t.Args, arg)
	}

	switch name {
	case "list", "set":
		if len(t.Args) != 1 {
			return TypeName{}, cqlerr.Syntaxf("%s<> takes exactly one element type", name)
		}
	case "map":
		if len(t.Args) != 2 {
			return TypeName{}, cqlerr.Syntaxf("map<> takes a key and a value type")
		}
	default:
		return TypeName{}, cqlerr.Syntaxf("type %q cannot take type parameters", outer)
	}
	return t, nil
}

// splitTypeArgs splits "text, frozen<set<int>>" on top-level commas.
func splitTypeArgs(s string) ([]string, error) {
	var parts []string
	depth := 0
	cur := strings.Builder{}
	for _, r := range s {
		switch r {
		case '<':
			depth++
			cur.WriteRune(r)
		case '>':
			depth--
			if depth < 0 {
				return nil, cqlerr.Syntaxf("unbalanced angle brackets in type arguments %q", s)
			}
			cur.WriteRune(r)
		case ',':
			if depth == 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			} else {
				cur.WriteRune(r)
			}
		default:
			cur.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, cqlerr.Syntaxf("unbalanced angle brackets in type arguments %q", s)
	}
	parts = append(parts, cur.String())

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, cqlerr.Syntaxf("empty type argument in %q", s)
		}
		out = append(out, p)
	}
	return out, nil
}
