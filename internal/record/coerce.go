package record

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mockcql/mockcql/cqlerr"
)

// TypeResolver resolves user-defined type names within the keyspace a
// statement targets. The catalog implements it.
type TypeResolver interface {
	ResolveType(name string) (UDT, bool)
}

// NoTypes is a TypeResolver for contexts without UDTs.
var NoTypes TypeResolver = emptyResolver{}

type emptyResolver struct{}

func (emptyResolver) ResolveType(string) (UDT, bool) { return UDT{}, false }

// timestampLayouts are accepted string forms for timestamp literals.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Coerce converts a parsed literal into a typed value according to the
// declared column type. It never guesses: a literal that does not fit the
// declared type is a TypeCoercionError, and UUIDs are only recognized when
// the declared type asks for them.
func Coerce(lit Literal, t TypeName, types TypeResolver) (Value, error) {
	if lit.IsNull() {
		return Null(), nil
	}

	if kind, ok := t.PrimitiveKind(); ok {
		return coercePrimitive(lit, t, kind)
	}

	switch t.Name {
	case "list":
		if lit.Kind != LitList {
			return Value{}, cqlerr.Coercionf("%s into %s", lit, t)
		}
		elems, err := coerceElems(lit.Elems, t.Args[0], types)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindList, Elems: elems}, nil

	case "set":
		if lit.Kind != LitSet && !(lit.Kind == LitMap && len(lit.Entries) == 0) {
			return Value{}, cqlerr.Coercionf("%s into %s", lit, t)
		}
		elems, err := coerceElems(lit.Elems, t.Args[0], types)
		if err != nil {
			return Value{}, err
		}
		// Set semantics: duplicates collapse, order is normalized.
		var dedup []Value
		for _, e := range elems {
			if !containsValue(dedup, e) {
				dedup = append(dedup, e)
			}
		}
		SortValues(dedup)
		return Value{Kind: KindSet, Elems: dedup}, nil

	case "map":
		if lit.Kind != LitMap && !(lit.Kind == LitSet && len(lit.Elems) == 0) {
			return Value{}, cqlerr.Coercionf("%s into %s", lit, t)
		}
		var entries []MapEntry
		for _, ent := range lit.Entries {
			k, err := Coerce(ent.Key, t.Args[0], types)
			if err != nil {
				return Value{}, err
			}
			v, err := Coerce(ent.Val, t.Args[1], types)
			if err != nil {
				return Value{}, err
			}
			replaced := false
			for i := range entries {
				if entries[i].Key.Equal(k) {
					entries[i].Val = v
					replaced = true
					break
				}
			}
			if !replaced {
				entries = append(entries, MapEntry{Key: k, Val: v})
			}
		}
		return Value{Kind: KindMap, Entries: entries}, nil
	}

	if udt, ok := types.ResolveType(t.Name); ok {
		return coerceUDT(lit, udt, types)
	}
	return Value{}, cqlerr.Coercionf("unknown type %q", t.Raw)
}

func coerceElems(lits []Literal, t TypeName, types TypeResolver) ([]Value, error) {
	out := make([]Value, 0, len(lits))
	for _, l := range lits {
		v, err := Coerce(l, t, types)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func coercePrimitive(lit Literal, t TypeName, kind Kind) (Value, error) {
	switch kind {
	case KindInt:
		if lit.Kind != LitBare {
			return Value{}, cqlerr.Coercionf("%s into %s", lit, t.Raw)
		}
		n, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return Value{}, cqlerr.Coercionf("%q is not a valid %s literal", lit.Text, t.Raw)
		}
		return Int(n), nil

	case KindFloat:
		if lit.Kind != LitBare {
			return Value{}, cqlerr.Coercionf("%s into %s", lit, t.Raw)
		}
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return Value{}, cqlerr.Coercionf("%q is not a valid %s literal", lit.Text, t.Raw)
		}
		return Float(f), nil

	case KindBool:
		if lit.Kind != LitBare {
			return Value{}, cqlerr.Coercionf("%s into %s", lit, t.Raw)
		}
		switch strings.ToLower(lit.Text) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Value{}, cqlerr.Coercionf("%q is not a valid boolean literal", lit.Text)

	case KindText:
		if lit.Kind != LitString {
			return Value{}, cqlerr.Coercionf("%s into %s (text literals must be single-quoted)", lit, t.Raw)
		}
		return Text(lit.Text), nil

	case KindUUID:
		// UUID literals are bare in CQL but drivers often bind them as
		// strings; accept both shapes, still only for uuid-typed columns.
		if lit.Kind != LitBare && lit.Kind != LitString {
			return Value{}, cqlerr.Coercionf("%s into %s", lit, t.Raw)
		}
		u, err := uuid.Parse(lit.Text)
		if err != nil {
			return Value{}, cqlerr.Coercionf("%q is not a valid %s literal", lit.Text, t.Raw)
		}
		return UUIDVal(u), nil

	case KindTimestamp:
		switch lit.Kind {
		case LitBare:
			// Bare integers are epoch milliseconds.
			ms, err := strconv.ParseInt(lit.Text, 10, 64)
			if err != nil {
				return Value{}, cqlerr.Coercionf("%q is not a valid timestamp literal", lit.Text)
			}
			return Timestamp(time.UnixMilli(ms).UTC()), nil
		case LitString:
			for _, layout := range timestampLayouts {
				if ts, err := time.Parse(layout, lit.Text); err == nil {
					return Timestamp(ts.UTC()), nil
				}
			}
			return Value{}, cqlerr.Coercionf("%q is not a valid timestamp literal", lit.Text)
		}
		return Value{}, cqlerr.Coercionf("%s into %s", lit, t.Raw)
	}
	return Value{}, cqlerr.Coercionf("unsupported declared type %q", t.Raw)
}

func coerceUDT(lit Literal, udt UDT, types TypeResolver) (Value, error) {
	if lit.Kind != LitMap && !(lit.Kind == LitSet && len(lit.Elems) == 0) {
		return Value{}, cqlerr.Coercionf("%s into udt %q", lit, udt.Name)
	}

	set := make(map[string]Value, len(lit.Entries))
	for _, ent := range lit.Entries {
		if ent.Key.Kind != LitBare {
			return Value{}, cqlerr.Coercionf("udt field names must be bare identifiers, got %s", ent.Key)
		}
		field, ok := udt.Field(ent.Key.Text)
		if !ok {
			return Value{}, cqlerr.Coercionf("udt %q has no field %q", udt.Name, ent.Key.Text)
		}
		v, err := Coerce(ent.Val, field.Type, types)
		if err != nil {
			return Value{}, err
		}
		set[field.Name] = v
	}

	// Field order follows the type declaration; unset fields are null.
	fields := make([]UDTField, len(udt.Fields))
	for i, f := range udt.Fields {
		v, ok := set[f.Name]
		if !ok {
			v = Null()
		}
		fields[i] = UDTField{Name: f.Name, Val: v}
	}
	return Value{Kind: KindUDT, Fields: fields}, nil
}
