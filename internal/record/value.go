// Package record models typed CQL values, column schemas and the literal
// tokens the parser produces. The Value union is closed: every tag is known
// here, so comparison and coercion switch exhaustively over Kind.
package record

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mockcql/mockcql/cqlerr"
)

// Kind tags a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindText
	KindUUID
	KindTimestamp
	KindList
	KindSet
	KindMap
	KindUDT
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindText:
		return "text"
	case KindUUID:
		return "uuid"
	case KindTimestamp:
		return "timestamp"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindUDT:
		return "udt"
	}
	return "unknown"
}

// MapEntry is one key/value pair of a map value, in literal order.
type MapEntry struct {
	Key Value
	Val Value
}

// UDTField is one field of a UDT instance, in declaration order.
type UDTField struct {
	Name string
	Val  Value
}

// Value is a tagged union over every type the engine stores. Exactly the
// payload field matching Kind is meaningful.
type Value struct {
	Kind Kind

	Int     int64
	Float   float64
	Bool    bool
	Text    string
	UUID    uuid.UUID
	Time    time.Time
	Elems   []Value    // list, set
	Entries []MapEntry // map
	Fields  []UDTField // udt
}

func Null() Value                 { return Value{Kind: KindNull} }
func Int(v int64) Value           { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value       { return Value{Kind: KindFloat, Float: v} }
func Bool(v bool) Value           { return Value{Kind: KindBool, Bool: v} }
func Text(v string) Value         { return Value{Kind: KindText, Text: v} }
func UUIDVal(v uuid.UUID) Value   { return Value{Kind: KindUUID, UUID: v} }
func Timestamp(t time.Time) Value { return Value{Kind: KindTimestamp, Time: t} }

// IsNull reports whether the value carries the null tag.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Equal reports tag-correct equality. Values of different kinds are never
// equal (null equals only null). Sets compare without regard to order.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindBool:
		return v.Bool == o.Bool
	case KindText:
		return v.Text == o.Text
	case KindUUID:
		return v.UUID == o.UUID
	case KindTimestamp:
		return v.Time.Equal(o.Time)
	case KindList:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindSet:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for _, e := range v.Elems {
			if !containsValue(o.Elems, e) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Entries) != len(o.Entries) {
			return false
		}
		for _, ent := range v.Entries {
			found := false
			for _, other := range o.Entries {
				if ent.Key.Equal(other.Key) && ent.Val.Equal(other.Val) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case KindUDT:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for i := range v.Fields {
			if v.Fields[i].Name != o.Fields[i].Name || !v.Fields[i].Val.Equal(o.Fields[i].Val) {
				return false
			}
		}
		return true
	}
	return false
}

func containsValue(vs []Value, v Value) bool {
	for _, c := range vs {
		if c.Equal(v) {
			return true
		}
	}
	return false
}

// Compare orders two values of the same orderable kind. It returns a
// TypeMismatchError for cross-kind comparison and for kinds that have no
// defined order (bool, collections, UDTs). Null orders before everything.
func (v Value) Compare(o Value) (int, error) {
	if v.Kind == KindNull || o.Kind == KindNull {
		switch {
		case v.Kind == o.Kind:
			return 0, nil
		case v.Kind == KindNull:
			return -1, nil
		default:
			return 1, nil
		}
	}
	if v.Kind != o.Kind {
		return 0, &cqlerr.TypeMismatchError{
			Msg: fmt.Sprintf("cannot compare %s with %s", v.Kind, o.Kind),
		}
	}
	switch v.Kind {
	case KindInt:
		return cmpOrdered(v.Int, o.Int), nil
	case KindFloat:
		return cmpOrdered(v.Float, o.Float), nil
	case KindText:
		return strings.Compare(v.Text, o.Text), nil
	case KindUUID:
		return strings.Compare(v.UUID.String(), o.UUID.String()), nil
	case KindTimestamp:
		switch {
		case v.Time.Before(o.Time):
			return -1, nil
		case v.Time.After(o.Time):
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, &cqlerr.TypeMismatchError{
		Msg: fmt.Sprintf("values of type %s have no defined order", v.Kind),
	}
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Native converts the value to the plain Go shape handed out by the
// inspection surface and the Result rows: int64, float64, bool, string,
// uuid.UUID, time.Time, []any for lists and sets, map[string]any for maps
// and UDTs, nil for null. The result shares no storage with the catalog.
func (v Value) Native() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	case KindText:
		return v.Text
	case KindUUID:
		return v.UUID
	case KindTimestamp:
		return v.Time
	case KindList, KindSet:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = e.Native()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.Entries))
		for _, ent := range v.Entries {
			key := ent.Key.Display()
			if ent.Key.Kind == KindText {
				key = ent.Key.Text
			}
			out[key] = ent.Val.Native()
		}
		return out
	case KindUDT:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name] = f.Val.Native()
		}
		return out
	}
	return nil
}

// Display renders the value in CQL literal form. Coercing the result back
// through the declared type yields an equal value, which is what the
// inspection helpers rely on.
func (v Value) Display() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v.Float), "0"), ".")
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindText:
		return "'" + strings.ReplaceAll(v.Text, "'", "''") + "'"
	case KindUUID:
		return v.UUID.String()
	case KindTimestamp:
		return "'" + v.Time.UTC().Format(time.RFC3339) + "'"
	case KindList:
		return "[" + displayElems(v.Elems) + "]"
	case KindSet:
		return "{" + displayElems(v.Elems) + "}"
	case KindMap:
		parts := make([]string, len(v.Entries))
		for i, ent := range v.Entries {
			parts[i] = ent.Key.Display() + ": " + ent.Val.Display()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindUDT:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name + ": " + f.Val.Display()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "null"
}

func displayElems(vs []Value) string {
	parts := make([]string, len(vs))
	for i, e := range vs {
		parts[i] = e.Display()
	}
	return strings.Join(parts, ", ")
}

// SortValues stable-sorts values that share an orderable kind. Used by the
// set normalizer so set display order is deterministic.
func SortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool {
		c, err := vs[i].Compare(vs[j])
		if err != nil {
			return false
		}
		return c < 0
	})
}
