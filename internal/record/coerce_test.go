package record

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockcql/mockcql/cqlerr"
)

func mustType(t *testing.T, s string) TypeName {
	t.Helper()
	tn, err := ParseTypeName(s)
	require.NoError(t, err)
	return tn
}

func TestCoerce_Primitives(t *testing.T) {
	v, err := Coerce(BareLiteral("42"), mustType(t, "int"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, Int(42), v)

	v, err = Coerce(BareLiteral("2.5"), mustType(t, "double"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, Float(2.5), v)

	// Int-shaped literals fit float columns, not the other way around.
	v, err = Coerce(BareLiteral("3"), mustType(t, "float"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, Float(3), v)

	var cerr *cqlerr.TypeCoercionError
	_, err = Coerce(BareLiteral("2.5"), mustType(t, "int"), NoTypes)
	require.ErrorAs(t, err, &cerr)

	v, err = Coerce(BareLiteral("TRUE"), mustType(t, "boolean"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)

	v, err = Coerce(StringLiteral("hi"), mustType(t, "text"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, Text("hi"), v)

	// Bare words are not text.
	_, err = Coerce(BareLiteral("hi"), mustType(t, "text"), NoTypes)
	require.ErrorAs(t, err, &cerr)
}

func TestCoerce_NullPassesAnyType(t *testing.T) {
	for _, typeName := range []string{"int", "text", "uuid", "list<int>", "map<text, int>"} {
		v, err := Coerce(BareLiteral("NULL"), mustType(t, typeName), NoTypes)
		require.NoError(t, err, typeName)
		assert.True(t, v.IsNull(), typeName)
	}
}

func TestCoerce_UUIDOnlyWhenDeclared(t *testing.T) {
	raw := "6b29fc40-ca47-1067-b31d-00dd010662da"

	v, err := Coerce(BareLiteral(raw), mustType(t, "uuid"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, UUIDVal(uuid.MustParse(raw)), v)

	v, err = Coerce(StringLiteral(raw), mustType(t, "timeuuid"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, KindUUID, v.Kind)

	var cerr *cqlerr.TypeCoercionError
	_, err = Coerce(BareLiteral("not-a-uuid"), mustType(t, "uuid"), NoTypes)
	require.ErrorAs(t, err, &cerr)
}

func TestCoerce_Timestamp(t *testing.T) {
	v, err := Coerce(BareLiteral("1700000000000"), mustType(t, "timestamp"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), v.Time)

	v, err = Coerce(StringLiteral("2024-05-01 12:30:00"), mustType(t, "timestamp"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, 12, v.Time.Hour())

	v, err = Coerce(StringLiteral("2024-05-01"), mustType(t, "timestamp"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, time.May, v.Time.Month())

	var cerr *cqlerr.TypeCoercionError
	_, err = Coerce(StringLiteral("yesterday"), mustType(t, "timestamp"), NoTypes)
	require.ErrorAs(t, err, &cerr)
}

func TestCoerce_Collections(t *testing.T) {
	lit := Literal{Kind: LitList, Elems: []Literal{BareLiteral("1"), BareLiteral("2")}}
	v, err := Coerce(lit, mustType(t, "list<int>"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, []Value{Int(1), Int(2)}, v.Elems)

	// Sets dedupe and normalize order.
	lit = Literal{Kind: LitSet, Elems: []Literal{StringLiteral("b"), StringLiteral("a"), StringLiteral("b")}}
	v, err = Coerce(lit, mustType(t, "set<text>"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, []Value{Text("a"), Text("b")}, v.Elems)

	// Map keys replace on duplicate.
	lit = Literal{Kind: LitMap, Entries: []LiteralEntry{
		{Key: StringLiteral("k"), Val: BareLiteral("1")},
		{Key: StringLiteral("k"), Val: BareLiteral("2")},
	}}
	v, err = Coerce(lit, mustType(t, "map<text, int>"), NoTypes)
	require.NoError(t, err)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, Int(2), v.Entries[0].Val)

	// Empty braces fit both sets and maps.
	v, err = Coerce(Literal{Kind: LitMap}, mustType(t, "set<int>"), NoTypes)
	require.NoError(t, err)
	assert.Equal(t, KindSet, v.Kind)

	var cerr *cqlerr.TypeCoercionError
	_, err = Coerce(Literal{Kind: LitSet, Elems: []Literal{BareLiteral("1")}}, mustType(t, "list<int>"), NoTypes)
	require.ErrorAs(t, err, &cerr)
}

type singleType struct{ udt UDT }

func (r singleType) ResolveType(name string) (UDT, bool) {
	if name == r.udt.Name {
		return r.udt, true
	}
	return UDT{}, false
}

func TestCoerce_UDT(t *testing.T) {
	types := singleType{udt: UDT{Name: "address", Fields: []Column{
		{Name: "street", Type: TypeName{Name: "text", Raw: "text"}},
		{Name: "zip", Type: TypeName{Name: "int", Raw: "int"}},
	}}}

	lit := Literal{Kind: LitMap, Entries: []LiteralEntry{
		{Key: BareLiteral("zip"), Val: BareLiteral("12345")},
	}}
	v, err := Coerce(lit, TypeName{Name: "address", Raw: "address"}, types)
	require.NoError(t, err)
	require.Len(t, v.Fields, 2)
	assert.Equal(t, UDTField{Name: "street", Val: Null()}, v.Fields[0])
	assert.Equal(t, UDTField{Name: "zip", Val: Int(12345)}, v.Fields[1])

	var cerr *cqlerr.TypeCoercionError
	bad := Literal{Kind: LitMap, Entries: []LiteralEntry{
		{Key: BareLiteral("country"), Val: StringLiteral("NL")},
	}}
	_, err = Coerce(bad, TypeName{Name: "address", Raw: "address"}, types)
	require.ErrorAs(t, err, &cerr)

	_, err = Coerce(lit, TypeName{Name: "unknown", Raw: "unknown"}, types)
	require.ErrorAs(t, err, &cerr)
}
