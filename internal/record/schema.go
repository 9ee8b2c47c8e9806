package record

import "strings"

// ColumnRole marks a column's place in the primary key.
type ColumnRole uint8

const (
	RoleRegular ColumnRole = iota
	RolePartitionKey
	RoleClusteringKey
)

func (r ColumnRole) String() string {
	switch r {
	case RolePartitionKey:
		return "partition_key"
	case RoleClusteringKey:
		return "clustering"
	default:
		return "regular"
	}
}

// Column is one column definition: name (case-preserving), declared type and
// key role.
type Column struct {
	Name string
	Type TypeName
	Role ColumnRole
}

// Schema is an ordered column list. Column names compare case-insensitively
// but keep their declared spelling.
type Schema struct {
	Cols []Column
}

// Col resolves a column by name, case-insensitively.
func (s Schema) Col(name string) (Column, bool) {
	for _, c := range s.Cols {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// Has reports whether the schema declares a column with the given name.
func (s Schema) Has(name string) bool {
	_, ok := s.Col(name)
	return ok
}

// ColumnNames returns the declared names in definition order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Cols))
	for i, c := range s.Cols {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns partition key columns followed by clustering columns,
// each group in definition order.
func (s Schema) PrimaryKey() []Column {
	return append(s.PartitionKey(), s.ClusteringKey()...)
}

func (s Schema) PartitionKey() []Column {
	var cols []Column
	for _, c := range s.Cols {
		if c.Role == RolePartitionKey {
			cols = append(cols, c)
		}
	}
	return cols
}

func (s Schema) ClusteringKey() []Column {
	var cols []Column
	for _, c := range s.Cols {
		if c.Role == RoleClusteringKey {
			cols = append(cols, c)
		}
	}
	return cols
}

// Row maps declared column names to typed values. Non-key columns may be
// absent entirely (sparse rows).
type Row map[string]Value

// Get resolves a row value by column name, case-insensitively.
func (r Row) Get(name string) (Value, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return Value{}, false
}

// Clone returns a deep-enough copy: Values are immutable by convention once
// stored, so copying the map is sufficient for snapshot isolation.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// UDT is a user-defined type: a named, ordered field list scoped to one
// keyspace.
type UDT struct {
	Name   string
	Fields []Column
}

// Field resolves a UDT field by name, case-insensitively.
func (u UDT) Field(name string) (Column, bool) {
	for _, f := range u.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Column{}, false
}
