package engine

import (
	"github.com/mockcql/mockcql/cqlerr"
)

// KeyspaceInfo is a snapshot of one keyspace's definition.
type KeyspaceInfo struct {
	Name          string
	Replication   map[string]string
	DurableWrites bool
	Tables        []string
	Types         []string
}

// ColumnInfo is one column of an inspected table: its declared type in CQL
// spelling and its key role ("partition_key", "clustering" or "regular").
type ColumnInfo struct {
	Name string
	Type string
	Kind string
}

// TableInfo is a snapshot of one table's definition.
type TableInfo struct {
	Name    string
	Columns []ColumnInfo
}

// TypeField is one field of an inspected user-defined type.
type TypeField struct {
	Name string
	Type string
}

// TypeInfo is a snapshot of one user-defined type.
type TypeInfo struct {
	Name   string
	Fields []TypeField
}

// Keyspaces lists all keyspace names in creation order, the virtual system
// keyspaces included.
func (m *Mock) Keyspaces() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var names []string
	for _, k := range m.cat.Keyspaces() {
		names = append(names, k.Name)
	}
	return names
}

// KeyspaceInfo snapshots one keyspace's definition. The snapshot shares no
// storage with the instance.
func (m *Mock) KeyspaceInfo(name string) (KeyspaceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k, ok := m.cat.Keyspace(name)
	if !ok {
		return KeyspaceInfo{}, &cqlerr.NoSuchKeyspaceError{Keyspace: name}
	}

	info := KeyspaceInfo{
		Name:          k.Name,
		Replication:   make(map[string]string, len(k.Replication)),
		DurableWrites: k.DurableWrites,
	}
	for rk, rv := range k.Replication {
		info.Replication[rk] = rv
	}
	for _, t := range k.Tables {
		info.Tables = append(info.Tables, t.Name)
	}
	for _, u := range k.Types {
		info.Types = append(info.Types, u.Name)
	}
	return info, nil
}

// Tables lists the table names of a keyspace in creation order.
func (m *Mock) Tables(keyspace string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k, ok := m.cat.Keyspace(keyspace)
	if !ok {
		return nil, &cqlerr.NoSuchKeyspaceError{Keyspace: keyspace}
	}
	var names []string
	for _, t := range k.Tables {
		names = append(names, t.Name)
	}
	return names, nil
}

// TableInfo snapshots one table's definition: every declared column with its
// type and key role, in declaration order.
func (m *Mock) TableInfo(keyspace, table string) (TableInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, tbl, err := m.cat.MustTable(keyspace, table)
	if err != nil {
		return TableInfo{}, err
	}

	info := TableInfo{Name: tbl.Name}
	for _, col := range tbl.Schema.Cols {
		info.Columns = append(info.Columns, ColumnInfo{
			Name: col.Name,
			Type: col.Type.String(),
			Kind: col.Role.String(),
		})
	}
	return info, nil
}

// TableRows snapshots a table's rows in storage order. Every declared column
// appears in every row map, nil where unset, and the values are native Go
// shapes detached from the instance: mutating them never changes stored
// data.
func (m *Mock) TableRows(keyspace, table string) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, tbl, err := m.cat.MustTable(keyspace, table)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		snap := make(map[string]any, len(tbl.Schema.Cols))
		for _, col := range tbl.Schema.Cols {
			v, ok := row.Get(col.Name)
			if !ok {
				snap[col.Name] = nil
				continue
			}
			snap[col.Name] = v.Native()
		}
		out = append(out, snap)
	}
	return out, nil
}

// Types snapshots the user-defined types of a keyspace.
func (m *Mock) Types(keyspace string) ([]TypeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k, ok := m.cat.Keyspace(keyspace)
	if !ok {
		return nil, &cqlerr.NoSuchKeyspaceError{Keyspace: keyspace}
	}
	var out []TypeInfo
	for _, u := range k.Types {
		info := TypeInfo{Name: u.Name}
		for _, f := range u.Fields {
			info.Fields = append(info.Fields, TypeField{Name: f.Name, Type: f.Type.String()})
		}
		out = append(out, info)
	}
	return out, nil
}
