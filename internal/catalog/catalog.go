// Package catalog holds the schema and data state of one engine instance:
// keyspaces, their user-defined types, and their tables with rows. Every
// instance owns its catalog outright, so independent instances never share
// state.
package catalog

import (
	"strings"

	"github.com/mockcql/mockcql/cqlerr"
	"github.com/mockcql/mockcql/internal/record"
)

// Catalog is the root of all schema and row state. It is not safe for
// concurrent use; the engine serializes access to it.
type Catalog struct {
	keyspaces []*Keyspace
}

// New builds an empty catalog. With systemTables set, the virtual system and
// system_schema keyspaces are seeded and kept in sync with DDL.
func New(systemTables bool) *Catalog {
	c := &Catalog{}
	if systemTables {
		c.seedSystem()
		c.refreshSystemSchema()
	}
	return c
}

// Keyspace is one named schema scope with its replication settings, tables
// and user-defined types. Virtual marks the seeded system keyspaces, which
// reject DDL and writes.
type Keyspace struct {
	Name          string
	Replication   map[string]string
	DurableWrites bool
	Virtual       bool
	Tables        []*Table
	Types         []*record.UDT
}

// Table resolves a table by name, case-insensitively.
func (k *Keyspace) Table(name string) (*Table, bool) {
	for _, t := range k.Tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

// ResolveType resolves a user-defined type by name, case-insensitively.
// It satisfies record.TypeResolver.
func (k *Keyspace) ResolveType(name string) (record.UDT, bool) {
	for _, u := range k.Types {
		if strings.EqualFold(u.Name, name) {
			return *u, true
		}
	}
	return record.UDT{}, false
}

// Table is one table: its schema and its rows in insertion order. Upserts
// replace a row in place, so the order only changes when rows are added or
// removed.
type Table struct {
	Name   string
	Schema record.Schema
	Rows   []record.Row
}

// UpsertRow inserts the row, or replaces the existing row with the same
// primary key at its current position. Every primary key column must be
// present and non-null.
func (t *Table) UpsertRow(row record.Row) error {
	for _, kc := range t.Schema.PrimaryKey() {
		v, ok := row.Get(kc.Name)
		if !ok || v.IsNull() {
			return cqlerr.Schemaf("primary key column %q must be set on table %q", kc.Name, t.Name)
		}
	}
	for i, existing := range t.Rows {
		if t.keyEqual(existing, row) {
			t.Rows[i] = row
			return nil
		}
	}
	t.Rows = append(t.Rows, row)
	return nil
}

func (t *Table) keyEqual(a, b record.Row) bool {
	for _, kc := range t.Schema.PrimaryKey() {
		av, aok := a.Get(kc.Name)
		bv, bok := b.Get(kc.Name)
		if !aok || !bok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

// Scan calls fn for every row in order. A non-nil error from fn stops the
// scan and is returned.
func (t *Table) Scan(fn func(record.Row) error) error {
	for _, row := range t.Rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRows removes every row matching pred and reports how many were
// removed. An error from pred aborts with no rows removed.
func (t *Table) DeleteRows(pred func(record.Row) (bool, error)) (int, error) {
	var doomed []int
	for i, row := range t.Rows {
		ok, err := pred(row)
		if err != nil {
			return 0, err
		}
		if ok {
			doomed = append(doomed, i)
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	kept := t.Rows[:0]
	di := 0
	for i, row := range t.Rows {
		if di < len(doomed) && doomed[di] == i {
			di++
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept
	return len(doomed), nil
}

// Truncate removes all rows, keeping the schema.
func (t *Table) Truncate() {
	t.Rows = nil
}

// Keyspace resolves a keyspace by name, case-insensitively.
func (c *Catalog) Keyspace(name string) (*Keyspace, bool) {
	for _, k := range c.keyspaces {
		if strings.EqualFold(k.Name, name) {
			return k, true
		}
	}
	return nil, false
}

// Keyspaces returns all keyspaces, virtual ones included, in creation order.
func (c *Catalog) Keyspaces() []*Keyspace {
	return c.keyspaces
}

func (c *Catalog) mustKeyspace(name string) (*Keyspace, error) {
	if name == "" {
		return nil, cqlerr.Schemaf("no keyspace selected")
	}
	k, ok := c.Keyspace(name)
	if !ok {
		return nil, &cqlerr.NoSuchKeyspaceError{Keyspace: name}
	}
	return k, nil
}

// mustMutableKeyspace resolves a keyspace that accepts DDL and writes.
func (c *Catalog) mustMutableKeyspace(name string) (*Keyspace, error) {
	k, err := c.mustKeyspace(name)
	if err != nil {
		return nil, err
	}
	if k.Virtual {
		return nil, cqlerr.Schemaf("keyspace %q is reserved", k.Name)
	}
	return k, nil
}

// MustTable resolves keyspace.table or fails with the matching taxonomy
// error.
func (c *Catalog) MustTable(keyspace, table string) (*Keyspace, *Table, error) {
	k, err := c.mustKeyspace(keyspace)
	if err != nil {
		return nil, nil, err
	}
	t, ok := k.Table(table)
	if !ok {
		return nil, nil, &cqlerr.NoSuchTableError{Keyspace: k.Name, Table: table}
	}
	return k, t, nil
}

// CreateKeyspace registers a keyspace. With ifNotExists set, an existing
// keyspace of the same name makes this a no-op.
func (c *Catalog) CreateKeyspace(name string, replication map[string]string, durableWrites, ifNotExists bool) error {
	if _, ok := c.Keyspace(name); ok {
		if ifNotExists {
			return nil
		}
		return &cqlerr.AlreadyExistsError{What: "keyspace", Name: name}
	}

	repl := make(map[string]string, len(replication))
	for k, v := range replication {
		repl[k] = v
	}
	c.keyspaces = append(c.keyspaces, &Keyspace{
		Name:          name,
		Replication:   repl,
		DurableWrites: durableWrites,
	})
	c.refreshSystemSchema()
	return nil
}

// DropKeyspace removes a keyspace with everything in it.
func (c *Catalog) DropKeyspace(name string, ifExists bool) error {
	for i, k := range c.keyspaces {
		if !strings.EqualFold(k.Name, name) {
			continue
		}
		if k.Virtual {
			return cqlerr.Schemaf("keyspace %q is reserved", k.Name)
		}
		c.keyspaces = append(c.keyspaces[:i], c.keyspaces[i+1:]...)
		c.refreshSystemSchema()
		return nil
	}
	if ifExists {
		return nil
	}
	return &cqlerr.NoSuchKeyspaceError{Keyspace: name}
}

// CreateTable registers a table under the given keyspace after validating
// its schema: at least one partition key column, unique column names,
// resolvable column types and primitive-typed key columns.
func (c *Catalog) CreateTable(keyspace, name string, schema record.Schema, ifNotExists bool) error {
	k, err := c.mustMutableKeyspace(keyspace)
	if err != nil {
		return err
	}
	if _, ok := k.Table(name); ok {
		if ifNotExists {
			return nil
		}
		return &cqlerr.AlreadyExistsError{What: "table", Name: name}
	}

	if len(schema.PartitionKey()) == 0 {
		return cqlerr.Schemaf("table %q has no partition key", name)
	}
	seen := map[string]bool{}
	for _, col := range schema.Cols {
		lower := strings.ToLower(col.Name)
		if seen[lower] {
			return cqlerr.Schemaf("duplicate column %q in table %q", col.Name, name)
		}
		seen[lower] = true
		if err := k.validateType(col.Type); err != nil {
			return err
		}
		if col.Role != record.RoleRegular {
			if _, ok := col.Type.PrimitiveKind(); !ok {
				return cqlerr.Schemaf("primary key column %q must have a primitive type", col.Name)
			}
		}
	}

	k.Tables = append(k.Tables, &Table{Name: name, Schema: schema})
	c.refreshSystemSchema()
	return nil
}

// CreateType registers a user-defined type under the given keyspace.
func (c *Catalog) CreateType(keyspace, name string, fields []record.Column, ifNotExists bool) error {
	k, err := c.mustMutableKeyspace(keyspace)
	if err != nil {
		return err
	}
	if _, ok := k.ResolveType(name); ok {
		if ifNotExists {
			return nil
		}
		return &cqlerr.AlreadyExistsError{What: "type", Name: name}
	}

	seen := map[string]bool{}
	for _, f := range fields {
		lower := strings.ToLower(f.Name)
		if seen[lower] {
			return cqlerr.Schemaf("duplicate field %q in type %q", f.Name, name)
		}
		seen[lower] = true
		if err := k.validateType(f.Type); err != nil {
			return err
		}
	}

	k.Types = append(k.Types, &record.UDT{Name: name, Fields: fields})
	return nil
}

// AlterTableAdd appends a regular column to an existing table. Existing rows
// keep their sparse shape; the new column reads as null until written.
func (c *Catalog) AlterTableAdd(keyspace, table string, col record.Column) error {
	k, err := c.mustMutableKeyspace(keyspace)
	if err != nil {
		return err
	}
	t, ok := k.Table(table)
	if !ok {
		return &cqlerr.NoSuchTableError{Keyspace: k.Name, Table: table}
	}
	if t.Schema.Has(col.Name) {
		return &cqlerr.AlreadyExistsError{What: "column", Name: col.Name}
	}
	if err := k.validateType(col.Type); err != nil {
		return err
	}

	col.Role = record.RoleRegular
	t.Schema.Cols = append(t.Schema.Cols, col)
	c.refreshSystemSchema()
	return nil
}

// DropTable removes a table and its rows.
func (c *Catalog) DropTable(keyspace, name string, ifExists bool) error {
	k, err := c.mustMutableKeyspace(keyspace)
	if err != nil {
		return err
	}
	for i, t := range k.Tables {
		if strings.EqualFold(t.Name, name) {
			k.Tables = append(k.Tables[:i], k.Tables[i+1:]...)
			c.refreshSystemSchema()
			return nil
		}
	}
	if ifExists {
		return nil
	}
	return &cqlerr.NoSuchTableError{Keyspace: k.Name, Table: name}
}

// TruncateTable removes all rows of a table.
func (c *Catalog) TruncateTable(keyspace, name string) error {
	k, err := c.mustMutableKeyspace(keyspace)
	if err != nil {
		return err
	}
	t, ok := k.Table(name)
	if !ok {
		return &cqlerr.NoSuchTableError{Keyspace: k.Name, Table: name}
	}
	t.Truncate()
	return nil
}

// validateType checks that a declared type resolves: a primitive, a
// collection of resolvable types, or a user-defined type known to the
// keyspace.
func (k *Keyspace) validateType(t record.TypeName) error {
	if _, ok := t.PrimitiveKind(); ok {
		return nil
	}
	if t.IsCollection() {
		for _, arg := range t.Args {
			if err := k.validateType(arg); err != nil {
				return err
			}
		}
		return nil
	}
	if _, ok := k.ResolveType(t.Name); ok {
		return nil
	}
	return cqlerr.Schemaf("unknown type %q", t.Raw)
}
