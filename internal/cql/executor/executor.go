// Package executor runs parsed statements against a catalog. It owns the
// full execution pipeline: resolving names, coercing literals, filtering,
// ordering and projecting rows, and applying writes.
package executor

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/mockcql/mockcql/cqlerr"
	"github.com/mockcql/mockcql/internal/catalog"
	"github.com/mockcql/mockcql/internal/cql/parser"
	"github.com/mockcql/mockcql/internal/record"
)

// Executor executes statements against one catalog. With strictUpdate set,
// an UPDATE whose primary key matches no row affects nothing instead of
// upserting a new row.
type Executor struct {
	cat          *catalog.Catalog
	strictUpdate bool
	log          *slog.Logger
}

// New builds an executor over the given catalog. A nil logger falls back to
// slog.Default.
func New(cat *catalog.Catalog, strictUpdate bool, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{cat: cat, strictUpdate: strictUpdate, log: log}
}

// Execute parses and runs one CQL statement. keyspace qualifies bare table
// names and may be empty.
func (e *Executor) Execute(cql string, keyspace string) (*Result, error) {
	stmt, err := parser.Parse(cql, keyspace)
	if err != nil {
		e.log.Debug("statement rejected", "error", err)
		return nil, err
	}
	return e.ExecuteStmt(stmt, keyspace)
}

// ExecuteStmt runs an already parsed statement.
func (e *Executor) ExecuteStmt(stmt parser.Statement, keyspace string) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.CreateKeyspaceStmt:
		if err := e.cat.CreateKeyspace(s.Name, s.Replication, s.DurableWrites, s.IfNotExists); err != nil {
			return nil, err
		}
		e.log.Debug("keyspace created", "keyspace", s.Name)
		return &Result{}, nil

	case *parser.DropKeyspaceStmt:
		if err := e.cat.DropKeyspace(s.Name, s.IfExists); err != nil {
			return nil, err
		}
		e.log.Debug("keyspace dropped", "keyspace", s.Name)
		return &Result{}, nil

	case *parser.CreateTableStmt:
		schema, err := buildSchema(s)
		if err != nil {
			return nil, err
		}
		ks := tableKeyspace(s.Table, keyspace)
		if err := e.cat.CreateTable(ks, s.Table.Name, schema, s.IfNotExists); err != nil {
			return nil, err
		}
		e.log.Debug("table created", "keyspace", ks, "table", s.Table.Name)
		return &Result{}, nil

	case *parser.CreateTypeStmt:
		fields := make([]record.Column, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = record.Column{Name: f.Name, Type: f.Type}
		}
		ks := tableKeyspace(s.Type, keyspace)
		if err := e.cat.CreateType(ks, s.Type.Name, fields, s.IfNotExists); err != nil {
			return nil, err
		}
		return &Result{}, nil

	case *parser.AlterTableStmt:
		col := record.Column{Name: s.AddColumn.Name, Type: s.AddColumn.Type}
		if err := e.cat.AlterTableAdd(tableKeyspace(s.Table, keyspace), s.Table.Name, col); err != nil {
			return nil, err
		}
		return &Result{}, nil

	case *parser.DropTableStmt:
		if err := e.cat.DropTable(tableKeyspace(s.Table, keyspace), s.Table.Name, s.IfExists); err != nil {
			return nil, err
		}
		return &Result{}, nil

	case *parser.TruncateTableStmt:
		if err := e.cat.TruncateTable(tableKeyspace(s.Table, keyspace), s.Table.Name); err != nil {
			return nil, err
		}
		return &Result{}, nil

	case *parser.InsertStmt:
		return e.execInsert(s, keyspace)

	case *parser.SelectStmt:
		return e.execSelect(s, keyspace)

	case *parser.UpdateStmt:
		return e.execUpdate(s, keyspace)

	case *parser.DeleteStmt:
		return e.execDelete(s, keyspace)

	case *parser.BatchStmt:
		return e.execBatch(s, keyspace)

	case *parser.UseKeyspaceStmt:
		return nil, cqlerr.UnsupportedQueryf("USE can only be executed through a session")
	}
	return nil, cqlerr.UnsupportedQueryf("statement type %T cannot be executed", stmt)
}

func tableKeyspace(t parser.TableName, sessionKeyspace string) string {
	if t.Keyspace != "" {
		return t.Keyspace
	}
	return sessionKeyspace
}

// resolveTable resolves a statement's target table, qualifying bare names
// with the session keyspace.
func (e *Executor) resolveTable(t parser.TableName, sessionKeyspace string) (*catalog.Keyspace, *catalog.Table, error) {
	return e.cat.MustTable(tableKeyspace(t, sessionKeyspace), t.Name)
}

func (e *Executor) resolveWritableTable(t parser.TableName, sessionKeyspace string) (*catalog.Keyspace, *catalog.Table, error) {
	k, tbl, err := e.resolveTable(t, sessionKeyspace)
	if err != nil {
		return nil, nil, err
	}
	if k.Virtual {
		return nil, nil, cqlerr.Schemaf("keyspace %q is reserved", k.Name)
	}
	return k, tbl, nil
}

// buildSchema assigns key roles to the declared columns and rejects PRIMARY
// KEY references to columns that were never declared.
func buildSchema(s *parser.CreateTableStmt) (record.Schema, error) {
	roles := make(map[string]record.ColumnRole, len(s.PartitionKey)+len(s.ClusteringKey))
	for _, name := range s.PartitionKey {
		roles[strings.ToLower(name)] = record.RolePartitionKey
	}
	for _, name := range s.ClusteringKey {
		if _, dup := roles[strings.ToLower(name)]; dup {
			return record.Schema{}, cqlerr.Schemaf("column %q appears twice in the primary key", name)
		}
		roles[strings.ToLower(name)] = record.RoleClusteringKey
	}

	schema := record.Schema{Cols: make([]record.Column, len(s.Columns))}
	for i, def := range s.Columns {
		role, isKey := roles[strings.ToLower(def.Name)]
		if isKey {
			delete(roles, strings.ToLower(def.Name))
		} else {
			role = record.RoleRegular
		}
		schema.Cols[i] = record.Column{Name: def.Name, Type: def.Type, Role: role}
	}
	for name := range roles {
		return record.Schema{}, cqlerr.Schemaf("primary key column %q is not declared in table %q", name, s.Table.Name)
	}
	return schema, nil
}

func (e *Executor) execInsert(s *parser.InsertStmt, keyspace string) (*Result, error) {
	k, tbl, err := e.resolveWritableTable(s.Table, keyspace)
	if err != nil {
		return nil, err
	}

	row := make(record.Row, len(s.Columns))
	for i, name := range s.Columns {
		col, ok := tbl.Schema.Col(name)
		if !ok {
			return nil, &cqlerr.NoSuchColumnError{Column: name, Table: tbl.Name}
		}
		v, err := record.Coerce(s.Values[i], col.Type, k)
		if err != nil {
			return nil, err
		}
		row[col.Name] = v
	}
	if err := tbl.UpsertRow(row); err != nil {
		return nil, err
	}
	e.log.Debug("row upserted", "table", tbl.Name)
	return &Result{RowsAffected: 1}, nil
}

func (e *Executor) execSelect(s *parser.SelectStmt, keyspace string) (*Result, error) {
	k, tbl, err := e.resolveTable(s.Table, keyspace)
	if err != nil {
		return nil, err
	}

	// Resolve the projection up front so unknown columns fail even on an
	// empty table.
	var cols []record.Column
	if s.Columns == nil {
		cols = tbl.Schema.Cols
	} else {
		cols = make([]record.Column, len(s.Columns))
		for i, name := range s.Columns {
			col, ok := tbl.Schema.Col(name)
			if !ok {
				return nil, &cqlerr.NoSuchColumnError{Column: name, Table: tbl.Name}
			}
			cols[i] = col
		}
	}

	pred, err := compilePredicate(tbl.Name, tbl.Schema, k, s.Where)
	if err != nil {
		return nil, err
	}

	var matched []record.Row
	err = tbl.Scan(func(row record.Row) error {
		ok, err := pred(row)
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.OrderBy != nil {
		if err := e.orderRows(matched, s.OrderBy, tbl, cols); err != nil {
			return nil, err
		}
	}

	if s.Limit != nil {
		n := *s.Limit
		switch {
		case n <= 0:
			matched = nil
		case int64(len(matched)) > n:
			matched = matched[:n]
		}
	}

	res := &Result{Columns: make([]string, len(cols))}
	for i, col := range cols {
		res.Columns[i] = col.Name
	}
	for _, row := range matched {
		out := make([]any, len(cols))
		for i, col := range cols {
			v, ok := row.Get(col.Name)
			if !ok {
				out[i] = nil
				continue
			}
			out[i] = v.Native()
		}
		res.Rows = append(res.Rows, out)
	}
	res.RowsAffected = int64(len(res.Rows))
	return res, nil
}

// orderRows sorts the matched rows by one column. The column must be either
// a clustering column or part of the projection; absent and null cells order
// first ascending.
func (e *Executor) orderRows(rows []record.Row, ob *parser.OrderBy, tbl *catalog.Table, projected []record.Column) error {
	col, ok := tbl.Schema.Col(ob.Column)
	if !ok {
		return &cqlerr.NoSuchColumnError{Column: ob.Column, Table: tbl.Name}
	}
	allowed := col.Role == record.RoleClusteringKey
	for _, p := range projected {
		if strings.EqualFold(p.Name, col.Name) {
			allowed = true
			break
		}
	}
	if !allowed {
		return &cqlerr.NoSuchColumnError{Column: col.Name, Table: tbl.Name}
	}

	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].Get(col.Name)
		b, _ := rows[j].Get(col.Name)
		c, err := a.Compare(b)
		if err != nil {
			if sortErr == nil {
				sortErr = err
			}
			return false
		}
		if ob.Desc {
			return c > 0
		}
		return c < 0
	})
	return sortErr
}

func (e *Executor) execUpdate(s *parser.UpdateStmt, keyspace string) (*Result, error) {
	k, tbl, err := e.resolveWritableTable(s.Table, keyspace)
	if err != nil {
		return nil, err
	}

	// The WHERE clause must pin the full primary key with equality terms.
	// Anything else would be a scan-update, which the real engine rejects.
	key := make(record.Row, len(s.Where))
	for _, cond := range s.Where {
		col, ok := tbl.Schema.Col(cond.Column)
		if !ok {
			return nil, &cqlerr.NoSuchColumnError{Column: cond.Column, Table: tbl.Name}
		}
		if col.Role == record.RoleRegular {
			return nil, cqlerr.UnsupportedQueryf("UPDATE cannot filter on non-key column %q", col.Name)
		}
		if cond.Op != parser.OpEq {
			return nil, cqlerr.UnsupportedQueryf("UPDATE requires equality on key column %q", col.Name)
		}
		v, err := record.Coerce(cond.Value, col.Type, k)
		if err != nil {
			return nil, err
		}
		key[col.Name] = v
	}
	for _, kc := range tbl.Schema.PrimaryKey() {
		if v, ok := key.Get(kc.Name); !ok || v.IsNull() {
			return nil, cqlerr.UnsupportedQueryf("UPDATE must pin primary key column %q", kc.Name)
		}
	}

	assigns := make(record.Row, len(s.Assignments))
	for _, a := range s.Assignments {
		col, ok := tbl.Schema.Col(a.Column)
		if !ok {
			return nil, &cqlerr.NoSuchColumnError{Column: a.Column, Table: tbl.Name}
		}
		if col.Role != record.RoleRegular {
			return nil, cqlerr.Schemaf("primary key column %q cannot be updated", col.Name)
		}
		v, err := record.Coerce(a.Value, col.Type, k)
		if err != nil {
			return nil, err
		}
		assigns[col.Name] = v
	}

	var target record.Row
	for _, row := range tbl.Rows {
		matches := true
		for name, want := range key {
			got, ok := row.Get(name)
			if !ok || !got.Equal(want) {
				matches = false
				break
			}
		}
		if matches {
			target = row
			break
		}
	}

	if target == nil {
		if e.strictUpdate {
			return &Result{RowsAffected: 0}, nil
		}
		fresh := key.Clone()
		for name, v := range assigns {
			fresh[name] = v
		}
		if err := tbl.UpsertRow(fresh); err != nil {
			return nil, err
		}
		return &Result{RowsAffected: 1}, nil
	}

	updated := target.Clone()
	for name, v := range assigns {
		updated[name] = v
	}
	if err := tbl.UpsertRow(updated); err != nil {
		return nil, err
	}
	return &Result{RowsAffected: 1}, nil
}

func (e *Executor) execDelete(s *parser.DeleteStmt, keyspace string) (*Result, error) {
	k, tbl, err := e.resolveWritableTable(s.Table, keyspace)
	if err != nil {
		return nil, err
	}

	if len(s.Where) == 0 {
		n := len(tbl.Rows)
		tbl.Truncate()
		return &Result{RowsAffected: int64(n)}, nil
	}

	pred, err := compilePredicate(tbl.Name, tbl.Schema, k, s.Where)
	if err != nil {
		return nil, err
	}
	n, err := tbl.DeleteRows(func(row record.Row) (bool, error) {
		return pred(row)
	})
	if err != nil {
		return nil, err
	}
	return &Result{RowsAffected: int64(n)}, nil
}

// execBatch runs the batched statements in order. The batch is not atomic:
// the first failure aborts it and earlier writes stay applied.
func (e *Executor) execBatch(s *parser.BatchStmt, keyspace string) (*Result, error) {
	total := &Result{}
	for _, stmt := range s.Statements {
		res, err := e.ExecuteStmt(stmt, keyspace)
		if err != nil {
			return nil, err
		}
		total.RowsAffected += res.RowsAffected
	}
	return total, nil
}
