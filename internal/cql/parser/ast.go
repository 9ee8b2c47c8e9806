// Package parser turns one CQL statement string into a structured statement
// descriptor. It has no side effects: the only context it consumes besides
// the input is the session keyspace hint used to qualify bare table names.
package parser

import (
	"github.com/mockcql/mockcql/internal/record"
)

// Statement is the root interface for all CQL statements.
type Statement interface {
	stmtNode()
}

// TableName is a possibly keyspace-qualified table or type name.
type TableName struct {
	Keyspace string
	Name     string
}

func (t TableName) String() string {
	if t.Keyspace == "" {
		return t.Name
	}
	return t.Keyspace + "." + t.Name
}

// ColumnDef is one column or UDT field definition.
type ColumnDef struct {
	Name string
	Type record.TypeName
}

// ----- DDL -----

type CreateKeyspaceStmt struct {
	Name          string
	IfNotExists   bool
	Replication   map[string]string
	DurableWrites bool
}

func (*CreateKeyspaceStmt) stmtNode() {}

type DropKeyspaceStmt struct {
	Name     string
	IfExists bool
}

func (*DropKeyspaceStmt) stmtNode() {}

type CreateTableStmt struct {
	Table         TableName
	IfNotExists   bool
	Columns       []ColumnDef
	PartitionKey  []string
	ClusteringKey []string
}

func (*CreateTableStmt) stmtNode() {}

type CreateTypeStmt struct {
	Type        TableName
	IfNotExists bool
	Fields      []ColumnDef
}

func (*CreateTypeStmt) stmtNode() {}

type AlterTableStmt struct {
	Table     TableName
	AddColumn ColumnDef
}

func (*AlterTableStmt) stmtNode() {}

type DropTableStmt struct {
	Table    TableName
	IfExists bool
}

func (*DropTableStmt) stmtNode() {}

type TruncateTableStmt struct {
	Table TableName
}

func (*TruncateTableStmt) stmtNode() {}

// ----- DML -----

type InsertStmt struct {
	Table   TableName
	Columns []string
	Values  []record.Literal
}

func (*InsertStmt) stmtNode() {}

// CompareOp is a WHERE comparison operator.
type CompareOp uint8

const (
	OpEq CompareOp = iota
	OpGT
	OpLT
	OpGE
	OpLE
	OpIn
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpGT:
		return ">"
	case OpLT:
		return "<"
	case OpGE:
		return ">="
	case OpLE:
		return "<="
	case OpIn:
		return "IN"
	}
	return "?"
}

// Condition is one `col OP literal` or `col IN (...)` term of a WHERE
// conjunction.
type Condition struct {
	Column string
	Op     CompareOp
	Value  record.Literal
	In     []record.Literal
}

// OrderBy names the single ordering column of a SELECT.
type OrderBy struct {
	Column string
	Desc   bool
}

type SelectStmt struct {
	Table   TableName
	Columns []string // nil means '*'
	Where   []Condition
	OrderBy *OrderBy
	Limit   *int64
}

func (*SelectStmt) stmtNode() {}

type Assignment struct {
	Column string
	Value  record.Literal
}

type UpdateStmt struct {
	Table       TableName
	Assignments []Assignment
	Where       []Condition
}

func (*UpdateStmt) stmtNode() {}

type DeleteStmt struct {
	Table TableName
	Where []Condition
}

func (*DeleteStmt) stmtNode() {}

type BatchStmt struct {
	Statements []Statement // INSERT, UPDATE and DELETE only
}

func (*BatchStmt) stmtNode() {}

// ----- Session -----

// UseKeyspaceStmt switches the session keyspace. The executor never handles
// it; the session does.
type UseKeyspaceStmt struct {
	Name string
}

func (*UseKeyspaceStmt) stmtNode() {}
