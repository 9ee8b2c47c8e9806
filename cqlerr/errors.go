// Package cqlerr defines the error taxonomy surfaced by the mockcql engine.
// Callers assert on these types with errors.As to react to specific failures
// the same way they would react to driver exceptions against a real cluster.
package cqlerr

import "fmt"

// ParseKind distinguishes a statement the parser could not recognize from a
// statement it recognized but whose feature set is not implemented.
type ParseKind uint8

const (
	// Syntax means the input matched no known grammar production.
	Syntax ParseKind = iota
	// Unsupported means the statement was recognized but uses a feature the
	// engine does not implement (OR, parentheses, GROUP BY, ...).
	Unsupported
)

func (k ParseKind) String() string {
	if k == Unsupported {
		return "unsupported"
	}
	return "syntax"
}

// ParseError reports a statement that could not be turned into a descriptor.
type ParseError struct {
	Kind ParseKind
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (%s): %s", e.Kind, e.Msg)
}

// Syntaxf builds a ParseError of kind Syntax.
func Syntaxf(format string, args ...any) *ParseError {
	return &ParseError{Kind: Syntax, Msg: fmt.Sprintf(format, args...)}
}

// Unsupportedf builds a ParseError of kind Unsupported.
func Unsupportedf(format string, args ...any) *ParseError {
	return &ParseError{Kind: Unsupported, Msg: fmt.Sprintf(format, args...)}
}

// SchemaError reports invalid DDL or a row that violates the table schema,
// e.g. a CREATE TABLE without a partition key or a write missing a primary
// key column.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string { return "schema error: " + e.Msg }

func Schemaf(format string, args ...any) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}

// NoSuchKeyspaceError reports a reference to an unknown keyspace.
type NoSuchKeyspaceError struct {
	Keyspace string
}

func (e *NoSuchKeyspaceError) Error() string {
	return fmt.Sprintf("keyspace %q does not exist", e.Keyspace)
}

// NoSuchTableError reports a reference to an unknown table.
type NoSuchTableError struct {
	Keyspace string
	Table    string
}

func (e *NoSuchTableError) Error() string {
	if e.Keyspace == "" {
		return fmt.Sprintf("table %q does not exist", e.Table)
	}
	return fmt.Sprintf("table %q does not exist in keyspace %q", e.Table, e.Keyspace)
}

// NoSuchColumnError reports a reference to a column absent from the schema.
type NoSuchColumnError struct {
	Column string
	Table  string
}

func (e *NoSuchColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("column %q does not exist", e.Column)
	}
	return fmt.Sprintf("column %q does not exist in table %q", e.Column, e.Table)
}

// AlreadyExistsError reports a DDL name collision. What is the object class:
// "keyspace", "table", "type" or "column".
type AlreadyExistsError struct {
	What string
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.What, e.Name)
}

// TypeMismatchError reports a predicate or ordering applied across
// incompatible value tags.
type TypeMismatchError struct {
	Column string
	Msg    string
}

func (e *TypeMismatchError) Error() string {
	if e.Column == "" {
		return "type mismatch: " + e.Msg
	}
	return fmt.Sprintf("type mismatch on column %q: %s", e.Column, e.Msg)
}

// TypeCoercionError reports a literal that cannot satisfy a declared column
// type.
type TypeCoercionError struct {
	Msg string
}

func (e *TypeCoercionError) Error() string { return "cannot coerce: " + e.Msg }

func Coercionf(format string, args ...any) *TypeCoercionError {
	return &TypeCoercionError{Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedQueryError reports a well-formed query whose shape the engine
// refuses to execute, e.g. an UPDATE that does not pin the full primary key.
type UnsupportedQueryError struct {
	Msg string
}

func (e *UnsupportedQueryError) Error() string { return "unsupported query: " + e.Msg }

func UnsupportedQueryf(format string, args ...any) *UnsupportedQueryError {
	return &UnsupportedQueryError{Msg: fmt.Sprintf(format, args...)}
}
