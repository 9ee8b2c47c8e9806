package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockcql/mockcql/cqlerr"
	"github.com/mockcql/mockcql/internal/record"
)

func TestParse_CreateKeyspace(t *testing.T) {
	stmt, err := Parse(`CREATE KEYSPACE ks WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': '1'};`, "")
	require.NoError(t, err)

	ck, ok := stmt.(*CreateKeyspaceStmt)
	require.True(t, ok)
	assert.Equal(t, "ks", ck.Name)
	assert.False(t, ck.IfNotExists)
	assert.True(t, ck.DurableWrites)
	assert.Equal(t, map[string]string{
		"class":              "SimpleStrategy",
		"replication_factor": "1",
	}, ck.Replication)
}

func TestParse_CreateKeyspaceIfNotExistsAndDurableWrites(t *testing.T) {
	stmt, err := Parse(`create keyspace if not exists ks with replication = {'class': 'SimpleStrategy'} and durable_writes = false`, "")
	require.NoError(t, err)

	ck := stmt.(*CreateKeyspaceStmt)
	assert.True(t, ck.IfNotExists)
	assert.False(t, ck.DurableWrites)
}

func TestParse_CreateKeyspaceMissingReplication(t *testing.T) {
	_, err := Parse(`CREATE KEYSPACE ks`, "")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Syntax, perr.Kind)
}

func TestParse_DropKeyspace(t *testing.T) {
	stmt, err := Parse(`DROP KEYSPACE IF EXISTS ks`, "")
	require.NoError(t, err)

	dk := stmt.(*DropKeyspaceStmt)
	assert.Equal(t, "ks", dk.Name)
	assert.True(t, dk.IfExists)
}

func TestParse_CreateTableInlineKey(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE users (id uuid PRIMARY KEY, name text, age int)`, "ks")
	require.NoError(t, err)

	ct := stmt.(*CreateTableStmt)
	assert.Equal(t, TableName{Keyspace: "ks", Name: "users"}, ct.Table)
	assert.Equal(t, []string{"id"}, ct.PartitionKey)
	assert.Empty(t, ct.ClusteringKey)
	require.Len(t, ct.Columns, 3)
	assert.Equal(t, "id", ct.Columns[0].Name)
	assert.Equal(t, "uuid", ct.Columns[0].Type.Name)
	assert.Equal(t, "name", ct.Columns[1].Name)
	assert.Equal(t, "text", ct.Columns[1].Type.Name)
}

func TestParse_CreateTableCompositeKey(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE IF NOT EXISTS ks.events (
		tenant text,
		day text,
		seq int,
		payload text,
		PRIMARY KEY ((tenant, day), seq)
	)`, "")
	require.NoError(t, err)

	ct := stmt.(*CreateTableStmt)
	assert.True(t, ct.IfNotExists)
	assert.Equal(t, "ks", ct.Table.Keyspace)
	assert.Equal(t, []string{"tenant", "day"}, ct.PartitionKey)
	assert.Equal(t, []string{"seq"}, ct.ClusteringKey)
	assert.Len(t, ct.Columns, 4)
}

func TestParse_CreateTableCollectionTypes(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE t (id int PRIMARY KEY, tags set<text>, attrs map<text, int>, hist list<frozen<addr>>)`, "ks")
	require.NoError(t, err)

	ct := stmt.(*CreateTableStmt)
	require.Len(t, ct.Columns, 4)
	assert.Equal(t, "set", ct.Columns[1].Type.Name)
	assert.Equal(t, "map", ct.Columns[2].Type.Name)
	require.Len(t, ct.Columns[2].Type.Args, 2)
	assert.Equal(t, "list", ct.Columns[3].Type.Name)
	require.Len(t, ct.Columns[3].Type.Args, 1)
	assert.Equal(t, "addr", ct.Columns[3].Type.Args[0].Name)
}

func TestParse_CreateTableWithOptions(t *testing.T) {
	for _, cql := range []string{
		`CREATE TABLE t (day text, seq int, PRIMARY KEY ((day), seq)) WITH CLUSTERING ORDER BY (seq DESC)`,
		`CREATE TABLE t (id int PRIMARY KEY) WITH comment = 'audit log' AND gc_grace_seconds = 864000`,
		`CREATE TABLE t (id int PRIMARY KEY) WITH COMPACT STORAGE`,
	} {
		stmt, err := Parse(cql, "ks")
		require.NoError(t, err, cql)
		assert.IsType(t, &CreateTableStmt{}, stmt, cql)
	}

	for _, cql := range []string{
		`CREATE TABLE t (id int PRIMARY KEY) WITH complete garbage`,
		`CREATE TABLE t (id int PRIMARY KEY) WITH comment =`,
		`CREATE TABLE t (id int PRIMARY KEY) WITH CLUSTERING ORDER BY seq DESC`,
		`CREATE TABLE t (id int PRIMARY KEY) trailing junk`,
	} {
		_, err := Parse(cql, "ks")
		var perr *cqlerr.ParseError
		require.ErrorAs(t, err, &perr, cql)
		assert.Equal(t, cqlerr.Syntax, perr.Kind, cql)
	}
}

func TestParse_CreateType(t *testing.T) {
	stmt, err := Parse(`CREATE TYPE ks.address (street text, city text, zip int)`, "")
	require.NoError(t, err)

	ct := stmt.(*CreateTypeStmt)
	assert.Equal(t, TableName{Keyspace: "ks", Name: "address"}, ct.Type)
	require.Len(t, ct.Fields, 3)
	assert.Equal(t, "street", ct.Fields[0].Name)
}

func TestParse_AlterTableAdd(t *testing.T) {
	stmt, err := Parse(`ALTER TABLE users ADD email text`, "ks")
	require.NoError(t, err)

	at := stmt.(*AlterTableStmt)
	assert.Equal(t, "users", at.Table.Name)
	assert.Equal(t, "email", at.AddColumn.Name)
	assert.Equal(t, "text", at.AddColumn.Type.Name)
}

func TestParse_AlterTableDropUnsupported(t *testing.T) {
	_, err := Parse(`ALTER TABLE users DROP email`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Unsupported, perr.Kind)
}

func TestParse_Truncate(t *testing.T) {
	stmt, err := Parse(`TRUNCATE TABLE ks.users`, "")
	require.NoError(t, err)
	assert.Equal(t, "users", stmt.(*TruncateTableStmt).Table.Name)

	stmt, err = Parse(`TRUNCATE users`, "ks")
	require.NoError(t, err)
	assert.Equal(t, TableName{Keyspace: "ks", Name: "users"}, stmt.(*TruncateTableStmt).Table)
}

func TestParse_Insert(t *testing.T) {
	stmt, err := Parse(`INSERT INTO users (id, name, age) VALUES (1, 'Alice', 30)`, "ks")
	require.NoError(t, err)

	in := stmt.(*InsertStmt)
	assert.Equal(t, []string{"id", "name", "age"}, in.Columns)
	require.Len(t, in.Values, 3)
	assert.Equal(t, record.BareLiteral("1"), in.Values[0])
	assert.Equal(t, record.StringLiteral("Alice"), in.Values[1])
}

func TestParse_InsertCollections(t *testing.T) {
	stmt, err := Parse(`INSERT INTO t (id, tags, attrs) VALUES (1, {'a', 'b'}, {'k': 1, 'j': 2})`, "ks")
	require.NoError(t, err)

	in := stmt.(*InsertStmt)
	require.Len(t, in.Values, 3)
	assert.Equal(t, record.LitSet, in.Values[1].Kind)
	assert.Len(t, in.Values[1].Elems, 2)
	assert.Equal(t, record.LitMap, in.Values[2].Kind)
	assert.Len(t, in.Values[2].Entries, 2)
}

func TestParse_InsertCountMismatch(t *testing.T) {
	_, err := Parse(`INSERT INTO users (id, name) VALUES (1)`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Syntax, perr.Kind)
}

func TestParse_InsertLWTUnsupported(t *testing.T) {
	_, err := Parse(`INSERT INTO users (id) VALUES (1) IF NOT EXISTS`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Unsupported, perr.Kind)
}

func TestParse_SelectStar(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM users`, "ks")
	require.NoError(t, err)

	sel := stmt.(*SelectStmt)
	assert.Nil(t, sel.Columns)
	assert.Equal(t, TableName{Keyspace: "ks", Name: "users"}, sel.Table)
	assert.Nil(t, sel.Where)
	assert.Nil(t, sel.OrderBy)
	assert.Nil(t, sel.Limit)
}

func TestParse_SelectFull(t *testing.T) {
	stmt, err := Parse(`SELECT id, name FROM ks.users WHERE age >= 21 AND name = 'Bob' ORDER BY name DESC LIMIT 10 ALLOW FILTERING`, "")
	require.NoError(t, err)

	sel := stmt.(*SelectStmt)
	assert.Equal(t, []string{"id", "name"}, sel.Columns)
	require.Len(t, sel.Where, 2)
	assert.Equal(t, Condition{Column: "age", Op: OpGE, Value: record.BareLiteral("21")}, sel.Where[0])
	assert.Equal(t, Condition{Column: "name", Op: OpEq, Value: record.StringLiteral("Bob")}, sel.Where[1])
	require.NotNil(t, sel.OrderBy)
	assert.Equal(t, "name", sel.OrderBy.Column)
	assert.True(t, sel.OrderBy.Desc)
	require.NotNil(t, sel.Limit)
	assert.Equal(t, int64(10), *sel.Limit)
}

func TestParse_SelectIn(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM users WHERE id IN (1, 2, 3)`, "ks")
	require.NoError(t, err)

	sel := stmt.(*SelectStmt)
	require.Len(t, sel.Where, 1)
	assert.Equal(t, OpIn, sel.Where[0].Op)
	assert.Len(t, sel.Where[0].In, 3)
}

func TestParse_SelectOrUnsupported(t *testing.T) {
	_, err := Parse(`SELECT * FROM users WHERE id = 1 OR id = 2`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Unsupported, perr.Kind)
}

func TestParse_SelectAggregateUnsupported(t *testing.T) {
	_, err := Parse(`SELECT count(*) FROM users`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Unsupported, perr.Kind)
}

func TestParse_SelectKeywordInString(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM users WHERE name = 'where and limit'`, "ks")
	require.NoError(t, err)

	sel := stmt.(*SelectStmt)
	require.Len(t, sel.Where, 1)
	assert.Equal(t, record.StringLiteral("where and limit"), sel.Where[0].Value)
	assert.Nil(t, sel.Limit)
}

func TestParse_Update(t *testing.T) {
	stmt, err := Parse(`UPDATE users SET name = 'Carol', age = 31 WHERE id = 7`, "ks")
	require.NoError(t, err)

	up := stmt.(*UpdateStmt)
	require.Len(t, up.Assignments, 2)
	assert.Equal(t, Assignment{Column: "name", Value: record.StringLiteral("Carol")}, up.Assignments[0])
	assert.Equal(t, Assignment{Column: "age", Value: record.BareLiteral("31")}, up.Assignments[1])
	require.Len(t, up.Where, 1)
	assert.Equal(t, "id", up.Where[0].Column)
}

func TestParse_UpdateRequiresWhere(t *testing.T) {
	_, err := Parse(`UPDATE users SET name = 'Carol'`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Syntax, perr.Kind)
}

func TestParse_UpdateCounterUnsupported(t *testing.T) {
	_, err := Parse(`UPDATE stats SET hits = hits + 1 WHERE id = 1`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Unsupported, perr.Kind)
}

func TestParse_Delete(t *testing.T) {
	stmt, err := Parse(`DELETE FROM users WHERE id = 7 AND age > 20`, "ks")
	require.NoError(t, err)

	del := stmt.(*DeleteStmt)
	assert.Equal(t, "users", del.Table.Name)
	require.Len(t, del.Where, 2)
	assert.Equal(t, OpGT, del.Where[1].Op)
}

func TestParse_DeleteWithoutWhere(t *testing.T) {
	stmt, err := Parse(`DELETE FROM users`, "ks")
	require.NoError(t, err)
	assert.Nil(t, stmt.(*DeleteStmt).Where)
}

func TestParse_DeleteColumnsUnsupported(t *testing.T) {
	_, err := Parse(`DELETE name FROM users WHERE id = 7`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Unsupported, perr.Kind)
}

func TestParse_Batch(t *testing.T) {
	stmt, err := Parse(`BEGIN BATCH
		INSERT INTO users (id, name) VALUES (1, 'a');
		UPDATE users SET name = 'b' WHERE id = 1;
		DELETE FROM users WHERE id = 2;
	APPLY BATCH`, "ks")
	require.NoError(t, err)

	b := stmt.(*BatchStmt)
	require.Len(t, b.Statements, 3)
	assert.IsType(t, &InsertStmt{}, b.Statements[0])
	assert.IsType(t, &UpdateStmt{}, b.Statements[1])
	assert.IsType(t, &DeleteStmt{}, b.Statements[2])
}

func TestParse_BatchRejectsDDL(t *testing.T) {
	_, err := Parse(`BEGIN BATCH CREATE TABLE t (id int PRIMARY KEY); APPLY BATCH`, "ks")
	var perr *cqlerr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cqlerr.Unsupported, perr.Kind)
}

func TestParse_Use(t *testing.T) {
	stmt, err := Parse(`USE ks2;`, "ks")
	require.NoError(t, err)
	assert.Equal(t, "ks2", stmt.(*UseKeyspaceStmt).Name)
}

func TestParse_UnsupportedHeads(t *testing.T) {
	for _, cql := range []string{
		`CREATE INDEX ON users (name)`,
		`CREATE MATERIALIZED VIEW mv AS SELECT * FROM users`,
		`ALTER KEYSPACE ks WITH DURABLE_WRITES = false`,
		`DROP TYPE address`,
		`GRANT SELECT ON ks.users TO role`,
	} {
		_, err := Parse(cql, "ks")
		var perr *cqlerr.ParseError
		require.ErrorAs(t, err, &perr, cql)
		assert.Equal(t, cqlerr.Unsupported, perr.Kind, cql)
	}
}

func TestParse_Garbage(t *testing.T) {
	for _, cql := range []string{"", "   ;", "FLY ME TO THE MOON", "SELECTING * FROM t"} {
		_, err := Parse(cql, "ks")
		var perr *cqlerr.ParseError
		require.ErrorAs(t, err, &perr, cql)
		assert.Equal(t, cqlerr.Syntax, perr.Kind, cql)
	}
}

func TestParse_ErrorsUnwrap(t *testing.T) {
	_, err := Parse(`SELECT`, "ks")
	require.Error(t, err)
	var perr *cqlerr.ParseError
	assert.True(t, errors.As(err, &perr))
}
