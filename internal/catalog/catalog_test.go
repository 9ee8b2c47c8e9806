package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockcql/mockcql/cqlerr"
	"github.com/mockcql/mockcql/internal/record"
)

func usersSchema() record.Schema {
	return record.Schema{Cols: []record.Column{
		{Name: "id", Type: typ("int"), Role: record.RolePartitionKey},
		{Name: "name", Type: typ("text")},
		{Name: "age", Type: typ("int")},
	}}
}

func TestCatalog_CreateKeyspace(t *testing.T) {
	c := New(false)
	require.NoError(t, c.CreateKeyspace("ks", map[string]string{"class": "SimpleStrategy"}, true, false))

	k, ok := c.Keyspace("KS")
	require.True(t, ok)
	assert.Equal(t, "ks", k.Name)
	assert.Equal(t, "SimpleStrategy", k.Replication["class"])

	err := c.CreateKeyspace("ks", nil, true, false)
	var exists *cqlerr.AlreadyExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "keyspace", exists.What)

	require.NoError(t, c.CreateKeyspace("ks", nil, true, true))
}

func TestCatalog_DropKeyspace(t *testing.T) {
	c := New(false)
	require.NoError(t, c.CreateKeyspace("ks", nil, true, false))
	require.NoError(t, c.DropKeyspace("ks", false))

	_, ok := c.Keyspace("ks")
	assert.False(t, ok)

	var missing *cqlerr.NoSuchKeyspaceError
	require.ErrorAs(t, c.DropKeyspace("ks", false), &missing)
	require.NoError(t, c.DropKeyspace("ks", true))
}

func TestCatalog_CreateTableValidation(t *testing.T) {
	c := New(false)
	require.NoError(t, c.CreateKeyspace("ks", nil, true, false))

	var serr *cqlerr.SchemaError

	noKey := record.Schema{Cols: []record.Column{{Name: "id", Type: typ("int")}}}
	require.ErrorAs(t, c.CreateTable("ks", "t", noKey, false), &serr)

	dup := record.Schema{Cols: []record.Column{
		{Name: "id", Type: typ("int"), Role: record.RolePartitionKey},
		{Name: "ID", Type: typ("text")},
	}}
	require.ErrorAs(t, c.CreateTable("ks", "t", dup, false), &serr)

	badType := record.Schema{Cols: []record.Column{
		{Name: "id", Type: typ("int"), Role: record.RolePartitionKey},
		{Name: "home", Type: typ("address")},
	}}
	require.ErrorAs(t, c.CreateTable("ks", "t", badType, false), &serr)

	require.NoError(t, c.CreateTable("ks", "users", usersSchema(), false))

	var exists *cqlerr.AlreadyExistsError
	require.ErrorAs(t, c.CreateTable("ks", "users", usersSchema(), false), &exists)
	require.NoError(t, c.CreateTable("ks", "users", usersSchema(), true))
}

func TestCatalog_CreateTableWithUDT(t *testing.T) {
	c := New(false)
	require.NoError(t, c.CreateKeyspace("ks", nil, true, false))
	require.NoError(t, c.CreateType("ks", "address", []record.Column{
		{Name: "street", Type: typ("text")},
		{Name: "zip", Type: typ("int")},
	}, false))

	schema := record.Schema{Cols: []record.Column{
		{Name: "id", Type: typ("int"), Role: record.RolePartitionKey},
		{Name: "home", Type: typ("address")},
	}}
	require.NoError(t, c.CreateTable("ks", "people", schema, false))

	k, _ := c.Keyspace("ks")
	udt, ok := k.ResolveType("ADDRESS")
	require.True(t, ok)
	assert.Equal(t, "address", udt.Name)
}

func TestCatalog_AlterTableAdd(t *testing.T) {
	c := New(false)
	require.NoError(t, c.CreateKeyspace("ks", nil, true, false))
	require.NoError(t, c.CreateTable("ks", "users", usersSchema(), false))

	require.NoError(t, c.AlterTableAdd("ks", "users", record.Column{Name: "email", Type: typ("text")}))

	_, tbl, err := c.MustTable("ks", "users")
	require.NoError(t, err)
	assert.True(t, tbl.Schema.Has("email"))

	var exists *cqlerr.AlreadyExistsError
	require.ErrorAs(t, c.AlterTableAdd("ks", "users", record.Column{Name: "NAME", Type: typ("text")}), &exists)
}

func TestTable_UpsertKeepsPosition(t *testing.T) {
	tbl := &Table{Name: "users", Schema: usersSchema()}

	require.NoError(t, tbl.UpsertRow(record.Row{"id": record.Int(1), "name": record.Text("Alice")}))
	require.NoError(t, tbl.UpsertRow(record.Row{"id": record.Int(2), "name": record.Text("Bob")}))
	require.NoError(t, tbl.UpsertRow(record.Row{"id": record.Int(1), "name": record.Text("Alice2")}))

	require.Len(t, tbl.Rows, 2)
	name, _ := tbl.Rows[0].Get("name")
	assert.Equal(t, record.Text("Alice2"), name)
}

func TestTable_UpsertRequiresKey(t *testing.T) {
	tbl := &Table{Name: "users", Schema: usersSchema()}

	var serr *cqlerr.SchemaError
	require.ErrorAs(t, tbl.UpsertRow(record.Row{"name": record.Text("Alice")}), &serr)
	require.ErrorAs(t, tbl.UpsertRow(record.Row{"id": record.Null()}), &serr)
	assert.Empty(t, tbl.Rows)
}

func TestTable_DeleteRows(t *testing.T) {
	tbl := &Table{Name: "users", Schema: usersSchema()}
	for i := int64(1); i <= 4; i++ {
		require.NoError(t, tbl.UpsertRow(record.Row{"id": record.Int(i)}))
	}

	n, err := tbl.DeleteRows(func(r record.Row) (bool, error) {
		id, _ := r.Get("id")
		return id.Int%2 == 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, tbl.Rows, 2)

	id, _ := tbl.Rows[0].Get("id")
	assert.Equal(t, int64(1), id.Int)
}

func TestCatalog_SystemTables(t *testing.T) {
	c := New(true)

	sys, ok := c.Keyspace("system")
	require.True(t, ok)
	assert.True(t, sys.Virtual)
	local, ok := sys.Table("local")
	require.True(t, ok)
	require.Len(t, local.Rows, 1)
	key, _ := local.Rows[0].Get("key")
	assert.Equal(t, record.Text("local"), key)

	require.NoError(t, c.CreateKeyspace("ks", map[string]string{"class": "SimpleStrategy"}, true, false))
	require.NoError(t, c.CreateTable("ks", "users", usersSchema(), false))

	schema, _ := c.Keyspace("system_schema")
	ksTable, _ := schema.Table("keyspaces")
	require.Len(t, ksTable.Rows, 1)
	name, _ := ksTable.Rows[0].Get("keyspace_name")
	assert.Equal(t, record.Text("ks"), name)

	colTable, _ := schema.Table("columns")
	require.Len(t, colTable.Rows, 3)
	kind, _ := colTable.Rows[0].Get("kind")
	assert.Equal(t, record.Text("partition_key"), kind)

	require.NoError(t, c.DropTable("ks", "users", false))
	tbTable, _ := schema.Table("tables")
	assert.Empty(t, tbTable.Rows)
}

func TestCatalog_SystemKeyspacesAreReserved(t *testing.T) {
	c := New(true)

	var serr *cqlerr.SchemaError
	require.ErrorAs(t, c.DropKeyspace("system", false), &serr)
	require.ErrorAs(t, c.CreateTable("system", "t", usersSchema(), false), &serr)
	require.ErrorAs(t, c.TruncateTable("system_schema", "tables"), &serr)
}
