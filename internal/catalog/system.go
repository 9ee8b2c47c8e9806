package catalog

import (
	"sort"

	"github.com/mockcql/mockcql/internal/record"
)

// Virtual keyspace names. They mirror what drivers probe on connect.
const (
	SystemKeyspace       = "system"
	SystemSchemaKeyspace = "system_schema"
)

func typ(name string) record.TypeName {
	return record.TypeName{Name: name, Raw: name}
}

func mapTextText() record.TypeName {
	return record.TypeName{Name: "map", Raw: "map", Args: []record.TypeName{typ("text"), typ("text")}}
}

// seedSystem registers the system and system_schema keyspaces. system.local
// carries the single node-identity row drivers read during the handshake;
// the system_schema tables are filled by refreshSystemSchema.
func (c *Catalog) seedSystem() {
	local := &Table{
		Name: "local",
		Schema: record.Schema{Cols: []record.Column{
			{Name: "key", Type: typ("text"), Role: record.RolePartitionKey},
			{Name: "cluster_name", Type: typ("text")},
			{Name: "data_center", Type: typ("text")},
			{Name: "rack", Type: typ("text")},
			{Name: "partitioner", Type: typ("text")},
			{Name: "release_version", Type: typ("text")},
			{Name: "cql_version", Type: typ("text")},
		}},
		Rows: []record.Row{{
			"key":             record.Text("local"),
			"cluster_name":    record.Text("Test Cluster"),
			"data_center":     record.Text("datacenter1"),
			"rack":            record.Text("rack1"),
			"partitioner":     record.Text("org.apache.cassandra.dht.Murmur3Partitioner"),
			"release_version": record.Text("4.0.0"),
			"cql_version":     record.Text("3.4.5"),
		}},
	}

	keyspaces := &Table{
		Name: "keyspaces",
		Schema: record.Schema{Cols: []record.Column{
			{Name: "keyspace_name", Type: typ("text"), Role: record.RolePartitionKey},
			{Name: "durable_writes", Type: typ("boolean")},
			{Name: "replication", Type: mapTextText()},
		}},
	}
	tables := &Table{
		Name: "tables",
		Schema: record.Schema{Cols: []record.Column{
			{Name: "keyspace_name", Type: typ("text"), Role: record.RolePartitionKey},
			{Name: "table_name", Type: typ("text"), Role: record.RoleClusteringKey},
		}},
	}
	columns := &Table{
		Name: "columns",
		Schema: record.Schema{Cols: []record.Column{
			{Name: "keyspace_name", Type: typ("text"), Role: record.RolePartitionKey},
			{Name: "table_name", Type: typ("text"), Role: record.RoleClusteringKey},
			{Name: "column_name", Type: typ("text"), Role: record.RoleClusteringKey},
			{Name: "kind", Type: typ("text")},
			{Name: "position", Type: typ("int")},
			{Name: "type", Type: typ("text")},
		}},
	}

	c.keyspaces = append(c.keyspaces,
		&Keyspace{
			Name:          SystemKeyspace,
			Replication:   map[string]string{"class": "LocalStrategy"},
			DurableWrites: true,
			Virtual:       true,
			Tables:        []*Table{local},
		},
		&Keyspace{
			Name:          SystemSchemaKeyspace,
			Replication:   map[string]string{"class": "LocalStrategy"},
			DurableWrites: true,
			Virtual:       true,
			Tables:        []*Table{keyspaces, tables, columns},
		},
	)
}

// refreshSystemSchema rebuilds the system_schema tables from the current
// user keyspaces. A no-op when system tables are disabled.
func (c *Catalog) refreshSystemSchema() {
	schema, ok := c.Keyspace(SystemSchemaKeyspace)
	if !ok {
		return
	}
	ksTable, _ := schema.Table("keyspaces")
	tbTable, _ := schema.Table("tables")
	colTable, _ := schema.Table("columns")
	ksTable.Rows = nil
	tbTable.Rows = nil
	colTable.Rows = nil

	for _, k := range c.keyspaces {
		if k.Virtual {
			continue
		}
		ksTable.Rows = append(ksTable.Rows, record.Row{
			"keyspace_name":  record.Text(k.Name),
			"durable_writes": record.Bool(k.DurableWrites),
			"replication":    replicationValue(k.Replication),
		})
		for _, t := range k.Tables {
			tbTable.Rows = append(tbTable.Rows, record.Row{
				"keyspace_name": record.Text(k.Name),
				"table_name":    record.Text(t.Name),
			})
			partitionPos, clusteringPos := 0, 0
			for _, col := range t.Schema.Cols {
				pos := -1
				switch col.Role {
				case record.RolePartitionKey:
					pos = partitionPos
					partitionPos++
				case record.RoleClusteringKey:
					pos = clusteringPos
					clusteringPos++
				}
				colTable.Rows = append(colTable.Rows, record.Row{
					"keyspace_name": record.Text(k.Name),
					"table_name":    record.Text(t.Name),
					"column_name":   record.Text(col.Name),
					"kind":          record.Text(col.Role.String()),
					"position":      record.Int(int64(pos)),
					"type":          record.Text(col.Type.String()),
				})
			}
		}
	}
}

// replicationValue renders a replication map as a map<text, text> value with
// deterministic key order.
func replicationValue(repl map[string]string) record.Value {
	keys := make([]string, 0, len(repl))
	for k := range repl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]record.MapEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, record.MapEntry{Key: record.Text(k), Val: record.Text(repl[k])})
	}
	return record.Value{Kind: record.KindMap, Entries: entries}
}
