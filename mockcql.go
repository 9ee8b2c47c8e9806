// Package mockcql is the top-level facade for the in-memory CQL engine.
// Tests import this package, build a Mock per test, connect sessions and
// execute CQL strings against it.
package mockcql

import (
	"github.com/mockcql/mockcql/internal"
	"github.com/mockcql/mockcql/internal/cql/executor"
	"github.com/mockcql/mockcql/internal/engine"
)

type (
	Config            = internal.MockCqlConfig
	Mock              = engine.Mock
	Session           = engine.Session
	Result            = executor.Result
	StatementExecutor = engine.StatementExecutor
	KeyspaceInfo      = engine.KeyspaceInfo
	TableInfo         = engine.TableInfo
	ColumnInfo        = engine.ColumnInfo
	TypeInfo          = engine.TypeInfo
	TypeField         = engine.TypeField
)

// ErrClosed is returned by every operation on a closed instance.
var ErrClosed = engine.ErrClosed

// New builds an independent in-memory instance. A nil config uses the
// defaults.
func New(cfg *Config) *Mock { return engine.New(cfg) }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config { return internal.DefaultConfig() }

// LoadConfig reads a yaml config file with MOCKCQL_* environment overrides.
func LoadConfig(path string) (*Config, error) { return internal.LoadConfig(path) }
