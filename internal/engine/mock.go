// Package engine ties the catalog and the executor into the embeddable
// instance handed to tests: sessions to execute statements through, plus an
// inspection surface for asserting on state without queries.
package engine

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mockcql/mockcql/cqlerr"
	"github.com/mockcql/mockcql/internal"
	"github.com/mockcql/mockcql/internal/catalog"
	"github.com/mockcql/mockcql/internal/cql/executor"
	"github.com/mockcql/mockcql/internal/cql/parser"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("mockcql: instance is closed")

// StatementExecutor is the capability consumed by code under test: anything
// that runs CQL strings. Both Session and driver shims satisfy it.
type StatementExecutor interface {
	Execute(cql string) (*executor.Result, error)
}

// Mock is one independent in-memory instance. Instances share nothing, so a
// test can own several clusters at once. All access is serialized by an
// internal lock.
type Mock struct {
	mu     sync.Mutex
	cfg    *internal.MockCqlConfig
	cat    *catalog.Catalog
	exec   *executor.Executor
	log    *slog.Logger
	closed bool
}

// New builds an instance. A nil config uses the defaults.
func New(cfg *internal.MockCqlConfig) *Mock {
	if cfg == nil {
		cfg = internal.DefaultConfig()
	}
	log := newLogger(cfg.LogLevel)
	cat := catalog.New(cfg.SystemTables)
	return &Mock{
		cfg:  cfg,
		cat:  cat,
		exec: executor.New(cat, cfg.StrictUpdate, log),
		log:  log,
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Close marks the instance unusable. Sessions created from it start failing
// with ErrClosed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Connect opens a session. A non-empty keyspace must already exist.
func (m *Mock) Connect(keyspace string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if keyspace != "" {
		if _, ok := m.cat.Keyspace(keyspace); !ok {
			return nil, &cqlerr.NoSuchKeyspaceError{Keyspace: keyspace}
		}
	}
	return &Session{mock: m, keyspace: keyspace}, nil
}

// EnsureKeyspace creates a keyspace with the configured default replication
// if it does not exist yet. Test setup helper; DDL through a session is the
// explicit route.
func (m *Mock) EnsureKeyspace(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	repl := map[string]string{
		"class":              m.cfg.Replication.Class,
		"replication_factor": strconv.Itoa(m.cfg.Replication.Factor),
	}
	return m.cat.CreateKeyspace(name, repl, true, true)
}

// Session executes statements against its instance, carrying the current
// keyspace for unqualified table names. Sessions are cheap; a session is not
// safe for concurrent use, but separate sessions of one instance are.
type Session struct {
	mock     *Mock
	keyspace string
}

var _ StatementExecutor = (*Session)(nil)

// Execute parses and runs one statement. USE switches the session keyspace
// and touches no data.
func (s *Session) Execute(cql string) (*executor.Result, error) {
	s.mock.mu.Lock()
	defer s.mock.mu.Unlock()
	if s.mock.closed {
		return nil, ErrClosed
	}

	stmt, err := parser.Parse(cql, s.keyspace)
	if err != nil {
		return nil, err
	}
	if use, ok := stmt.(*parser.UseKeyspaceStmt); ok {
		if _, ok := s.mock.cat.Keyspace(use.Name); !ok {
			return nil, &cqlerr.NoSuchKeyspaceError{Keyspace: use.Name}
		}
		s.keyspace = use.Name
		return &executor.Result{}, nil
	}
	return s.mock.exec.ExecuteStmt(stmt, s.keyspace)
}

// Keyspace returns the session's current keyspace, empty when none is set.
func (s *Session) Keyspace() string {
	return s.keyspace
}

// SetKeyspace switches the session keyspace, like executing USE.
func (s *Session) SetKeyspace(name string) error {
	s.mock.mu.Lock()
	defer s.mock.mu.Unlock()
	if s.mock.closed {
		return ErrClosed
	}
	if _, ok := s.mock.cat.Keyspace(name); !ok {
		return &cqlerr.NoSuchKeyspaceError{Keyspace: name}
	}
	s.keyspace = name
	return nil
}
