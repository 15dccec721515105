// Package postgres provides a Postgres-backed content store that mirrors
// the in-memory semantics, snapshotting committed state into a JSONB
// bucket table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"contentcore/internal/store"
	"contentcore/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var _ store.Persistent = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/contentcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory engine for
// transactions.
type Store struct {
	*store.Store
	db *sql.DB
	mu sync.Mutex
}

// New opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN), ensures the content table exists, and hydrates the engine
// from any existing snapshot.
func New(ctx context.Context, dsn string, engine *domain.RulesEngine, catalog *store.Catalog, opts ...store.Option) (*Store, []string, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS content (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, nil, fmt.Errorf("ensure content table: %w", err)
	}
	s := &Store{Store: store.New(catalog, engine, opts...), db: db}
	skipped, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s, skipped, nil
}

func (s *Store) load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM content`)
	if err != nil {
		return nil, fmt.Errorf("select content: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshot := store.Snapshot{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		snapshot[bucket] = json.RawMessage(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}
	if len(snapshot) == 0 {
		return nil, nil
	}
	return s.ImportState(snapshot), nil
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, d := range s.Catalog().Descriptors() {
		payload, ok := snapshot[d.Bucket()]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO content(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, d.Bucket(), []byte(payload)); err != nil {
			return fmt.Errorf("upsert %s: %w", d.Bucket(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// RunInTransaction applies fn within a transaction, then snapshots to
// Postgres when the commit succeeds.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx *store.Tx) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(ctx); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a
// restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
