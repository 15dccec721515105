// Package sqlite provides the default durable content store: committed
// state is snapshotted into a single-table SQLite database as one JSON
// payload per bucket.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"contentcore/internal/store"
	"contentcore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ store.Persistent = (*Store)(nil)

// Store persists the in-memory state to SQLite after every successful
// transaction.
type Store struct {
	*store.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// New opens (or creates) the database at path and hydrates the engine from
// any existing snapshot. Buckets that fail to decode are returned in
// skipped and served as empty/default content.
func New(path string, engine *domain.RulesEngine, catalog *store.Catalog, opts ...store.Option) (*Store, []string, error) {
	if path == "" {
		path = "contentcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS content (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create content table: %w", err)
	}
	s := &Store{Store: store.New(catalog, engine, opts...), db: db, path: path}
	skipped, err := s.load()
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, skipped, nil
}

func (s *Store) load() ([]string, error) {
	rows, err := s.db.Query(`SELECT bucket, payload FROM content`)
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

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, d := range s.Catalog().Descriptors() {
		payload, ok := snapshot[d.Bucket()]
		if !ok {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO content(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, d.Bucket(), []byte(payload)); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", d.Bucket(), err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}

// RunInTransaction applies fn within a transaction, then snapshots state to
// SQLite when the commit succeeds. A persistence failure surfaces as the
// call's error without retry.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx *store.Tx) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
