package content

import (
	"context"
	"fmt"

	"contentcore/internal/cache"
	"contentcore/internal/store"
	"contentcore/internal/store/postgres"
	"contentcore/internal/store/sqlite"
	"contentcore/pkg/domain"
)

// Storage driver identifiers accepted by OpenPersistentStore.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSQLitePath is used when the sqlite driver is selected without an
// explicit path.
const DefaultSQLitePath = "contentcore.db"

// StorageOptions selects and configures the persistent store backing a
// Service.
type StorageOptions struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	Invalidator cache.Invalidator
}

// OpenPersistentStore builds the store for the configured driver, loading
// prior state for the durable drivers. The returned bucket names identify
// snapshot buckets that failed to parse at load time and were reset to
// empty; callers log them.
func OpenPersistentStore(ctx context.Context, engine *domain.RulesEngine, opts StorageOptions) (store.Persistent, []string, error) {
	catalog := DefaultCatalog()
	var storeOpts []store.Option
	if opts.Invalidator != nil {
		storeOpts = append(storeOpts, store.WithInvalidator(opts.Invalidator))
	}

	switch opts.Driver {
	case DriverMemory:
		return store.New(catalog, engine, storeOpts...), nil, nil
	case DriverSQLite, "":
		path := opts.SQLitePath
		if path == "" {
			path = DefaultSQLitePath
		}
		st, skipped, err := sqlite.New(path, engine, catalog, storeOpts...)
		if err != nil {
			return nil, nil, err
		}
		return st, skipped, nil
	case DriverPostgres:
		st, skipped, err := postgres.New(ctx, opts.PostgresDSN, engine, catalog, storeOpts...)
		if err != nil {
			return nil, nil, err
		}
		return st, skipped, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
