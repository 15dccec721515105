package store

import (
	"context"
	"encoding/json"
	"fmt"

	"contentcore/pkg/domain"
)

// Snapshot is the full store state keyed by bucket name. List buckets hold
// a JSON array of records; singleton buckets hold one JSON object. It is
// the exchange format between the memory engine, the durable drivers, and
// the seed import/export commands.
type Snapshot map[string]json.RawMessage

// ExportState serializes committed state into a snapshot. Unset singleton
// buckets are omitted so a fresh import keeps serving defaults.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Snapshot, len(s.catalog.order))
	for _, d := range s.catalog.order {
		b, ok := s.state[d.bucket]
		if !ok {
			continue
		}
		if d.singleton {
			if b.singleton == nil {
				continue
			}
			data, err := json.Marshal(b.singleton)
			if err != nil {
				panic(fmt.Errorf("store: export %s: %w", d.bucket, err))
			}
			out[d.bucket] = data
			continue
		}
		records := b.records
		if records == nil {
			records = []any{}
		}
		data, err := json.Marshal(records)
		if err != nil {
			panic(fmt.Errorf("store: export %s: %w", d.bucket, err))
		}
		out[d.bucket] = data
	}
	return out
}

// ImportState replaces committed state from a snapshot. Buckets absent from
// the snapshot reset to empty (or the singleton default); buckets that fail
// to decode are skipped the same way and reported back so callers can log
// the degradation. Unknown bucket names are ignored.
func (s *Store) ImportState(snapshot Snapshot) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var skipped []string
	next := newState(s.catalog)
	for _, d := range s.catalog.order {
		data, ok := snapshot[d.bucket]
		if !ok || len(data) == 0 {
			continue
		}
		b := next[d.bucket]
		if d.singleton {
			doc, err := d.decodeOne(data)
			if err != nil {
				skipped = append(skipped, d.bucket)
				continue
			}
			b.singleton = doc
			continue
		}
		records, err := d.decodeList(data)
		if err != nil {
			skipped = append(skipped, d.bucket)
			continue
		}
		b.records = records
	}
	s.state = next
	return skipped
}

// Persistent is the store surface the service layer depends on. The memory
// engine satisfies it directly; durable drivers embed the engine and add
// snapshot persistence after each commit.
type Persistent interface {
	RunInTransaction(ctx context.Context, fn func(tx *Tx) error) (domain.Result, error)
	View(ctx context.Context, fn func(v *View) error) error
	ExportState() Snapshot
	ImportState(Snapshot) []string
	Catalog() *Catalog
	Close() error
}

var _ Persistent = (*Store)(nil)
