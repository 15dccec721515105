// Package store implements the content store engine: one in-memory
// transactional collection store parameterized by entity descriptors, with
// snapshot export/import used by the durable drivers. Mutations run inside
// RunInTransaction against a cloned state; the clone is committed only when
// the transaction function, the per-entity validation gate, and the rules
// engine all pass.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"contentcore/internal/cache"
	"contentcore/pkg/domain"
)

type bucketState struct {
	records   []any // ordered collection records
	singleton any   // nil until the document is first stored
}

type state map[string]*bucketState

func newState(c *Catalog) state {
	s := make(state, len(c.order))
	for _, d := range c.order {
		s[d.bucket] = &bucketState{}
	}
	return s
}

func (s state) clone(c *Catalog) state {
	out := make(state, len(s))
	for bucket, b := range s {
		d, ok := c.byBucket[bucket]
		if !ok {
			continue
		}
		nb := &bucketState{}
		if len(b.records) > 0 {
			nb.records = make([]any, len(b.records))
			for i, r := range b.records {
				nb.records[i] = cloneAny(d, r)
			}
		}
		if b.singleton != nil {
			nb.singleton = cloneAny(d, b.singleton)
		}
		out[bucket] = nb
	}
	return out
}

// Store is the in-memory transactional content store. Durable drivers embed
// it and snapshot committed state to their backend.
type Store struct {
	mu          sync.RWMutex
	state       state
	catalog     *Catalog
	engine      *domain.RulesEngine
	invalidator cache.Invalidator
	nowFn       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithInvalidator installs the cache invalidation hook fired after every
// committed transaction. Invalidation is fire-and-forget.
func WithInvalidator(inv cache.Invalidator) Option {
	return func(s *Store) { s.invalidator = inv }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

// New constructs an in-memory store serving the given catalog. A nil rules
// engine disables cross-entity rules.
func New(catalog *Catalog, engine *domain.RulesEngine, opts ...Option) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		state:   newState(catalog),
		catalog: catalog,
		engine:  engine,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the store serves.
func (s *Store) Catalog() *Catalog { return s.catalog }

// Tx represents a mutation set applied to a cloned copy of the store state.
type Tx struct {
	store   *Store
	state   state
	changes []domain.Change
	now     time.Time
}

// Changes returns the mutations recorded so far in the transaction.
func (tx *Tx) Changes() []domain.Change { return tx.changes }

func (tx *Tx) bucket(d *Descriptor) *bucketState {
	b, ok := tx.state[d.bucket]
	if !ok {
		b = &bucketState{}
		tx.state[d.bucket] = b
	}
	return b
}

// newID generates a record id from the transaction timestamp in Unix
// milliseconds. When the id is already taken in the bucket (rapid creation
// within one millisecond, or several creates in one transaction) a short
// random suffix is appended.
func (tx *Tx) newID(b *bucketState) string {
	base := strconv.FormatInt(tx.now.UnixMilli(), 10)
	id := base
	for taken(b, id) {
		var buf [3]byte
		if _, err := rand.Read(buf[:]); err != nil {
			panic(err)
		}
		id = base + "-" + hex.EncodeToString(buf[:])
	}
	return id
}

func taken(b *bucketState, id string) bool {
	return indexOf(b.records, id) >= 0
}

func indexOf(records []any, id string) int {
	for i, r := range records {
		if recordID(r) == id {
			return i
		}
	}
	return -1
}

func recordID(r any) string {
	ider, ok := r.(interface{ RecordID() string })
	if !ok {
		return ""
	}
	return ider.RecordID()
}

// RunInTransaction executes fn within a transactional copy of the store
// state. The commit happens only when fn, per-record validation, and the
// rules engine all succeed; afterwards the cache invalidation hook fires
// for every changed record's route paths.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx *Tx) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		store: s,
		state: s.state.clone(s.catalog),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		view := &View{state: tx.state, catalog: s.catalog}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	s.invalidate(tx.changes)
	return result, nil
}

// invalidate marks every route path affected by the committed changes as
// stale. Failures are not observable by the writer.
func (s *Store) invalidate(changes []domain.Change) {
	if s.invalidator == nil {
		return
	}
	for _, change := range changes {
		d, ok := s.catalog.byEntity[change.Entity]
		if !ok || d.paths == nil {
			continue
		}
		record := change.After
		if change.Action == domain.ActionDelete {
			record = change.Before
		}
		if record == nil {
			continue
		}
		for _, path := range d.paths(record) {
			s.invalidator.Invalidate(path)
		}
	}
}

// View executes fn against a read-only snapshot of the committed state.
func (s *Store) View(ctx context.Context, fn func(v *View) error) error {
	s.mu.RLock()
	snapshot := s.state.clone(s.catalog)
	s.mu.RUnlock()
	return fn(&View{state: snapshot, catalog: s.catalog})
}

// Close releases resources held by durable drivers; the memory store holds
// none.
func (s *Store) Close() error { return nil }

// View is a read-only snapshot of store state. It backs both caller reads
// and rule evaluation.
type View struct {
	state   state
	catalog *Catalog
}

func (v *View) bucketFor(d *Descriptor) *bucketState {
	b, ok := v.state[d.bucket]
	if !ok {
		return &bucketState{}
	}
	return b
}

// List implements domain.RuleView. Singleton buckets yield one element, the
// effective document (default when unset).
func (v *View) List(entity domain.EntityType) []any {
	d, ok := v.catalog.byEntity[entity]
	if !ok {
		return nil
	}
	b := v.bucketFor(d)
	if d.singleton {
		if b.singleton != nil {
			return []any{cloneAny(d, b.singleton)}
		}
		return []any{d.defaults()}
	}
	out := make([]any, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, cloneAny(d, r))
	}
	return out
}

// Find implements domain.RuleView.
func (v *View) Find(entity domain.EntityType, id string) (any, bool) {
	d, ok := v.catalog.byEntity[entity]
	if !ok || d.singleton {
		return nil, false
	}
	b := v.bucketFor(d)
	i := indexOf(b.records, id)
	if i < 0 {
		return nil, false
	}
	return cloneAny(d, b.records[i]), true
}
