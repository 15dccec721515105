package store

import (
	"encoding/json"
	"fmt"
	"reflect"

	"contentcore/pkg/domain"
)

// entityPtr constrains pointers to content records: every entity embeds
// domain.Base, which supplies Record().
type entityPtr[T any] interface {
	*T
	Record() *domain.Base
}

// Descriptor binds one entity type to its storage bucket, insert position,
// normalization and validation hooks, and the route paths invalidated after
// a successful write. Descriptors are built through RegisterList and
// RegisterSingleton; the engine never special-cases individual entities.
type Descriptor struct {
	entity    domain.EntityType
	bucket    string
	prepend   bool
	singleton bool
	typ       reflect.Type

	normalize  func(any)              // *T
	validate   func(any) error        // *T
	defaults   func() any             // singleton default, value T
	decodeList func([]byte) ([]any, error)
	decodeOne  func([]byte) (any, error)
	paths      func(any) []string // value T
}

// Entity returns the entity type the descriptor describes.
func (d *Descriptor) Entity() domain.EntityType { return d.entity }

// Bucket returns the snapshot bucket name.
func (d *Descriptor) Bucket() string { return d.bucket }

// Singleton reports whether the bucket holds a single document.
func (d *Descriptor) Singleton() bool { return d.singleton }

// Catalog is the full set of entity descriptors one store serves.
type Catalog struct {
	byType   map[reflect.Type]*Descriptor
	byBucket map[string]*Descriptor
	byEntity map[domain.EntityType]*Descriptor
	order    []*Descriptor
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byType:   make(map[reflect.Type]*Descriptor),
		byBucket: make(map[string]*Descriptor),
		byEntity: make(map[domain.EntityType]*Descriptor),
	}
}

// Descriptors returns descriptors in registration order.
func (c *Catalog) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(c.order))
	copy(out, c.order)
	return out
}

// ByEntity resolves a descriptor by entity type.
func (c *Catalog) ByEntity(entity domain.EntityType) (*Descriptor, bool) {
	d, ok := c.byEntity[entity]
	return d, ok
}

// ByBucket resolves a descriptor by bucket name.
func (c *Catalog) ByBucket(bucket string) (*Descriptor, bool) {
	d, ok := c.byBucket[bucket]
	return d, ok
}

func (c *Catalog) add(d *Descriptor) {
	if _, dup := c.byType[d.typ]; dup {
		panic(fmt.Sprintf("store: duplicate descriptor for type %s", d.typ))
	}
	if _, dup := c.byBucket[d.bucket]; dup {
		panic(fmt.Sprintf("store: duplicate bucket %q", d.bucket))
	}
	c.byType[d.typ] = d
	c.byBucket[d.bucket] = d
	c.byEntity[d.entity] = d
	c.order = append(c.order, d)
}

func (c *Catalog) mustByType(t reflect.Type) *Descriptor {
	d, ok := c.byType[t]
	if !ok {
		panic(fmt.Sprintf("store: no descriptor registered for type %s", t))
	}
	return d
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ListSpec configures a list-collection descriptor.
type ListSpec[T any] struct {
	Entity  domain.EntityType
	Bucket  string
	Prepend bool // insert new records newest-first

	Normalize func(*T)       // defaults and derived fields (slug)
	Validate  func(*T) error // schema gate, runs after Normalize
	Paths     func(T) []string
}

// RegisterList adds a list-collection descriptor to the catalog.
func RegisterList[T any, P entityPtr[T]](c *Catalog, spec ListSpec[T]) {
	c.add(&Descriptor{
		entity:     spec.Entity,
		bucket:     spec.Bucket,
		prepend:    spec.Prepend,
		typ:        typeOf[T](),
		normalize:  wrapNormalize(spec.Normalize),
		validate:   wrapValidate(spec.Validate),
		decodeList: decodeListOf[T],
		decodeOne:  decodeOneOf[T],
		paths:      wrapPaths(spec.Paths),
	})
}

// SingletonSpec configures a single-document descriptor.
type SingletonSpec[T any] struct {
	Entity domain.EntityType
	Bucket string

	Default   func() T // served when no document has been stored yet
	Normalize func(*T)
	Validate  func(*T) error
	Paths     func(T) []string
}

// RegisterSingleton adds a single-document descriptor to the catalog.
func RegisterSingleton[T any, P entityPtr[T]](c *Catalog, spec SingletonSpec[T]) {
	if spec.Default == nil {
		panic(fmt.Sprintf("store: singleton %q requires a default document", spec.Bucket))
	}
	defaults := spec.Default
	c.add(&Descriptor{
		entity:     spec.Entity,
		bucket:     spec.Bucket,
		singleton:  true,
		typ:        typeOf[T](),
		normalize:  wrapNormalize(spec.Normalize),
		validate:   wrapValidate(spec.Validate),
		defaults:   func() any { return defaults() },
		decodeList: decodeListOf[T],
		decodeOne:  decodeOneOf[T],
		paths:      wrapPaths(spec.Paths),
	})
}

func wrapNormalize[T any](fn func(*T)) func(any) {
	if fn == nil {
		return nil
	}
	return func(v any) { fn(v.(*T)) }
}

func wrapValidate[T any](fn func(*T) error) func(any) error {
	if fn == nil {
		return nil
	}
	return func(v any) error { return fn(v.(*T)) }
}

func wrapPaths[T any](fn func(T) []string) func(any) []string {
	if fn == nil {
		return nil
	}
	return func(v any) []string { return fn(v.(T)) }
}

func decodeListOf[T any](data []byte) ([]any, error) {
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	out := make([]any, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	return out, nil
}

func decodeOneOf[T any](data []byte) (any, error) {
	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// mustClone deep-copies a record through its JSON form so stored state
// never aliases slices held by callers.
func mustClone[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("store: clone %T: %w", v, err))
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Errorf("store: clone %T: %w", v, err))
	}
	return out
}

func cloneAny(d *Descriptor, v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("store: clone %s: %w", d.bucket, err))
	}
	out, err := d.decodeOne(data)
	if err != nil {
		panic(fmt.Errorf("store: clone %s: %w", d.bucket, err))
	}
	return out
}
