package store

import (
	"context"
	"fmt"

	"contentcore/pkg/domain"
)

// Create validates and inserts a new record. An empty id is assigned from
// the transaction clock; a populated id must be free. Normalization (slug
// derivation, defaults) runs before the validation gate; a gate failure
// leaves the collection untouched.
func Create[T any, P entityPtr[T]](tx *Tx, v T) (T, error) {
	var zero T
	d := tx.store.catalog.mustByType(typeOf[T]())
	if d.singleton {
		return zero, fmt.Errorf("%s is a singleton document, use PutSingleton", d.entity)
	}
	if d.normalize != nil {
		d.normalize(&v)
	}
	if d.validate != nil {
		if err := d.validate(&v); err != nil {
			return zero, err
		}
	}
	b := tx.bucket(d)
	meta := P(&v).Record()
	if meta.ID == "" {
		meta.ID = tx.newID(b)
	} else if taken(b, meta.ID) {
		return zero, fmt.Errorf("%s %q already exists", d.entity, meta.ID)
	}
	meta.CreatedAt = tx.now
	meta.UpdatedAt = tx.now
	stored := mustClone(v)
	if d.prepend {
		b.records = append([]any{stored}, b.records...)
	} else {
		b.records = append(b.records, stored)
	}
	tx.changes = append(tx.changes, domain.Change{Entity: d.entity, Action: domain.ActionCreate, After: mustClone(v)})
	return v, nil
}

// Update applies mutate over the stored record so fields the mutator leaves
// alone survive (merge, not replace). The id is immutable; normalization
// re-derives the slug when the title changed.
func Update[T any, P entityPtr[T]](tx *Tx, id string, mutate func(*T) error) (T, error) {
	var zero T
	d := tx.store.catalog.mustByType(typeOf[T]())
	b := tx.bucket(d)
	idx := indexOf(b.records, id)
	if idx < 0 {
		return zero, domain.ErrNotFound{Entity: d.entity, ID: id}
	}
	current := b.records[idx].(T)
	before := mustClone(current)
	work := mustClone(current)
	if err := mutate(&work); err != nil {
		return zero, err
	}
	meta := P(&work).Record()
	meta.ID = id
	if d.normalize != nil {
		d.normalize(&work)
	}
	if d.validate != nil {
		if err := d.validate(&work); err != nil {
			return zero, err
		}
	}
	meta.UpdatedAt = tx.now
	b.records[idx] = mustClone(work)
	tx.changes = append(tx.changes, domain.Change{Entity: d.entity, Action: domain.ActionUpdate, Before: before, After: mustClone(work)})
	return work, nil
}

// Delete removes the record with the given id, preserving the order of the
// rest. A missing id is a not-found error with no effect.
func Delete[T any](tx *Tx, id string) error {
	d := tx.store.catalog.mustByType(typeOf[T]())
	b := tx.bucket(d)
	idx := indexOf(b.records, id)
	if idx < 0 {
		return domain.ErrNotFound{Entity: d.entity, ID: id}
	}
	removed := b.records[idx]
	b.records = append(b.records[:idx:idx], b.records[idx+1:]...)
	tx.changes = append(tx.changes, domain.Change{Entity: d.entity, Action: domain.ActionDelete, Before: removed})
	return nil
}

// GetIn retrieves a record by id from the transaction state.
func GetIn[T any](tx *Tx, id string) (T, bool) {
	var zero T
	d := tx.store.catalog.mustByType(typeOf[T]())
	b := tx.bucket(d)
	idx := indexOf(b.records, id)
	if idx < 0 {
		return zero, false
	}
	return mustClone(b.records[idx].(T)), true
}

// ListIn returns the ordered collection from the transaction state.
func ListIn[T any](tx *Tx) []T {
	d := tx.store.catalog.mustByType(typeOf[T]())
	b := tx.bucket(d)
	out := make([]T, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r.(T))
	}
	return out
}

// SingletonIn returns the singleton document from the transaction state,
// falling back to the descriptor default when none has been stored.
func SingletonIn[T any](tx *Tx) T {
	d := tx.store.catalog.mustByType(typeOf[T]())
	b := tx.bucket(d)
	if b.singleton == nil {
		return d.defaults().(T)
	}
	return mustClone(b.singleton.(T))
}

// PutSingleton validates and replaces the singleton document. The first
// write records a create, later writes an update; CreatedAt survives
// replacement.
func PutSingleton[T any, P entityPtr[T]](tx *Tx, v T) (T, error) {
	var zero T
	d := tx.store.catalog.mustByType(typeOf[T]())
	if !d.singleton {
		return zero, fmt.Errorf("%s is a collection, use Create", d.entity)
	}
	if d.normalize != nil {
		d.normalize(&v)
	}
	if d.validate != nil {
		if err := d.validate(&v); err != nil {
			return zero, err
		}
	}
	b := tx.bucket(d)
	meta := P(&v).Record()
	meta.ID = string(d.entity)
	action := domain.ActionUpdate
	var before any
	if b.singleton == nil {
		action = domain.ActionCreate
		meta.CreatedAt = tx.now
	} else {
		prev := b.singleton.(T)
		before = mustClone(prev)
		meta.CreatedAt = P(&prev).Record().CreatedAt
	}
	meta.UpdatedAt = tx.now
	b.singleton = mustClone(v)
	tx.changes = append(tx.changes, domain.Change{Entity: d.entity, Action: action, Before: before, After: mustClone(v)})
	return v, nil
}

// List returns the ordered collection from a read-only view.
func List[T any](v *View) []T {
	d := v.catalog.mustByType(typeOf[T]())
	b := v.bucketFor(d)
	out := make([]T, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r.(T))
	}
	return out
}

// Get retrieves a record by id from a read-only view.
func Get[T any](v *View, id string) (T, bool) {
	var zero T
	d := v.catalog.mustByType(typeOf[T]())
	b := v.bucketFor(d)
	idx := indexOf(b.records, id)
	if idx < 0 {
		return zero, false
	}
	return b.records[idx].(T), true
}

// Singleton returns the singleton document from a read-only view, or its
// default when unset. Missing content is never an error.
func Singleton[T any](v *View) T {
	d := v.catalog.mustByType(typeOf[T]())
	b := v.bucketFor(d)
	if b.singleton == nil {
		return d.defaults().(T)
	}
	return b.singleton.(T)
}

// ListAll is a convenience read spanning View acquisition.
func ListAll[T any](ctx context.Context, p Persistent) []T {
	var out []T
	_ = p.View(ctx, func(v *View) error {
		out = List[T](v)
		return nil
	})
	return out
}

// Find is a convenience point read spanning View acquisition.
func Find[T any](ctx context.Context, p Persistent, id string) (T, bool) {
	var (
		out T
		ok  bool
	)
	_ = p.View(ctx, func(v *View) error {
		out, ok = Get[T](v, id)
		return nil
	})
	return out, ok
}

// Document is a convenience singleton read spanning View acquisition.
func Document[T any](ctx context.Context, p Persistent) T {
	var out T
	_ = p.View(ctx, func(v *View) error {
		out = Singleton[T](v)
		return nil
	})
	return out
}
