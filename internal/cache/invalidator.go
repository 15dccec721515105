// Package cache marks rendered route paths as stale after content writes so
// the next request recomputes them from current store contents. The hook is
// fire-and-forget: writers never observe whether invalidation succeeded.
package cache

import "sync"

// Invalidator receives route paths whose cached render is stale.
type Invalidator interface {
	Invalidate(path string)
}

// Func adapts a function to the Invalidator interface.
type Func func(path string)

// Invalidate implements Invalidator.
func (f Func) Invalidate(path string) { f(path) }

// Tracker is an in-process Invalidator that remembers stale paths until a
// reader consumes them.
type Tracker struct {
	mu    sync.Mutex
	stale map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{stale: make(map[string]struct{})}
}

// Invalidate implements Invalidator.
func (t *Tracker) Invalidate(path string) {
	if path == "" {
		return
	}
	t.mu.Lock()
	t.stale[path] = struct{}{}
	t.mu.Unlock()
}

// Stale reports whether the path is currently marked stale.
func (t *Tracker) Stale(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.stale[path]
	return ok
}

// Consume clears the path's stale mark and reports whether it was set,
// mirroring a renderer that recomputes the page on its next request.
func (t *Tracker) Consume(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.stale[path]
	delete(t.stale, path)
	return ok
}

// Paths returns every currently stale path.
func (t *Tracker) Paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.stale))
	for p := range t.stale {
		out = append(out, p)
	}
	return out
}
