// Package identity abstracts token verification so the service never talks
// to a concrete auth provider directly.
package identity

import (
	"context"
	"fmt"
	"sync"
)

// Identity is the verified caller behind a token.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
}

// Verifier validates an opaque bearer token and resolves the identity
// behind it.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// StaticVerifier resolves tokens from a preloaded map. Intended for dev
// environments and tests; production wiring plugs in a real provider.
type StaticVerifier struct {
	mu     sync.RWMutex
	tokens map[string]Identity
}

// NewStaticVerifier returns a verifier seeded with the given token map.
func NewStaticVerifier(tokens map[string]Identity) *StaticVerifier {
	seeded := make(map[string]Identity, len(tokens))
	for token, id := range tokens {
		seeded[token] = id
	}
	return &StaticVerifier{tokens: seeded}
}

// Add registers one token after construction.
func (v *StaticVerifier) Add(token string, id Identity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = id
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("empty token")
	}
	v.mu.RLock()
	id, ok := v.tokens[token]
	v.mu.RUnlock()
	if !ok {
		return Identity{}, fmt.Errorf("unknown token")
	}
	return id, nil
}
