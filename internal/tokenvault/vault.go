// Package tokenvault persists the single session token across process
// restarts. The contract is deliberately tiny: get and set of one optional
// string.
package tokenvault

import (
	"context"
	"sync"
)

// Vault stores at most one bearer token durably.
type Vault interface {
	// Load returns the stored token. found is false when nothing is stored.
	Load(ctx context.Context) (token string, found bool, err error)
	// Save replaces the stored token.
	Save(ctx context.Context, token string) error
	// Clear removes the stored token. Clearing an empty vault is not an error.
	Clear(ctx context.Context) error
}

// MemoryVault keeps the token in process memory. It satisfies Vault for tests
// and throwaway sessions where durability is not wanted.
type MemoryVault struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryVault returns an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

// Load implements Vault.
func (v *MemoryVault) Load(_ context.Context) (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token, v.set, nil
}

// Save implements Vault.
func (v *MemoryVault) Save(_ context.Context, token string) error {
	v.mu.Lock()
	v.token = token
	v.set = true
	v.mu.Unlock()
	return nil
}

// Clear implements Vault.
func (v *MemoryVault) Clear(_ context.Context) error {
	v.mu.Lock()
	v.token = ""
	v.set = false
	v.mu.Unlock()
	return nil
}
