// Package session tracks the refresh tokens that are currently allowed
// to mint new access tokens.
package session

import "sync"

// Registry holds the set of currently valid refresh tokens.
//
// Membership is the only revocation mechanism for refresh tokens: logout
// removes the token, and anything not present is rejected by the refresh
// flow regardless of its signature.
type Registry interface {
	// Add registers a refresh token as valid.
	Add(refreshToken string)

	// Revoke removes all occurrences of the given token. Revoking a
	// token that is not present is a no-op.
	Revoke(refreshToken string)

	// Contains reports whether the token is currently valid.
	Contains(refreshToken string) bool
}

// MemoryRegistry is a process-lifetime Registry. Tokens do not survive a
// restart; a production deployment would back this with a persistent,
// TTL-indexed store instead.
type MemoryRegistry struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		tokens: make(map[string]struct{}),
	}
}

func (r *MemoryRegistry) Add(refreshToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[refreshToken] = struct{}{}
}

func (r *MemoryRegistry) Revoke(refreshToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, refreshToken)
}

func (r *MemoryRegistry) Contains(refreshToken string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tokens[refreshToken]
	return ok
}
