// Package session ties one connected identity to its engine, cache, and
// signer. One logical actor per session; the engine's busy bookkeeping is
// therefore per viewer, as the lifecycle rules require.
package session

import (
	"sync"

	"github.com/neartasks/platform/internal/cache"
	"github.com/neartasks/platform/internal/gateway"
	"github.com/neartasks/platform/internal/lifecycle"
	"github.com/neartasks/platform/internal/wallet"
)

// Session is the per-identity working set.
type Session struct {
	Identity string
	Signer   wallet.Signer
	Gateway  gateway.Client
	Cache    *cache.Store
	Engine   *lifecycle.Engine
}

// Factory builds a fresh session for an identity.
type Factory func(identity string) *Session

// Manager hands out sessions, creating each identity's lazily and reusing
// it for the rest of its lifetime so in-flight bookkeeping survives across
// requests.
type Manager struct {
	mu       sync.Mutex
	factory  Factory
	sessions map[string]*Session
}

// NewManager returns a manager using the given factory.
func NewManager(factory Factory) *Manager {
	return &Manager{factory: factory, sessions: make(map[string]*Session)}
}

// Get returns the identity's session, creating it on first use.
func (m *Manager) Get(identity string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[identity]; ok {
		return s
	}
	s := m.factory(identity)
	m.sessions[identity] = s
	return s
}
