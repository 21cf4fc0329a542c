// Package cache stores rendered projection responses keyed by request body so
// identical uploads skip the simulation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultTTL bounds how long a cached projection is served.
const DefaultTTL = 10 * time.Minute

// Cache is a byte-valued key/value store. A miss or an unreachable backend
// both report ok == false.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Key derives the cache key for a request namespace and body.
func Key(namespace string, body []byte) string {
	sum := sha256.Sum256(body)
	return "payoff:" + namespace + ":" + hex.EncodeToString(sum[:])
}

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Cache used when no redis address is configured.
type Memory struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[string]entry
	now       func() time.Time
	nextSweep time.Time // Set sweeps expired entries at most once per ttl
}

// NewMemory returns an empty in-process cache. A non-positive ttl selects
// DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, entries: make(map[string]entry), now: time.Now}
}

// Get returns a copy of the cached value if it has not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return append([]byte(nil), e.value...), true
}

// Set stores a copy of value and drops entries that have expired.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.Before(m.nextSweep) {
		for k, e := range m.entries {
			if !now.Before(e.expires) {
				delete(m.entries, k)
			}
		}
		m.nextSweep = now.Add(m.ttl)
	}

	m.entries[key] = entry{value: append([]byte(nil), value...), expires: now.Add(m.ttl)}
	return nil
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
