// Package cache holds recently fetched ledger state with per entry
// expiry, so bursts of console reads do not hammer the servers.
package cache

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL how long entries stay fresh unless a caller says otherwise
const DefaultTTL = 10 * time.Second

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Store a TTL keyed cache.
// Concurrent fetches of the same key are coalesced into one call.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	// replaceable clock for tests
	now func() time.Time
}

// NewStore builds an empty store
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns a fresh entry, false when missing or expired
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a value, ttl <= 0 selects DefaultTTL
func (s *Store) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
}

// SetTTL re-stamps the expiry of an existing entry, false when the key
// is absent. ttl <= 0 selects DefaultTTL.
func (s *Store) SetTTL(key string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	e.expiresAt = s.now().Add(ttl)
	s.entries[key] = e
	return true
}

// GetOrFetch returns the cached value, or runs fetch and caches its
// result. Concurrent calls for the same key while a fetch is in flight
// share that one fetch. forceRefresh drops the entry first.
func (s *Store) GetOrFetch(key string, ttl time.Duration, forceRefresh bool, fetch func() (interface{}, error)) (interface{}, error) {
	if forceRefresh {
		s.Invalidate(key)
		s.group.Forget(key)
	} else if value, ok := s.Get(key); ok {
		return value, nil
	}
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		// a caller that queued behind the winning fetch reads its result
		if value, ok := s.Get(key); ok {
			return value, nil
		}
		value, err := fetch()
		if err != nil {
			return nil, err
		}
		s.Set(key, value, ttl)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Invalidate drops one entry
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidatePrefix drops every entry whose key starts with prefix
func (s *Store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// Len counts entries including expired ones not yet overwritten
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
