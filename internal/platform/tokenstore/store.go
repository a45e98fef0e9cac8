// Package tokenstore keeps issued tokens and OAuth state markers in process
// memory for the lifetime of the gateway. Entries are never evicted and
// nothing survives a restart; this is an acknowledged limitation for
// multi-instance deployments, not a cache design.
package tokenstore

import (
	"sync"
	"time"
)

// TokenRecord holds one token response as returned by the upstream token
// endpoint, plus the expiry computed when it was recorded. Records are never
// mutated after creation.
type TokenRecord struct {
	Data      map[string]interface{}
	ExpiresAt time.Time
}

// Store is a process-lifetime mapping shared by the OAuth relay. Two kinds
// of entries live in the same mapping: state markers (keyed by state value)
// and token records (keyed by access-token value).
type Store interface {
	PutState(state string)
	HasState(state string) bool
	PutToken(accessToken string, rec TokenRecord)
	GetToken(accessToken string) (TokenRecord, bool)
	Len() int
}

type entryKind int

const (
	kindState entryKind = iota
	kindToken
)

type entry struct {
	kind  entryKind
	token TokenRecord
}

// MemoryStore is the in-memory Store used by the gateway. Concurrent writers
// may overwrite each other's entries (last write wins); that is acceptable
// here because records are write-once and keyed by unique values.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

func (s *MemoryStore) PutState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state] = entry{kind: kindState}
}

func (s *MemoryStore) HasState(state string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[state]
	return ok && e.kind == kindState
}

func (s *MemoryStore) PutToken(accessToken string, rec TokenRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[accessToken] = entry{kind: kindToken, token: rec}
}

func (s *MemoryStore) GetToken(accessToken string) (TokenRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[accessToken]
	if !ok || e.kind != kindToken {
		return TokenRecord{}, false
	}
	return e.token, true
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
