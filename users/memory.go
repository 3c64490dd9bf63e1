package users

import (
	"context"
	"sync"

	"github.com/botwright/teleflow/flow"
)

// MemoryStore keeps user records in a process-local map. Suited for tests and
// single-instance development runs; records do not survive restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]flow.User
	start string
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	cfg := newSettings(opts)
	return &MemoryStore{
		users: make(map[int64]flow.User),
		start: cfg.start,
	}
}

// Load returns the record for the profile's user, creating one seeded with
// the start state on first contact. The returned record is a private copy;
// mutations are not visible until Save.
func (s *MemoryStore) Load(ctx context.Context, p flow.Profile) (*flow.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[p.ID]; ok {
		copied := u
		return &copied, nil
	}
	u := newRecord(p, s.start)
	s.users[p.ID] = *u
	logCreate(ctx, "memory", u)
	return u, nil
}

// Save stores a copy of the record.
func (s *MemoryStore) Save(_ context.Context, u *flow.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

// Delete removes the record for a user if present.
func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

// Len reports how many records the store holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
