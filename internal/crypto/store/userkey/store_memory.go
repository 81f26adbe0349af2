package userkey

import (
	"context"
	"sync"
	"time"

	"paychain/internal/crypto"
	"paychain/pkg/platform/sentinel"
)

// InMemory keeps user keys in process memory. It mirrors the Postgres
// store's constraint: at most one active key per user.
type InMemory struct {
	mu   sync.RWMutex
	keys map[string][]*crypto.UserKey // userID -> all keys, retired included
}

func NewInMemory() *InMemory {
	return &InMemory{keys: make(map[string][]*crypto.UserKey)}
}

func (s *InMemory) Create(_ context.Context, key *crypto.UserKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.keys[key.UserID] {
		if existing.Active {
			return sentinel.ErrDuplicate
		}
	}
	clone := *key
	s.keys[key.UserID] = append(s.keys[key.UserID], &clone)
	return nil
}

func (s *InMemory) FindActiveByUser(_ context.Context, userID string) (*crypto.UserKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range s.keys[userID] {
		if key.Active {
			clone := *key
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Deactivate(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range s.keys[userID] {
		if key.Active {
			key.Active = false
			key.UpdatedAt = time.Now()
			return nil
		}
	}
	return sentinel.ErrNotFound
}
