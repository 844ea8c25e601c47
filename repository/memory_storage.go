package repository

import (
	"context"
	"sync"

	"aurabot/models"
)

// MemoryStorage keeps the ledger in process memory. Nothing survives a restart.
type MemoryStorage struct {
	mu    sync.Mutex
	users []*models.User
	saves int
}

// NewMemoryStorage creates a storage preloaded with users
func NewMemoryStorage(users ...*models.User) *MemoryStorage {
	return &MemoryStorage{users: cloneUsers(users)}
}

func (s *MemoryStorage) Load(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUsers(s.users), nil
}

func (s *MemoryStorage) Save(ctx context.Context, users []*models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = cloneUsers(users)
	s.saves++
	return nil
}

func (s *MemoryStorage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
	return nil
}

// Saves returns how many times the ledger was persisted
func (s *MemoryStorage) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Users returns a copy of the last saved records
func (s *MemoryStorage) Users() []*models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUsers(s.users)
}

func cloneUsers(users []*models.User) []*models.User {
	if users == nil {
		return nil
	}
	out := make([]*models.User, len(users))
	for i, user := range users {
		out[i] = user.Clone()
	}
	return out
}
