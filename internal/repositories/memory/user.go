package memory

import (
	"context"
	"sync"

	"agency/internal/models"
	"agency/internal/repositories"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[uint]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uint]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repositories.ErrDatabaseOperation
		}
	}
	user.ID = uint(len(s.users) + 1)
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// BumpTokenVersion invalidates every token issued to the user so far.
func (s *UserStore) BumpTokenVersion(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	u.TokenVersion++
	s.users[id] = u
}
