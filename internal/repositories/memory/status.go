package memory

import (
	"context"
	"fmt"
	"sync"

	"agency/internal/models"
	"agency/internal/repositories"
)

type StatusStore struct {
	mu       sync.RWMutex
	cards    map[models.CardStatusCode]uint
	policies map[models.PolicyStatusCode]uint
	payments map[models.PaymentStatusCode]uint
}

// NewStatusStore returns a store seeded with the canonical status IDs.
func NewStatusStore() *StatusStore {
	return &StatusStore{
		cards: map[models.CardStatusCode]uint{
			models.CardStatusActive:        1,
			models.CardStatusAboutToExpire: 2,
			models.CardStatusExpired:       3,
		},
		policies: map[models.PolicyStatusCode]uint{
			models.PolicyStatusActive:            1,
			models.PolicyStatusCancelled:         2,
			models.PolicyStatusCompleted:         3,
			models.PolicyStatusCloseToCompletion: 4,
		},
		payments: map[models.PaymentStatusCode]uint{
			models.PaymentStatusPending: 1,
			models.PaymentStatusPaid:    2,
			models.PaymentStatusVoid:    3,
		},
	}
}

// RemoveCardStatus simulates a missing reference row.
func (s *StatusStore) RemoveCardStatus(code models.CardStatusCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, code)
}

func (s *StatusStore) RemovePolicyStatus(code models.PolicyStatusCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.policies, code)
}

func (s *StatusStore) FindCardStatus(_ context.Context, name models.CardStatusCode) (*models.CardStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.cards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrStatusNotFound, name)
	}
	return &models.CardStatus{ID: id, Name: name}, nil
}

func (s *StatusStore) FindPolicyStatus(_ context.Context, name models.PolicyStatusCode) (*models.PolicyStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.policies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrStatusNotFound, name)
	}
	return &models.PolicyStatus{ID: id, Name: name}, nil
}

func (s *StatusStore) FindPaymentStatus(_ context.Context, name models.PaymentStatusCode) (*models.PaymentStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.payments[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrStatusNotFound, name)
	}
	return &models.PaymentStatus{ID: id, Name: name}, nil
}
