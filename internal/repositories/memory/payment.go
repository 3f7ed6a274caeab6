package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"agency/internal/models"
	"agency/internal/repositories"

	"github.com/shopspring/decimal"
)

type PaymentStore struct {
	mu       sync.RWMutex
	nextID   uint
	payments map[uint]models.Payment

	// DeleteErr makes DeleteByIDs fail.
	DeleteErr error
}

func NewPaymentStore(payments ...models.Payment) *PaymentStore {
	s := &PaymentStore{payments: make(map[uint]models.Payment)}
	for _, p := range payments {
		s.Add(p)
	}
	return s
}

// Add stores p, assigning an ID when it has none.
func (s *PaymentStore) Add(p models.Payment) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		s.nextID++
		p.ID = s.nextID
	} else if p.ID > s.nextID {
		s.nextID = p.ID
	}
	s.payments[p.ID] = p
	return p.ID
}

func (s *PaymentStore) GetByID(_ context.Context, paymentID uint) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return nil, repositories.ErrPaymentNotFound
	}
	return &p, nil
}

func (s *PaymentStore) GetByPolicyID(_ context.Context, policyID uint) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Payment, 0)
	for _, p := range s.payments {
		if p.PolicyID == policyID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (s *PaymentStore) RegisterPaid(_ context.Context, paymentID uint, paidAmount decimal.Decimal, statusID uint, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return repositories.ErrPaymentNotFound
	}
	p.PaidAmount = paidAmount
	p.PaymentStatusID = statusID
	p.PaidAt = &paidAt
	s.payments[paymentID] = p
	return nil
}

func (s *PaymentStore) DeleteByIDs(_ context.Context, paymentIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	for _, id := range paymentIDs {
		delete(s.payments, id)
	}
	return nil
}
