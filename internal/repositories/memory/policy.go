package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"agency/internal/models"
	"agency/internal/repositories"
)

type PolicyStore struct {
	mu       sync.RWMutex
	nextID   uint
	policies map[uint]models.Policy
	payments *PaymentStore

	UpdateErrs    map[uint]error
	StatusUpdates int
	OnWrite       func(op string, id uint)
}

// NewPolicyStore links to payments so CreateWithPayments can store the
// installment schedule; payments may be nil when a test does not need it.
func NewPolicyStore(payments *PaymentStore, policies ...models.Policy) *PolicyStore {
	s := &PolicyStore{
		policies:   make(map[uint]models.Policy),
		payments:   payments,
		UpdateErrs: make(map[uint]error),
	}
	for _, p := range policies {
		if p.ID == 0 {
			s.nextID++
			p.ID = s.nextID
		} else if p.ID > s.nextID {
			s.nextID = p.ID
		}
		s.policies[p.ID] = p
	}
	return s
}

func (s *PolicyStore) GetByID(_ context.Context, policyID uint) (*models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[policyID]
	if !ok {
		return nil, repositories.ErrPolicyNotFound
	}
	return &p, nil
}

func (s *PolicyStore) FindAll(_ context.Context) ([]*models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *PolicyStore) CreateWithPayments(ctx context.Context, policy *models.Policy, payments []*models.Payment) error {
	s.mu.Lock()
	s.nextID++
	policy.ID = s.nextID
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = policy.CreatedAt
	s.policies[policy.ID] = *policy
	s.mu.Unlock()

	if s.payments != nil {
		for _, p := range payments {
			p.PolicyID = policy.ID
			s.payments.Add(*p)
		}
	}
	s.written("create", policy.ID)
	return nil
}

func (s *PolicyStore) UpdateStatus(_ context.Context, policyID, statusID uint) error {
	s.mu.Lock()
	if err := s.UpdateErrs[policyID]; err != nil {
		s.mu.Unlock()
		return err
	}
	p, ok := s.policies[policyID]
	if !ok {
		s.mu.Unlock()
		return repositories.ErrPolicyNotFound
	}
	p.PolicyStatusID = statusID
	p.UpdatedAt = time.Now()
	s.policies[policyID] = p
	s.StatusUpdates++
	s.mu.Unlock()
	s.written("update_status", policyID)
	return nil
}

func (s *PolicyStore) written(op string, id uint) {
	if s.OnWrite != nil {
		s.OnWrite(op, id)
	}
}
