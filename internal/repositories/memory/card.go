package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"agency/internal/models"
	"agency/internal/repositories"
)

type CardStore struct {
	mu     sync.RWMutex
	nextID uint
	cards  map[uint]models.CreditCard

	// UpdateErrs makes UpdateStatus fail for the given card IDs.
	UpdateErrs map[uint]error
	// StatusUpdates counts successful UpdateStatus calls.
	StatusUpdates int
	// OnWrite, when set, runs after every successful write.
	OnWrite func(op string, id uint)
}

func NewCardStore(cards ...models.CreditCard) *CardStore {
	s := &CardStore{cards: make(map[uint]models.CreditCard), UpdateErrs: make(map[uint]error)}
	for _, c := range cards {
		if c.ID == 0 {
			s.nextID++
			c.ID = s.nextID
		} else if c.ID > s.nextID {
			s.nextID = c.ID
		}
		s.cards[c.ID] = c
	}
	return s
}

func (s *CardStore) GetByID(_ context.Context, cardID uint) (*models.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[cardID]
	if !ok {
		return nil, repositories.ErrCardNotFound
	}
	return &c, nil
}

func (s *CardStore) Create(_ context.Context, card *models.CreditCard) error {
	s.mu.Lock()
	s.nextID++
	card.ID = s.nextID
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	s.cards[card.ID] = *card
	s.mu.Unlock()
	s.written("create", card.ID)
	return nil
}

func (s *CardStore) Delete(_ context.Context, cardID uint) error {
	s.mu.Lock()
	if _, ok := s.cards[cardID]; !ok {
		s.mu.Unlock()
		return repositories.ErrCardNotFound
	}
	delete(s.cards, cardID)
	s.mu.Unlock()
	s.written("delete", cardID)
	return nil
}

func (s *CardStore) FindAll(_ context.Context) ([]*models.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(models.CreditCard) bool { return true }), nil
}

func (s *CardStore) GetByCustomerID(_ context.Context, customerID uint) ([]*models.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(c models.CreditCard) bool { return c.CustomerID == customerID }), nil
}

func (s *CardStore) UpdateStatus(_ context.Context, cardID, statusID uint) error {
	s.mu.Lock()
	if err := s.UpdateErrs[cardID]; err != nil {
		s.mu.Unlock()
		return err
	}
	c, ok := s.cards[cardID]
	if !ok {
		s.mu.Unlock()
		return repositories.ErrCardNotFound
	}
	c.CardStatusID = statusID
	c.UpdatedAt = time.Now()
	s.cards[cardID] = c
	s.StatusUpdates++
	s.mu.Unlock()
	s.written("update_status", cardID)
	return nil
}

func (s *CardStore) UpdateExpiration(_ context.Context, cardID uint, expiration time.Time, statusID uint) error {
	s.mu.Lock()
	c, ok := s.cards[cardID]
	if !ok {
		s.mu.Unlock()
		return repositories.ErrCardNotFound
	}
	c.ExpirationDate = expiration
	c.CardStatusID = statusID
	s.cards[cardID] = c
	s.mu.Unlock()
	s.written("update_expiration", cardID)
	return nil
}

func (s *CardStore) filter(keep func(models.CreditCard) bool) []*models.CreditCard {
	out := make([]*models.CreditCard, 0, len(s.cards))
	for _, c := range s.cards {
		if keep(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *CardStore) written(op string, id uint) {
	if s.OnWrite != nil {
		s.OnWrite(op, id)
	}
}
