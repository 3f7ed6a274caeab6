package memory

import (
	"context"
	"sort"
	"sync"

	"agency/internal/models"
)

type ReferenceStore struct {
	mu           sync.RWMutex
	banks        []*models.Bank
	accountTypes []*models.AccountType
	companies    []*models.Company

	// Reads counts List* calls, which lets tests observe cache hits.
	Reads int
}

func NewReferenceStore(banks []*models.Bank, accountTypes []*models.AccountType, companies []*models.Company) *ReferenceStore {
	return &ReferenceStore{banks: banks, accountTypes: accountTypes, companies: companies}
}

func (s *ReferenceStore) ListBanks(_ context.Context) ([]*models.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	return append([]*models.Bank(nil), s.banks...), nil
}

func (s *ReferenceStore) ListAccountTypes(_ context.Context) ([]*models.AccountType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	return append([]*models.AccountType(nil), s.accountTypes...), nil
}

func (s *ReferenceStore) ListCompanies(_ context.Context) ([]*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	out := append([]*models.Company(nil), s.companies...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *ReferenceStore) CreateCompany(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	company.ID = uint(len(s.companies) + 1)
	s.companies = append(s.companies, company)
	return nil
}
