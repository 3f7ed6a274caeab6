// Package reference serves the near-static lookup tables. They are cached
// without expiry and only dropped when a write changes them.
package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "agency/internal/errors"
	"agency/internal/logger"
	"agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/repositories/cache"
	cachekeys "agency/internal/utils/cache"

	"github.com/shopspring/decimal"
)

type Service interface {
	ListBanks(ctx context.Context) ([]*models.Bank, error)
	ListAccountTypes(ctx context.Context) ([]*models.AccountType, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	CreateCompany(ctx context.Context, input models.CreateCompanyInput) (*models.Company, error)
}

type service struct {
	repo  repositories.ReferenceRepository
	cache repositories.CacheRepository
	log   *slog.Logger
}

func NewService(repo repositories.ReferenceRepository, cacheRepo repositories.CacheRepository, log *slog.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cacheRepo == nil {
		panic("cache is required")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &service{repo: repo, cache: cacheRepo, log: log}
}

func (s *service) ListBanks(ctx context.Context) ([]*models.Bank, error) {
	return cache.Remember(ctx, s.cache, s.log, cachekeys.AllKey(cachekeys.CollectionBanks), cachekeys.ReferenceTTL, s.repo.ListBanks)
}

func (s *service) ListAccountTypes(ctx context.Context) ([]*models.AccountType, error) {
	return cache.Remember(ctx, s.cache, s.log, cachekeys.AllKey(cachekeys.CollectionAccountTypes), cachekeys.ReferenceTTL, s.repo.ListAccountTypes)
}

func (s *service) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	return cache.Remember(ctx, s.cache, s.log, cachekeys.AllKey(cachekeys.CollectionCompanies), cachekeys.ReferenceTTL, s.repo.ListCompanies)
}

func (s *service) CreateCompany(ctx context.Context, input models.CreateCompanyInput) (*models.Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.CommissionRate.IsNegative() || input.CommissionRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, apperrors.ErrInvalidCompany
	}

	company := &models.Company{Name: name, CommissionRate: input.CommissionRate}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cachekeys.Prefix(cachekeys.CollectionCompanies))
	return company, nil
}
