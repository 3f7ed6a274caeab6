package repositories

import (
	"context"

	"agency/internal/models"
)

// ReferenceRepository serves the near-static lookup tables.
type ReferenceRepository interface {
	ListBanks(ctx context.Context) ([]*models.Bank, error)
	ListAccountTypes(ctx context.Context) ([]*models.AccountType, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
}
