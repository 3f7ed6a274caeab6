package repositories

import (
	"context"
	"fmt"

	"agency/internal/models"

	"gorm.io/gorm"
)

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListBanks(ctx context.Context) ([]*models.Bank, error) {
	var banks []*models.Bank
	if err := r.db.WithContext(ctx).Order("name").Find(&banks).Error; err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	return banks, nil
}

func (r *referenceRepository) ListAccountTypes(ctx context.Context) ([]*models.AccountType, error) {
	var types []*models.AccountType
	if err := r.db.WithContext(ctx).Order("name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list account types: %w", err)
	}
	return types, nil
}

func (r *referenceRepository) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	var companies []*models.Company
	if err := r.db.WithContext(ctx).Order("name").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (r *referenceRepository) CreateCompany(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}
