package repositories

import (
	"context"
	"errors"
	"fmt"

	"agency/internal/models"

	"gorm.io/gorm"
)

type statusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) FindCardStatus(ctx context.Context, name models.CardStatusCode) (*models.CardStatus, error) {
	var status models.CardStatus
	if err := findByName(ctx, r.db, &status, string(name)); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) FindPolicyStatus(ctx context.Context, name models.PolicyStatusCode) (*models.PolicyStatus, error) {
	var status models.PolicyStatus
	if err := findByName(ctx, r.db, &status, string(name)); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) FindPaymentStatus(ctx context.Context, name models.PaymentStatusCode) (*models.PaymentStatus, error) {
	var status models.PaymentStatus
	if err := findByName(ctx, r.db, &status, string(name)); err != nil {
		return nil, err
	}
	return &status, nil
}

func findByName(ctx context.Context, db *gorm.DB, dest any, name string) error {
	if err := db.WithContext(ctx).Where("name = ?", name).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrStatusNotFound, name)
		}
		return fmt.Errorf("failed to get status %s: %w", name, err)
	}
	return nil
}
