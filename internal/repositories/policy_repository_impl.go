package repositories

import (
	"context"
	"errors"
	"fmt"

	"agency/internal/models"

	"gorm.io/gorm"
)

type policyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) GetByID(ctx context.Context, policyID uint) (*models.Policy, error) {
	var policy models.Policy
	if err := r.db.WithContext(ctx).First(&policy, policyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return &policy, nil
}

func (r *policyRepository) FindAll(ctx context.Context) ([]*models.Policy, error) {
	var policies []*models.Policy
	if err := r.db.WithContext(ctx).Order("id").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	return policies, nil
}

func (r *policyRepository) CreateWithPayments(ctx context.Context, policy *models.Policy, payments []*models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(policy).Error; err != nil {
			return fmt.Errorf("create policy: %w", err)
		}
		if len(payments) == 0 {
			return nil
		}
		for _, p := range payments {
			p.PolicyID = policy.ID
		}
		if err := tx.Create(&payments).Error; err != nil {
			return fmt.Errorf("create payments: %w", err)
		}
		return nil
	})
}

// UpdateStatus touches the status column only.
func (r *policyRepository) UpdateStatus(ctx context.Context, policyID, statusID uint) error {
	result := r.db.WithContext(ctx).Model(&models.Policy{}).Where("id = ?", policyID).Update("policy_status_id", statusID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPolicyNotFound
	}
	return nil
}
