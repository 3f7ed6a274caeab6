package repositories

import (
	"context"
	"errors"

	"agency/internal/models"
)

var (
	ErrPolicyNotFound = errors.New("policy not found")
)

type PolicyRepository interface {
	GetByID(ctx context.Context, policyID uint) (*models.Policy, error)
	FindAll(ctx context.Context) ([]*models.Policy, error)

	// CreateWithPayments stores the policy and its installment schedule in
	// one transaction.
	CreateWithPayments(ctx context.Context, policy *models.Policy, payments []*models.Payment) error

	UpdateStatus(ctx context.Context, policyID, statusID uint) error
}
