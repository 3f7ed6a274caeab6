package policy

import (
	"context"

	"agency/internal/models"
)

type Service interface {
	ListPolicies(ctx context.Context) ([]*models.Policy, error)
	GetPolicy(ctx context.Context, policyID uint) (*models.Policy, error)
	CreatePolicy(ctx context.Context, input models.CreatePolicyInput) (*models.Policy, error)
	CancelPolicy(ctx context.Context, policyID uint) (*models.Policy, error)

	ListPayments(ctx context.Context, policyID uint) ([]*models.Payment, error)
	RegisterPayment(ctx context.Context, policyID, paymentID uint, input models.RegisterPaymentInput) (*models.Payment, error)

	// ValidateAndCleanupPayments removes the pending installments a
	// completed policy no longer owes and returns how many were removed.
	ValidateAndCleanupPayments(ctx context.Context, policy *models.Policy) (int, error)
}
