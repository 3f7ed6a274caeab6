package repositories

import (
	"context"
	"errors"

	"agency/internal/models"
)

var (
	ErrStatusNotFound = errors.New("status row not found")
)

// StatusRepository looks up status reference rows by their stable name.
type StatusRepository interface {
	FindCardStatus(ctx context.Context, name models.CardStatusCode) (*models.CardStatus, error)
	FindPolicyStatus(ctx context.Context, name models.PolicyStatusCode) (*models.PolicyStatus, error)
	FindPaymentStatus(ctx context.Context, name models.PaymentStatusCode) (*models.PaymentStatus, error)
}
