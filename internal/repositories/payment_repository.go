package repositories

import (
	"context"
	"errors"
	"time"

	"agency/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
)

type PaymentRepository interface {
	GetByID(ctx context.Context, paymentID uint) (*models.Payment, error)
	GetByPolicyID(ctx context.Context, policyID uint) ([]*models.Payment, error)
	RegisterPaid(ctx context.Context, paymentID uint, paidAmount decimal.Decimal, statusID uint, paidAt time.Time) error
	DeleteByIDs(ctx context.Context, paymentIDs []uint) error
}
