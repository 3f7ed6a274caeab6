package repositories

import (
	"context"
	"errors"
	"time"

	"agency/internal/models"
)

var (
	ErrCardNotFound = errors.New("credit card not found")
)

type CreditCardRepository interface {
	// Core operations
	GetByID(ctx context.Context, cardID uint) (*models.CreditCard, error)
	Create(ctx context.Context, card *models.CreditCard) error
	Delete(ctx context.Context, cardID uint) error

	// Query operations
	FindAll(ctx context.Context) ([]*models.CreditCard, error)
	GetByCustomerID(ctx context.Context, customerID uint) ([]*models.CreditCard, error)

	// Status operations
	UpdateStatus(ctx context.Context, cardID, statusID uint) error
	UpdateExpiration(ctx context.Context, cardID uint, expiration time.Time, statusID uint) error
}
