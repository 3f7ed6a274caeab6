package credit_card

import (
	"context"
	"time"

	"agency/internal/models"
)

type Service interface {
	ListCards(ctx context.Context) ([]*models.CreditCard, error)
	GetCustomerCards(ctx context.Context, customerID uint) ([]*models.CreditCard, error)
	GetCard(ctx context.Context, cardID uint) (*models.CreditCard, error)
	CreateCard(ctx context.Context, input models.CreateCardInput) (*models.CreditCard, error)
	UpdateExpiration(ctx context.Context, cardID uint, expiration time.Time) (*models.CreditCard, error)
	DeleteCard(ctx context.Context, cardID uint) error
}
