package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agency/internal/models"

	"gorm.io/gorm"
)

type creditCardRepository struct {
	db *gorm.DB
}

func NewCreditCardRepository(db *gorm.DB) CreditCardRepository {
	return &creditCardRepository{
		db: db,
	}
}

func (r *creditCardRepository) GetByID(ctx context.Context, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := r.db.WithContext(ctx).First(&card, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *creditCardRepository) Create(ctx context.Context, card *models.CreditCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *creditCardRepository) Delete(ctx context.Context, cardID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CreditCard{}, cardID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *creditCardRepository) FindAll(ctx context.Context) ([]*models.CreditCard, error) {
	var cards []*models.CreditCard
	if err := r.db.WithContext(ctx).Order("id").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (r *creditCardRepository) GetByCustomerID(ctx context.Context, customerID uint) ([]*models.CreditCard, error) {
	var cards []*models.CreditCard
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to get customer cards: %w", err)
	}
	return cards, nil
}

// UpdateStatus touches the status column only.
func (r *creditCardRepository) UpdateStatus(ctx context.Context, cardID, statusID uint) error {
	result := r.db.WithContext(ctx).Model(&models.CreditCard{}).Where("id = ?", cardID).Update("card_status_id", statusID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *creditCardRepository) UpdateExpiration(ctx context.Context, cardID uint, expiration time.Time, statusID uint) error {
	result := r.db.WithContext(ctx).Model(&models.CreditCard{}).Where("id = ?", cardID).Updates(map[string]any{
		"expiration_date": expiration,
		"card_status_id":  statusID,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}
