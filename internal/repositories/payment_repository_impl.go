package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agency/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByID(ctx context.Context, paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) GetByPolicyID(ctx context.Context, policyID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	if err := r.db.WithContext(ctx).Where("policy_id = ?", policyID).Order("sequence_number").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to get policy payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) RegisterPaid(ctx context.Context, paymentID uint, paidAmount decimal.Decimal, statusID uint, paidAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", paymentID).Updates(map[string]any{
		"paid_amount":       paidAmount,
		"payment_status_id": statusID,
		"paid_at":           paidAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) DeleteByIDs(ctx context.Context, paymentIDs []uint) error {
	if len(paymentIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&models.Payment{}, paymentIDs).Error; err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}
	return nil
}
