package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatusCode is the stable name of a payment state.
type PaymentStatusCode string

const (
	PaymentStatusPending PaymentStatusCode = "PENDING"
	PaymentStatusPaid    PaymentStatusCode = "PAID"
	PaymentStatusVoid    PaymentStatusCode = "VOID"
)

var PaymentStatusCodes = []PaymentStatusCode{PaymentStatusPending, PaymentStatusPaid, PaymentStatusVoid}

type PaymentStatus struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Name        PaymentStatusCode `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Description string            `json:"description"`
}

// Payment is one installment of a policy premium.
type Payment struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	PolicyID        uint            `gorm:"not null;index;uniqueIndex:idx_payment_policy_seq" json:"policy_id"`
	SequenceNumber  int             `gorm:"not null;uniqueIndex:idx_payment_policy_seq" json:"sequence_number"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	PaidAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"paid_amount"`
	DueDate         time.Time       `gorm:"type:date;not null" json:"due_date"`
	PaymentStatusID uint            `gorm:"not null;index" json:"payment_status_id"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RegisterPaymentInput records money received against an installment.
type RegisterPaymentInput struct {
	Amount decimal.Decimal `json:"amount"`
}
