package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PolicyStatusCode is the stable name of a policy lifecycle state.
type PolicyStatusCode string

const (
	PolicyStatusActive            PolicyStatusCode = "ACTIVE"
	PolicyStatusCancelled         PolicyStatusCode = "CANCELLED"
	PolicyStatusCompleted         PolicyStatusCode = "COMPLETED"
	PolicyStatusCloseToCompletion PolicyStatusCode = "CLOSE_TO_COMPLETION"
)

var PolicyStatusCodes = []PolicyStatusCode{
	PolicyStatusActive,
	PolicyStatusCancelled,
	PolicyStatusCompleted,
	PolicyStatusCloseToCompletion,
}

// PolicyStatus is a row of the policy status reference table.
type PolicyStatus struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	Name        PolicyStatusCode `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Description string           `json:"description"`
}

// Policy is an insurance policy sold through the agency.
type Policy struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	PolicyNumber   string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"policy_number"`
	CustomerID     uint            `gorm:"not null;index" json:"customer_id"`
	CompanyID      uint            `gorm:"not null;index" json:"company_id"`
	CreditCardID   *uint           `gorm:"index" json:"credit_card_id,omitempty"`
	StartDate      time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time       `gorm:"type:date;not null" json:"end_date"`
	PremiumAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"premium_amount"`
	PaymentCount   int             `gorm:"not null;default:1" json:"payment_count"`
	PolicyStatusID uint            `gorm:"not null;index" json:"policy_status_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreatePolicyInput represents the input for issuing a policy
type CreatePolicyInput struct {
	PolicyNumber  string          `json:"policy_number"`
	CustomerID    uint            `json:"customer_id"`
	CompanyID     uint            `json:"company_id"`
	CreditCardID  *uint           `json:"credit_card_id"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	PremiumAmount decimal.Decimal `json:"premium_amount"`
	PaymentCount  int             `json:"payment_count"`
}
