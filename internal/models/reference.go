package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank is near-static reference data used by cards and bank accounts.
type Bank struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Code string `gorm:"type:varchar(16)" json:"code"`
}

type AccountType struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Company is an insurer the agency sells for; CommissionRate is the share of
// the premium the agency keeps.
type Company struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Name           string          `gorm:"uniqueIndex;not null" json:"name"`
	CommissionRate decimal.Decimal `gorm:"type:numeric(5,4);not null;default:0" json:"commission_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateCompanyInput struct {
	Name           string          `json:"name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}
