package models

import "time"

// CardStatusCode is the stable name of a card lifecycle state. The numeric
// row ID backing each code lives in card_statuses and is resolved at runtime.
type CardStatusCode string

const (
	CardStatusActive        CardStatusCode = "ACTIVE"
	CardStatusAboutToExpire CardStatusCode = "ABOUT_TO_EXPIRE"
	CardStatusExpired       CardStatusCode = "EXPIRED"
)

// CardStatusCodes lists every code the card classifier can produce.
var CardStatusCodes = []CardStatusCode{CardStatusActive, CardStatusAboutToExpire, CardStatusExpired}

// CardStatus is a row of the card status reference table.
type CardStatus struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        CardStatusCode `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Description string         `json:"description"`
}

// CreditCard is a customer's card on file. The number is stored encrypted;
// only the last four digits are kept in clear.
type CreditCard struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CustomerID      uint      `gorm:"not null;index" json:"customer_id"`
	BankID          *uint     `gorm:"index" json:"bank_id,omitempty"`
	HolderName      string    `gorm:"not null" json:"holder_name"`
	EncryptedNumber string    `gorm:"not null" json:"-"`
	LastFour        string    `gorm:"type:varchar(4);not null" json:"last_four"`
	Brand           string    `gorm:"type:varchar(20)" json:"brand"`
	ExpirationDate  time.Time `gorm:"not null" json:"expiration_date"`
	CardStatusID    uint      `gorm:"not null;index" json:"card_status_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateCardInput represents the input for registering a new card
type CreateCardInput struct {
	CustomerID     uint      `json:"customer_id"`
	BankID         *uint     `json:"bank_id"`
	HolderName     string    `json:"holder_name"`
	CardNumber     string    `json:"card_number"`
	Brand          string    `json:"brand"`
	ExpirationDate time.Time `json:"expiration_date"`
}
