package models

import "gorm.io/gorm"

// User is an agency operator. Only the admin role reaches the write and
// reconciliation endpoints.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"default:'agent'"`
	TokenVersion int    `gorm:"default:1"`
}

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)
