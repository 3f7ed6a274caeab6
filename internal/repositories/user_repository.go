package repositories

import (
	"context"
	"errors"

	"agency/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
