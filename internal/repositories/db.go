// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"agency/internal/config"
	"agency/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// InitDB opens the PostgreSQL connection and applies the pool settings.
func InitDB(cfg config.DBConfig) (*gorm.DB, error) {
	// Configure GORM logger to ignore "record not found" errors
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate auto-migrates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.CardStatus{},
		&models.PolicyStatus{},
		&models.PaymentStatus{},
		&models.Bank{},
		&models.AccountType{},
		&models.Company{},
		&models.CreditCard{},
		&models.Policy{},
		&models.Payment{},
		&models.User{},
	)
}

// SeedStatuses inserts the status reference rows with their canonical IDs.
// Existing rows are left untouched.
func SeedStatuses(db *gorm.DB) error {
	cardStatuses := []models.CardStatus{
		{ID: 1, Name: models.CardStatusActive, Description: "Card is valid"},
		{ID: 2, Name: models.CardStatusAboutToExpire, Description: "Card expires before next month"},
		{ID: 3, Name: models.CardStatusExpired, Description: "Card is past its expiration"},
	}
	policyStatuses := []models.PolicyStatus{
		{ID: 1, Name: models.PolicyStatusActive, Description: "Policy in force"},
		{ID: 2, Name: models.PolicyStatusCancelled, Description: "Policy cancelled"},
		{ID: 3, Name: models.PolicyStatusCompleted, Description: "Policy reached its end date"},
		{ID: 4, Name: models.PolicyStatusCloseToCompletion, Description: "Policy ends within a month"},
	}
	paymentStatuses := []models.PaymentStatus{
		{ID: 1, Name: models.PaymentStatusPending, Description: "Awaiting payment"},
		{ID: 2, Name: models.PaymentStatusPaid, Description: "Paid in full"},
		{ID: 3, Name: models.PaymentStatusVoid, Description: "No longer owed"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		onConflict := clause.OnConflict{DoNothing: true}
		if err := tx.Clauses(onConflict).Create(&cardStatuses).Error; err != nil {
			return fmt.Errorf("seed card statuses: %w", err)
		}
		if err := tx.Clauses(onConflict).Create(&policyStatuses).Error; err != nil {
			return fmt.Errorf("seed policy statuses: %w", err)
		}
		if err := tx.Clauses(onConflict).Create(&paymentStatuses).Error; err != nil {
			return fmt.Errorf("seed payment statuses: %w", err)
		}
		return nil
	})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
