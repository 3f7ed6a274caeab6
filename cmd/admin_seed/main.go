package main

import (
	"context"
	"errors"
	"os"

	"agency/internal/config"
	"agency/internal/logger"
	"agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/services/auth"
	"agency/internal/utils"
)

func main() {
	config.LoadEnv()
	log := logger.New(config.GetEnv("ENV", "development"))

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminName := config.GetEnv("ADMIN_NAME", "Administrator")
	if adminEmail == "" || adminPassword == "" {
		log.Error("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer repositories.Close(db)

	if err := repositories.Migrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := repositories.SeedStatuses(db); err != nil {
		log.Error("failed to seed statuses", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	userRepo := repositories.NewUserRepository(db)
	if _, err := userRepo.GetByEmail(ctx, adminEmail); err == nil {
		log.Info("admin user already exists", "email", adminEmail)
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		log.Error("failed to look up admin", "error", err)
		os.Exit(1)
	}

	// The token manager is only needed to satisfy the service; seeding
	// never issues tokens.
	tokens, err := utils.NewTokenManager(config.GetEnv("JWT_SECRET", "seed"))
	if err != nil {
		log.Error("token manager", "error", err)
		os.Exit(1)
	}
	authService := auth.NewService(userRepo, tokens, log)

	if _, err := authService.CreateUser(ctx, adminEmail, adminName, adminPassword, models.RoleAdmin); err != nil {
		log.Error("failed to create admin user", "error", err)
		os.Exit(1)
	}
	log.Info("admin account created", "email", adminEmail)
}
