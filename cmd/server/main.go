// Package main is the entry point for the agency API.
// It wires configuration, storage, cache, services and the reconciliation
// scheduler, then serves HTTP until the process is signalled.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agency/internal/config"
	"agency/internal/handlers"
	"agency/internal/logger"
	"agency/internal/middleware"
	"agency/internal/repositories"
	"agency/internal/repositories/cache"
	"agency/internal/routes"
	"agency/internal/services/auth"
	creditcard "agency/internal/services/credit_card"
	"agency/internal/services/policy"
	"agency/internal/services/reconcile"
	"agency/internal/services/reference"
	"agency/internal/services/status"
	"agency/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 30 * time.Second

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL
	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()
	if err := repositories.Migrate(db); err != nil {
		return err
	}
	if err := repositories.SeedStatuses(db); err != nil {
		return err
	}
	log.Info("database ready", "host", cfg.DB.Host, "name", cfg.DB.Name)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cacheService := cache.NewCacheService(redisClient, cache.WithLogger(log), cache.WithRegisterer(reg))
	defer func() {
		if err := cacheService.Close(); err != nil {
			log.Warn("failed to close redis", "error", err)
		}
	}()

	// Repositories
	cardRepo := repositories.NewCreditCardRepository(db)
	policyRepo := repositories.NewPolicyRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	referenceRepo := repositories.NewReferenceRepository(db)
	userRepo := repositories.NewUserRepository(db)
	statuses := status.NewResolver(repositories.NewStatusRepository(db))

	cipher, err := buildCipher(cfg, log)
	if err != nil {
		return err
	}
	tokens, err := utils.NewTokenManager(jwtSecret(cfg, log))
	if err != nil {
		return err
	}

	// Services
	authService := auth.NewService(userRepo, tokens, log)
	cardService := creditcard.NewService(cardRepo, cacheService, statuses, cipher,
		creditcard.WithLogger(log), creditcard.WithTTL(cfg.Cache.CollectionTTL),
		creditcard.WithLocation(cfg.Reconcile.Location))
	policyService := policy.NewService(policyRepo, paymentRepo, cacheService, statuses,
		policy.WithLogger(log), policy.WithTTL(cfg.Cache.CollectionTTL),
		policy.WithLocation(cfg.Reconcile.Location))
	referenceService := reference.NewService(referenceRepo, cacheService, log)

	// Reconciliation
	jobOpts := []reconcile.Option{
		reconcile.WithLogger(log),
		reconcile.WithLocation(cfg.Reconcile.Location),
		reconcile.WithMetrics(reconcile.NewPrometheusMetrics(reg)),
		reconcile.WithLocker(cacheService, cfg.Reconcile.LeaseTTL),
	}
	scheduler := reconcile.NewScheduler(jobOpts...)
	if err := scheduler.Register(cfg.Reconcile.CardSchedule,
		reconcile.NewCardJob(cardRepo, statuses, cacheService, jobOpts...)); err != nil {
		return err
	}
	if err := scheduler.Register(cfg.Reconcile.PolicySchedule,
		reconcile.NewPolicyJob(policyRepo, statuses, policyService, cacheService, jobOpts...)); err != nil {
		return err
	}
	if cfg.Reconcile.RunOnStartup {
		// Startup failures are logged per job; the server still comes up.
		if _, err := scheduler.RunAll(ctx); err != nil {
			log.Warn("startup reconciliation incomplete", "error", err)
		}
	}
	scheduler.Start()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "agency-api",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Cards:     handlers.NewCreditCardHandler(cardService),
		Policies:  handlers.NewPolicyHandler(policyService),
		Reference: handlers.NewReferenceHandler(referenceService),
		Admin:     handlers.NewAdminHandler(scheduler, cacheService, log),
		Health: handlers.NewHealthHandler(map[string]handlers.HealthCheckFunc{
			"database": func(ctx context.Context) error { return repositories.Ping(ctx, db) },
			"cache":    cacheService.HealthCheck,
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(authService, log),
		Metrics:        reg,
	})

	listenErr := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port, "env", cfg.Env)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func buildCipher(cfg *config.Config, log *slog.Logger) (*creditcard.Cipher, error) {
	if cfg.CardCipherKey != "" {
		return creditcard.NewCipherFromHex(cfg.CardCipherKey)
	}
	log.Warn("CARD_CIPHER_KEY not set, card numbers are encrypted with a throwaway key")
	return creditcard.NewEphemeralCipher()
}

func jwtSecret(cfg *config.Config, log *slog.Logger) string {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	log.Warn("JWT_SECRET not set, tokens will not survive a restart")
	return hex.EncodeToString(buf)
}
