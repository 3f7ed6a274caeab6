// Package routes defines the API routing configuration.
// It groups routes by functionality and applies the authentication and
// permission middleware each group needs.
package routes

import (
	"agency/internal/handlers"
	"agency/internal/middleware"
	"agency/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Cards     *handlers.CreditCardHandler
	Policies  *handlers.PolicyHandler
	Reference *handlers.ReferenceHandler
	Admin     *handlers.AdminHandler
	Health    *handlers.HealthHandler

	AuthMiddleware *middleware.AuthMiddleware
	Metrics        prometheus.Gatherer
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, h Handlers) {
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Get("/health", h.Health.HealthCheck)
	api.Post("/auth/login", h.Auth.Login)
	api.Post("/auth/refresh", h.Auth.Refresh)

	authenticated := api.Group("", h.AuthMiddleware.Handler)

	// Card routes
	cards := authenticated.Group("/cards")
	cards.Get("/", middleware.HasPermission(models.PermissionCardRead), h.Cards.ListCards)
	cards.Get("/:id", middleware.HasPermission(models.PermissionCardRead), h.Cards.GetCard)
	cards.Post("/", middleware.HasPermission(models.PermissionCardWrite), h.Cards.CreateCard)
	cards.Patch("/:id/expiration", middleware.HasPermission(models.PermissionCardWrite), h.Cards.UpdateExpiration)
	cards.Delete("/:id", middleware.HasPermission(models.PermissionCardWrite), h.Cards.DeleteCard)

	// Policy routes
	policies := authenticated.Group("/policies")
	policies.Get("/", middleware.HasPermission(models.PermissionPolicyRead), h.Policies.ListPolicies)
	policies.Get("/:id", middleware.HasPermission(models.PermissionPolicyRead), h.Policies.GetPolicy)
	policies.Post("/", middleware.HasPermission(models.PermissionPolicyWrite), h.Policies.CreatePolicy)
	policies.Post("/:id/cancel", middleware.HasPermission(models.PermissionPolicyWrite), h.Policies.CancelPolicy)
	policies.Get("/:id/payments", middleware.HasPermission(models.PermissionPolicyRead), h.Policies.ListPayments)
	policies.Post("/:id/payments/:paymentId/pay", middleware.HasPermission(models.PermissionPolicyWrite), h.Policies.RegisterPayment)

	// Reference data
	authenticated.Get("/banks", h.Reference.ListBanks)
	authenticated.Get("/account-types", h.Reference.ListAccountTypes)
	authenticated.Get("/companies", h.Reference.ListCompanies)

	// Admin routes
	admin := authenticated.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Post("/companies", middleware.HasPermission(models.PermissionWriteAdmin), h.Reference.CreateCompany)
	admin.Get("/reconcile", middleware.HasPermission(models.PermissionReadAdmin), h.Admin.ListJobs)
	admin.Post("/reconcile/cards", middleware.HasPermission(models.PermissionReconcile), h.Admin.ReconcileCards)
	admin.Post("/reconcile/policies", middleware.HasPermission(models.PermissionReconcile), h.Admin.ReconcilePolicies)
	admin.Post("/cache/:collection/invalidate", middleware.HasPermission(models.PermissionWriteAdmin), h.Admin.InvalidateCache)
}
