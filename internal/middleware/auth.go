// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"log/slog"
	"strings"

	apperrors "agency/internal/errors"
	"agency/internal/logger"
	"agency/internal/models"
	"agency/internal/services/auth"
	"agency/internal/utils"
	"agency/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the bearer token and stores the user claims in
// the request context.
type AuthMiddleware struct {
	authService auth.Service
	log         *slog.Logger
}

func NewAuthMiddleware(authService auth.Service, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.Discard()
	}
	return &AuthMiddleware{
		authService: authService,
		log:         log,
	}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.FromError(c, apperrors.ErrUnauthorized)
	}

	claims, err := m.authService.Authenticate(c.UserContext(), strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.log.Debug("token rejected", "path", c.Path(), "error", err)
		if _, ok := apperrors.As(err); ok {
			return response.FromError(c, err)
		}
		return response.FromError(c, apperrors.ErrUnauthorized)
	}

	c.Locals(utils.ClaimsKey, claims)
	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.FromError(c, apperrors.ErrUnauthorized)
	}
	if claims.Role != models.RoleAdmin {
		return response.FromError(c, apperrors.ErrForbidden)
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.FromError(c, apperrors.ErrUnauthorized)
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return response.FromError(c, apperrors.ErrForbidden)
	}
}
