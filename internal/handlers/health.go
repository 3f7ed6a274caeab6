package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheckFunc reports whether one dependency is reachable.
type HealthCheckFunc func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheckFunc
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheckFunc) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	services := fiber.Map{}
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			services[name] = "unavailable: " + err.Error()
			healthy = false
			continue
		}
		services[name] = "connected"
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"services": services,
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"services": services,
	})
}
