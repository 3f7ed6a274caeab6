package handlers

import (
	"context"
	"errors"
	"log/slog"

	apperrors "agency/internal/errors"
	"agency/internal/logger"
	"agency/internal/repositories"
	"agency/internal/services/reconcile"
	cachekeys "agency/internal/utils/cache"
	"agency/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// JobRunner is the part of the reconciliation scheduler the admin API uses.
type JobRunner interface {
	RunNow(ctx context.Context, name string) (reconcile.Summary, error)
	Jobs() []reconcile.JobInfo
}

type AdminHandler struct {
	runner JobRunner
	cache  repositories.CacheRepository
	log    *slog.Logger
}

func NewAdminHandler(runner JobRunner, cache repositories.CacheRepository, log *slog.Logger) *AdminHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &AdminHandler{runner: runner, cache: cache, log: log}
}

func (h *AdminHandler) ListJobs(c *fiber.Ctx) error {
	return response.Success(c, "Reconciliation jobs", h.runner.Jobs())
}

func (h *AdminHandler) ReconcileCards(c *fiber.Ctx) error {
	return h.run(c, reconcile.CardJobName)
}

func (h *AdminHandler) ReconcilePolicies(c *fiber.Ctx) error {
	return h.run(c, reconcile.PolicyJobName)
}

// run triggers a sweep synchronously. A sweep that stopped part way still
// reports its partial summary next to the error.
func (h *AdminHandler) run(c *fiber.Ctx, job string) error {
	h.log.Info("manual reconciliation requested", "job", job, "ip", c.IP())

	sum, err := h.runner.RunNow(c.UserContext(), job)
	if err == nil {
		return response.Success(c, "Reconciliation completed", sum)
	}

	if de, ok := apperrors.As(err); ok {
		return response.FromError(c, de)
	}

	status := fiber.StatusInternalServerError
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"data":  sum,
	})
}

// InvalidateCache drops every cached key of one collection.
func (h *AdminHandler) InvalidateCache(c *fiber.Ctx) error {
	collection, err := cachekeys.ParseCollection(c.Params("collection"))
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	prefix := cachekeys.Prefix(collection)
	if err := h.cache.DelPattern(c.UserContext(), prefix); err != nil {
		h.log.Error("manual cache invalidation failed", "prefix", prefix, "error", err)
		return response.ServerError(c, "Failed to invalidate cache")
	}
	return response.Success(c, "Cache invalidated", fiber.Map{"prefix": prefix})
}
