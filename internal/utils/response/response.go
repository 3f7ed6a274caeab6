package response

import (
	apperrors "agency/internal/errors"

	"github.com/gofiber/fiber/v2"
)

var statusByCode = map[string]int{
	apperrors.ErrCardNotFound.Code:       fiber.StatusNotFound,
	apperrors.ErrPolicyNotFound.Code:     fiber.StatusNotFound,
	apperrors.ErrPaymentNotFound.Code:    fiber.StatusNotFound,
	apperrors.ErrUnknownJob.Code:         fiber.StatusNotFound,
	apperrors.ErrPolicyCancelled.Code:    fiber.StatusConflict,
	apperrors.ErrPolicyNotCompleted.Code: fiber.StatusConflict,
	apperrors.ErrPaymentNotPending.Code:  fiber.StatusConflict,
	apperrors.ErrSweepInProgress.Code:    fiber.StatusConflict,
	apperrors.ErrInvalidCredentials.Code: fiber.StatusUnauthorized,
	apperrors.ErrUnauthorized.Code:       fiber.StatusUnauthorized,
	apperrors.ErrForbidden.Code:          fiber.StatusForbidden,
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// FromError renders a domain error with its code and matching status.
// Anything else is reported as an opaque 500.
func FromError(c *fiber.Ctx, err error) error {
	de, ok := apperrors.As(err)
	if !ok {
		return ServerError(c, "internal server error")
	}
	status, ok := statusByCode[de.Code]
	if !ok {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": de.Message,
		"code":  de.Code,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}
