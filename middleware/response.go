package middleware

import (
	"errors"

	"terracred/hedera"
	"terracred/repository"

	"github.com/gofiber/fiber/v2"
)

// JsonResponse writes {"success": ..., "message": ..., <data fields>}
func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data fiber.Map) error {
	body := fiber.Map{"success": success}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	return c.Status(statusCode).JSON(body)
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "Validation failed!",
		"fields":  errors,
	})
}

// HandleError maps domain errors to HTTP statuses
func HandleError(c *fiber.Ctx, err error) error {
	return ErrorResponse(c, StatusFor(err), err.Error())
}

func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, hedera.ErrInvalidAccountID),
		errors.Is(err, hedera.ErrInvalidAmount),
		errors.Is(err, hedera.ErrMissingParam):
		return fiber.StatusBadRequest
	case errors.Is(err, hedera.ErrReverted):
		return fiber.StatusBadGateway
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the fiber app error handler; unmatched routes and panics use the same envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	return HandleError(c, err)
}
