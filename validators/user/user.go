package userValidator

import (
	"time"

	"terracred/middleware"
	"terracred/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateRequest struct {
	AccountID string  `json:"accountId" validate:"required,hederaid"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Name      *string `json:"name" validate:"omitempty,max=128"`
}

type KYCRequest struct {
	KYCStatus     string     `json:"kycStatus" validate:"required,oneof=not_started pending verified rejected"`
	KYCLevel      *string    `json:"kycLevel" validate:"omitempty,max=32"`
	KYCProvider   *string    `json:"kycProvider" validate:"omitempty,max=64"`
	KYCVerifiedAt *time.Time `json:"kycVerifiedAt"`
}

// Create validates user registration
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// UpdateKYC validates a KYC status change
func UpdateKYC() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(KYCRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedKYC", reqData)
		return c.Next()
	}
}
