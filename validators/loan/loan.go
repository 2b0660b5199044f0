package loanValidator

import (
	"terracred/middleware"
	"terracred/validators"

	"github.com/gofiber/fiber/v2"
)

type CalculateRequest struct {
	CollateralValue float64 `json:"collateralValue" validate:"gt=0"`
	LoanAmount      float64 `json:"loanAmount" validate:"gte=0"`
}

type LoanRequest struct {
	AccountID  string  `json:"accountId" validate:"required,hederaid"`
	PropertyID string  `json:"propertyId" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
}

func Calculate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CalculateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCalculation", reqData)
		return c.Next()
	}
}

// Request validates a loan request against a property
func Request() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoanRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLoan", reqData)
		return c.Next()
	}
}
