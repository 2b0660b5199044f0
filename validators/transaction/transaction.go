package transactionValidator

import (
	"encoding/json"

	"terracred/middleware"
	"terracred/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateRequest struct {
	Type        string          `json:"type" validate:"required,max=64"`
	PropertyID  string          `json:"propertyId" validate:"max=32"`
	UserAddress string          `json:"userAddress" validate:"required,max=64"`
	Data        json.RawMessage `json:"data"`
}

// Create validates an activity entry; data is stored as given
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransaction", reqData)
		return c.Next()
	}
}
