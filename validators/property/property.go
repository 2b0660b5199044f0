package propertyValidator

import (
	"terracred/middleware"
	"terracred/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateRequest struct {
	Owner            string  `json:"owner" validate:"required,max=64"`
	Address          string  `json:"address" validate:"required,max=512"`
	Value            float64 `json:"value" validate:"gt=0"`
	Description      string  `json:"description" validate:"max=4000"`
	ProofDocumentURI string  `json:"proofDocumentUri" validate:"max=2048"`
}

type VerifyRequest struct {
	Verifier      string `json:"verifier" validate:"max=64"`
	AppraisalHash string `json:"appraisalHash" validate:"max=256"`
	DeedHash      string `json:"deedHash" validate:"max=256"`
	TokenID       string `json:"tokenId" validate:"omitempty,hederaid"`
	TokenAddress  string `json:"tokenAddress" validate:"omitempty,eth_addr"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// Create validates a property submission
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProperty", reqData)
		return c.Next()
	}
}

// Verify validates the admin attestation. An empty body is allowed.
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
			}
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}

func Reject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RejectRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
			}
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReject", reqData)
		return c.Next()
	}
}
