package middleware

import (
	"terracred/config"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates admin routes. Nothing is enforced unless ENFORCE_ADMIN is set;
// then the bearer token must belong to ADMIN_ACCOUNT_ID and carry the ADMIN role.
func RequireAdmin(c *fiber.Ctx) error {
	if !config.AppConfig.EnforceAdmin {
		return c.Next()
	}

	claims, err := parseBearer(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}

	accountID, _ := claims["accountId"].(string)
	role, _ := claims["role"].(string)
	if accountID != config.AppConfig.AdminAccountID || role != RoleAdmin {
		return ErrorResponse(c, fiber.StatusForbidden, "You do not have permission to access this resource!")
	}

	c.Locals("accountId", accountID)
	c.Locals("role", role)
	return c.Next()
}
