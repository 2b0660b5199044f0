package middleware

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"terracred/config"
	"terracred/hedera"
	"terracred/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfig(t *testing.T, enforce bool) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{
		JWTKey:         "test-secret",
		EnforceAdmin:   enforce,
		AdminAccountID: "0.0.7095129",
	}
	t.Cleanup(func() { config.AppConfig = prev })
}

func adminApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/admin", RequireAdmin, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	return app
}

func doAdmin(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func TestRequireAdminOpenByDefault(t *testing.T) {
	withConfig(t, false)
	assert.Equal(t, fiber.StatusOK, doAdmin(t, adminApp(), ""))
}

func TestRequireAdminEnforced(t *testing.T) {
	withConfig(t, true)
	app := adminApp()

	assert.Equal(t, fiber.StatusUnauthorized, doAdmin(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, doAdmin(t, app, "garbage"))

	admin, err := GenerateJWT("0.0.7095129", RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, doAdmin(t, app, admin))

	user, err := GenerateJWT("0.0.1001", RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, doAdmin(t, app, user))

	wrongRole, err := GenerateJWT("0.0.7095129", "USER", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, doAdmin(t, app, wrongRole))

	expired, err := GenerateJWT("0.0.7095129", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, doAdmin(t, app, expired))
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("property PROP9 %w", repository.ErrNotFound): fiber.StatusNotFound,
		fmt.Errorf("user x %w", repository.ErrConflict):         fiber.StatusConflict,
		repository.ErrInvalidInput:                              fiber.StatusBadRequest,
		hedera.ErrInvalidAmount:                                 fiber.StatusBadRequest,
		hedera.ErrReverted:                                      fiber.StatusBadGateway,
		fiber.ErrNotFound:                                       fiber.StatusNotFound,
		fmt.Errorf("disk full"):                                 fiber.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}
}
