package systemRoutes

import (
	systemController "terracred/controllers/system"

	"github.com/gofiber/fiber/v2"
)

func SetupSystemRoutes(app *fiber.App) {
	app.Get("/health", systemController.Health)
	app.Get("/api/stats", systemController.Stats)
}
