package propertyRoutes

import (
	propertyController "terracred/controllers/property"
	"terracred/middleware"
	propertyValidator "terracred/validators/property"

	"github.com/gofiber/fiber/v2"
)

func SetupPropertyRoutes(app *fiber.App) {
	propertyGroup := app.Group("/api/properties")

	propertyGroup.Post("/", propertyValidator.Create(), propertyController.CreateProperty)
	propertyGroup.Get("/", propertyController.ListProperties)
	propertyGroup.Get("/:id", propertyController.GetProperty)

	// Admin routes
	propertyGroup.Post("/:id/verify", middleware.RequireAdmin, propertyValidator.Verify(), propertyController.VerifyProperty)
	propertyGroup.Post("/:id/reject", middleware.RequireAdmin, propertyValidator.Reject(), propertyController.RejectProperty)
	propertyGroup.Post("/:id/delist", middleware.RequireAdmin, propertyController.DelistProperty)
}
