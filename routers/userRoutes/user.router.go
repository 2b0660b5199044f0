package userRoutes

import (
	userController "terracred/controllers/user"
	userValidator "terracred/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/users")

	userGroup.Post("/", userValidator.Create(), userController.CreateUser)
	userGroup.Get("/:accountId", userController.GetUser)
	userGroup.Put("/:accountId/kyc", userValidator.UpdateKYC(), userController.UpdateKYC)
}
