package transactionRoutes

import (
	transactionController "terracred/controllers/transaction"
	transactionValidator "terracred/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func SetupTransactionRoutes(app *fiber.App) {
	txGroup := app.Group("/api/transactions")

	txGroup.Post("/", transactionValidator.Create(), transactionController.CreateTransaction)
	txGroup.Get("/", transactionController.ListTransactions)
	txGroup.Get("/:txId", transactionController.GetTransaction)
}
