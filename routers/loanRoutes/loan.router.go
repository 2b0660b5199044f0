package loanRoutes

import (
	loanController "terracred/controllers/loan"
	loanValidator "terracred/validators/loan"

	"github.com/gofiber/fiber/v2"
)

func SetupLoanRoutes(app *fiber.App) {
	loanGroup := app.Group("/api/loans")

	loanGroup.Post("/calculate", loanValidator.Calculate(), loanController.CalculateLoan)
	loanGroup.Post("/", loanValidator.Request(), loanController.RequestLoan)
	loanGroup.Get("/:accountId", loanController.GetLoanDetails)
}
