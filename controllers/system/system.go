package systemController

import (
	"time"

	"terracred/config"
	"terracred/database"
	"terracred/middleware"
	"terracred/repository"

	"github.com/gofiber/fiber/v2"
)

// Health is the liveness probe
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"network":   config.AppConfig.HederaNetwork,
	})
}

func Stats(c *fiber.Ctx) error {
	stats, err := repository.NewTransactionRepo(database.Database.Db).Stats(c.UserContext())
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"stats": fiber.Map{
			"properties":        stats.Properties,
			"users":             stats.Users,
			"transactions":      stats.Transactions,
			"transactionsToday": stats.TransactionsToday,
			"dbDriver":          config.AppConfig.DBDriver,
		},
	})
}
