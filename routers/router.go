package routers

import (
	"strings"

	"terracred/config"
	"terracred/middleware"
	assetRoutes "terracred/routers/assetRoutes"
	loanRoutes "terracred/routers/loanRoutes"
	propertyRoutes "terracred/routers/propertyRoutes"
	systemRoutes "terracred/routers/systemRoutes"
	transactionRoutes "terracred/routers/transactionRoutes"
	userRoutes "terracred/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with middleware and every route group
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "TerraCRED",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())

	origins := config.AppConfig.AllowedOrigins()
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return originAllowed(origins, origin) },
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,X-Requested-With,Accept",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	systemRoutes.SetupSystemRoutes(app)
	propertyRoutes.SetupPropertyRoutes(app)
	userRoutes.SetupUserRoutes(app)
	transactionRoutes.SetupTransactionRoutes(app)
	assetRoutes.SetupAssetRoutes(app)
	loanRoutes.SetupLoanRoutes(app)

	return app
}

// originAllowed matches exact origins and single-wildcard patterns like https://*.vercel.app
func originAllowed(allowed []string, origin string) bool {
	for _, pattern := range allowed {
		if pattern == "*" || pattern == origin {
			return true
		}
		prefix, suffix, found := strings.Cut(pattern, "*")
		if found && len(origin) > len(prefix)+len(suffix) &&
			strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}
