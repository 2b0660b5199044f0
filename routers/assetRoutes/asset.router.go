package assetRoutes

import (
	assetController "terracred/controllers/asset"

	"github.com/gofiber/fiber/v2"
)

func SetupAssetRoutes(app *fiber.App) {
	assetGroup := app.Group("/api/assets")

	assetGroup.Get("/", assetController.ListAssets)
	assetGroup.Get("/:tokenId", assetController.GetAsset)
}
