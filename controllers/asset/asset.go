package assetController

import (
	"terracred/config"
	"terracred/database"
	"terracred/middleware"
	"terracred/repository"

	"github.com/gofiber/fiber/v2"
)

func registry() *repository.PropertyRepo {
	return repository.NewPropertyRepo(database.Database.Db, config.AppConfig.MasterRWATokenID)
}

func ListAssets(c *fiber.Ctx) error {
	assets, err := registry().Assets(c.UserContext(), c.Query("owner"))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"assets": assets,
		"count":  len(assets),
	})
}

func GetAsset(c *fiber.Ctx) error {
	asset, err := registry().AssetByTokenID(c.UserContext(), c.Params("tokenId"))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"asset": asset})
}
