package propertyController

import (
	"terracred/config"
	"terracred/database"
	"terracred/middleware"
	"terracred/models"
	"terracred/repository"
	"terracred/utils"
	propertyValidator "terracred/validators/property"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func registry() *repository.PropertyRepo {
	return repository.NewPropertyRepo(database.Database.Db, config.AppConfig.MasterRWATokenID)
}

// CreateProperty registers a property submission as pending
func CreateProperty(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedProperty").(*propertyValidator.CreateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	property, err := registry().Create(c.UserContext(), repository.NewProperty{
		Owner:            reqData.Owner,
		Address:          reqData.Address,
		Value:            reqData.Value,
		Description:      reqData.Description,
		ProofDocumentURI: reqData.ProofDocumentURI,
	})
	if err != nil {
		return middleware.HandleError(c, err)
	}

	utils.Logger.Info("property submitted", zap.String("propertyId", property.PropertyID), zap.String("owner", property.Owner))
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "", fiber.Map{"property": property})
}

// ListProperties supports ?owner= and ?status= filters
func ListProperties(c *fiber.Ctx) error {
	properties, err := registry().List(c.UserContext(), repository.PropertyFilter{
		Owner:  c.Query("owner"),
		Status: models.PropertyStatus(c.Query("status")),
	})
	if err != nil {
		return middleware.HandleError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"properties": properties,
		"count":      len(properties),
	})
}

func GetProperty(c *fiber.Ctx) error {
	property, err := registry().Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"property": property})
}

// VerifyProperty is the admin attestation that mints the property onto the RWA token
func VerifyProperty(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerify").(*propertyValidator.VerifyRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	property, err := registry().Verify(c.UserContext(), c.Params("id"), repository.Verification{
		Verifier:      reqData.Verifier,
		AppraisalHash: reqData.AppraisalHash,
		DeedHash:      reqData.DeedHash,
		TokenID:       reqData.TokenID,
		TokenAddress:  reqData.TokenAddress,
	})
	if err != nil {
		return middleware.HandleError(c, err)
	}

	utils.Logger.Info("property verified", zap.String("propertyId", property.PropertyID), zap.Stringp("tokenId", property.TokenID))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Property verified successfully", fiber.Map{"property": property})
}

func RejectProperty(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReject").(*propertyValidator.RejectRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	property, err := registry().Reject(c.UserContext(), c.Params("id"), reqData.Reason)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Property rejected", fiber.Map{"property": property})
}

func DelistProperty(c *fiber.Ctx) error {
	property, err := registry().Delist(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Property delisted", fiber.Map{"property": property})
}
