package userController

import (
	"terracred/database"
	"terracred/middleware"
	"terracred/repository"
	userValidator "terracred/validators/user"

	"github.com/gofiber/fiber/v2"
)

func users() *repository.UserRepo {
	return repository.NewUserRepo(database.Database.Db)
}

func CreateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*userValidator.CreateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	user, err := users().Create(c.UserContext(), reqData.AccountID, reqData.Email, reqData.Name)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "", fiber.Map{"user": user})
}

// GetUser accepts either a userId (USER001) or a Hedera account id
func GetUser(c *fiber.Ctx) error {
	user, err := users().Get(c.UserContext(), c.Params("accountId"))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"user": user})
}

func UpdateKYC(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedKYC").(*userValidator.KYCRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	user, err := users().UpdateKYC(c.UserContext(), c.Params("accountId"), repository.KYCUpdate{
		Status:     reqData.KYCStatus,
		Level:      reqData.KYCLevel,
		Provider:   reqData.KYCProvider,
		VerifiedAt: reqData.KYCVerifiedAt,
	})
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "KYC updated", fiber.Map{"user": user})
}
