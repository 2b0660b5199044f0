package transactionController

import (
	"encoding/json"

	"terracred/database"
	"terracred/middleware"
	"terracred/repository"
	transactionValidator "terracred/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func transactions() *repository.TransactionRepo {
	return repository.NewTransactionRepo(database.Database.Db)
}

func CreateTransaction(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTransaction").(*transactionValidator.CreateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var data any
	if len(reqData.Data) > 0 {
		data = json.RawMessage(reqData.Data)
	}

	tx, err := transactions().Append(c.UserContext(), repository.NewTransaction{
		Type:        reqData.Type,
		PropertyID:  reqData.PropertyID,
		UserAddress: reqData.UserAddress,
		Data:        data,
	})
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "", fiber.Map{"transaction": tx})
}

// ListTransactions supports ?userAddress=, ?propertyId= and ?type= filters
func ListTransactions(c *fiber.Ctx) error {
	txs, err := transactions().List(c.UserContext(), repository.TransactionFilter{
		UserAddress: c.Query("userAddress"),
		PropertyID:  c.Query("propertyId"),
		Type:        c.Query("type"),
	})
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"transactions": txs,
		"count":        len(txs),
	})
}

func GetTransaction(c *fiber.Ctx) error {
	tx, err := transactions().Get(c.UserContext(), c.Params("txId"))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"transaction": tx})
}
