package loanController

import (
	"context"
	"fmt"
	"time"

	"terracred/config"
	"terracred/database"
	"terracred/middleware"
	"terracred/models"
	"terracred/repository"
	"terracred/utils"
	loanValidator "terracred/validators/loan"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// chain is nil when no lending pool is configured
var chain utils.LoanReader

// UseChain installs the on-chain loan reader used by GetLoanDetails
func UseChain(r utils.LoanReader) {
	chain = r
}

func quoteFields(q utils.LoanQuote) fiber.Map {
	return fiber.Map{
		"collateralValue":   q.CollateralValue,
		"loanAmount":        q.LoanAmount,
		"ltv":               q.LTV,
		"interestRate":      q.InterestRate,
		"maxLtv":            q.MaxLTV,
		"maxLoanAmount":     q.MaxLoanAmount,
		"originationFee":    q.OriginationFee,
		"netDisbursement":   q.NetDisbursement,
		"estimatedInterest": q.EstimatedInterest,
		"totalRepayment":    q.TotalRepayment,
		"termMonths":        q.TermMonths,
		"withinLimit":       q.WithinLimit,
	}
}

func CalculateLoan(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCalculation").(*loanValidator.CalculateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	quote, err := utils.CalculateLoan(
		decimal.NewFromFloat(reqData.CollateralValue),
		decimal.NewFromFloat(reqData.LoanAmount),
		utils.LoanTermsFromConfig(config.AppConfig),
	)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", quoteFields(quote))
}

// RequestLoan records a loan request against a verified property
func RequestLoan(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLoan").(*loanValidator.LoanRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}
	ctx := c.UserContext()
	db := database.Database.Db

	property, err := repository.NewPropertyRepo(db, config.AppConfig.MasterRWATokenID).Get(ctx, reqData.PropertyID)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	if property.Status != models.PropertyVerified {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Property %s is %s, only verified properties can back a loan", property.PropertyID, property.Status))
	}

	quote, err := utils.CalculateLoan(
		decimal.NewFromFloat(property.Value),
		decimal.NewFromFloat(reqData.Amount),
		utils.LoanTermsFromConfig(config.AppConfig),
	)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	if !quote.WithinLimit {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Requested amount exceeds the maximum loan of %v", quote.MaxLoanAmount))
	}

	tx, err := repository.NewTransactionRepo(db).Append(ctx, repository.NewTransaction{
		Type:        models.TxTypeLoanRequested,
		PropertyID:  property.PropertyID,
		UserAddress: reqData.AccountID,
		Data: fiber.Map{
			"amount": reqData.Amount,
			"quote":  quote,
		},
	})
	if err != nil {
		return middleware.HandleError(c, err)
	}

	utils.Logger.Info("loan requested",
		zap.String("accountId", reqData.AccountID),
		zap.String("propertyId", property.PropertyID),
		zap.Float64("amount", reqData.Amount))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Loan request recorded", fiber.Map{
		"transaction": tx,
		"quote":       quote,
	})
}

// GetLoanDetails reads the borrower's position from the lending pool
func GetLoanDetails(c *fiber.Ctx) error {
	if chain == nil {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "On-chain loans are not configured")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 15*time.Second)
	defer cancel()

	accountID := c.Params("accountId")
	details, err := chain.LoanDetailsFor(ctx, accountID)
	if err != nil {
		utils.Logger.Warn("loan lookup failed", zap.String("accountId", accountID), zap.Error(err))
		return middleware.HandleError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"accountId": accountID,
		"loan":      details,
	})
}
