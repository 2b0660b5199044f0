package utils

import (
	"fmt"

	"terracred/config"
	"terracred/repository"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LoanTerms are the pool parameters a quote is computed against (percentages)
type LoanTerms struct {
	MaxLTV         decimal.Decimal
	InterestRate   decimal.Decimal
	OriginationFee decimal.Decimal
	TermMonths     int
}

// LoanQuote is the calculator output returned to clients
type LoanQuote struct {
	CollateralValue   float64 `json:"collateralValue"`
	LoanAmount        float64 `json:"loanAmount"`
	LTV               float64 `json:"ltv"`
	InterestRate      float64 `json:"interestRate"`
	MaxLTV            float64 `json:"maxLtv"`
	MaxLoanAmount     float64 `json:"maxLoanAmount"`
	OriginationFee    float64 `json:"originationFee"`
	NetDisbursement   float64 `json:"netDisbursement"`
	EstimatedInterest float64 `json:"estimatedInterest"`
	TotalRepayment    float64 `json:"totalRepayment"`
	TermMonths        int     `json:"termMonths"`
	WithinLimit       bool    `json:"withinLimit"`
}

func LoanTermsFromConfig(cfg *config.Config) LoanTerms {
	return LoanTerms{
		MaxLTV:         decimal.NewFromFloat(cfg.MaxLTV),
		InterestRate:   decimal.NewFromFloat(cfg.InterestRate),
		OriginationFee: decimal.NewFromFloat(cfg.OriginationFee),
		TermMonths:     cfg.LoanTermMonths,
	}
}

// CalculateLoan quotes a loan of loanAmount against collateralValue.
// Money is rounded to 2 places, LTV to 4.
func CalculateLoan(collateralValue, loanAmount decimal.Decimal, terms LoanTerms) (LoanQuote, error) {
	if !collateralValue.IsPositive() {
		return LoanQuote{}, fmt.Errorf("%w: collateralValue must be greater than zero", repository.ErrInvalidInput)
	}
	if loanAmount.IsNegative() {
		return LoanQuote{}, fmt.Errorf("%w: loanAmount must not be negative", repository.ErrInvalidInput)
	}

	ltv := loanAmount.Div(collateralValue).Mul(hundred)
	maxLoan := collateralValue.Mul(terms.MaxLTV).Div(hundred)
	fee := loanAmount.Mul(terms.OriginationFee).Div(hundred)
	interest := loanAmount.Mul(terms.InterestRate).Div(hundred).
		Mul(decimal.NewFromInt(int64(terms.TermMonths))).Div(decimal.NewFromInt(12))

	return LoanQuote{
		CollateralValue:   collateralValue.InexactFloat64(),
		LoanAmount:        loanAmount.InexactFloat64(),
		LTV:               ltv.Round(4).InexactFloat64(),
		InterestRate:      terms.InterestRate.InexactFloat64(),
		MaxLTV:            terms.MaxLTV.InexactFloat64(),
		MaxLoanAmount:     maxLoan.Round(2).InexactFloat64(),
		OriginationFee:    fee.Round(2).InexactFloat64(),
		NetDisbursement:   loanAmount.Sub(fee).Round(2).InexactFloat64(),
		EstimatedInterest: interest.Round(2).InexactFloat64(),
		TotalRepayment:    loanAmount.Add(interest).Round(2).InexactFloat64(),
		TermMonths:        terms.TermMonths,
		WithinLimit:       loanAmount.LessThanOrEqual(maxLoan),
	}, nil
}
