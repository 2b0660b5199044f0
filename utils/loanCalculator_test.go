package utils

import (
	"testing"

	"terracred/config"
	"terracred/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTerms() LoanTerms {
	return LoanTermsFromConfig(&config.Config{
		MaxLTV:         70,
		InterestRate:   5,
		OriginationFee: 0.1,
		LoanTermMonths: 12,
	})
}

func TestCalculateLoan(t *testing.T) {
	q, err := CalculateLoan(decimal.NewFromInt(100000), decimal.NewFromInt(50000), defaultTerms())
	require.NoError(t, err)

	assert.Equal(t, 50.0, q.LTV)
	assert.Equal(t, 5.0, q.InterestRate)
	assert.Equal(t, 70000.0, q.MaxLoanAmount)
	assert.Equal(t, 50.0, q.OriginationFee)
	assert.Equal(t, 49950.0, q.NetDisbursement)
	assert.Equal(t, 2500.0, q.EstimatedInterest)
	assert.Equal(t, 52500.0, q.TotalRepayment)
	assert.True(t, q.WithinLimit)
}

func TestCalculateLoanOverLimit(t *testing.T) {
	q, err := CalculateLoan(decimal.NewFromInt(30000), decimal.NewFromInt(25000), defaultTerms())
	require.NoError(t, err)

	assert.Equal(t, 83.3333, q.LTV)
	assert.Equal(t, 21000.0, q.MaxLoanAmount)
	assert.False(t, q.WithinLimit)
}

func TestCalculateLoanShortTerm(t *testing.T) {
	terms := defaultTerms()
	terms.TermMonths = 6

	q, err := CalculateLoan(decimal.NewFromInt(100000), decimal.NewFromInt(10000), terms)
	require.NoError(t, err)
	assert.Equal(t, 250.0, q.EstimatedInterest)
	assert.Equal(t, 10250.0, q.TotalRepayment)
}

func TestCalculateLoanRejectsBadInput(t *testing.T) {
	_, err := CalculateLoan(decimal.Zero, decimal.NewFromInt(10), defaultTerms())
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = CalculateLoan(decimal.NewFromInt(-1), decimal.NewFromInt(10), defaultTerms())
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = CalculateLoan(decimal.NewFromInt(100), decimal.NewFromInt(-10), defaultTerms())
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}
