package utils

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"terracred/database"
	"terracred/hedera"
	"terracred/models"
	"terracred/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoans struct {
	byAccount map[string]hedera.LoanDetails
	failing   map[string]bool
}

func (s stubLoans) LoanDetailsFor(_ context.Context, account string) (hedera.LoanDetails, error) {
	if s.failing[account] {
		return hedera.LoanDetails{}, errors.New("relay unavailable")
	}
	d, ok := s.byAccount[account]
	if !ok {
		return hedera.DecodeLoanDetails(nil)
	}
	return d, nil
}

func position(debt, healthFactor int64) hedera.LoanDetails {
	return hedera.LoanDetails{
		CollateralAmount: big.NewInt(1000),
		BorrowedAmount:   big.NewInt(debt),
		TotalDebt:        big.NewInt(debt),
		HealthFactor:     big.NewInt(healthFactor),
		MaxBorrow:        big.NewInt(700),
		DueDate:          big.NewInt(0),
	}
}

func setupMonitor(t *testing.T, loans stubLoans) (*LiquidationMonitor, *repository.TransactionRepo) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)

	props := repository.NewPropertyRepo(db, "0.0.7162666")
	txs := repository.NewTransactionRepo(db)
	ctx := context.Background()
	for _, owner := range []string{"0.0.1", "0.0.2", "0.0.3", "0.0.4"} {
		p, err := props.Create(ctx, repository.NewProperty{Owner: owner, Address: "x", Value: 1000})
		require.NoError(t, err)
		_, err = props.Verify(ctx, p.PropertyID, repository.Verification{})
		require.NoError(t, err)
	}
	// pending properties are not swept
	_, err = props.Create(ctx, repository.NewProperty{Owner: "0.0.9", Address: "y", Value: 1000})
	require.NoError(t, err)

	return NewLiquidationMonitor(props, txs, loans, 120), txs
}

func TestSweepWarnsOnlyUnhealthyPositions(t *testing.T) {
	noDebt := position(0, 0)
	noDebt.HealthFactor = hedera.NoDebtHealthFactor
	loans := stubLoans{
		byAccount: map[string]hedera.LoanDetails{
			"0.0.1": position(600, 110),
			"0.0.2": position(300, 180),
			"0.0.3": noDebt,
			"0.0.9": position(900, 50),
		},
		failing: map[string]bool{"0.0.4": true},
	}
	m, txs := setupMonitor(t, loans)
	ctx := context.Background()

	res, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Checked: 4, Warnings: 1, Failed: 1}, res)

	warnings, err := txs.List(ctx, repository.TransactionFilter{Type: models.TxTypeLiquidationWarning})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "0.0.1", warnings[0].UserAddress)
	assert.Contains(t, string(warnings[0].Data), `"healthFactor":"110"`)
	assert.Contains(t, string(warnings[0].Data), `"reason":"low_health_factor"`)

	// unchanged position is not warned twice
	res, err = m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Warnings)
}

func TestSweepWarnsAgainWhenPositionChanges(t *testing.T) {
	loans := stubLoans{byAccount: map[string]hedera.LoanDetails{"0.0.1": position(600, 110)}}
	m, txs := setupMonitor(t, loans)
	ctx := context.Background()

	_, err := m.Sweep(ctx)
	require.NoError(t, err)

	loans.byAccount["0.0.1"] = position(650, 100)
	res, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Warnings)

	warnings, err := txs.List(ctx, repository.TransactionFilter{UserAddress: "0.0.1"})
	require.NoError(t, err)
	assert.Len(t, warnings, 2)
}

func TestSweepWarnsOverdueHealthyPosition(t *testing.T) {
	sweepAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	overdue := position(300, 200)
	overdue.DueDate = big.NewInt(sweepAt.Add(-72 * time.Hour).Unix())
	notYetDue := position(300, 200)
	notYetDue.DueDate = big.NewInt(sweepAt.Add(24 * time.Hour).Unix())

	loans := stubLoans{byAccount: map[string]hedera.LoanDetails{
		"0.0.1": overdue,
		"0.0.2": notYetDue,
	}}
	m, txs := setupMonitor(t, loans)
	m.now = func() time.Time { return sweepAt }
	ctx := context.Background()

	res, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Checked: 4, Warnings: 1, Failed: 0}, res)

	warnings, err := txs.List(ctx, repository.TransactionFilter{Type: models.TxTypeLiquidationWarning})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "0.0.1", warnings[0].UserAddress)
	assert.Contains(t, string(warnings[0].Data), `"reason":"overdue"`)

	res, err = m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Warnings)
}

func TestSweepWarnsAgainWhenReasonChanges(t *testing.T) {
	sweepAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pos := position(300, 110)
	pos.DueDate = big.NewInt(sweepAt.Add(-time.Hour).Unix())
	loans := stubLoans{byAccount: map[string]hedera.LoanDetails{"0.0.1": pos}}
	m, txs := setupMonitor(t, loans)
	m.now = func() time.Time { return sweepAt }
	ctx := context.Background()

	_, err := m.Sweep(ctx)
	require.NoError(t, err)

	// same debt and health factor, but the threshold moved so only the due date is at risk
	m.threshold = 100
	res, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Warnings)

	warnings, err := txs.List(ctx, repository.TransactionFilter{UserAddress: "0.0.1"})
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Contains(t, string(warnings[0].Data), `"reason":"overdue"`)
}

func TestInitializeLiquidationSchedulerRejectsBadSchedule(t *testing.T) {
	m, _ := setupMonitor(t, stubLoans{})
	_, err := InitializeLiquidationScheduler(m, "every tuesday-ish")
	assert.Error(t, err)

	c, err := InitializeLiquidationScheduler(m, "@every 1h")
	require.NoError(t, err)
	c.Stop()
}
