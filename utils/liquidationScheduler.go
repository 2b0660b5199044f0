package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"terracred/hedera"
	"terracred/models"
	"terracred/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LoanReader reads a borrower's on-chain position by account id
type LoanReader interface {
	LoanDetailsFor(ctx context.Context, account string) (hedera.LoanDetails, error)
}

// Reasons recorded on liquidation warnings
const (
	ReasonLowHealthFactor = "low_health_factor"
	ReasonOverdue         = "overdue"
)

// LiquidationMonitor warns about indebted owners whose health factor dropped under
// the threshold or whose loan is past its due date
type LiquidationMonitor struct {
	properties   *repository.PropertyRepo
	transactions *repository.TransactionRepo
	loans        LoanReader
	threshold    float64
	timeout      time.Duration
	now          func() time.Time

	mu     sync.Mutex
	warned map[string]string // account -> last warned position
}

func NewLiquidationMonitor(props *repository.PropertyRepo, txs *repository.TransactionRepo, loans LoanReader, threshold float64) *LiquidationMonitor {
	return &LiquidationMonitor{
		properties:   props,
		transactions: txs,
		loans:        loans,
		threshold:    threshold,
		timeout:      30 * time.Second,
		now:          time.Now,
		warned:       map[string]string{},
	}
}

// SweepResult summarises one pass
type SweepResult struct {
	Checked  int
	Warnings int
	Failed   int
}

// Sweep checks every distinct owner of a verified property. A failing account is
// logged and skipped. The same position and reason is only warned about once.
func (m *LiquidationMonitor) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	owners, err := m.properties.VerifiedOwners(ctx)
	if err != nil {
		return res, fmt.Errorf("list borrowers: %w", err)
	}

	for _, owner := range owners {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Checked++

		callCtx, cancel := context.WithTimeout(ctx, m.timeout)
		details, err := m.loans.LoanDetailsFor(callCtx, owner)
		cancel()
		if err != nil {
			res.Failed++
			Logger.Warn("[LIQUIDATION] loan lookup failed", zap.String("account", owner), zap.Error(err))
			continue
		}

		reason := m.risk(details)
		if reason == "" {
			m.forget(owner)
			continue
		}

		position := reason + "/" + details.TotalDebt.String() + "/" + details.HealthFactor.String()
		if !m.remember(owner, position) {
			continue
		}

		Logger.Warn("[LIQUIDATION] position at risk",
			zap.String("account", owner),
			zap.String("reason", reason),
			zap.String("healthFactor", details.HealthFactor.String()),
			zap.String("totalDebt", details.TotalDebt.String()),
			zap.String("dueDate", details.DueDate.String()),
			zap.Float64("threshold", m.threshold))

		_, err = m.transactions.Append(ctx, repository.NewTransaction{
			Type:        models.TxTypeLiquidationWarning,
			UserAddress: owner,
			Data: map[string]any{
				"reason":           reason,
				"healthFactor":     details.HealthFactor.String(),
				"dueDate":          details.DueDate.String(),
				"totalDebt":        details.TotalDebt.String(),
				"collateralAmount": details.CollateralAmount.String(),
				"collateralToken":  details.CollateralToken.Hex(),
				"threshold":        m.threshold,
			},
		})
		if err != nil {
			res.Failed++
			m.forget(owner)
			Logger.Error("[LIQUIDATION] failed to record warning", zap.String("account", owner), zap.Error(err))
			continue
		}
		res.Warnings++
	}

	return res, nil
}

// risk returns the warning reason for a position, or "" when it is healthy.
// A low health factor wins over an overdue loan.
func (m *LiquidationMonitor) risk(d hedera.LoanDetails) string {
	switch {
	case d.BelowThreshold(m.threshold):
		return ReasonLowHealthFactor
	case d.Overdue(m.now()):
		return ReasonOverdue
	default:
		return ""
	}
}

func (m *LiquidationMonitor) remember(account, position string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.warned[account] == position {
		return false
	}
	m.warned[account] = position
	return true
}

func (m *LiquidationMonitor) forget(account string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.warned, account)
}

// InitializeLiquidationScheduler runs Sweep on schedule. Stop the returned cron on shutdown.
func InitializeLiquidationScheduler(m *LiquidationMonitor, schedule string) (*cron.Cron, error) {
	Logger.Info("[LIQUIDATION-SCHEDULER] Initializing liquidation scheduler...", zap.String("schedule", schedule))

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(schedule, func() {
		res, err := m.Sweep(context.Background())
		if err != nil {
			Logger.Error("[LIQUIDATION-SCHEDULER] sweep failed", zap.Error(err))
			return
		}
		Logger.Info("[LIQUIDATION-SCHEDULER] sweep done",
			zap.Int("checked", res.Checked),
			zap.Int("warnings", res.Warnings),
			zap.Int("failed", res.Failed))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid LIQUIDATION_SCHEDULE %q: %w", schedule, err)
	}

	c.Start()
	return c, nil
}
