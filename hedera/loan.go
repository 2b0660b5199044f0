package hedera

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// NoDebtHealthFactor is returned by the pool for borrowers without debt
var NoDebtHealthFactor = math.MaxBig256

// LoanDetails is the getLoanDetails(address) view of a borrower's position
type LoanDetails struct {
	CollateralAmount *big.Int
	CollateralToken  common.Address
	BorrowedAmount   *big.Int
	TotalDebt        *big.Int
	HealthFactor     *big.Int
	MaxBorrow        *big.Int
	DueDate          *big.Int
	ExtensionUsed    bool
}

// Loan is the raw loans(address) storage struct
type Loan struct {
	CollateralAmount   *big.Int
	CollateralToken    common.Address
	BorrowedAmount     *big.Int
	Timestamp          *big.Int
	AccruedInterest    *big.Int
	LastInterestUpdate *big.Int
	PropertyID         string `abi:"propertyId"`
	PropertyValue      *big.Int
	DueDate            *big.Int
	ExtensionUsed      bool
}

func zeroLoanDetails() LoanDetails {
	return LoanDetails{
		CollateralAmount: new(big.Int),
		BorrowedAmount:   new(big.Int),
		TotalDebt:        new(big.Int),
		HealthFactor:     new(big.Int),
		MaxBorrow:        new(big.Int),
		DueDate:          new(big.Int),
	}
}

// DecodeLoanDetails decodes getLoanDetails return data. An empty result
// (no loan, or a call against an address with no code) decodes to zeros.
func DecodeLoanDetails(data []byte) (LoanDetails, error) {
	out := zeroLoanDetails()
	if len(data) == 0 {
		return out, nil
	}
	if err := lendingPoolABI.UnpackIntoInterface(&out, string(OpGetLoanDetails), data); err != nil {
		return zeroLoanDetails(), fmt.Errorf("decode getLoanDetails: %w", err)
	}
	return out, nil
}

// DecodeLoan decodes loans(address) return data, including the property id string
func DecodeLoan(data []byte) (Loan, error) {
	out := Loan{
		CollateralAmount:   new(big.Int),
		BorrowedAmount:     new(big.Int),
		Timestamp:          new(big.Int),
		AccruedInterest:    new(big.Int),
		LastInterestUpdate: new(big.Int),
		PropertyValue:      new(big.Int),
		DueDate:            new(big.Int),
	}
	if len(data) == 0 {
		return out, nil
	}
	if err := lendingPoolABI.UnpackIntoInterface(&out, string(OpLoans), data); err != nil {
		return Loan{}, fmt.Errorf("decode loans: %w", err)
	}
	return out, nil
}

// HasDebt reports whether the borrower owes anything
func (d LoanDetails) HasDebt() bool {
	if d.TotalDebt == nil || d.TotalDebt.Sign() == 0 {
		return false
	}
	return d.HealthFactor == nil || d.HealthFactor.Cmp(NoDebtHealthFactor) != 0
}

// BelowThreshold reports whether an indebted position's health factor is under threshold (percent)
func (d LoanDetails) BelowThreshold(threshold float64) bool {
	if !d.HasDebt() {
		return false
	}
	hf := new(big.Float).SetInt(d.HealthFactor)
	return hf.Cmp(big.NewFloat(threshold)) < 0
}

// Overdue reports whether an indebted position's due date (unix seconds) is before at.
// A zero due date means none is set.
func (d LoanDetails) Overdue(at time.Time) bool {
	if !d.HasDebt() || d.DueDate == nil || d.DueDate.Sign() <= 0 {
		return false
	}
	return d.DueDate.Cmp(big.NewInt(at.Unix())) < 0
}

type loanDetailsJSON struct {
	CollateralAmount string `json:"collateralAmount"`
	CollateralToken  string `json:"collateralToken"`
	BorrowedAmount   string `json:"borrowedAmount"`
	TotalDebt        string `json:"totalDebt"`
	HealthFactor     string `json:"healthFactor"`
	MaxBorrow        string `json:"maxBorrow"`
	DueDate          string `json:"dueDate"`
	ExtensionUsed    bool   `json:"extensionUsed"`
	HasDebt          bool   `json:"hasDebt"`
}

// MarshalJSON renders integers as decimal strings since they exceed float64 precision
func (d LoanDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(loanDetailsJSON{
		CollateralAmount: intString(d.CollateralAmount),
		CollateralToken:  d.CollateralToken.Hex(),
		BorrowedAmount:   intString(d.BorrowedAmount),
		TotalDebt:        intString(d.TotalDebt),
		HealthFactor:     intString(d.HealthFactor),
		MaxBorrow:        intString(d.MaxBorrow),
		DueDate:          intString(d.DueDate),
		ExtensionUsed:    d.ExtensionUsed,
		HasDebt:          d.HasDebt(),
	})
}

func intString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
