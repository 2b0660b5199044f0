package hedera

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Operation names one contract call the adapter knows how to encode
type Operation string

const (
	OpDepositCollateral  Operation = "depositCollateral"
	OpBorrow             Operation = "borrow"
	OpRepay              Operation = "repay"
	OpExtendLoan         Operation = "extendLoan"
	OpWithdrawCollateral Operation = "withdrawCollateral"
	OpWithdrawFees       Operation = "withdrawFees"
	OpAddSupportedToken  Operation = "addSupportedToken"
	OpGetLoanDetails     Operation = "getLoanDetails"
	OpLoans              Operation = "loans"
	OpApprove            Operation = "approve"
	OpBalanceOf          Operation = "balanceOf"
)

const lendingPoolABIJSON = `[
  {"type":"function","name":"depositCollateral","stateMutability":"nonpayable","inputs":[
    {"name":"token","type":"address"},{"name":"amount","type":"uint256"},
    {"name":"propertyId","type":"string"},{"name":"propertyValue","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"borrow","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"repay","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"extendLoan","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"withdrawCollateral","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"withdrawFees","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"addSupportedToken","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"}],"outputs":[]},
  {"type":"function","name":"getLoanDetails","stateMutability":"view","inputs":[{"name":"borrower","type":"address"}],"outputs":[
    {"name":"collateralAmount","type":"uint256"},{"name":"collateralToken","type":"address"},
    {"name":"borrowedAmount","type":"uint256"},{"name":"totalDebt","type":"uint256"},
    {"name":"healthFactor","type":"uint256"},{"name":"maxBorrow","type":"uint256"},
    {"name":"dueDate","type":"uint256"},{"name":"extensionUsed","type":"bool"}]},
  {"type":"function","name":"loans","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[
    {"name":"collateralAmount","type":"uint256"},{"name":"collateralToken","type":"address"},
    {"name":"borrowedAmount","type":"uint256"},{"name":"timestamp","type":"uint256"},
    {"name":"accruedInterest","type":"uint256"},{"name":"lastInterestUpdate","type":"uint256"},
    {"name":"propertyId","type":"string"},{"name":"propertyValue","type":"uint256"},
    {"name":"dueDate","type":"uint256"},{"name":"extensionUsed","type":"bool"}]}
]`

const erc20ABIJSON = `[
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[
    {"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	lendingPoolABI = mustParseABI(lendingPoolABIJSON)
	erc20ABI       = mustParseABI(erc20ABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("hedera: bad ABI definition: %v", err))
	}
	return parsed
}

// Params are the named arguments of a contract call
type Params map[string]any

type encoder func(p Params) ([]byte, error)

// operations is the dispatch table from operation to calldata encoder
var operations = map[Operation]encoder{
	OpDepositCollateral: func(p Params) ([]byte, error) {
		token, err := p.address("token")
		if err != nil {
			return nil, err
		}
		amount, err := p.amount("amount")
		if err != nil {
			return nil, err
		}
		propertyID, err := p.str("propertyId")
		if err != nil {
			return nil, err
		}
		value, err := p.amount("propertyValue")
		if err != nil {
			return nil, err
		}
		return lendingPoolABI.Pack(string(OpDepositCollateral), token, amount, propertyID, value)
	},
	OpBorrow:             amountCall(lendingPoolABI, OpBorrow),
	OpRepay:              amountCall(lendingPoolABI, OpRepay),
	OpWithdrawCollateral: amountCall(lendingPoolABI, OpWithdrawCollateral),
	OpExtendLoan:         noArgCall(lendingPoolABI, OpExtendLoan),
	OpWithdrawFees:       noArgCall(lendingPoolABI, OpWithdrawFees),
	OpAddSupportedToken:  addressCall(lendingPoolABI, OpAddSupportedToken, "token"),
	OpGetLoanDetails:     addressCall(lendingPoolABI, OpGetLoanDetails, "borrower"),
	OpLoans:              addressCall(lendingPoolABI, OpLoans, "borrower"),
	OpBalanceOf:          addressCall(erc20ABI, OpBalanceOf, "account"),
	OpApprove: func(p Params) ([]byte, error) {
		spender, err := p.address("spender")
		if err != nil {
			return nil, err
		}
		amount, err := p.amount("amount")
		if err != nil {
			return nil, err
		}
		return erc20ABI.Pack(string(OpApprove), spender, amount)
	},
}

// Encode builds the calldata for op
func Encode(op Operation, p Params) ([]byte, error) {
	enc, ok := operations[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return enc(p)
}

// Selector returns the 4-byte function selector of op
func Selector(op Operation) ([]byte, error) {
	for _, a := range []abi.ABI{lendingPoolABI, erc20ABI} {
		if m, ok := a.Methods[string(op)]; ok {
			return m.ID, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}

func amountCall(a abi.ABI, op Operation) encoder {
	return func(p Params) ([]byte, error) {
		amount, err := p.amount("amount")
		if err != nil {
			return nil, err
		}
		return a.Pack(string(op), amount)
	}
}

func addressCall(a abi.ABI, op Operation, key string) encoder {
	return func(p Params) ([]byte, error) {
		addr, err := p.address(key)
		if err != nil {
			return nil, err
		}
		return a.Pack(string(op), addr)
	}
}

func noArgCall(a abi.ABI, op Operation) encoder {
	return func(Params) ([]byte, error) {
		return a.Pack(string(op))
	}
}

func (p Params) address(key string) (common.Address, error) {
	v, ok := p[key]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case string:
		return ResolveAddress(a)
	default:
		return common.Address{}, fmt.Errorf("%w: %s has type %T", ErrMissingParam, key, v)
	}
}

func (p Params) amount(key string) (*big.Int, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	switch a := v.(type) {
	case *big.Int:
		if a == nil || a.Sign() <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, key)
		}
		return a, nil
	case string:
		return ParseAmount(a)
	default:
		return nil, fmt.Errorf("%w: %s has type %T", ErrInvalidAmount, key, v)
	}
}

func (p Params) str(key string) (string, error) {
	v, ok := p[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	return v, nil
}

// ParseAmount parses a positive base-10 integer in the token's smallest unit
func ParseAmount(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || n.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n, nil
}

// ResolveAddress accepts a 0x EVM address or a shard.realm.num id
func ResolveAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	acc, err := ParseAccountID(s)
	if err != nil {
		return common.Address{}, err
	}
	return acc.LongFormAddress(), nil
}
