package hedera

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Gas limits per call
const (
	GasApprove      uint64 = 100_000
	GasAddToken     uint64 = 100_000
	GasWithdrawFees uint64 = 300_000
	GasDefault      uint64 = 500_000
)

// ChainClient is the subset of the JSON-RPC relay the adapter needs. *ethclient.Client satisfies it.
type ChainClient interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// AddressResolver maps a shard.realm.num account to the address the contract sees
type AddressResolver interface {
	EVMAddress(ctx context.Context, accountID string) (common.Address, error)
}

type PoolConfig struct {
	Pool         common.Address
	Stablecoin   common.Address // heNGN
	PollInterval time.Duration
	Timeout      time.Duration
	Resolver     AddressResolver
	Logger       *zap.Logger
}

// LendingPool drives the lending pool contract and the ERC20 tokens around it
type LendingPool struct {
	chain  ChainClient
	signer *Signer
	cfg    PoolConfig
	log    *zap.Logger
}

// TxResult describes one submitted transaction. Confirmed is false when no
// receipt showed up before the timeout; the transaction is presumed sent.
// When waiting for a receipt fails, send returns the result with the error.
type TxResult struct {
	Operation   Operation   `json:"operation"`
	Hash        common.Hash `json:"hash"`
	Confirmed   bool        `json:"confirmed"`
	BlockNumber uint64      `json:"blockNumber,omitempty"`
	GasUsed     uint64      `json:"gasUsed,omitempty"`
	Approval    *TxResult   `json:"approval,omitempty"`
}

// NewLendingPool builds an adapter. signer may be nil for read-only use.
func NewLendingPool(chain ChainClient, signer *Signer, cfg PoolConfig) *LendingPool {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &LendingPool{chain: chain, signer: signer, cfg: cfg, log: cfg.Logger}
}

// DepositCollateral approves the pool to pull amount of token, then deposits it against a property
func (lp *LendingPool) DepositCollateral(ctx context.Context, token, amount, propertyID, propertyValue string) (*TxResult, error) {
	tokenAddr, err := ResolveAddress(token)
	if err != nil {
		return nil, err
	}
	params := Params{"token": tokenAddr, "amount": amount, "propertyId": propertyID, "propertyValue": propertyValue}
	if _, err := Encode(OpDepositCollateral, params); err != nil {
		return nil, err
	}
	return lp.approveThen(ctx, tokenAddr, amount, OpDepositCollateral, params, GasDefault)
}

func (lp *LendingPool) Borrow(ctx context.Context, amount string) (*TxResult, error) {
	return lp.send(ctx, lp.cfg.Pool, OpBorrow, Params{"amount": amount}, GasDefault)
}

// Repay approves heNGN for amount, then repays
func (lp *LendingPool) Repay(ctx context.Context, amount string) (*TxResult, error) {
	return lp.approveThen(ctx, lp.cfg.Stablecoin, amount, OpRepay, Params{"amount": amount}, GasDefault)
}

// ExtendLoan approves heNGN for the extension interest, then extends the due date
func (lp *LendingPool) ExtendLoan(ctx context.Context, interestAmount string) (*TxResult, error) {
	return lp.approveThen(ctx, lp.cfg.Stablecoin, interestAmount, OpExtendLoan, Params{}, GasDefault)
}

func (lp *LendingPool) WithdrawCollateral(ctx context.Context, amount string) (*TxResult, error) {
	return lp.send(ctx, lp.cfg.Pool, OpWithdrawCollateral, Params{"amount": amount}, GasDefault)
}

func (lp *LendingPool) WithdrawFees(ctx context.Context) (*TxResult, error) {
	return lp.send(ctx, lp.cfg.Pool, OpWithdrawFees, Params{}, GasWithdrawFees)
}

func (lp *LendingPool) AddSupportedToken(ctx context.Context, token string) (*TxResult, error) {
	return lp.send(ctx, lp.cfg.Pool, OpAddSupportedToken, Params{"token": token}, GasAddToken)
}

func (lp *LendingPool) GetLoanDetails(ctx context.Context, borrower common.Address) (LoanDetails, error) {
	out, err := lp.call(ctx, lp.cfg.Pool, OpGetLoanDetails, Params{"borrower": borrower})
	if err != nil {
		return zeroLoanDetails(), err
	}
	return DecodeLoanDetails(out)
}

func (lp *LendingPool) GetLoan(ctx context.Context, borrower common.Address) (Loan, error) {
	out, err := lp.call(ctx, lp.cfg.Pool, OpLoans, Params{"borrower": borrower})
	if err != nil {
		return Loan{}, err
	}
	return DecodeLoan(out)
}

// LoanDetailsFor resolves a shard.realm.num account (or 0x address) and reads its loan
func (lp *LendingPool) LoanDetailsFor(ctx context.Context, account string) (LoanDetails, error) {
	addr, err := lp.Resolve(ctx, account)
	if err != nil {
		return zeroLoanDetails(), err
	}
	return lp.GetLoanDetails(ctx, addr)
}

func (lp *LendingPool) TokenBalance(ctx context.Context, account, token common.Address) (*big.Int, error) {
	out, err := lp.call(ctx, token, OpBalanceOf, Params{"account": account})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return new(big.Int), nil
	}
	return new(big.Int).SetBytes(out[:min(len(out), 32)]), nil
}

// Resolve maps an account id or 0x address to the address the pool sees
func (lp *LendingPool) Resolve(ctx context.Context, account string) (common.Address, error) {
	if common.IsHexAddress(account) {
		return common.HexToAddress(account), nil
	}
	if lp.cfg.Resolver != nil {
		return lp.cfg.Resolver.EVMAddress(ctx, account)
	}
	return ResolveAddress(account)
}

func (lp *LendingPool) call(ctx context.Context, to common.Address, op Operation, p Params) ([]byte, error) {
	data, err := Encode(op, p)
	if err != nil {
		return nil, err
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	if lp.signer != nil {
		msg.From = lp.signer.Address()
	}
	out, err := lp.chain.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call: %w", op, err)
	}
	return out, nil
}

// approveThen confirms an ERC20 approval for the pool before running the primary call.
// A failed or reverted approval aborts the call.
func (lp *LendingPool) approveThen(ctx context.Context, token common.Address, amount string, op Operation, p Params, gas uint64) (*TxResult, error) {
	if token == (common.Address{}) {
		return nil, fmt.Errorf("%w: token to approve for %s", ErrMissingParam, op)
	}
	approval, err := lp.send(ctx, token, OpApprove, Params{"spender": lp.cfg.Pool, "amount": amount}, GasApprove)
	if err != nil {
		if approval != nil {
			return &TxResult{Operation: op, Approval: approval}, fmt.Errorf("approve for %s: %w", op, err)
		}
		return nil, fmt.Errorf("approve for %s: %w", op, err)
	}

	res, err := lp.send(ctx, lp.cfg.Pool, op, p, gas)
	if res != nil {
		res.Approval = approval
	}
	return res, err
}

func (lp *LendingPool) send(ctx context.Context, to common.Address, op Operation, p Params, gas uint64) (*TxResult, error) {
	if lp.signer == nil {
		return nil, ErrNoOperatorKey
	}
	data, err := Encode(op, p)
	if err != nil {
		return nil, err
	}

	from := lp.signer.Address()
	nonce, err := lp.chain.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("%s nonce: %w", op, err)
	}
	gasPrice, err := lp.chain.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s gas price: %w", op, err)
	}

	tx, err := lp.signer.Sign(types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    new(big.Int),
		Data:     data,
	}))
	if err != nil {
		return nil, fmt.Errorf("%s sign: %w", op, err)
	}
	if err := lp.chain.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("%s send: %w", op, err)
	}

	res := &TxResult{Operation: op, Hash: tx.Hash()}
	lp.log.Info("transaction sent", zap.String("op", string(op)), zap.String("hash", res.Hash.Hex()), zap.Uint64("nonce", nonce))

	receipt, err := lp.waitReceipt(ctx, res.Hash)
	if err != nil {
		// already broadcast; the caller gets the hash to follow up
		return res, fmt.Errorf("%s %s receipt: %w", op, res.Hash.Hex(), err)
	}
	if receipt == nil {
		lp.log.Warn("receipt not available, assuming sent", zap.String("op", string(op)), zap.String("hash", res.Hash.Hex()))
		return res, nil
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, fmt.Errorf("%s %s: %w", op, res.Hash.Hex(), ErrReverted)
	}

	res.Confirmed = true
	res.GasUsed = receipt.GasUsed
	if receipt.BlockNumber != nil {
		res.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return res, nil
}

// waitReceipt polls at a fixed interval. It returns (nil, nil) once the timeout elapses.
func (lp *LendingPool) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(lp.cfg.PollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(lp.cfg.Timeout)
	defer deadline.Stop()

	for {
		receipt, err := lp.chain.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			return receipt, nil
		case err != nil && !errors.Is(err, ethereum.NotFound):
			lp.log.Debug("receipt poll failed", zap.String("hash", hash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, nil
		case <-ticker.C:
		}
	}
}
