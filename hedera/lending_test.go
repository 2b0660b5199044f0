package hedera

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOperatorKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var (
	testPool  = common.HexToAddress("0x00000000000000000000000000000000006c0001")
	testToken = common.HexToAddress("0x00000000000000000000000000000000006d4b2a")
	testHENGN = common.HexToAddress("0x00000000000000000000000000000000006e0002")
)

// fakeChain records sent transactions and answers receipts from revert/pending rules
type fakeChain struct {
	mu        sync.Mutex
	sent      []*types.Transaction
	nonce     uint64
	revert    map[Operation]bool
	noReceipt bool
	callData  []byte
	calls     []ethereum.CallMsg
}

func newFakeChain() *fakeChain {
	return &fakeChain{revert: map[Operation]bool{}}
}

func (f *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msg)
	return f.callData, nil
}

func (f *fakeChain) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonce, nil
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(540_000_000_000), nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	f.nonce++
	return nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.noReceipt {
		return nil, ethereum.NotFound
	}
	for i, tx := range f.sent {
		if tx.Hash() != hash {
			continue
		}
		status := types.ReceiptStatusSuccessful
		if f.revert[operationOf(tx.Data())] {
			status = types.ReceiptStatusFailed
		}
		return &types.Receipt{Status: status, TxHash: hash, GasUsed: 21000, BlockNumber: big.NewInt(int64(100 + i))}, nil
	}
	return nil, ethereum.NotFound
}

func operationOf(data []byte) Operation {
	for _, op := range []Operation{OpApprove, OpDepositCollateral, OpRepay, OpExtendLoan, OpBorrow, OpWithdrawCollateral, OpWithdrawFees, OpAddSupportedToken} {
		sel, _ := Selector(op)
		if len(data) >= 4 && bytes.Equal(data[:4], sel) {
			return op
		}
	}
	return ""
}

func newTestPool(t *testing.T, chain ChainClient) *LendingPool {
	t.Helper()
	signer, err := NewSigner(testOperatorKey, 296)
	require.NoError(t, err)
	return NewLendingPool(chain, signer, PoolConfig{
		Pool:         testPool,
		Stablecoin:   testHENGN,
		PollInterval: time.Millisecond,
		Timeout:      50 * time.Millisecond,
	})
}

func TestDepositApprovesBeforeDepositing(t *testing.T) {
	chain := newFakeChain()
	lp := newTestPool(t, chain)

	res, err := lp.DepositCollateral(context.Background(), testToken.Hex(), "1000", "PROP001", "50000")
	require.NoError(t, err)
	assert.True(t, res.Confirmed)
	assert.Equal(t, OpDepositCollateral, res.Operation)
	require.NotNil(t, res.Approval)
	assert.Equal(t, OpApprove, res.Approval.Operation)

	require.Len(t, chain.sent, 2)
	approve, deposit := chain.sent[0], chain.sent[1]
	assert.Equal(t, OpApprove, operationOf(approve.Data()))
	assert.Equal(t, testToken, *approve.To())
	assert.Equal(t, GasApprove, approve.Gas())
	assert.Equal(t, OpDepositCollateral, operationOf(deposit.Data()))
	assert.Equal(t, testPool, *deposit.To())
	assert.Equal(t, GasDefault, deposit.Gas())
	assert.Equal(t, approve.Nonce()+1, deposit.Nonce())

	args, err := erc20ABI.Methods[string(OpApprove)].Inputs.Unpack(approve.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, testPool, args[0])
	assert.Equal(t, big.NewInt(1000), args[1])
}

func TestSignedTransactionsRecoverToOperator(t *testing.T) {
	chain := newFakeChain()
	lp := newTestPool(t, chain)

	_, err := lp.Borrow(context.Background(), "250")
	require.NoError(t, err)
	require.Len(t, chain.sent, 1)

	tx := chain.sent[0]
	assert.Equal(t, big.NewInt(296), tx.ChainId())
	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(296)), tx)
	require.NoError(t, err)
	assert.Equal(t, lp.signer.Address(), from)
}

func TestRevertedApprovalAbortsDeposit(t *testing.T) {
	chain := newFakeChain()
	chain.revert[OpApprove] = true
	lp := newTestPool(t, chain)

	_, err := lp.DepositCollateral(context.Background(), testToken.Hex(), "1000", "PROP001", "50000")
	assert.ErrorIs(t, err, ErrReverted)
	require.Len(t, chain.sent, 1)
	assert.Equal(t, OpApprove, operationOf(chain.sent[0].Data()))
}

func TestInvalidDepositSendsNothing(t *testing.T) {
	chain := newFakeChain()
	lp := newTestPool(t, chain)

	_, err := lp.DepositCollateral(context.Background(), testToken.Hex(), "-1", "PROP001", "50000")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, chain.sent)
}

func TestRepayAndExtendApproveStablecoin(t *testing.T) {
	chain := newFakeChain()
	lp := newTestPool(t, chain)
	ctx := context.Background()

	_, err := lp.Repay(ctx, "300")
	require.NoError(t, err)
	_, err = lp.ExtendLoan(ctx, "15")
	require.NoError(t, err)

	require.Len(t, chain.sent, 4)
	assert.Equal(t, testHENGN, *chain.sent[0].To())
	assert.Equal(t, OpRepay, operationOf(chain.sent[1].Data()))
	assert.Equal(t, testHENGN, *chain.sent[2].To())
	assert.Equal(t, OpExtendLoan, operationOf(chain.sent[3].Data()))
}

func TestRepayWithoutStablecoinFails(t *testing.T) {
	chain := newFakeChain()
	signer, err := NewSigner(testOperatorKey, 296)
	require.NoError(t, err)
	lp := NewLendingPool(chain, signer, PoolConfig{Pool: testPool})

	_, err = lp.Repay(context.Background(), "300")
	assert.ErrorIs(t, err, ErrMissingParam)
	assert.Empty(t, chain.sent)
}

func TestGasLimitsPerOperation(t *testing.T) {
	chain := newFakeChain()
	lp := newTestPool(t, chain)
	ctx := context.Background()

	_, err := lp.WithdrawFees(ctx)
	require.NoError(t, err)
	_, err = lp.AddSupportedToken(ctx, "0.0.7162666")
	require.NoError(t, err)
	_, err = lp.WithdrawCollateral(ctx, "10")
	require.NoError(t, err)

	require.Len(t, chain.sent, 3)
	assert.Equal(t, GasWithdrawFees, chain.sent[0].Gas())
	assert.Equal(t, GasAddToken, chain.sent[1].Gas())
	assert.Equal(t, GasDefault, chain.sent[2].Gas())
}

func TestMissingReceiptIsNotFatal(t *testing.T) {
	chain := newFakeChain()
	chain.noReceipt = true
	lp := newTestPool(t, chain)

	res, err := lp.Borrow(context.Background(), "250")
	require.NoError(t, err)
	assert.False(t, res.Confirmed)
	assert.NotEqual(t, common.Hash{}, res.Hash)
}

func TestReceiptWaitHonoursCancellation(t *testing.T) {
	chain := newFakeChain()
	chain.noReceipt = true
	signer, err := NewSigner(testOperatorKey, 296)
	require.NoError(t, err)
	lp := NewLendingPool(chain, signer, PoolConfig{Pool: testPool, PollInterval: time.Millisecond, Timeout: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res, err := lp.Borrow(ctx, "250")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.Len(t, chain.sent, 1)
	require.NotNil(t, res)
	assert.Equal(t, chain.sent[0].Hash(), res.Hash)
	assert.False(t, res.Confirmed)
	assert.Contains(t, err.Error(), res.Hash.Hex())
}

func TestCancelledApprovalReportsItsHash(t *testing.T) {
	chain := newFakeChain()
	chain.noReceipt = true
	signer, err := NewSigner(testOperatorKey, 296)
	require.NoError(t, err)
	lp := NewLendingPool(chain, signer, PoolConfig{Pool: testPool, Stablecoin: testHENGN, PollInterval: time.Millisecond, Timeout: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res, err := lp.Repay(ctx, "100")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// the approval went out, the repay did not
	require.Len(t, chain.sent, 1)
	require.NotNil(t, res)
	require.NotNil(t, res.Approval)
	assert.Equal(t, OpRepay, res.Operation)
	assert.Equal(t, chain.sent[0].Hash(), res.Approval.Hash)
	assert.Equal(t, common.Hash{}, res.Hash)
	assert.Contains(t, err.Error(), chain.sent[0].Hash().Hex())
}

func TestReadOnlyPoolCannotSend(t *testing.T) {
	lp := NewLendingPool(newFakeChain(), nil, PoolConfig{Pool: testPool})
	_, err := lp.Borrow(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoOperatorKey)
}

func TestGetLoanDetailsAndBalance(t *testing.T) {
	chain := newFakeChain()
	chain.callData = loanDetailsFixture("be")
	lp := NewLendingPool(chain, nil, PoolConfig{Pool: testPool})
	ctx := context.Background()

	d, err := lp.LoanDetailsFor(ctx, "0.0.1001")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(525), d.TotalDebt)
	require.Len(t, chain.calls, 1)
	assert.Equal(t, testPool, *chain.calls[0].To)

	want, err := Encode(OpGetLoanDetails, Params{"borrower": AccountID{Num: 1001}.LongFormAddress()})
	require.NoError(t, err)
	assert.Equal(t, want, chain.calls[0].Data)

	chain.callData = common.LeftPadBytes(big.NewInt(777).Bytes(), 32)
	bal, err := lp.TokenBalance(ctx, common.HexToAddress("0x01"), testToken)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(777), bal)
	assert.Equal(t, testToken, *chain.calls[1].To)
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func TestGetLoanDetailsOverJSONRPC(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req rpcRequest
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotMethod = req.Method

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  hexutil.Encode(loanDetailsFixture("64")),
		})
	}))
	defer srv.Close()

	client, err := ethclient.Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	lp := NewLendingPool(client, nil, PoolConfig{Pool: testPool})
	d, err := lp.GetLoanDetails(context.Background(), AccountID{Num: 1001}.LongFormAddress())
	require.NoError(t, err)
	assert.Equal(t, "eth_call", gotMethod)
	assert.Equal(t, big.NewInt(100), d.HealthFactor)
	assert.True(t, d.BelowThreshold(120))
}
