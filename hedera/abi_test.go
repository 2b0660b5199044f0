package hedera

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestERC20Selectors(t *testing.T) {
	sel, err := Selector(OpBalanceOf)
	require.NoError(t, err)
	assert.Equal(t, "70a08231", hex.EncodeToString(sel))

	sel, err = Selector(OpApprove)
	require.NoError(t, err)
	assert.Equal(t, "095ea7b3", hex.EncodeToString(sel))
}

func TestSelectorsMatchCanonicalSignatures(t *testing.T) {
	signatures := map[Operation]string{
		OpDepositCollateral:  "depositCollateral(address,uint256,string,uint256)",
		OpBorrow:             "borrow(uint256)",
		OpRepay:              "repay(uint256)",
		OpExtendLoan:         "extendLoan()",
		OpWithdrawCollateral: "withdrawCollateral(uint256)",
		OpWithdrawFees:       "withdrawFees()",
		OpAddSupportedToken:  "addSupportedToken(address)",
		OpGetLoanDetails:     "getLoanDetails(address)",
		OpLoans:              "loans(address)",
	}
	for op, sig := range signatures {
		sel, err := Selector(op)
		require.NoError(t, err, op)
		assert.Equal(t, crypto.Keccak256([]byte(sig))[:4], sel, sig)
	}
}

func TestEncodeBalanceOf(t *testing.T) {
	data, err := Encode(OpBalanceOf, Params{"account": "0.0.42"})
	require.NoError(t, err)
	assert.Equal(t,
		"70a08231"+"000000000000000000000000000000000000000000000000000000000000002a",
		hex.EncodeToString(data))
}

func TestEncodeBorrowAmount(t *testing.T) {
	data, err := Encode(OpBorrow, Params{"amount": "1000000"})
	require.NoError(t, err)
	require.Len(t, data, 4+32)
	assert.Equal(t, big.NewInt(1000000), new(big.Int).SetBytes(data[4:]))
}

func TestEncodeDepositCollateralCarriesPropertyID(t *testing.T) {
	data, err := Encode(OpDepositCollateral, Params{
		"token":         common.HexToAddress("0x6d4b2a"),
		"amount":        "500",
		"propertyId":    "PROP001",
		"propertyValue": "50000",
	})
	require.NoError(t, err)

	args, err := lendingPoolABI.Methods[string(OpDepositCollateral)].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, args, 4)
	assert.Equal(t, common.HexToAddress("0x6d4b2a"), args[0])
	assert.Equal(t, big.NewInt(500), args[1])
	assert.Equal(t, "PROP001", args[2])
	assert.Equal(t, big.NewInt(50000), args[3])
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode("liquidate", Params{})
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = Selector("liquidate")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = Encode(OpBorrow, Params{})
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = Encode(OpAddSupportedToken, Params{})
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = Encode(OpDepositCollateral, Params{"token": "0.0.1", "amount": "1", "propertyValue": "1"})
	assert.ErrorIs(t, err, ErrMissingParam)

	for _, bad := range []string{"0", "-5", "1.5", "abc", "", "0x10"} {
		_, err = Encode(OpRepay, Params{"amount": bad})
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

func TestEncodeNoArgCalls(t *testing.T) {
	data, err := Encode(OpExtendLoan, nil)
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256([]byte("extendLoan()"))[:4], data)
}

func TestParseAmount(t *testing.T) {
	n, err := ParseAmount(" 123456789012345678901234567890 ")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", n.String())
}
