package hedera

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs legacy EVM transactions with the operator's ECDSA key
type Signer struct {
	key    *ecdsa.PrivateKey
	from   common.Address
	signer types.Signer
}

// NewSigner expects a raw 32-byte secp256k1 key in hex, with or without 0x
func NewSigner(hexKey string, chainID int64) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, ErrNoOperatorKey
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse operator key: %w", err)
	}
	return &Signer{
		key:    key,
		from:   crypto.PubkeyToAddress(key.PublicKey),
		signer: types.LatestSignerForChainID(big.NewInt(chainID)),
	}, nil
}

func (s *Signer) Address() common.Address {
	return s.from
}

func (s *Signer) Sign(tx *types.Transaction) (*types.Transaction, error) {
	return types.SignTx(tx, s.signer, s.key)
}
