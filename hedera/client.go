package hedera

import (
	"context"
	"fmt"

	"terracred/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Connect dials the JSON-RPC relay and builds a lending pool adapter from cfg.
// With requireSigner the operator key must be configured; otherwise the pool is read-only when it is missing.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger, requireSigner bool) (*LendingPool, func(), error) {
	if !cfg.ChainEnabled() {
		return nil, nil, fmt.Errorf("%w: LENDING_POOL_ADDRESS", ErrMissingParam)
	}
	pool, err := ResolveAddress(cfg.LendingPoolAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("lending pool address: %w", err)
	}
	var stable common.Address
	if cfg.HENGNTokenAddress != "" {
		if stable, err = ResolveAddress(cfg.HENGNTokenAddress); err != nil {
			return nil, nil, fmt.Errorf("heNGN address: %w", err)
		}
	}

	var signer *Signer
	if cfg.OperatorKey != "" {
		if signer, err = NewSigner(cfg.OperatorKey, cfg.ChainID); err != nil {
			return nil, nil, err
		}
	} else if requireSigner {
		return nil, nil, ErrNoOperatorKey
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}

	lp := NewLendingPool(client, signer, PoolConfig{
		Pool:         pool,
		Stablecoin:   stable,
		PollInterval: cfg.ReceiptPollInterval,
		Timeout:      cfg.ReceiptTimeout,
		Resolver:     NewMirrorClient(cfg.MirrorNodeURL),
		Logger:       logger,
	})
	return lp, client.Close, nil
}
