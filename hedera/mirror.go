package hedera

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
)

// MirrorClient resolves account ids through the Hedera mirror node REST API
type MirrorClient struct {
	client *resty.Client
}

type mirrorAccount struct {
	Account    string `json:"account"`
	EVMAddress string `json:"evm_address"`
}

func NewMirrorClient(baseURL string) *MirrorClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	return &MirrorClient{client: c}
}

// EVMAddress returns the account's EVM alias when the mirror node knows one,
// otherwise the long-form address derived from the id.
func (m *MirrorClient) EVMAddress(ctx context.Context, accountID string) (common.Address, error) {
	acc, err := ParseAccountID(accountID)
	if err != nil {
		return common.Address{}, err
	}
	fallback := acc.LongFormAddress()

	var out mirrorAccount
	resp, err := m.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetPathParam("id", acc.String()).
		Get("/api/v1/accounts/{id}")
	if err != nil || resp.IsError() {
		return fallback, nil
	}
	if !common.IsHexAddress(out.EVMAddress) {
		return fallback, nil
	}
	return common.HexToAddress(out.EVMAddress), nil
}
