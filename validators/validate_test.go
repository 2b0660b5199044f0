package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	AccountID string  `json:"accountId" validate:"required,hederaid"`
	Amount    string  `json:"amount" validate:"omitempty,uintstr"`
	Value     float64 `json:"value" validate:"gt=0"`
	Status    string  `json:"status" validate:"omitempty,oneof=pending verified"`
}

func TestCheckKeysByJSONName(t *testing.T) {
	errs := Check(&sample{AccountID: "alice", Amount: "1.5", Status: "lost"})
	assert.Equal(t, "accountId must be a Hedera account id like 0.0.12345!", errs["accountId"])
	assert.Equal(t, "amount must be a positive whole number!", errs["amount"])
	assert.Equal(t, "value must be greater than 0!", errs["value"])
	assert.Equal(t, "status must be one of: pending, verified!", errs["status"])
}

func TestCheckRequired(t *testing.T) {
	errs := Check(&sample{Value: 1})
	assert.Equal(t, map[string]string{"accountId": "accountId is required!"}, errs)
}

func TestCheckValid(t *testing.T) {
	assert.Nil(t, Check(&sample{AccountID: "0.0.1001", Amount: "250", Value: 10, Status: "verified"}))
}
