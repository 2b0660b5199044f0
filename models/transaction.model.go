package models

import (
	"time"

	"gorm.io/datatypes"
)

// Transaction types written by the backend itself. Clients may post any other type.
const (
	TxTypeLoanRequested      = "loan_requested"
	TxTypeLiquidationWarning = "liquidation_warning"
)

// Transaction is an append-only activity log entry
type Transaction struct {
	TxID        string         `gorm:"primaryKey;type:varchar(32)" json:"txId"`
	Type        string         `gorm:"size:64;not null;index" json:"type"`
	PropertyID  *string        `gorm:"size:32;index" json:"propertyId"`
	UserAddress string         `gorm:"size:64;not null;index" json:"userAddress"`
	Data        datatypes.JSON `json:"data"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
}

func (Transaction) TableName() string {
	return "transactions"
}
