package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"terracred/database"
	"terracred/models"

	"github.com/jinzhu/now"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransactionRepo struct{ db *gorm.DB }

func NewTransactionRepo(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

type NewTransaction struct {
	Type        string
	PropertyID  string
	UserAddress string
	Data        any
}

type TransactionFilter struct {
	UserAddress string
	PropertyID  string
	Type        string
}

// Stats holds row counts per table. TransactionsToday counts entries since 00:00 UTC.
type Stats struct {
	Properties        int64 `json:"properties"`
	Users             int64 `json:"users"`
	Transactions      int64 `json:"transactions"`
	TransactionsToday int64 `json:"transactionsToday"`
}

// Append records an activity entry. The shape of Data is not checked.
func (r *TransactionRepo) Append(ctx context.Context, in NewTransaction) (*models.Transaction, error) {
	if strings.TrimSpace(in.Type) == "" {
		return nil, invalid("type is required")
	}
	if strings.TrimSpace(in.UserAddress) == "" {
		return nil, invalid("userAddress is required")
	}

	data := datatypes.JSON("{}")
	if in.Data != nil {
		b, err := json.Marshal(in.Data)
		if err != nil {
			return nil, invalid("data: %v", err)
		}
		if string(b) != "null" {
			data = b
		}
	}

	t := &models.Transaction{
		Type:        in.Type,
		PropertyID:  optional(in.PropertyID),
		UserAddress: in.UserAddress,
		Data:        data,
		Timestamp:   time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := database.NextID(tx, database.SeqTransaction)
		if err != nil {
			return err
		}
		t.TxID = id
		return tx.Create(t).Error
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepo) Get(ctx context.Context, txID string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.WithContext(ctx).First(&t, "tx_id = ?", txID).Error; err != nil {
		return nil, notFound(err, "transaction", txID)
	}
	return &t, nil
}

// List returns matching entries, newest first
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{})
	if f.UserAddress != "" {
		q = q.Where("user_address = ?", f.UserAddress)
	}
	if f.PropertyID != "" {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	out := []models.Transaction{}
	if err := q.Order("timestamp DESC").Order("tx_id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TransactionRepo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Property{}).Count(&s.Properties).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.User{}).Count(&s.Users).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.Transaction{}).Count(&s.Transactions).Error; err != nil {
		return s, err
	}
	today := now.With(time.Now().UTC()).BeginningOfDay()
	if err := db.Model(&models.Transaction{}).Where("timestamp >= ?", today).Count(&s.TransactionsToday).Error; err != nil {
		return s, err
	}
	return s, nil
}
