package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"terracred/database"
	"terracred/models"

	"gorm.io/gorm"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// KYCUpdate replaces the KYC fields of a user
type KYCUpdate struct {
	Status     string
	Level      *string
	Provider   *string
	VerifiedAt *time.Time
}

func (r *UserRepo) Create(ctx context.Context, accountID string, email, name *string) (*models.User, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, invalid("accountId is required")
	}

	u := &models.User{
		AccountID: accountID,
		Email:     email,
		Name:      name,
		KYCStatus: models.KYCNotStarted,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("user %s %w", accountID, ErrConflict)
		}

		id, err := database.NextID(tx, database.SeqUser)
		if err != nil {
			return err
		}
		u.UserID = id
		return tx.Create(u).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("user %s %w", accountID, ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Get looks the identifier up as a userId first, then as an accountId
func (r *UserRepo) Get(ctx context.Context, identifier string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, "user_id = ?", identifier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.WithContext(ctx).First(&u, "account_id = ?", identifier).Error
	}
	if err != nil {
		return nil, notFound(err, "user", identifier)
	}
	return &u, nil
}

func (r *UserRepo) UpdateKYC(ctx context.Context, accountID string, upd KYCUpdate) (*models.User, error) {
	if upd.Status == models.KYCVerified && upd.VerifiedAt == nil {
		now := time.Now().UTC()
		upd.VerifiedAt = &now
	}

	var u models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "account_id = ?", accountID).Error; err != nil {
			return notFound(err, "user", accountID)
		}
		u.KYCStatus = upd.Status
		u.KYCLevel = upd.Level
		u.KYCProvider = upd.Provider
		u.KYCVerifiedAt = upd.VerifiedAt
		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
