package models

import (
	"time"
)

// KYC states reported to the frontend
const (
	KYCNotStarted = "not_started"
	KYCPending    = "pending"
	KYCVerified   = "verified"
	KYCRejected   = "rejected"
)

// User is a wallet holder registered with the platform
type User struct {
	UserID        string     `gorm:"primaryKey;type:varchar(32)" json:"userId"`
	AccountID     string     `gorm:"size:64;uniqueIndex;not null" json:"accountId"` // Hedera account id, 0.0.x
	Email         *string    `json:"email"`
	Name          *string    `json:"name"`
	KYCStatus     string     `gorm:"column:kyc_status;size:20;default:'not_started'" json:"kycStatus"`
	KYCLevel      *string    `gorm:"column:kyc_level" json:"kycLevel"`
	KYCProvider   *string    `gorm:"column:kyc_provider" json:"kycProvider"`
	KYCVerifiedAt *time.Time `gorm:"column:kyc_verified_at" json:"kycVerifiedAt"`
	CreatedAt     time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
