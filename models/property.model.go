package models

import (
	"math"
	"time"
)

// PropertyStatus is the lifecycle state of a submitted property
type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyVerified PropertyStatus = "verified"
	PropertyRejected PropertyStatus = "rejected"
	PropertyDelisted PropertyStatus = "delisted"
)

// Property is a real-estate record submitted by an owner for tokenization
type Property struct {
	PropertyID       string         `gorm:"primaryKey;type:varchar(32)" json:"propertyId"`
	Owner            string         `gorm:"size:64;not null;index" json:"owner"`
	Address          string         `gorm:"not null" json:"address"`
	Value            float64        `gorm:"not null" json:"value"`
	Description      string         `gorm:"type:text" json:"description"`
	ProofDocumentURI string         `gorm:"column:proof_document_uri;size:2048;default:''" json:"proofDocumentUri"`
	AppraisalHash    string         `gorm:"size:256;default:''" json:"appraisalHash"`
	DeedHash         string         `gorm:"size:256;default:''" json:"deedHash"`
	Status           PropertyStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	VerifiedAt       *time.Time     `json:"verifiedAt"`
	Verifier         *string        `json:"verifier"`
	TokenID          *string        `gorm:"size:64;index" json:"tokenId"`
	TokenAddress     *string        `json:"tokenAddress"`
	TokenSupply      int64          `gorm:"not null" json:"tokenSupply"`
	RejectedAt       *time.Time     `json:"rejectedAt"`
	RejectionReason  *string        `json:"rejectionReason"`
	DelistedAt       *time.Time     `json:"delistedAt"`
	CreatedAt        time.Time      `gorm:"not null;index" json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (Property) TableName() string {
	return "properties"
}

// TokenSupplyFor returns the number of RWA tokens minted for a property value (one per 100 units)
func TokenSupplyFor(value float64) int64 {
	return int64(math.Floor(value / 100))
}

// Asset is the tokenized view of a verified property
type Asset struct {
	TokenID      *string        `json:"tokenId"`
	TokenAddress *string        `json:"tokenAddress"`
	PropertyID   string         `json:"propertyId"`
	Owner        string         `json:"owner"`
	Address      string         `json:"address"`
	Value        float64        `json:"value"`
	Description  string         `json:"description"`
	TokenSupply  int64          `json:"tokenSupply"`
	Status       PropertyStatus `json:"status"`
	VerifiedAt   *time.Time     `json:"verifiedAt"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (p Property) Asset() Asset {
	return Asset{
		TokenID:      p.TokenID,
		TokenAddress: p.TokenAddress,
		PropertyID:   p.PropertyID,
		Owner:        p.Owner,
		Address:      p.Address,
		Value:        p.Value,
		Description:  p.Description,
		TokenSupply:  p.TokenSupply,
		Status:       p.Status,
		VerifiedAt:   p.VerifiedAt,
		CreatedAt:    p.CreatedAt,
	}
}
