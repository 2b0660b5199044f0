package repository

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"terracred/database"
	"terracred/hedera"
	"terracred/models"

	"gorm.io/gorm"
)

// PropertyRepo is the property registry backed by the properties table
type PropertyRepo struct {
	db            *gorm.DB
	masterTokenID string
}

func NewPropertyRepo(db *gorm.DB, masterTokenID string) *PropertyRepo {
	return &PropertyRepo{db: db, masterTokenID: masterTokenID}
}

type NewProperty struct {
	Owner            string
	Address          string
	Value            float64
	Description      string
	ProofDocumentURI string
}

type PropertyFilter struct {
	Owner  string
	Status models.PropertyStatus
}

// Verification carries the admin's attestation. Empty fields take defaults.
type Verification struct {
	Verifier      string
	AppraisalHash string
	DeedHash      string
	TokenID       string
	TokenAddress  string
}

func (r *PropertyRepo) Create(ctx context.Context, in NewProperty) (*models.Property, error) {
	in.Owner = strings.TrimSpace(in.Owner)
	in.Address = strings.TrimSpace(in.Address)
	if in.Owner == "" {
		return nil, invalid("owner is required")
	}
	if in.Address == "" {
		return nil, invalid("address is required")
	}
	if in.Value <= 0 {
		return nil, invalid("value must be greater than zero")
	}
	if math.IsInf(in.Value, 0) || in.Value/100 >= math.MaxInt64 {
		return nil, invalid("value %v is too large to tokenize", in.Value)
	}

	p := &models.Property{
		Owner:            in.Owner,
		Address:          in.Address,
		Value:            in.Value,
		Description:      in.Description,
		ProofDocumentURI: in.ProofDocumentURI,
		Status:           models.PropertyPending,
		TokenSupply:      models.TokenSupplyFor(in.Value),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := database.NextID(tx, database.SeqProperty)
		if err != nil {
			return err
		}
		p.PropertyID = id
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PropertyRepo) Get(ctx context.Context, id string) (*models.Property, error) {
	var p models.Property
	if err := r.db.WithContext(ctx).First(&p, "property_id = ?", id).Error; err != nil {
		return nil, notFound(err, "property", id)
	}
	return &p, nil
}

// List returns matching properties, newest first
func (r *PropertyRepo) List(ctx context.Context, f PropertyFilter) ([]models.Property, error) {
	q := r.db.WithContext(ctx).Model(&models.Property{})
	if f.Owner != "" {
		q = q.Where("owner = ?", f.Owner)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	out := []models.Property{}
	if err := q.Order("created_at DESC").Order("property_id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Verify marks the property verified and binds it to its RWA token.
// A property that is already verified is overwritten with the new attestation.
func (r *PropertyRepo) Verify(ctx context.Context, id string, v Verification) (*models.Property, error) {
	if v.Verifier == "" {
		v.Verifier = "admin"
	}
	if v.TokenID == "" {
		v.TokenID = r.masterTokenID
	}
	if v.TokenAddress == "" && v.TokenID != "" {
		addr, err := hedera.LongFormHex(v.TokenID)
		if err != nil {
			return nil, invalid("tokenId %q: %v", v.TokenID, err)
		}
		v.TokenAddress = addr
	}

	return r.transition(ctx, id, func(p *models.Property) {
		if p.Status == models.PropertyVerified {
			log.Printf("[REGISTRY] %s already verified by %s, overwriting", p.PropertyID, deref(p.Verifier))
		}
		now := time.Now().UTC()
		p.Status = models.PropertyVerified
		p.VerifiedAt = &now
		p.Verifier = &v.Verifier
		p.AppraisalHash = v.AppraisalHash
		p.DeedHash = v.DeedHash
		p.TokenID = optional(v.TokenID)
		p.TokenAddress = optional(v.TokenAddress)
	})
}

func (r *PropertyRepo) Reject(ctx context.Context, id, reason string) (*models.Property, error) {
	if strings.TrimSpace(reason) == "" {
		reason = "No reason provided"
	}
	return r.transition(ctx, id, func(p *models.Property) {
		now := time.Now().UTC()
		p.Status = models.PropertyRejected
		p.RejectedAt = &now
		p.RejectionReason = &reason
	})
}

func (r *PropertyRepo) Delist(ctx context.Context, id string) (*models.Property, error) {
	return r.transition(ctx, id, func(p *models.Property) {
		now := time.Now().UTC()
		p.Status = models.PropertyDelisted
		p.DelistedAt = &now
	})
}

// transition loads, mutates and saves a property in one transaction.
// Unknown ids return ErrNotFound and nothing is written.
func (r *PropertyRepo) transition(ctx context.Context, id string, mutate func(*models.Property)) (*models.Property, error) {
	var p models.Property
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "property_id = ?", id).Error; err != nil {
			return notFound(err, "property", id)
		}
		mutate(&p)
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AssetByTokenID returns the most recently verified property bound to tokenID
func (r *PropertyRepo) AssetByTokenID(ctx context.Context, tokenID string) (*models.Asset, error) {
	var p models.Property
	err := r.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		Order("verified_at DESC").
		First(&p).Error
	if err != nil {
		return nil, notFound(err, "asset", tokenID)
	}
	a := p.Asset()
	return &a, nil
}

// Assets lists tokenized properties, optionally for one owner
func (r *PropertyRepo) Assets(ctx context.Context, owner string) ([]models.Asset, error) {
	q := r.db.WithContext(ctx).Where("token_id IS NOT NULL AND token_id <> ''")
	if owner != "" {
		q = q.Where("owner = ?", owner)
	}

	var props []models.Property
	if err := q.Order("created_at DESC").Order("property_id DESC").Find(&props).Error; err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0, len(props))
	for _, p := range props {
		assets = append(assets, p.Asset())
	}
	return assets, nil
}

// VerifiedOwners returns the distinct owners of verified properties
func (r *PropertyRepo) VerifiedOwners(ctx context.Context) ([]string, error) {
	var owners []string
	err := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("status = ?", models.PropertyVerified).
		Distinct("owner").
		Order("owner").
		Pluck("owner", &owners).Error
	return owners, err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
