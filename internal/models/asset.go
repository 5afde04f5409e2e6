package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Asset types supported by the marketplace
const (
	AssetTypeFixedIncome   = "fixed-income"
	AssetTypeRealEstate    = "real-estate"
	AssetTypePrivateCredit = "private-credit"
	AssetTypeAlternatives  = "alternatives"
)

// Asset lifecycle statuses
const (
	AssetStatusActive   = "Active"
	AssetStatusMaturing = "Maturing"
	AssetStatusPaused   = "Paused"
)

// Asset represents a tokenized real-world asset listed on the marketplace
type Asset struct {
	ID              string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	Name            string          `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Type            string          `json:"type" gorm:"column:type;type:varchar(50);not null;index"`
	Issuer          string          `json:"issuer" gorm:"column:issuer;type:varchar(255)"`
	APY             decimal.Decimal `json:"apy" gorm:"column:apy;type:decimal(10,4);not null"`
	AUMUSD          decimal.Decimal `json:"aum_usd" gorm:"column:aum_usd;type:decimal(30,8);not null;default:0"`
	PriceUSD        decimal.Decimal `json:"price_usd" gorm:"column:price_usd;type:decimal(30,8);not null"`
	RiskScore       decimal.Decimal `json:"risk_score" gorm:"column:risk_score;type:decimal(5,2);not null"`
	YieldConfidence decimal.Decimal `json:"yield_confidence" gorm:"column:yield_confidence;type:decimal(5,2);not null;default:0"`
	DurationMonths  int             `json:"duration_months" gorm:"column:duration_months;type:integer;not null"`
	MinInvestment   decimal.Decimal `json:"min_investment" gorm:"column:min_investment;type:decimal(30,8);not null;default:0"`
	Status          string          `json:"status" gorm:"column:status;type:varchar(20);not null;index;default:'Active'"`
	NextPayoutDate  *time.Time      `json:"next_payout_date" gorm:"column:next_payout_date;type:date"`

	// On-chain linkage; nil until the asset is registered on the registry contract
	RegistryID *uint64 `json:"registry_id" gorm:"column:registry_id;type:bigint"`

	// Back-link to the application this asset was approved from
	ApplicationID *string `json:"application_id" gorm:"column:application_id;type:varchar(255);index"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}

// AssetFilter represents filters for querying assets
type AssetFilter struct {
	Types    []string
	Statuses []string
	Issuer   *string
	Limit    int
	Offset   int
}

var validAssetTypes = map[string]bool{
	AssetTypeFixedIncome:   true,
	AssetTypeRealEstate:    true,
	AssetTypePrivateCredit: true,
	AssetTypeAlternatives:  true,
}

var validAssetStatuses = map[string]bool{
	AssetStatusActive:   true,
	AssetStatusMaturing: true,
	AssetStatusPaused:   true,
}

// IsValidAssetType reports whether t is a recognized asset type label.
func IsValidAssetType(t string) bool {
	return validAssetTypes[t]
}

// IsValidAssetStatus reports whether s is a recognized asset status.
func IsValidAssetStatus(s string) bool {
	return validAssetStatuses[s]
}

// Validate validates the asset data
func (a *Asset) Validate() error {
	if a.ID == "" {
		return errors.New("id is required")
	}
	if a.Name == "" {
		return errors.New("name is required")
	}
	if !IsValidAssetType(a.Type) {
		return errors.New("type must be one of fixed-income, real-estate, private-credit, alternatives")
	}
	if !IsValidAssetStatus(a.Status) {
		return errors.New("status must be one of Active, Maturing, Paused")
	}
	if a.APY.IsNegative() {
		return errors.New("apy must be non-negative")
	}
	if a.AUMUSD.IsNegative() {
		return errors.New("aum_usd must be non-negative")
	}
	if a.PriceUSD.IsNegative() {
		return errors.New("price_usd must be non-negative")
	}
	if a.RiskScore.IsNegative() || a.RiskScore.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("risk_score must be between 0 and 100")
	}
	if a.YieldConfidence.IsNegative() || a.YieldConfidence.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("yield_confidence must be between 0 and 100")
	}
	if a.DurationMonths <= 0 {
		return errors.New("duration_months must be positive")
	}
	if a.MinInvestment.IsNegative() {
		return errors.New("min_investment must be non-negative")
	}
	return nil
}
