package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio holds a user's off-chain cash balance. One row per user.
type Portfolio struct {
	WalletAddress string          `json:"wallet_address" gorm:"primaryKey;column:wallet_address;type:varchar(64)"`
	CashBalance   decimal.Decimal `json:"cash_balance" gorm:"column:cash_balance;type:decimal(30,8);not null;default:0"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Portfolio model
func (Portfolio) TableName() string {
	return "portfolios"
}

// Holding is a (user, asset) share position. Shares never go negative; a
// redemption larger than the current balance is rejected upstream.
type Holding struct {
	ID            string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	WalletAddress string          `json:"wallet_address" gorm:"column:wallet_address;type:varchar(64);not null;uniqueIndex:idx_holdings_wallet_asset"`
	AssetID       string          `json:"asset_id" gorm:"column:asset_id;type:varchar(255);not null;uniqueIndex:idx_holdings_wallet_asset"`
	Shares        decimal.Decimal `json:"shares" gorm:"column:shares;type:decimal(30,8);not null;default:0"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Holding model
func (Holding) TableName() string {
	return "holdings"
}

// Validate validates the holding data
func (h *Holding) Validate() error {
	if h.WalletAddress == "" {
		return errors.New("wallet_address is required")
	}
	if h.AssetID == "" {
		return errors.New("asset_id is required")
	}
	if h.Shares.IsNegative() {
		return errors.New("shares must be non-negative")
	}
	return nil
}

// PositionSnapshot is a holding joined with its asset's pricing fields plus
// the optional on-chain share balance, the input row for aggregation.
type PositionSnapshot struct {
	AssetID       string
	AssetName     string
	AssetType     string
	Status        string
	Shares        decimal.Decimal
	OnChainShares *decimal.Decimal
	PriceUSD      decimal.Decimal
	APY           decimal.Decimal
	RiskScore     decimal.Decimal
	NextPayout    *time.Time
}

// EffectiveShares returns the share count used for display and redemption
// eligibility. A positive on-chain balance takes precedence over the mirrored
// database count; this is last-write-wins reconciliation, not a transactional
// guarantee.
func (p *PositionSnapshot) EffectiveShares() decimal.Decimal {
	if p.OnChainShares != nil && p.OnChainShares.IsPositive() {
		return *p.OnChainShares
	}
	return p.Shares
}

// Value returns the USD value of the position at the asset's current price.
func (p *PositionSnapshot) Value() decimal.Decimal {
	return p.EffectiveShares().Mul(p.PriceUSD)
}

// AllocationBucket is one slice of the allocation breakdown.
type AllocationBucket struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

// PortfolioSummary is the aggregated view served to the dashboard.
type PortfolioSummary struct {
	WalletAddress string              `json:"wallet_address"`
	CashBalance   decimal.Decimal     `json:"cash_balance"`
	InvestedValue decimal.Decimal     `json:"invested_value"`
	TotalAUM      decimal.Decimal     `json:"total_aum"`
	WeightedAPY   decimal.Decimal     `json:"weighted_apy"`
	WeightedRisk  decimal.Decimal     `json:"weighted_risk"`
	Allocation    []AllocationBucket  `json:"allocation"`
	Positions     []*PositionSnapshot `json:"positions"`
}
