package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Yield distribution statuses
const (
	DistributionStatusScheduled  = "scheduled"
	DistributionStatusProcessing = "processing"
	DistributionStatusCompleted  = "completed"
	DistributionStatusFailed     = "failed"
)

// YieldDistribution records a per-asset payout run: how much was paid out,
// to how many holders, and whether the run finished.
type YieldDistribution struct {
	ID             string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	AssetID        string          `json:"asset_id" gorm:"column:asset_id;type:varchar(255);not null;index"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"column:total_amount;type:decimal(30,8);not null"`
	RecipientCount int             `json:"recipient_count" gorm:"column:recipient_count;type:integer;not null;default:0"`
	Status         string          `json:"status" gorm:"column:status;type:varchar(20);not null;index;default:'scheduled'"`
	ExecutedAt     *time.Time      `json:"executed_at" gorm:"column:executed_at"`
	CreatedAt      time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for the YieldDistribution model
func (YieldDistribution) TableName() string {
	return "yield_distributions"
}

var validDistributionStatuses = map[string]bool{
	DistributionStatusScheduled:  true,
	DistributionStatusProcessing: true,
	DistributionStatusCompleted:  true,
	DistributionStatusFailed:     true,
}

// Validate validates the yield distribution data
func (d *YieldDistribution) Validate() error {
	if d.AssetID == "" {
		return errors.New("asset_id is required")
	}
	if d.TotalAmount.IsNegative() {
		return errors.New("total_amount must be non-negative")
	}
	if d.RecipientCount < 0 {
		return errors.New("recipient_count must be non-negative")
	}
	if !validDistributionStatuses[d.Status] {
		return errors.New("status must be one of scheduled, processing, completed, failed")
	}
	return nil
}

// PendingYield is the simulated accrued-but-unpaid yield for one asset:
// totalInvested x monthly APY, rounded to cents. A simplification, not an
// accrual ledger.
type PendingYield struct {
	AssetID       string          `json:"asset_id"`
	AssetName     string          `json:"asset_name"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	APY           decimal.Decimal `json:"apy"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	HolderCount   int             `json:"holder_count"`
}

// YieldCurvePoint is one calendar day on the 30-day realized-yield chart.
type YieldCurvePoint struct {
	DayIndex int             `json:"day_index"`
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
}

// PayoutMarker flags an upcoming payout date for a held asset on the
// 30-day axis.
type PayoutMarker struct {
	AssetID  string `json:"asset_id"`
	DayIndex int    `json:"day_index"`
	Date     string `json:"date"`
}

// YieldCurve combines the realized daily series with upcoming payout markers.
type YieldCurve struct {
	Points  []YieldCurvePoint `json:"points"`
	Markers []PayoutMarker    `json:"markers"`
}
