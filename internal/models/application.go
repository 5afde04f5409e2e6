package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Application review statuses
const (
	ApplicationStatusDraft            = "draft"
	ApplicationStatusPending          = "pending"
	ApplicationStatusReviewing        = "reviewing"
	ApplicationStatusApproved         = "approved"
	ApplicationStatusRejected         = "rejected"
	ApplicationStatusChangesRequested = "changes_requested"
)

// Review actions an admin can take on a submitted application
const (
	ReviewActionApprove        = "approve"
	ReviewActionReject         = "reject"
	ReviewActionRequestChanges = "request_changes"
)

// JSONMap stores type-specific application metadata (property details, loan
// terms, issuer documents) as a jsonb column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Application represents a draft asset awaiting admin review. On approval
// exactly one Asset row is derived from it; afterwards only review_comments
// may change.
type Application struct {
	ID              string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	Name            string          `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Type            string          `json:"type" gorm:"column:type;type:varchar(50);not null;index"`
	Issuer          string          `json:"issuer" gorm:"column:issuer;type:varchar(255);not null"`
	SubmitterWallet string          `json:"submitter_wallet" gorm:"column:submitter_wallet;type:varchar(64);not null;index"`
	APY             decimal.Decimal `json:"apy" gorm:"column:apy;type:decimal(10,4);not null"`
	PriceUSD        decimal.Decimal `json:"price_usd" gorm:"column:price_usd;type:decimal(30,8);not null"`
	RiskScore       decimal.Decimal `json:"risk_score" gorm:"column:risk_score;type:decimal(5,2);not null"`
	YieldConfidence decimal.Decimal `json:"yield_confidence" gorm:"column:yield_confidence;type:decimal(5,2);not null;default:0"`
	DurationMonths  int             `json:"duration_months" gorm:"column:duration_months;type:integer;not null"`
	MinInvestment   decimal.Decimal `json:"min_investment" gorm:"column:min_investment;type:decimal(30,8);not null;default:0"`
	NextPayoutDate  *time.Time      `json:"next_payout_date" gorm:"column:next_payout_date;type:date"`
	Metadata        JSONMap         `json:"metadata" gorm:"column:metadata;type:jsonb;default:'{}'"`

	Status         string  `json:"status" gorm:"column:status;type:varchar(30);not null;index;default:'draft'"`
	ReviewComments *string `json:"review_comments" gorm:"column:review_comments;type:text"`
	ReviewedBy     *string `json:"reviewed_by" gorm:"column:reviewed_by;type:varchar(64)"`

	// Set once, when an approval produces an asset
	AssetID *string `json:"asset_id" gorm:"column:asset_id;type:varchar(255)"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Application model
func (Application) TableName() string {
	return "asset_applications"
}

// ApplicationFilter represents filters for querying applications
type ApplicationFilter struct {
	Statuses        []string
	Types           []string
	SubmitterWallet *string
	Limit           int
	Offset          int
}

var validApplicationStatuses = map[string]bool{
	ApplicationStatusDraft:            true,
	ApplicationStatusPending:          true,
	ApplicationStatusReviewing:        true,
	ApplicationStatusApproved:         true,
	ApplicationStatusRejected:         true,
	ApplicationStatusChangesRequested: true,
}

// IsValidApplicationStatus reports whether s is a known review status.
func IsValidApplicationStatus(s string) bool {
	return validApplicationStatuses[s]
}

// IsTerminal reports whether the application has left the review pipeline.
func (a *Application) IsTerminal() bool {
	return a.Status == ApplicationStatusApproved || a.Status == ApplicationStatusRejected
}

// IsReviewable reports whether an admin action may be applied to the
// application in its current status. Only submitted applications that have
// not reached a terminal state can be acted on.
func (a *Application) IsReviewable() bool {
	switch a.Status {
	case ApplicationStatusPending, ApplicationStatusReviewing, ApplicationStatusChangesRequested:
		return true
	}
	return false
}

// IsEditable reports whether the submitter may still change financial fields.
func (a *Application) IsEditable() bool {
	return a.Status == ApplicationStatusDraft ||
		a.Status == ApplicationStatusPending ||
		a.Status == ApplicationStatusChangesRequested
}

// Validate validates the application data
func (a *Application) Validate() error {
	if a.Name == "" {
		return errors.New("name is required")
	}
	if !IsValidAssetType(a.Type) {
		return errors.New("type must be one of fixed-income, real-estate, private-credit, alternatives")
	}
	if a.Issuer == "" {
		return errors.New("issuer is required")
	}
	if a.SubmitterWallet == "" {
		return errors.New("submitter_wallet is required")
	}
	if a.APY.IsNegative() {
		return errors.New("apy must be non-negative")
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
	if !IsValidApplicationStatus(a.Status) {
		return errors.New("invalid status")
	}
	return nil
}

// ToAsset derives the Asset row published when the application is approved.
// New listings always start Active with zero AUM.
func (a *Application) ToAsset(assetID string) *Asset {
	return &Asset{
		ID:              assetID,
		Name:            a.Name,
		Type:            a.Type,
		Issuer:          a.Issuer,
		APY:             a.APY,
		AUMUSD:          decimal.Zero,
		PriceUSD:        a.PriceUSD,
		RiskScore:       a.RiskScore,
		YieldConfidence: a.YieldConfidence,
		DurationMonths:  a.DurationMonths,
		MinInvestment:   a.MinInvestment,
		Status:          AssetStatusActive,
		NextPayoutDate:  a.NextPayoutDate,
		ApplicationID:   &a.ID,
	}
}
