package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TxTypeInvest      = "invest"
	TxTypeRedeem      = "redeem"
	TxTypeYieldPayout = "yield_payout"
)

// Transaction statuses
const (
	TxStatusPending   = "pending"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
)

// Transaction is an append-only record of an invest, redeem, or yield payout
// event. Rows are never updated except for status and chain hash.
type Transaction struct {
	ID            string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	WalletAddress string          `json:"wallet_address" gorm:"column:wallet_address;type:varchar(64);not null;index"`
	AssetID       string          `json:"asset_id" gorm:"column:asset_id;type:varchar(255);not null;index"`
	Type          string          `json:"type" gorm:"column:type;type:varchar(20);not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(30,8);not null"`
	ValueUSD      decimal.Decimal `json:"value_usd" gorm:"column:value_usd;type:decimal(30,8);not null"`
	Status        string          `json:"status" gorm:"column:status;type:varchar(20);not null;index;default:'pending'"`
	ChainTxHash   *string         `json:"chain_tx_hash" gorm:"column:chain_tx_hash;type:varchar(66)"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime;index"`
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionFilter represents filters for querying transactions
type TransactionFilter struct {
	WalletAddress *string
	AssetID       *string
	Types         []string
	Statuses      []string
	StartDate     *time.Time
	EndDate       *time.Time
	Limit         int
	Offset        int
}

var validTxTypes = map[string]bool{
	TxTypeInvest:      true,
	TxTypeRedeem:      true,
	TxTypeYieldPayout: true,
}

var validTxStatuses = map[string]bool{
	TxStatusPending:   true,
	TxStatusConfirmed: true,
	TxStatusFailed:    true,
}

// Validate validates the transaction data
func (t *Transaction) Validate() error {
	if t.WalletAddress == "" {
		return errors.New("wallet_address is required")
	}
	if t.AssetID == "" {
		return errors.New("asset_id is required")
	}
	if !validTxTypes[t.Type] {
		return errors.New("type must be one of invest, redeem, yield_payout")
	}
	if !t.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if t.ValueUSD.IsNegative() {
		return errors.New("value_usd must be non-negative")
	}
	if !validTxStatuses[t.Status] {
		return errors.New("status must be one of pending, confirmed, failed")
	}
	return nil
}
