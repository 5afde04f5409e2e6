package models

import (
	"errors"
	"strings"
	"time"
)

// KYC verification statuses
const (
	KYCStatusNone     = "none"
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

// Admin roles
const (
	AdminRoleAdmin      = "admin"
	AdminRoleSuperAdmin = "super_admin"
)

// User represents a platform user keyed by wallet address. Addresses are
// normalized to lowercase before any lookup or insert.
type User struct {
	WalletAddress string    `json:"wallet_address" gorm:"primaryKey;column:wallet_address;type:varchar(64)"`
	KYCStatus     string    `json:"kyc_status" gorm:"column:kyc_status;type:varchar(20);not null;default:'none'"`
	Frozen        bool      `json:"frozen" gorm:"column:frozen;type:boolean;not null;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// Admin represents an operator allowed to use the admin API.
type Admin struct {
	WalletAddress string    `json:"wallet_address" gorm:"primaryKey;column:wallet_address;type:varchar(64)"`
	Role          string    `json:"role" gorm:"column:role;type:varchar(20);not null;default:'admin'"`
	Active        bool      `json:"active" gorm:"column:active;type:boolean;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}

// NormalizeWallet lowercases and trims a wallet address so lookups are
// case-insensitive across the API surface.
func NormalizeWallet(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

var validKYCStatuses = map[string]bool{
	KYCStatusNone:     true,
	KYCStatusPending:  true,
	KYCStatusVerified: true,
	KYCStatusRejected: true,
}

// Validate validates the user data
func (u *User) Validate() error {
	if u.WalletAddress == "" {
		return errors.New("wallet_address is required")
	}
	if !strings.HasPrefix(u.WalletAddress, "0x") || len(u.WalletAddress) != 42 {
		return errors.New("wallet_address must be a 0x-prefixed 40-hex-char address")
	}
	if !validKYCStatuses[u.KYCStatus] {
		return errors.New("kyc_status must be one of none, pending, verified, rejected")
	}
	return nil
}

// CanInvest reports whether the user passes the KYC and freeze gates.
func (u *User) CanInvest() bool {
	return u.KYCStatus == KYCStatusVerified && !u.Frozen
}
