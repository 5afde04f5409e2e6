package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWallet(t *testing.T) {
	assert.Equal(t,
		"0xabc1111111111111111111111111111111111111",
		NormalizeWallet("  0xABC1111111111111111111111111111111111111 "))
	assert.Equal(t, "", NormalizeWallet("   "))
}

func TestUserValidate(t *testing.T) {
	user := &User{
		WalletAddress: "0x1111111111111111111111111111111111111111",
		KYCStatus:     KYCStatusVerified,
	}
	assert.NoError(t, user.Validate())

	tests := []struct {
		name   string
		mutate func(*User)
	}{
		{"empty wallet", func(u *User) { u.WalletAddress = "" }},
		{"no 0x prefix", func(u *User) { u.WalletAddress = "1111111111111111111111111111111111111111ab" }},
		{"wrong length", func(u *User) { u.WalletAddress = "0x1234" }},
		{"unknown kyc status", func(u *User) { u.KYCStatus = "approved" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{
				WalletAddress: "0x1111111111111111111111111111111111111111",
				KYCStatus:     KYCStatusVerified,
			}
			tt.mutate(u)
			assert.Error(t, u.Validate())
		})
	}
}

func TestUserCanInvest(t *testing.T) {
	tests := []struct {
		name      string
		kycStatus string
		frozen    bool
		want      bool
	}{
		{"verified and unfrozen", KYCStatusVerified, false, true},
		{"verified but frozen", KYCStatusVerified, true, false},
		{"pending kyc", KYCStatusPending, false, false},
		{"no kyc", KYCStatusNone, false, false},
		{"rejected kyc", KYCStatusRejected, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{KYCStatus: tt.kycStatus, Frozen: tt.frozen}
			assert.Equal(t, tt.want, u.CanInvest())
		})
	}
}
