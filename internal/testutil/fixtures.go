package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tuanle03/assetbridge/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Wallet returns a unique, well-formed wallet address.
func Wallet() string {
	return fmt.Sprintf("0x%040x", nextID())
}

// CreateTestAsset creates an active fixed-income asset with sensible defaults.
func CreateTestAsset(t *testing.T, db *gorm.DB) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		ID:              fmt.Sprintf("asset-%d", nextID()),
		Name:            fmt.Sprintf("Test Asset %d", nextID()),
		Type:            models.AssetTypeFixedIncome,
		Issuer:          "Test Issuer",
		APY:             decimal.NewFromFloat(8.5),
		AUMUSD:          decimal.Zero,
		PriceUSD:        decimal.NewFromInt(100),
		RiskScore:       decimal.NewFromInt(30),
		YieldConfidence: decimal.NewFromInt(90),
		DurationMonths:  12,
		MinInvestment:   decimal.NewFromInt(100),
		Status:          models.AssetStatusActive,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestUser creates a KYC-verified, unfrozen user.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		WalletAddress: Wallet(),
		KYCStatus:     models.KYCStatusVerified,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates an active admin with the given role.
func CreateTestAdmin(t *testing.T, db *gorm.DB, role string) *models.Admin {
	t.Helper()

	admin := &models.Admin{
		WalletAddress: Wallet(),
		Role:          role,
		Active:        true,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}
	return admin
}

// CreateTestPortfolio creates a portfolio row with the given cash balance.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, wallet string, cash decimal.Decimal) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		WalletAddress: wallet,
		CashBalance:   cash,
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestHolding creates a share position for (wallet, asset).
func CreateTestHolding(t *testing.T, db *gorm.DB, wallet, assetID string, shares decimal.Decimal) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		ID:            fmt.Sprintf("holding-%d", nextID()),
		WalletAddress: wallet,
		AssetID:       assetID,
		Shares:        shares,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestApplication creates a pending application from the given wallet.
func CreateTestApplication(t *testing.T, db *gorm.DB, submitter string) *models.Application {
	t.Helper()

	app := &models.Application{
		ID:              fmt.Sprintf("app-%d", nextID()),
		Name:            fmt.Sprintf("Test Application %d", nextID()),
		Type:            models.AssetTypeRealEstate,
		Issuer:          "Test Issuer",
		SubmitterWallet: submitter,
		APY:             decimal.NewFromFloat(6.25),
		PriceUSD:        decimal.NewFromInt(50),
		RiskScore:       decimal.NewFromInt(45),
		YieldConfidence: decimal.NewFromInt(80),
		DurationMonths:  24,
		MinInvestment:   decimal.NewFromInt(500),
		Metadata:        models.JSONMap{"property_type": "commercial"},
		Status:          models.ApplicationStatusPending,
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return app
}
