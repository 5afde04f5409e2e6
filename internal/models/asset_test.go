package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAsset() *Asset {
	return &Asset{
		ID:              "asset-1",
		Name:            "US Treasury Bond Fund",
		Type:            AssetTypeFixedIncome,
		Issuer:          "Treasury Direct",
		APY:             decimal.NewFromFloat(5.2),
		AUMUSD:          decimal.NewFromInt(1000000),
		PriceUSD:        decimal.NewFromInt(100),
		RiskScore:       decimal.NewFromInt(10),
		YieldConfidence: decimal.NewFromInt(95),
		DurationMonths:  12,
		MinInvestment:   decimal.NewFromInt(100),
		Status:          AssetStatusActive,
	}
}

func TestAssetValidate(t *testing.T) {
	require.NoError(t, validAsset().Validate())

	tests := []struct {
		name   string
		mutate func(*Asset)
	}{
		{"missing id", func(a *Asset) { a.ID = "" }},
		{"missing name", func(a *Asset) { a.Name = "" }},
		{"unknown type", func(a *Asset) { a.Type = "stocks" }},
		{"unknown status", func(a *Asset) { a.Status = "Closed" }},
		{"negative apy", func(a *Asset) { a.APY = decimal.NewFromInt(-1) }},
		{"negative aum", func(a *Asset) { a.AUMUSD = decimal.NewFromInt(-1) }},
		{"negative price", func(a *Asset) { a.PriceUSD = decimal.NewFromInt(-1) }},
		{"risk above 100", func(a *Asset) { a.RiskScore = decimal.NewFromInt(101) }},
		{"confidence above 100", func(a *Asset) { a.YieldConfidence = decimal.NewFromInt(101) }},
		{"zero duration", func(a *Asset) { a.DurationMonths = 0 }},
		{"negative min investment", func(a *Asset) { a.MinInvestment = decimal.NewFromInt(-5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := validAsset()
			tt.mutate(asset)
			assert.Error(t, asset.Validate())
		})
	}
}

func TestIsValidAssetType(t *testing.T) {
	assert.True(t, IsValidAssetType(AssetTypeFixedIncome))
	assert.True(t, IsValidAssetType(AssetTypeRealEstate))
	assert.True(t, IsValidAssetType(AssetTypePrivateCredit))
	assert.True(t, IsValidAssetType(AssetTypeAlternatives))
	assert.False(t, IsValidAssetType("crypto"))
	assert.False(t, IsValidAssetType(""))
}

func TestIsValidAssetStatus(t *testing.T) {
	assert.True(t, IsValidAssetStatus(AssetStatusActive))
	assert.True(t, IsValidAssetStatus(AssetStatusMaturing))
	assert.True(t, IsValidAssetStatus(AssetStatusPaused))
	assert.False(t, IsValidAssetStatus("active"))
}
