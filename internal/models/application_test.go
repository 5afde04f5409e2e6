package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplication() *Application {
	return &Application{
		ID:              "app-1",
		Name:            "Downtown Office REIT",
		Type:            AssetTypeRealEstate,
		Issuer:          "Metro Properties",
		SubmitterWallet: "0x1111111111111111111111111111111111111111",
		APY:             decimal.NewFromFloat(7.5),
		PriceUSD:        decimal.NewFromInt(50),
		RiskScore:       decimal.NewFromInt(40),
		YieldConfidence: decimal.NewFromInt(85),
		DurationMonths:  36,
		MinInvestment:   decimal.NewFromInt(1000),
		Status:          ApplicationStatusPending,
	}
}

func TestApplicationValidate(t *testing.T) {
	require.NoError(t, validApplication().Validate())

	tests := []struct {
		name   string
		mutate func(*Application)
	}{
		{"missing name", func(a *Application) { a.Name = "" }},
		{"unknown type", func(a *Application) { a.Type = "bonds" }},
		{"missing issuer", func(a *Application) { a.Issuer = "" }},
		{"missing submitter", func(a *Application) { a.SubmitterWallet = "" }},
		{"negative apy", func(a *Application) { a.APY = decimal.NewFromInt(-1) }},
		{"risk above 100", func(a *Application) { a.RiskScore = decimal.NewFromInt(150) }},
		{"zero duration", func(a *Application) { a.DurationMonths = 0 }},
		{"unknown status", func(a *Application) { a.Status = "archived" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := validApplication()
			tt.mutate(app)
			assert.Error(t, app.Validate())
		})
	}
}

func TestApplicationStatusPredicates(t *testing.T) {
	tests := []struct {
		status     string
		terminal   bool
		reviewable bool
		editable   bool
	}{
		{ApplicationStatusDraft, false, false, true},
		{ApplicationStatusPending, false, true, true},
		{ApplicationStatusReviewing, false, true, false},
		{ApplicationStatusChangesRequested, false, true, true},
		{ApplicationStatusApproved, true, false, false},
		{ApplicationStatusRejected, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			app := &Application{Status: tt.status}
			assert.Equal(t, tt.terminal, app.IsTerminal())
			assert.Equal(t, tt.reviewable, app.IsReviewable())
			assert.Equal(t, tt.editable, app.IsEditable())
		})
	}
}

func TestApplicationToAsset(t *testing.T) {
	app := validApplication()
	asset := app.ToAsset("asset-new")

	assert.Equal(t, "asset-new", asset.ID)
	assert.Equal(t, app.Name, asset.Name)
	assert.Equal(t, app.Type, asset.Type)
	assert.Equal(t, app.Issuer, asset.Issuer)
	assert.True(t, asset.APY.Equal(app.APY))
	assert.True(t, asset.PriceUSD.Equal(app.PriceUSD))
	assert.True(t, asset.MinInvestment.Equal(app.MinInvestment))

	// New listings go live immediately with no money under management yet
	assert.Equal(t, AssetStatusActive, asset.Status)
	assert.True(t, asset.AUMUSD.IsZero())

	require.NotNil(t, asset.ApplicationID)
	assert.Equal(t, app.ID, *asset.ApplicationID)
	assert.Nil(t, asset.RegistryID)

	require.NoError(t, asset.Validate())
}
