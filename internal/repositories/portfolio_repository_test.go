package repositories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanle03/assetbridge/internal/db"
	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/testutil"
)

func setupPortfolioRepo(t *testing.T) (PortfolioRepository, *db.DB) {
	t.Helper()
	gdb := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, gdb) })
	database := &db.DB{DB: gdb}
	return NewPortfolioRepository(database), database
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	repo, _ := setupPortfolioRepo(t)
	ctx := context.Background()
	wallet := testutil.Wallet()

	first, err := repo.GetOrCreate(ctx, wallet)
	require.NoError(t, err)
	assert.True(t, first.CashBalance.IsZero())

	require.NoError(t, repo.UpdateCash(ctx, wallet, decimal.NewFromInt(75)))

	second, err := repo.GetOrCreate(ctx, wallet)
	require.NoError(t, err)
	assert.True(t, second.CashBalance.Equal(decimal.NewFromInt(75)))
}

func TestGetOrCreateNormalizesWallet(t *testing.T) {
	repo, _ := setupPortfolioRepo(t)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "0xAAA3333333333333333333333333333333333333")
	require.NoError(t, err)

	again, err := repo.GetOrCreate(ctx, "0xaaa3333333333333333333333333333333333333")
	require.NoError(t, err)
	assert.Equal(t, "0xaaa3333333333333333333333333333333333333", again.WalletAddress)
}

func TestInvestGuardsCashBalance(t *testing.T) {
	repo, database := setupPortfolioRepo(t)
	ctx := context.Background()

	wallet := testutil.Wallet()
	testutil.CreateTestPortfolio(t, database.DB, wallet, decimal.NewFromInt(100))
	asset := testutil.CreateTestAsset(t, database.DB)

	tx := &models.Transaction{
		WalletAddress: wallet,
		AssetID:       asset.ID,
		Type:          models.TxTypeInvest,
		Amount:        decimal.NewFromInt(2),
		ValueUSD:      decimal.NewFromInt(200),
		Status:        models.TxStatusPending,
	}
	err := repo.Invest(ctx, wallet, asset.ID, decimal.NewFromInt(2), decimal.NewFromInt(200), tx)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCash)

	// The rejected order must leave no transaction row behind
	var count int64
	require.NoError(t, database.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInvestAccumulatesExistingHolding(t *testing.T) {
	repo, database := setupPortfolioRepo(t)
	ctx := context.Background()

	wallet := testutil.Wallet()
	testutil.CreateTestPortfolio(t, database.DB, wallet, decimal.NewFromInt(1000))
	asset := testutil.CreateTestAsset(t, database.DB)
	testutil.CreateTestHolding(t, database.DB, wallet, asset.ID, decimal.NewFromInt(3))

	tx := &models.Transaction{
		WalletAddress: wallet,
		AssetID:       asset.ID,
		Type:          models.TxTypeInvest,
		Amount:        decimal.NewFromInt(2),
		ValueUSD:      decimal.NewFromInt(200),
		Status:        models.TxStatusPending,
	}
	require.NoError(t, repo.Invest(ctx, wallet, asset.ID, decimal.NewFromInt(2), decimal.NewFromInt(200), tx))
	assert.NotEmpty(t, tx.ID)

	holding, err := repo.GetHolding(ctx, wallet, asset.ID)
	require.NoError(t, err)
	assert.True(t, holding.Shares.Equal(decimal.NewFromInt(5)))

	// Still one row per (wallet, asset)
	holdings, err := repo.GetHoldings(ctx, wallet)
	require.NoError(t, err)
	assert.Len(t, holdings, 1)
}

func TestRedeemGuardsShares(t *testing.T) {
	repo, database := setupPortfolioRepo(t)
	ctx := context.Background()

	wallet := testutil.Wallet()
	testutil.CreateTestPortfolio(t, database.DB, wallet, decimal.Zero)
	asset := testutil.CreateTestAsset(t, database.DB)
	testutil.CreateTestHolding(t, database.DB, wallet, asset.ID, decimal.NewFromInt(1))

	tx := &models.Transaction{
		WalletAddress: wallet,
		AssetID:       asset.ID,
		Type:          models.TxTypeRedeem,
		Amount:        decimal.NewFromInt(2),
		ValueUSD:      decimal.NewFromInt(200),
		Status:        models.TxStatusPending,
	}
	err := repo.Redeem(ctx, wallet, asset.ID, decimal.NewFromInt(2), decimal.NewFromInt(200), tx)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientShares)

	holding, err := repo.GetHolding(ctx, wallet, asset.ID)
	require.NoError(t, err)
	assert.True(t, holding.Shares.Equal(decimal.NewFromInt(1)))
}

func TestUpsertHolding(t *testing.T) {
	repo, database := setupPortfolioRepo(t)
	ctx := context.Background()

	wallet := testutil.Wallet()
	asset := testutil.CreateTestAsset(t, database.DB)

	holding := &models.Holding{
		WalletAddress: wallet,
		AssetID:       asset.ID,
		Shares:        decimal.NewFromInt(4),
	}
	require.NoError(t, repo.UpsertHolding(ctx, holding))
	assert.NotEmpty(t, holding.ID)

	holding.Shares = decimal.NewFromInt(9)
	require.NoError(t, repo.UpsertHolding(ctx, holding))

	stored, err := repo.GetHolding(ctx, wallet, asset.ID)
	require.NoError(t, err)
	assert.True(t, stored.Shares.Equal(decimal.NewFromInt(9)))
}
