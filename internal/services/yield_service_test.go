package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/testutil"
)

func TestMonthlyYield(t *testing.T) {
	tests := []struct {
		name     string
		invested decimal.Decimal
		apy      decimal.Decimal
		want     string
	}{
		{"round figures", decimal.NewFromInt(1200), decimal.NewFromInt(10), "10"},
		{"rounds to cents", decimal.NewFromInt(1000), decimal.NewFromFloat(8.5), "7.08"},
		{"zero invested", decimal.Zero, decimal.NewFromInt(10), "0"},
		{"zero apy", decimal.NewFromInt(5000), decimal.Zero, "0"},
		{"small position", decimal.NewFromInt(100), decimal.NewFromFloat(5.2), "0.43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyYield(tt.invested, tt.apy)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestListPendingYields(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.yieldService()
	ctx := context.Background()

	asset := testutil.CreateTestAsset(t, stack.db.DB)
	// price 100, APY 8.5
	testutil.CreateTestHolding(t, stack.db.DB, testutil.Wallet(), asset.ID, decimal.NewFromInt(6))
	testutil.CreateTestHolding(t, stack.db.DB, testutil.Wallet(), asset.ID, decimal.NewFromInt(4))

	pending, err := svc.ListPendingYields(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	entry := pending[0]
	assert.Equal(t, asset.ID, entry.AssetID)
	assert.Equal(t, 2, entry.HolderCount)
	assert.True(t, entry.TotalInvested.Equal(decimal.NewFromInt(1000)))
	// 1000 * 8.5 / 100 / 12 = 7.08
	assert.True(t, entry.PendingAmount.Equal(decimal.RequireFromString("7.08")), "got %s", entry.PendingAmount)
}

func TestExecuteDistribution(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.yieldService()
	ctx := context.Background()

	asset := testutil.CreateTestAsset(t, stack.db.DB)
	holderA := testutil.CreateTestUser(t, stack.db.DB)
	holderB := testutil.CreateTestUser(t, stack.db.DB)
	testutil.CreateTestPortfolio(t, stack.db.DB, holderA.WalletAddress, decimal.Zero)
	testutil.CreateTestPortfolio(t, stack.db.DB, holderB.WalletAddress, decimal.NewFromInt(50))
	testutil.CreateTestHolding(t, stack.db.DB, holderA.WalletAddress, asset.ID, decimal.NewFromInt(6))
	testutil.CreateTestHolding(t, stack.db.DB, holderB.WalletAddress, asset.ID, decimal.NewFromInt(4))

	dist, err := svc.ExecuteDistribution(ctx, asset.ID)
	require.NoError(t, err)

	assert.Equal(t, models.DistributionStatusCompleted, dist.Status)
	assert.Equal(t, 2, dist.RecipientCount)
	require.NotNil(t, dist.ExecutedAt)

	// holder A: 600 * 8.5 / 100 / 12 = 4.25, holder B: 400 -> 2.83
	assert.True(t, dist.TotalAmount.Equal(decimal.RequireFromString("7.08")), "got %s", dist.TotalAmount)

	portfolioA, err := stack.portfolios.GetOrCreate(ctx, holderA.WalletAddress)
	require.NoError(t, err)
	assert.True(t, portfolioA.CashBalance.Equal(decimal.RequireFromString("4.25")))

	portfolioB, err := stack.portfolios.GetOrCreate(ctx, holderB.WalletAddress)
	require.NoError(t, err)
	assert.True(t, portfolioB.CashBalance.Equal(decimal.RequireFromString("52.83")))

	wallet := holderA.WalletAddress
	txs, err := stack.txs.List(ctx, &models.TransactionFilter{WalletAddress: &wallet})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TxTypeYieldPayout, txs[0].Type)
	assert.Equal(t, models.TxStatusConfirmed, txs[0].Status)
	assert.True(t, txs[0].ValueUSD.Equal(decimal.RequireFromString("4.25")))
}

func TestListDistributionsByAsset(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.yieldService()
	ctx := context.Background()

	bond := testutil.CreateTestAsset(t, stack.db.DB)
	reit := testutil.CreateTestAsset(t, stack.db.DB)
	holder := testutil.CreateTestUser(t, stack.db.DB)
	testutil.CreateTestPortfolio(t, stack.db.DB, holder.WalletAddress, decimal.Zero)
	testutil.CreateTestHolding(t, stack.db.DB, holder.WalletAddress, bond.ID, decimal.NewFromInt(6))
	testutil.CreateTestHolding(t, stack.db.DB, holder.WalletAddress, reit.ID, decimal.NewFromInt(4))

	bondDist, err := svc.ExecuteDistribution(ctx, bond.ID)
	require.NoError(t, err)
	_, err = svc.ExecuteDistribution(ctx, reit.ID)
	require.NoError(t, err)

	scoped, err := svc.ListDistributions(ctx, bond.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, bondDist.ID, scoped[0].ID)

	all, err := svc.ListDistributions(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExecuteDistributionNoHolders(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.yieldService()

	asset := testutil.CreateTestAsset(t, stack.db.DB)

	_, err := svc.ExecuteDistribution(context.Background(), asset.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoHolders)
}

func TestExecuteDistributionMissingAsset(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.yieldService()

	_, err := svc.ExecuteDistribution(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrAssetNotFound)
}

func TestGetYieldCurve(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.yieldService()
	ctx := context.Background()

	holder := testutil.CreateTestUser(t, stack.db.DB)
	testutil.CreateTestPortfolio(t, stack.db.DB, holder.WalletAddress, decimal.Zero)
	asset := testutil.CreateTestAsset(t, stack.db.DB)
	testutil.CreateTestHolding(t, stack.db.DB, holder.WalletAddress, asset.ID, decimal.NewFromInt(10))

	_, err := svc.ExecuteDistribution(ctx, asset.ID)
	require.NoError(t, err)

	curve, err := svc.GetYieldCurve(ctx, holder.WalletAddress)
	require.NoError(t, err)
	require.Len(t, curve.Points, 30)

	// The payout executed today lands on the last day of the window
	last := curve.Points[len(curve.Points)-1]
	assert.True(t, last.Amount.IsPositive(), "expected today's payout on the curve, got %s", last.Amount)

	total := decimal.Zero
	for i, point := range curve.Points {
		assert.Equal(t, i, point.DayIndex)
		total = total.Add(point.Amount)
	}
	assert.True(t, total.Equal(last.Amount), "all realized yield sits on the payout day")
}

func TestGetYieldCurveEmptyWallet(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.yieldService()

	curve, err := svc.GetYieldCurve(context.Background(), testutil.Wallet())
	require.NoError(t, err)
	require.Len(t, curve.Points, 30)
	for _, point := range curve.Points {
		assert.True(t, point.Amount.IsZero())
	}
	assert.Empty(t, curve.Markers)
}
