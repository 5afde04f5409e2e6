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

func setupAssetRepo(t *testing.T) (AssetRepository, *db.DB) {
	t.Helper()
	gdb := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, gdb) })
	database := &db.DB{DB: gdb}
	return NewAssetRepository(database), database
}

func TestAssetRepositoryCreateDuplicate(t *testing.T) {
	repo, database := setupAssetRepo(t)
	ctx := context.Background()

	asset := testutil.CreateTestAsset(t, database.DB)

	dup := *asset
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateAsset)
}

func TestAssetRepositoryGetMissing(t *testing.T) {
	repo, _ := setupAssetRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrAssetNotFound)
}

func TestAssetRepositoryListFilters(t *testing.T) {
	repo, database := setupAssetRepo(t)
	ctx := context.Background()

	bond := testutil.CreateTestAsset(t, database.DB)
	reit := testutil.CreateTestAsset(t, database.DB)
	require.NoError(t, database.Model(reit).Updates(map[string]interface{}{
		"type":   models.AssetTypeRealEstate,
		"status": models.AssetStatusPaused,
	}).Error)

	byType, err := repo.List(ctx, &models.AssetFilter{Types: []string{models.AssetTypeFixedIncome}})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, bond.ID, byType[0].ID)

	byStatus, err := repo.List(ctx, &models.AssetFilter{Statuses: []string{models.AssetStatusPaused}})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, reit.ID, byStatus[0].ID)

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAssetRepositoryRoundTrip(t *testing.T) {
	repo, database := setupAssetRepo(t)
	ctx := context.Background()

	asset := testutil.CreateTestAsset(t, database.DB)

	got, err := repo.GetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, got.ID)
	assert.True(t, got.PriceUSD.Equal(decimal.NewFromInt(100)), "got %s", got.PriceUSD)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestAssetRepositoryDelete(t *testing.T) {
	repo, database := setupAssetRepo(t)
	ctx := context.Background()

	asset := testutil.CreateTestAsset(t, database.DB)
	require.NoError(t, repo.Delete(ctx, asset.ID))

	_, err := repo.GetByID(ctx, asset.ID)
	assert.ErrorIs(t, err, apperrors.ErrAssetNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, asset.ID), apperrors.ErrAssetNotFound)
}
