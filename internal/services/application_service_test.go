package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/repositories"
	"github.com/tuanle03/assetbridge/internal/testutil"
)

func TestCreateApplicationDefaults(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()
	ctx := context.Background()

	app := &models.Application{
		Name:            "Solar Farm Notes",
		Type:            models.AssetTypeAlternatives,
		Issuer:          "Helios Energy",
		SubmitterWallet: "0xABC1111111111111111111111111111111111111",
		APY:             decimal.NewFromFloat(9.1),
		PriceUSD:        decimal.NewFromInt(10),
		RiskScore:       decimal.NewFromInt(60),
		DurationMonths:  18,
	}
	require.NoError(t, svc.CreateApplication(ctx, app))

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	// Submitter wallets are stored lowercase
	assert.Equal(t, "0xabc1111111111111111111111111111111111111", app.SubmitterWallet)
}

func TestCreateApplicationRejectsReviewedStatus(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()

	app := &models.Application{
		Name:            "Pre-approved",
		Type:            models.AssetTypeAlternatives,
		Issuer:          "Nobody",
		SubmitterWallet: testutil.Wallet(),
		APY:             decimal.NewFromInt(5),
		PriceUSD:        decimal.NewFromInt(10),
		RiskScore:       decimal.NewFromInt(10),
		DurationMonths:  6,
		Status:          models.ApplicationStatusApproved,
	}
	err := svc.CreateApplication(context.Background(), app)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestClaimForReview(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()
	ctx := context.Background()

	app := testutil.CreateTestApplication(t, stack.db.DB, testutil.Wallet())
	admin := testutil.CreateTestAdmin(t, stack.db.DB, models.AdminRoleAdmin)

	claimed, err := svc.ClaimForReview(ctx, app.ID, admin.WalletAddress)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusReviewing, claimed.Status)
	require.NotNil(t, claimed.ReviewedBy)
	assert.Equal(t, admin.WalletAddress, *claimed.ReviewedBy)

	// A second claim leaves the reviewing status alone
	again, err := svc.ClaimForReview(ctx, app.ID, testutil.Wallet())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusReviewing, again.Status)
	require.NotNil(t, again.ReviewedBy)
	assert.Equal(t, admin.WalletAddress, *again.ReviewedBy)
}

func TestReviewApprovePublishesAsset(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()
	ctx := context.Background()

	app := testutil.CreateTestApplication(t, stack.db.DB, testutil.Wallet())
	admin := testutil.CreateTestAdmin(t, stack.db.DB, models.AdminRoleAdmin)
	comments := "Looks solid"

	reviewed, err := svc.Review(ctx, app.ID, models.ReviewActionApprove, admin.WalletAddress, &comments)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.AssetID)

	asset, err := stack.assets.GetByID(ctx, *reviewed.AssetID)
	require.NoError(t, err)
	assert.Equal(t, app.Name, asset.Name)
	assert.Equal(t, models.AssetStatusActive, asset.Status)
	assert.True(t, asset.AUMUSD.IsZero())
	require.NotNil(t, asset.ApplicationID)
	assert.Equal(t, app.ID, *asset.ApplicationID)

	// Approval is terminal
	_, err = svc.Review(ctx, app.ID, models.ReviewActionReject, admin.WalletAddress, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestReviewReject(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()
	ctx := context.Background()

	app := testutil.CreateTestApplication(t, stack.db.DB, testutil.Wallet())
	admin := testutil.CreateTestAdmin(t, stack.db.DB, models.AdminRoleAdmin)
	comments := "Issuer failed verification"

	reviewed, err := svc.Review(ctx, app.ID, models.ReviewActionReject, admin.WalletAddress, &comments)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, reviewed.Status)

	stored, err := svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, stored.Status)
	require.NotNil(t, stored.ReviewComments)
	assert.Equal(t, comments, *stored.ReviewComments)

	// No asset was published
	assets, err := stack.assets.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestReviewRequestChangesAndResubmit(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()
	ctx := context.Background()

	app := testutil.CreateTestApplication(t, stack.db.DB, testutil.Wallet())
	admin := testutil.CreateTestAdmin(t, stack.db.DB, models.AdminRoleAdmin)
	comments := "APY looks optimistic, please revise"

	reviewed, err := svc.Review(ctx, app.ID, models.ReviewActionRequestChanges, admin.WalletAddress, &comments)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusChangesRequested, reviewed.Status)

	// Submitter edits the application, which resubmits it as pending
	edit := *reviewed
	edit.APY = decimal.NewFromFloat(5.5)
	require.NoError(t, svc.UpdateApplication(ctx, &edit))

	stored, err := svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, stored.Status)
	assert.True(t, stored.APY.Equal(decimal.NewFromFloat(5.5)))
}

func TestUpdateApplicationLockedAfterApproval(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()
	ctx := context.Background()

	app := testutil.CreateTestApplication(t, stack.db.DB, testutil.Wallet())
	admin := testutil.CreateTestAdmin(t, stack.db.DB, models.AdminRoleAdmin)

	_, err := svc.Review(ctx, app.ID, models.ReviewActionApprove, admin.WalletAddress, nil)
	require.NoError(t, err)

	app.APY = decimal.NewFromInt(20)
	err = svc.UpdateApplication(ctx, app)
	assert.ErrorIs(t, err, apperrors.ErrApplicationLocked)
}

func TestReviewUnknownAction(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()
	ctx := context.Background()

	app := testutil.CreateTestApplication(t, stack.db.DB, testutil.Wallet())

	_, err := svc.Review(ctx, app.ID, "escalate", testutil.Wallet(), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestReviewMissingApplication(t *testing.T) {
	stack := newTestStack(t)
	svc := stack.applicationService()

	_, err := svc.Review(context.Background(), "missing", models.ReviewActionApprove, testutil.Wallet(), nil)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

// failingAssetRepo wraps a real asset repository but refuses inserts.
type failingAssetRepo struct {
	repositories.AssetRepository
}

func (f *failingAssetRepo) Create(context.Context, *models.Asset) error {
	return errors.New("connection reset by peer")
}

func TestReviewApproveRollsBackOnPublishFailure(t *testing.T) {
	stack := newTestStack(t)
	svc := NewApplicationService(stack.apps, &failingAssetRepo{AssetRepository: stack.assets}, stack.bridge, stack.logger)
	ctx := context.Background()

	app := testutil.CreateTestApplication(t, stack.db.DB, testutil.Wallet())
	admin := testutil.CreateTestAdmin(t, stack.db.DB, models.AdminRoleAdmin)

	_, err := svc.Review(ctx, app.ID, models.ReviewActionApprove, admin.WalletAddress, nil)
	require.Error(t, err)

	// The application is back in the queue and no asset was published
	reloaded, err := stack.apps.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.AssetID)

	assets, err := stack.assets.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, assets)
}
