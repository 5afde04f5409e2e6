package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tuanle03/assetbridge/internal/chain"
	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/repositories"
)

type applicationService struct {
	appRepo   repositories.ApplicationRepository
	assetRepo repositories.AssetRepository
	bridge    chain.Bridge
	logger    *zap.Logger
}

// NewApplicationService creates a new application review service
func NewApplicationService(appRepo repositories.ApplicationRepository, assetRepo repositories.AssetRepository, bridge chain.Bridge, logger *zap.Logger) ApplicationService {
	return &applicationService{
		appRepo:   appRepo,
		assetRepo: assetRepo,
		bridge:    bridge,
		logger:    logger,
	}
}

func (s *applicationService) CreateApplication(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	app.SubmitterWallet = models.NormalizeWallet(app.SubmitterWallet)
	if app.Metadata == nil {
		app.Metadata = models.JSONMap{}
	}

	if app.Status != models.ApplicationStatusDraft && app.Status != models.ApplicationStatusPending {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "new applications must be draft or pending")
	}
	if err := app.Validate(); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return s.appRepo.Create(ctx, app)
}

func (s *applicationService) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return s.appRepo.GetByID(ctx, id)
}

// ClaimForReview fetches an application for an admin, moving a pending one to
// reviewing so other admins can see it is being looked at.
func (s *applicationService) ClaimForReview(ctx context.Context, id, adminWallet string) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if app.Status == models.ApplicationStatusPending {
		reviewer := models.NormalizeWallet(adminWallet)
		if err := s.appRepo.UpdateStatus(ctx, id, models.ApplicationStatusReviewing, &reviewer, nil); err != nil {
			return nil, err
		}
		app.Status = models.ApplicationStatusReviewing
		app.ReviewedBy = &reviewer
	}
	return app, nil
}

func (s *applicationService) ListApplications(ctx context.Context, filter *models.ApplicationFilter) ([]*models.Application, error) {
	return s.appRepo.List(ctx, filter)
}

// UpdateApplication applies submitter edits to the financial fields. Only
// draft, pending, and changes_requested applications may be edited; an edit
// after changes were requested resubmits the application as pending.
func (s *applicationService) UpdateApplication(ctx context.Context, app *models.Application) error {
	existing, err := s.appRepo.GetByID(ctx, app.ID)
	if err != nil {
		return err
	}
	if !existing.IsEditable() {
		return apperrors.ErrApplicationLocked
	}

	app.SubmitterWallet = existing.SubmitterWallet
	app.AssetID = existing.AssetID
	if existing.Status == models.ApplicationStatusChangesRequested {
		app.Status = models.ApplicationStatusPending
	} else {
		app.Status = existing.Status
	}

	if err := app.Validate(); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return s.appRepo.Update(ctx, app)
}

// Review applies an admin action to a submitted application. Approval
// publishes exactly one Active asset with zero AUM; if the asset insert
// fails the application status is rolled back to pending (a compensating
// action, not a transaction).
func (s *applicationService) Review(ctx context.Context, id, action, adminWallet string, comments *string) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.IsReviewable() {
		return nil, apperrors.ErrInvalidTransition
	}

	reviewer := models.NormalizeWallet(adminWallet)

	switch action {
	case models.ReviewActionReject:
		if err := s.appRepo.UpdateStatus(ctx, id, models.ApplicationStatusRejected, &reviewer, comments); err != nil {
			return nil, err
		}
		app.Status = models.ApplicationStatusRejected

	case models.ReviewActionRequestChanges:
		if err := s.appRepo.UpdateStatus(ctx, id, models.ApplicationStatusChangesRequested, &reviewer, comments); err != nil {
			return nil, err
		}
		app.Status = models.ApplicationStatusChangesRequested

	case models.ReviewActionApprove:
		if err := s.approve(ctx, app, reviewer, comments); err != nil {
			return nil, err
		}

	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "action must be approve, reject, or request_changes")
	}

	app.ReviewedBy = &reviewer
	if comments != nil {
		app.ReviewComments = comments
	}
	return app, nil
}

func (s *applicationService) approve(ctx context.Context, app *models.Application, reviewer string, comments *string) error {
	// Mark approved first so the asset row is derived from a terminal
	// application; rolled back below if publication fails.
	if err := s.appRepo.UpdateStatus(ctx, app.ID, models.ApplicationStatusApproved, &reviewer, comments); err != nil {
		return err
	}

	asset := app.ToAsset(uuid.NewString())
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		rollbackErr := s.appRepo.UpdateStatus(ctx, app.ID, models.ApplicationStatusPending, &reviewer, comments)
		if rollbackErr != nil {
			s.logger.Error("failed to roll back application after asset creation failure",
				zap.String("application_id", app.ID),
				zap.Error(rollbackErr))
		}
		return fmt.Errorf("failed to publish asset for application %s: %w", app.ID, err)
	}

	app.Status = models.ApplicationStatusApproved
	app.AssetID = &asset.ID
	if err := s.appRepo.Update(ctx, &models.Application{ID: app.ID, AssetID: &asset.ID}); err != nil {
		s.logger.Warn("failed to store asset back-link on application",
			zap.String("application_id", app.ID),
			zap.Error(err))
	}

	// Registering on chain is best effort: a failure leaves registry_id
	// nil and the asset tradeable off chain.
	if s.bridge.Enabled() {
		registryID, txHash, err := s.bridge.RegisterAsset(ctx, asset.Name, asset.PriceUSD)
		if err != nil {
			reason, msg := chain.Classify(err)
			s.logger.Warn("on-chain asset registration failed",
				zap.String("asset_id", asset.ID),
				zap.String("reason", string(reason)),
				zap.String("detail", msg),
				zap.Error(err))
			return nil
		}
		asset.RegistryID = &registryID
		if err := s.assetRepo.Update(ctx, asset); err != nil {
			s.logger.Error("failed to store registry id",
				zap.String("asset_id", asset.ID),
				zap.Uint64("registry_id", registryID),
				zap.Error(err))
		}
		s.logger.Info("asset registered on chain",
			zap.String("asset_id", asset.ID),
			zap.Uint64("registry_id", registryID),
			zap.String("tx_hash", txHash))
	}
	return nil
}

func (s *applicationService) DeleteApplication(ctx context.Context, id string) error {
	return s.appRepo.Delete(ctx, id)
}
