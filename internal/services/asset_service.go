package services

import (
	"context"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/repositories"
)

type assetService struct {
	assetRepo repositories.AssetRepository
}

// NewAssetService creates a new asset service
func NewAssetService(assetRepo repositories.AssetRepository) AssetService {
	return &assetService{assetRepo: assetRepo}
}

func (s *assetService) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.Status == "" {
		asset.Status = models.AssetStatusActive
	}
	if err := asset.Validate(); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return s.assetRepo.Create(ctx, asset)
}

func (s *assetService) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	return s.assetRepo.GetByID(ctx, id)
}

func (s *assetService) ListAssets(ctx context.Context, filter *models.AssetFilter) ([]*models.Asset, error) {
	return s.assetRepo.List(ctx, filter)
}

func (s *assetService) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	existing, err := s.assetRepo.GetByID(ctx, asset.ID)
	if err != nil {
		return err
	}

	// AUM and registry linkage are owned by order flow and approval, not
	// by admin edits
	asset.AUMUSD = existing.AUMUSD
	asset.RegistryID = existing.RegistryID
	asset.ApplicationID = existing.ApplicationID

	if err := asset.Validate(); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return s.assetRepo.Update(ctx, asset)
}

func (s *assetService) DeleteAsset(ctx context.Context, id string) error {
	return s.assetRepo.Delete(ctx, id)
}
