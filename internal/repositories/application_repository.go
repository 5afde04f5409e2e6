package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tuanle03/assetbridge/internal/db"
	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
)

type applicationRepository struct {
	db *db.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(database *db.DB) ApplicationRepository {
	return &applicationRepository{db: database}
}

func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context, filter *models.ApplicationFilter) ([]*models.Application, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{})

	if filter != nil {
		if len(filter.Statuses) > 0 {
			query = query.Where("status IN ?", filter.Statuses)
		}
		if len(filter.Types) > 0 {
			query = query.Where("type IN ?", filter.Types)
		}
		if filter.SubmitterWallet != nil && *filter.SubmitterWallet != "" {
			query = query.Where("submitter_wallet = ?", models.NormalizeWallet(*filter.SubmitterWallet))
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}
	}

	var apps []*models.Application
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	result := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", app.ID).Updates(app)
	if result.Error != nil {
		return fmt.Errorf("failed to update application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id, status string, reviewedBy, comments *string) error {
	updates := map[string]interface{}{"status": status}
	if reviewedBy != nil {
		updates["reviewed_by"] = *reviewedBy
	}
	if comments != nil {
		updates["review_comments"] = *comments
	}

	result := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Application{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}
