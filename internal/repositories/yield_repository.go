package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tuanle03/assetbridge/internal/db"
	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
)

type yieldRepository struct {
	db *db.DB
}

// NewYieldRepository creates a new yield distribution repository
func NewYieldRepository(database *db.DB) YieldRepository {
	return &yieldRepository{db: database}
}

func (r *yieldRepository) Create(ctx context.Context, dist *models.YieldDistribution) error {
	if dist.ID == "" {
		dist.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(dist).Error; err != nil {
		return fmt.Errorf("failed to create yield distribution: %w", err)
	}
	return nil
}

func (r *yieldRepository) GetByID(ctx context.Context, id string) (*models.YieldDistribution, error) {
	var dist models.YieldDistribution
	if err := r.db.WithContext(ctx).First(&dist, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDistributionNotFound
		}
		return nil, fmt.Errorf("failed to get yield distribution: %w", err)
	}
	return &dist, nil
}

func (r *yieldRepository) ListByAsset(ctx context.Context, assetID string) ([]*models.YieldDistribution, error) {
	var dists []*models.YieldDistribution
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC").
		Find(&dists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list yield distributions: %w", err)
	}
	return dists, nil
}

func (r *yieldRepository) List(ctx context.Context, limit, offset int) ([]*models.YieldDistribution, error) {
	query := r.db.WithContext(ctx).Model(&models.YieldDistribution{}).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var dists []*models.YieldDistribution
	if err := query.Find(&dists).Error; err != nil {
		return nil, fmt.Errorf("failed to list yield distributions: %w", err)
	}
	return dists, nil
}

func (r *yieldRepository) Update(ctx context.Context, dist *models.YieldDistribution) error {
	result := r.db.WithContext(ctx).Model(&models.YieldDistribution{}).
		Where("id = ?", dist.ID).
		Updates(map[string]interface{}{
			"total_amount":    dist.TotalAmount,
			"recipient_count": dist.RecipientCount,
			"status":          dist.Status,
			"executed_at":     dist.ExecutedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update yield distribution: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrDistributionNotFound
	}
	return nil
}

// Distribute credits every holder's cash balance and appends the yield_payout
// transactions atomically, then marks the distribution completed.
func (r *yieldRepository) Distribute(ctx context.Context, dist *models.YieldDistribution, payouts []*models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		for _, payout := range payouts {
			if payout.ID == "" {
				payout.ID = uuid.NewString()
			}
			result := dbtx.Model(&models.Portfolio{}).
				Where("wallet_address = ?", payout.WalletAddress).
				Update("cash_balance", gorm.Expr("cash_balance + ?", payout.ValueUSD))
			if result.Error != nil {
				return fmt.Errorf("failed to credit payout: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("no portfolio for holder %s", payout.WalletAddress)
			}

			if err := dbtx.Create(payout).Error; err != nil {
				return fmt.Errorf("failed to create payout transaction: %w", err)
			}
		}

		result := dbtx.Model(&models.YieldDistribution{}).
			Where("id = ?", dist.ID).
			Updates(map[string]interface{}{
				"total_amount":    dist.TotalAmount,
				"recipient_count": dist.RecipientCount,
				"status":          dist.Status,
				"executed_at":     dist.ExecutedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to finalize distribution: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrDistributionNotFound
		}
		return nil
	})
}
