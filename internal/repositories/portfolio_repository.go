package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tuanle03/assetbridge/internal/db"
	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
)

type portfolioRepository struct {
	db *db.DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(database *db.DB) PortfolioRepository {
	return &portfolioRepository{db: database}
}

func (r *portfolioRepository) GetOrCreate(ctx context.Context, wallet string) (*models.Portfolio, error) {
	wallet = models.NormalizeWallet(wallet)

	var portfolio models.Portfolio
	err := r.db.WithContext(ctx).First(&portfolio, "wallet_address = ?", wallet).Error
	if err == nil {
		return &portfolio, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	portfolio = models.Portfolio{WalletAddress: wallet, CashBalance: decimal.Zero}
	if err := r.db.WithContext(ctx).Create(&portfolio).Error; err != nil {
		// Lost a race with a concurrent create; re-read the winner's row
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := r.db.WithContext(ctx).First(&portfolio, "wallet_address = ?", wallet).Error; err != nil {
				return nil, fmt.Errorf("failed to get portfolio: %w", err)
			}
			return &portfolio, nil
		}
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}
	return &portfolio, nil
}

func (r *portfolioRepository) UpdateCash(ctx context.Context, wallet string, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.Portfolio{}).
		Where("wallet_address = ?", models.NormalizeWallet(wallet)).
		Update("cash_balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update cash balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *portfolioRepository) GetHolding(ctx context.Context, wallet, assetID string) (*models.Holding, error) {
	var holding models.Holding
	err := r.db.WithContext(ctx).
		First(&holding, "wallet_address = ? AND asset_id = ?", models.NormalizeWallet(wallet), assetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	return &holding, nil
}

func (r *portfolioRepository) GetHoldings(ctx context.Context, wallet string) ([]*models.Holding, error) {
	var holdings []*models.Holding
	err := r.db.WithContext(ctx).
		Where("wallet_address = ? AND shares > 0", models.NormalizeWallet(wallet)).
		Order("created_at ASC").
		Find(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	return holdings, nil
}

func (r *portfolioRepository) GetHoldingsByAsset(ctx context.Context, assetID string) ([]*models.Holding, error) {
	var holdings []*models.Holding
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND shares > 0", assetID).
		Find(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings by asset: %w", err)
	}
	return holdings, nil
}

func (r *portfolioRepository) UpsertHolding(ctx context.Context, holding *models.Holding) error {
	if holding.ID == "" {
		holding.ID = uuid.NewString()
	}
	holding.WalletAddress = models.NormalizeWallet(holding.WalletAddress)
	if err := r.db.WithContext(ctx).Save(holding).Error; err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

// Invest debits cash, credits shares, bumps the asset's AUM, and appends the
// transaction row in one database transaction. The cash debit is guarded in
// the UPDATE itself so two concurrent orders cannot overspend the balance.
func (r *portfolioRepository) Invest(ctx context.Context, wallet, assetID string, shares, amount decimal.Decimal, tx *models.Transaction) error {
	wallet = models.NormalizeWallet(wallet)
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		result := dbtx.Model(&models.Portfolio{}).
			Where("wallet_address = ? AND cash_balance >= ?", wallet, amount).
			Update("cash_balance", gorm.Expr("cash_balance - ?", amount))
		if result.Error != nil {
			return fmt.Errorf("failed to debit cash: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInsufficientCash
		}

		var holding models.Holding
		err := dbtx.First(&holding, "wallet_address = ? AND asset_id = ?", wallet, assetID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			holding = models.Holding{
				ID:            uuid.NewString(),
				WalletAddress: wallet,
				AssetID:       assetID,
				Shares:        shares,
			}
			if err := dbtx.Create(&holding).Error; err != nil {
				return fmt.Errorf("failed to create holding: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to get holding: %w", err)
		default:
			if err := dbtx.Model(&models.Holding{}).
				Where("id = ?", holding.ID).
				Update("shares", gorm.Expr("shares + ?", shares)).Error; err != nil {
				return fmt.Errorf("failed to add shares: %w", err)
			}
		}

		if err := dbtx.Model(&models.Asset{}).
			Where("id = ?", assetID).
			Update("aum_usd", gorm.Expr("aum_usd + ?", amount)).Error; err != nil {
			return fmt.Errorf("failed to adjust asset AUM: %w", err)
		}

		if err := dbtx.Create(tx).Error; err != nil {
			return fmt.Errorf("failed to create invest transaction: %w", err)
		}
		return nil
	})
}

// Redeem debits shares, credits cash with the proceeds, reduces the asset's
// AUM, and appends the transaction row. The share debit is guarded so the
// mirrored holding row can never go negative, whatever the chain said.
func (r *portfolioRepository) Redeem(ctx context.Context, wallet, assetID string, shares, proceeds decimal.Decimal, tx *models.Transaction) error {
	wallet = models.NormalizeWallet(wallet)
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		result := dbtx.Model(&models.Holding{}).
			Where("wallet_address = ? AND asset_id = ? AND shares >= ?", wallet, assetID, shares).
			Update("shares", gorm.Expr("shares - ?", shares))
		if result.Error != nil {
			return fmt.Errorf("failed to debit shares: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInsufficientShares
		}

		if err := dbtx.Model(&models.Portfolio{}).
			Where("wallet_address = ?", wallet).
			Update("cash_balance", gorm.Expr("cash_balance + ?", proceeds)).Error; err != nil {
			return fmt.Errorf("failed to credit proceeds: %w", err)
		}

		if err := dbtx.Model(&models.Asset{}).
			Where("id = ?", assetID).
			Update("aum_usd", gorm.Expr("aum_usd - ?", proceeds)).Error; err != nil {
			return fmt.Errorf("failed to adjust asset AUM: %w", err)
		}

		if err := dbtx.Create(tx).Error; err != nil {
			return fmt.Errorf("failed to create redeem transaction: %w", err)
		}
		return nil
	})
}
