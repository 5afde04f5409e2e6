package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tuanle03/assetbridge/internal/models"
)

// AssetRepository defines the interface for asset data operations
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context, filter *models.AssetFilter) ([]*models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, id string) error
}

// ApplicationRepository defines the interface for application data operations
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, filter *models.ApplicationFilter) ([]*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	UpdateStatus(ctx context.Context, id, status string, reviewedBy, comments *string) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user and admin data operations
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByWallet(ctx context.Context, wallet string) (*models.User, error)
	GetAdmin(ctx context.Context, wallet string) (*models.Admin, error)
}

// PortfolioRepository defines the interface for portfolio and holding data operations
type PortfolioRepository interface {
	GetOrCreate(ctx context.Context, wallet string) (*models.Portfolio, error)
	UpdateCash(ctx context.Context, wallet string, balance decimal.Decimal) error
	GetHolding(ctx context.Context, wallet, assetID string) (*models.Holding, error)
	GetHoldings(ctx context.Context, wallet string) ([]*models.Holding, error)
	GetHoldingsByAsset(ctx context.Context, assetID string) ([]*models.Holding, error)
	UpsertHolding(ctx context.Context, holding *models.Holding) error

	// Invest and Redeem apply the cash and share movements of a single
	// order atomically together with the appended transaction row.
	Invest(ctx context.Context, wallet, assetID string, shares, amount decimal.Decimal, tx *models.Transaction) error
	Redeem(ctx context.Context, wallet, assetID string, shares, proceeds decimal.Decimal, tx *models.Transaction) error
}

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error)
	UpdateStatus(ctx context.Context, id, status string, chainTxHash *string) error
}

// YieldRepository defines the interface for yield distribution data operations
type YieldRepository interface {
	Create(ctx context.Context, dist *models.YieldDistribution) error
	GetByID(ctx context.Context, id string) (*models.YieldDistribution, error)
	ListByAsset(ctx context.Context, assetID string) ([]*models.YieldDistribution, error)
	List(ctx context.Context, limit, offset int) ([]*models.YieldDistribution, error)
	Update(ctx context.Context, dist *models.YieldDistribution) error

	// Distribute credits each payout to the holder's portfolio cash and
	// appends the yield_payout transactions in one database transaction.
	Distribute(ctx context.Context, dist *models.YieldDistribution, payouts []*models.Transaction) error
}
