package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tuanle03/assetbridge/internal/models"
)

// AssetService defines the interface for marketplace asset operations
type AssetService interface {
	CreateAsset(ctx context.Context, asset *models.Asset) error
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	ListAssets(ctx context.Context, filter *models.AssetFilter) ([]*models.Asset, error)
	UpdateAsset(ctx context.Context, asset *models.Asset) error
	DeleteAsset(ctx context.Context, id string) error
}

// ApplicationService defines the interface for the asset application
// review workflow
type ApplicationService interface {
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	ClaimForReview(ctx context.Context, id, adminWallet string) (*models.Application, error)
	ListApplications(ctx context.Context, filter *models.ApplicationFilter) ([]*models.Application, error)
	UpdateApplication(ctx context.Context, app *models.Application) error
	Review(ctx context.Context, id, action, adminWallet string, comments *string) (*models.Application, error)
	DeleteApplication(ctx context.Context, id string) error
}

// PortfolioService defines the interface for portfolio aggregation and
// invest/redeem order flow
type PortfolioService interface {
	GetSummary(ctx context.Context, wallet string) (*models.PortfolioSummary, error)
	Invest(ctx context.Context, wallet, assetID string, amountUSD decimal.Decimal) (*models.Transaction, error)
	Redeem(ctx context.Context, wallet, assetID string, shares decimal.Decimal) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error)
}

// YieldService defines the interface for yield projection and distribution
type YieldService interface {
	ListPendingYields(ctx context.Context) ([]*models.PendingYield, error)
	ExecuteDistribution(ctx context.Context, assetID string) (*models.YieldDistribution, error)
	ListDistributions(ctx context.Context, assetID string, limit, offset int) ([]*models.YieldDistribution, error)
	GetYieldCurve(ctx context.Context, wallet string) (*models.YieldCurve, error)
}

// AdminService defines the interface for admin identity and user management
type AdminService interface {
	ResolveAdmin(ctx context.Context, wallet string) (*models.Admin, error)
	UpsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, wallet string) (*models.User, error)
}
