package integration

import (
	"testing"

	"go.uber.org/zap"

	"github.com/tuanle03/assetbridge/internal/chain"
	"github.com/tuanle03/assetbridge/internal/repositories"
	"github.com/tuanle03/assetbridge/internal/services"
)

// stack is the full service layer wired over a container database with the
// chain bridge disabled.
type stack struct {
	assets     services.AssetService
	apps       services.ApplicationService
	portfolios services.PortfolioService
	yields     services.YieldService
	admins     services.AdminService

	assetRepo     repositories.AssetRepository
	portfolioRepo repositories.PortfolioRepository
	txRepo        repositories.TransactionRepository
}

func newStack(t *testing.T, tdb *testDB) *stack {
	t.Helper()
	logger := zap.NewNop()

	bridge, err := chain.New(&chain.Config{}, logger)
	if err != nil {
		t.Fatalf("Failed to build chain bridge: %v", err)
	}

	assetRepo := repositories.NewAssetRepository(tdb.database)
	appRepo := repositories.NewApplicationRepository(tdb.database)
	userRepo := repositories.NewUserRepository(tdb.database)
	portfolioRepo := repositories.NewPortfolioRepository(tdb.database)
	txRepo := repositories.NewTransactionRepository(tdb.database)
	yieldRepo := repositories.NewYieldRepository(tdb.database)

	return &stack{
		assets:        services.NewAssetService(assetRepo),
		apps:          services.NewApplicationService(appRepo, assetRepo, bridge, logger),
		portfolios:    services.NewPortfolioService(portfolioRepo, assetRepo, userRepo, txRepo, bridge, logger),
		yields:        services.NewYieldService(yieldRepo, assetRepo, portfolioRepo, txRepo, logger),
		admins:        services.NewAdminService(userRepo),
		assetRepo:     assetRepo,
		portfolioRepo: portfolioRepo,
		txRepo:        txRepo,
	}
}
