package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tuanle03/assetbridge/internal/chain"
	"github.com/tuanle03/assetbridge/internal/db"
	"github.com/tuanle03/assetbridge/internal/repositories"
	"github.com/tuanle03/assetbridge/internal/testutil"
)

// testStack wires real repositories over an in-memory database with the
// chain bridge disabled.
type testStack struct {
	db         *db.DB
	assets     repositories.AssetRepository
	apps       repositories.ApplicationRepository
	users      repositories.UserRepository
	portfolios repositories.PortfolioRepository
	txs        repositories.TransactionRepository
	yields     repositories.YieldRepository
	bridge     chain.Bridge
	logger     *zap.Logger
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	gdb := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, gdb) })
	database := &db.DB{DB: gdb}

	bridge, err := chain.New(&chain.Config{}, zap.NewNop())
	require.NoError(t, err)

	return &testStack{
		db:         database,
		assets:     repositories.NewAssetRepository(database),
		apps:       repositories.NewApplicationRepository(database),
		users:      repositories.NewUserRepository(database),
		portfolios: repositories.NewPortfolioRepository(database),
		txs:        repositories.NewTransactionRepository(database),
		yields:     repositories.NewYieldRepository(database),
		bridge:     bridge,
		logger:     zap.NewNop(),
	}
}

func (s *testStack) portfolioService() PortfolioService {
	return NewPortfolioService(s.portfolios, s.assets, s.users, s.txs, s.bridge, s.logger)
}

func (s *testStack) applicationService() ApplicationService {
	return NewApplicationService(s.apps, s.assets, s.bridge, s.logger)
}

func (s *testStack) yieldService() YieldService {
	return NewYieldService(s.yields, s.assets, s.portfolios, s.txs, s.logger)
}

// fakeBridge satisfies chain.Bridge with canned share balances, for tests
// that exercise on-chain reconciliation without an RPC endpoint.
type fakeBridge struct {
	shares map[uint64]decimal.Decimal
}

func (f *fakeBridge) Enabled() bool { return true }

func (f *fakeBridge) PaymentBalance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeBridge) Allowance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeBridge) ShareBalance(_ context.Context, registryID uint64, _ string) (decimal.Decimal, error) {
	return f.shares[registryID], nil
}

func (f *fakeBridge) Invest(context.Context, uint64, decimal.Decimal) (string, error) {
	return "0xf00d", nil
}

func (f *fakeBridge) Redeem(context.Context, uint64, decimal.Decimal) (string, error) {
	return "0xbeef", nil
}

func (f *fakeBridge) RegisterAsset(context.Context, string, decimal.Decimal) (uint64, string, error) {
	return 1, "0xcafe", nil
}

func (f *fakeBridge) ExchangeMNT(context.Context, decimal.Decimal) (string, error) {
	return "0xd00d", nil
}
