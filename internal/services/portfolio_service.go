package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tuanle03/assetbridge/internal/chain"
	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/repositories"
)

// assetTypeLabels maps the stored type enum to the dashboard's bucket labels.
var assetTypeLabels = map[string]string{
	models.AssetTypeFixedIncome:   "Fixed Income",
	models.AssetTypeRealEstate:    "Real Estate",
	models.AssetTypePrivateCredit: "Private Credit",
	models.AssetTypeAlternatives:  "Alternatives",
}

type portfolioService struct {
	portfolioRepo repositories.PortfolioRepository
	assetRepo     repositories.AssetRepository
	userRepo      repositories.UserRepository
	txRepo        repositories.TransactionRepository
	bridge        chain.Bridge
	logger        *zap.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(
	portfolioRepo repositories.PortfolioRepository,
	assetRepo repositories.AssetRepository,
	userRepo repositories.UserRepository,
	txRepo repositories.TransactionRepository,
	bridge chain.Bridge,
	logger *zap.Logger,
) PortfolioService {
	return &portfolioService{
		portfolioRepo: portfolioRepo,
		assetRepo:     assetRepo,
		userRepo:      userRepo,
		txRepo:        txRepo,
		bridge:        bridge,
		logger:        logger,
	}
}

// snapshot loads the user's holdings joined with asset pricing, overlaying
// on-chain share balances when the bridge can provide them.
func (s *portfolioService) snapshot(ctx context.Context, wallet string) ([]*models.PositionSnapshot, error) {
	holdings, err := s.portfolioRepo.GetHoldings(ctx, wallet)
	if err != nil {
		return nil, err
	}

	positions := make([]*models.PositionSnapshot, 0, len(holdings))
	for _, h := range holdings {
		asset, err := s.assetRepo.GetByID(ctx, h.AssetID)
		if err != nil {
			return nil, err
		}

		pos := &models.PositionSnapshot{
			AssetID:    asset.ID,
			AssetName:  asset.Name,
			AssetType:  asset.Type,
			Status:     asset.Status,
			Shares:     h.Shares,
			PriceUSD:   asset.PriceUSD,
			APY:        asset.APY,
			RiskScore:  asset.RiskScore,
			NextPayout: asset.NextPayoutDate,
		}

		if s.bridge.Enabled() && asset.RegistryID != nil {
			onChain, err := s.bridge.ShareBalance(ctx, *asset.RegistryID, wallet)
			if err != nil {
				// Chain reads are best effort; fall back to the mirrored row
				s.logger.Warn("on-chain balance read failed",
					zap.String("asset_id", asset.ID),
					zap.Error(err))
			} else {
				pos.OnChainShares = &onChain
			}
		}

		positions = append(positions, pos)
	}
	return positions, nil
}

// Aggregate derives the dashboard metrics from a cash balance and position
// snapshot. Pure; all zero-AUM divisions collapse to zero.
func Aggregate(wallet string, cash decimal.Decimal, positions []*models.PositionSnapshot) *models.PortfolioSummary {
	invested := decimal.Zero
	weightedAPY := decimal.Zero
	weightedRisk := decimal.Zero
	byType := map[string]decimal.Decimal{}

	for _, pos := range positions {
		value := pos.Value()
		invested = invested.Add(value)

		label, ok := assetTypeLabels[pos.AssetType]
		if !ok {
			label = pos.AssetType
		}
		byType[label] = byType[label].Add(value)

		weightedAPY = weightedAPY.Add(value.Mul(pos.APY))
		weightedRisk = weightedRisk.Add(value.Mul(pos.RiskScore))
	}

	totalAUM := cash.Add(invested)

	// Weighted APY is over invested value only; weighted risk is over the
	// whole AUM, cash counting as zero risk.
	if invested.IsPositive() {
		weightedAPY = weightedAPY.Div(invested)
	} else {
		weightedAPY = decimal.Zero
	}
	if totalAUM.IsPositive() {
		weightedRisk = weightedRisk.Div(totalAUM)
	} else {
		weightedRisk = decimal.Zero
	}

	allocation := make([]models.AllocationBucket, 0, len(byType)+1)
	if cash.IsPositive() {
		byType["Cash"] = cash
	}
	for label, value := range byType {
		bucket := models.AllocationBucket{Label: label, Value: value}
		if totalAUM.IsPositive() {
			bucket.Percent = value.Div(totalAUM).Mul(decimal.NewFromInt(100)).Round(2)
		}
		allocation = append(allocation, bucket)
	}
	sort.Slice(allocation, func(i, j int) bool {
		return allocation[i].Value.GreaterThan(allocation[j].Value)
	})

	return &models.PortfolioSummary{
		WalletAddress: wallet,
		CashBalance:   cash,
		InvestedValue: invested,
		TotalAUM:      totalAUM,
		WeightedAPY:   weightedAPY.Round(4),
		WeightedRisk:  weightedRisk.Round(2),
		Allocation:    allocation,
		Positions:     positions,
	}
}

func (s *portfolioService) GetSummary(ctx context.Context, wallet string) (*models.PortfolioSummary, error) {
	wallet = models.NormalizeWallet(wallet)

	portfolio, err := s.portfolioRepo.GetOrCreate(ctx, wallet)
	if err != nil {
		return nil, err
	}
	positions, err := s.snapshot(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return Aggregate(wallet, portfolio.CashBalance, positions), nil
}

// Invest places an investment order: units = amount / price, cash is
// debited, the holding and asset AUM grow, and a transaction row is
// appended. With an on-chain asset the vault call runs after the database
// movements; its failure marks the transaction failed without undoing them.
func (s *portfolioService) Invest(ctx context.Context, wallet, assetID string, amountUSD decimal.Decimal) (*models.Transaction, error) {
	wallet = models.NormalizeWallet(wallet)

	if !amountUSD.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	user, err := s.userRepo.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if !user.CanInvest() {
		return nil, apperrors.ErrUserNotEligible
	}

	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.Status != models.AssetStatusActive {
		return nil, apperrors.ErrAssetNotActive
	}
	if amountUSD.LessThan(asset.MinInvestment) {
		return nil, apperrors.ErrBelowMinInvestment
	}
	if !asset.PriceUSD.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset has no positive unit price")
	}

	if _, err := s.portfolioRepo.GetOrCreate(ctx, wallet); err != nil {
		return nil, err
	}

	units := amountUSD.Div(asset.PriceUSD)
	tx := &models.Transaction{
		WalletAddress: wallet,
		AssetID:       assetID,
		Type:          models.TxTypeInvest,
		Amount:        units,
		ValueUSD:      amountUSD,
		Status:        models.TxStatusPending,
	}

	if err := s.portfolioRepo.Invest(ctx, wallet, assetID, units, amountUSD, tx); err != nil {
		return nil, err
	}

	return s.settleOnChain(ctx, tx, asset, units, true)
}

// Redeem sells shares back: eligibility is checked against the effective
// balance (on-chain preferred when positive), the holding row is debited,
// cash is credited with shares x price.
func (s *portfolioService) Redeem(ctx context.Context, wallet, assetID string, shares decimal.Decimal) (*models.Transaction, error) {
	wallet = models.NormalizeWallet(wallet)

	if !shares.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "shares must be positive")
	}

	user, err := s.userRepo.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if user.Frozen {
		return nil, apperrors.ErrUserNotEligible
	}

	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	holding, err := s.portfolioRepo.GetHolding(ctx, wallet, assetID)
	if err != nil {
		return nil, apperrors.ErrInsufficientShares
	}

	effective := holding.Shares
	if s.bridge.Enabled() && asset.RegistryID != nil {
		onChain, err := s.bridge.ShareBalance(ctx, *asset.RegistryID, wallet)
		if err == nil && onChain.IsPositive() {
			effective = onChain
			// The chain balance wins: the mirrored row is synced to it
			// before the guarded debit, otherwise a redemption backed by
			// shares the mirror has not caught up with would be rejected.
			if !onChain.Equal(holding.Shares) {
				holding.Shares = onChain
				if err := s.portfolioRepo.UpsertHolding(ctx, holding); err != nil {
					return nil, err
				}
			}
		}
	}
	if shares.GreaterThan(effective) {
		return nil, apperrors.ErrInsufficientShares
	}

	proceeds := shares.Mul(asset.PriceUSD)
	tx := &models.Transaction{
		WalletAddress: wallet,
		AssetID:       assetID,
		Type:          models.TxTypeRedeem,
		Amount:        shares,
		ValueUSD:      proceeds,
		Status:        models.TxStatusPending,
	}

	if err := s.portfolioRepo.Redeem(ctx, wallet, assetID, shares, proceeds, tx); err != nil {
		return nil, err
	}

	return s.settleOnChain(ctx, tx, asset, shares, false)
}

// settleOnChain submits the matching vault call for an already-applied
// database order. Off chain (bridge disabled or unregistered asset) the
// transaction confirms immediately. A chain failure marks the transaction
// failed and surfaces the classified reason; the database movements stand,
// reconciliation preferring chain state on the next read.
func (s *portfolioService) settleOnChain(ctx context.Context, tx *models.Transaction, asset *models.Asset, units decimal.Decimal, investing bool) (*models.Transaction, error) {
	if !s.bridge.Enabled() || asset.RegistryID == nil {
		if err := s.txRepo.UpdateStatus(ctx, tx.ID, models.TxStatusConfirmed, nil); err != nil {
			return nil, err
		}
		tx.Status = models.TxStatusConfirmed
		return tx, nil
	}

	var txHash string
	var err error
	if investing {
		txHash, err = s.bridge.Invest(ctx, *asset.RegistryID, units)
	} else {
		txHash, err = s.bridge.Redeem(ctx, *asset.RegistryID, units)
	}
	if err != nil {
		reason, msg := chain.Classify(err)
		s.logger.Warn("chain settlement failed",
			zap.String("transaction_id", tx.ID),
			zap.String("reason", string(reason)),
			zap.Error(err))
		if updErr := s.txRepo.UpdateStatus(ctx, tx.ID, models.TxStatusFailed, nil); updErr != nil {
			s.logger.Error("failed to mark transaction failed", zap.Error(updErr))
		}
		tx.Status = models.TxStatusFailed
		return tx, apperrors.WithMessage(apperrors.ErrInvalidInput, msg)
	}

	if err := s.txRepo.UpdateStatus(ctx, tx.ID, models.TxStatusConfirmed, &txHash); err != nil {
		return nil, err
	}
	tx.Status = models.TxStatusConfirmed
	tx.ChainTxHash = &txHash
	return tx, nil
}

func (s *portfolioService) ListTransactions(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error) {
	return s.txRepo.List(ctx, filter)
}
