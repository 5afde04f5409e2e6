package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/repositories"
)

// yieldCurveDays is the length of the realized-yield window.
const yieldCurveDays = 30

var months = decimal.NewFromInt(12)
var hundred = decimal.NewFromInt(100)

// MonthlyYield returns invested x APY/100/12 rounded to cents. This is the
// platform's simulated accrual: simple interest, one month at a time.
func MonthlyYield(invested, apy decimal.Decimal) decimal.Decimal {
	return invested.Mul(apy).Div(hundred).Div(months).Round(2)
}

type yieldService struct {
	yieldRepo     repositories.YieldRepository
	assetRepo     repositories.AssetRepository
	portfolioRepo repositories.PortfolioRepository
	txRepo        repositories.TransactionRepository
	logger        *zap.Logger
}

// NewYieldService creates a new yield service
func NewYieldService(
	yieldRepo repositories.YieldRepository,
	assetRepo repositories.AssetRepository,
	portfolioRepo repositories.PortfolioRepository,
	txRepo repositories.TransactionRepository,
	logger *zap.Logger,
) YieldService {
	return &yieldService{
		yieldRepo:     yieldRepo,
		assetRepo:     assetRepo,
		portfolioRepo: portfolioRepo,
		txRepo:        txRepo,
		logger:        logger,
	}
}

// ListPendingYields computes the simulated accrued-but-unpaid yield for every
// asset that has holders.
func (s *yieldService) ListPendingYields(ctx context.Context) ([]*models.PendingYield, error) {
	assets, err := s.assetRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	pending := make([]*models.PendingYield, 0, len(assets))
	for _, asset := range assets {
		holdings, err := s.portfolioRepo.GetHoldingsByAsset(ctx, asset.ID)
		if err != nil {
			return nil, err
		}

		totalShares := decimal.Zero
		for _, h := range holdings {
			totalShares = totalShares.Add(h.Shares)
		}
		invested := totalShares.Mul(asset.PriceUSD)

		pending = append(pending, &models.PendingYield{
			AssetID:       asset.ID,
			AssetName:     asset.Name,
			TotalInvested: invested,
			APY:           asset.APY,
			PendingAmount: MonthlyYield(invested, asset.APY),
			HolderCount:   len(holdings),
		})
	}
	return pending, nil
}

// ExecuteDistribution pays one month of simulated yield for an asset to all
// current holders: each holder's cash is credited with their position's
// monthly yield and a confirmed yield_payout transaction is appended.
func (s *yieldService) ExecuteDistribution(ctx context.Context, assetID string) (*models.YieldDistribution, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.portfolioRepo.GetHoldingsByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, apperrors.ErrNoHolders
	}

	dist := &models.YieldDistribution{
		AssetID: assetID,
		Status:  models.DistributionStatusScheduled,
	}
	if err := s.yieldRepo.Create(ctx, dist); err != nil {
		return nil, err
	}

	dist.Status = models.DistributionStatusProcessing
	if err := s.yieldRepo.Update(ctx, dist); err != nil {
		return nil, err
	}

	total := decimal.Zero
	payouts := make([]*models.Transaction, 0, len(holdings))
	for _, h := range holdings {
		amount := MonthlyYield(h.Shares.Mul(asset.PriceUSD), asset.APY)
		if !amount.IsPositive() {
			continue
		}
		total = total.Add(amount)
		payouts = append(payouts, &models.Transaction{
			WalletAddress: h.WalletAddress,
			AssetID:       assetID,
			Type:          models.TxTypeYieldPayout,
			Amount:        h.Shares,
			ValueUSD:      amount,
			Status:        models.TxStatusConfirmed,
		})
	}

	now := time.Now().UTC()
	dist.TotalAmount = total
	dist.RecipientCount = len(payouts)
	dist.Status = models.DistributionStatusCompleted
	dist.ExecutedAt = &now

	if err := s.yieldRepo.Distribute(ctx, dist, payouts); err != nil {
		dist.Status = models.DistributionStatusFailed
		dist.ExecutedAt = nil
		if updErr := s.yieldRepo.Update(ctx, dist); updErr != nil {
			s.logger.Error("failed to mark distribution failed",
				zap.String("distribution_id", dist.ID),
				zap.Error(updErr))
		}
		return nil, err
	}

	s.logger.Info("yield distribution executed",
		zap.String("asset_id", assetID),
		zap.String("total", total.String()),
		zap.Int("recipients", len(payouts)))
	return dist, nil
}

// ListDistributions returns history newest first, optionally scoped to one asset.
func (s *yieldService) ListDistributions(ctx context.Context, assetID string, limit, offset int) ([]*models.YieldDistribution, error) {
	if assetID != "" {
		return s.yieldRepo.ListByAsset(ctx, assetID)
	}
	return s.yieldRepo.List(ctx, limit, offset)
}

// GetYieldCurve buckets the wallet's confirmed yield payouts from the last
// 30 days by calendar day, weighting each sample by the asset's current
// share of the portfolio's invested value. Upcoming payout dates for held
// assets land on the same day axis as markers.
func (s *yieldService) GetYieldCurve(ctx context.Context, wallet string) (*models.YieldCurve, error) {
	wallet = models.NormalizeWallet(wallet)

	holdings, err := s.portfolioRepo.GetHoldings(ctx, wallet)
	if err != nil {
		return nil, err
	}

	// Current value per asset and the invested total for weighting
	values := map[string]decimal.Decimal{}
	payoutDates := map[string]*time.Time{}
	invested := decimal.Zero
	for _, h := range holdings {
		asset, err := s.assetRepo.GetByID(ctx, h.AssetID)
		if err != nil {
			return nil, err
		}
		value := h.Shares.Mul(asset.PriceUSD)
		values[h.AssetID] = value
		payoutDates[h.AssetID] = asset.NextPayoutDate
		invested = invested.Add(value)
	}

	now := time.Now().UTC()
	windowStart := now.AddDate(0, 0, -(yieldCurveDays - 1)).Truncate(24 * time.Hour)

	txType := models.TxTypeYieldPayout
	status := models.TxStatusConfirmed
	samples, err := s.txRepo.List(ctx, &models.TransactionFilter{
		WalletAddress: &wallet,
		Types:         []string{txType},
		Statuses:      []string{status},
		StartDate:     &windowStart,
	})
	if err != nil {
		return nil, err
	}

	curve := &models.YieldCurve{
		Points:  make([]models.YieldCurvePoint, yieldCurveDays),
		Markers: []models.PayoutMarker{},
	}
	for i := 0; i < yieldCurveDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		curve.Points[i] = models.YieldCurvePoint{
			DayIndex: i,
			Date:     day.Format("2006-01-02"),
			Amount:   decimal.Zero,
		}
	}

	for _, sample := range samples {
		idx := int(sample.CreatedAt.UTC().Truncate(24*time.Hour).Sub(windowStart).Hours() / 24)
		if idx < 0 || idx >= yieldCurveDays {
			continue
		}

		weight := decimal.NewFromInt(1)
		if invested.IsPositive() {
			if value, ok := values[sample.AssetID]; ok {
				weight = value.Div(invested)
			}
		}
		curve.Points[idx].Amount = curve.Points[idx].Amount.Add(sample.ValueUSD.Mul(weight)).Round(2)
	}

	for assetID, payout := range payoutDates {
		if payout == nil {
			continue
		}
		idx := int(payout.UTC().Truncate(24*time.Hour).Sub(windowStart).Hours() / 24)
		if idx < 0 || idx >= yieldCurveDays {
			continue
		}
		curve.Markers = append(curve.Markers, models.PayoutMarker{
			AssetID:  assetID,
			DayIndex: idx,
			Date:     payout.Format("2006-01-02"),
		})
	}

	return curve, nil
}
