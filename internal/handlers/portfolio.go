package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/services"
)

type PortfolioHandler struct {
	portfolioService services.PortfolioService
	yieldService     services.YieldService
	logger           *zap.Logger
}

func NewPortfolioHandler(portfolioService services.PortfolioService, yieldService services.YieldService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		yieldService:     yieldService,
		logger:           logger,
	}
}

// orderRequest is the POST /api/portfolio payload.
type orderRequest struct {
	Action  string          `json:"action"`
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
	Shares  decimal.Decimal `json:"shares"`
}

// walletFrom resolves the caller's wallet from the x-wallet-address header
// or a wallet query parameter.
func walletFrom(r *http.Request) string {
	if wallet := r.Header.Get(WalletHeader); wallet != "" {
		return wallet
	}
	return r.URL.Query().Get("wallet")
}

// HandlePortfolio handles the aggregated portfolio view and order placement.
// @Summary Get portfolio summary or place an invest/redeem order
// @Tags portfolio
// @Accept json
// @Produce json
// @Param x-wallet-address header string true "Caller wallet"
// @Success 200 {object} models.PortfolioSummary
// @Failure 400 {object} errorBody
// @Failure 401 {object} errorBody
// @Router /portfolio [get]
// @Router /portfolio [post]
func (h *PortfolioHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	wallet := walletFrom(r)
	if wallet == "" {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}

	switch r.Method {
	case http.MethodGet:
		summary, err := h.portfolioService.GetSummary(r.Context(), wallet)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)

	case http.MethodPost:
		h.placeOrder(w, r, wallet)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
	}
}

func (h *PortfolioHandler) placeOrder(w http.ResponseWriter, r *http.Request, wallet string) {
	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.AssetID == "" {
		writeError(w, h.logger, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset_id is required"))
		return
	}

	var tx *models.Transaction
	var err error
	switch req.Action {
	case models.TxTypeInvest:
		tx, err = h.portfolioService.Invest(r.Context(), wallet, req.AssetID, req.Amount)
	case models.TxTypeRedeem:
		tx, err = h.portfolioService.Redeem(r.Context(), wallet, req.AssetID, req.Shares)
	default:
		writeError(w, h.logger, apperrors.WithMessage(apperrors.ErrInvalidInput, "action must be invest or redeem"))
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// HandleTransactions lists the caller's transactions.
// @Summary List transactions for the caller
// @Tags portfolio
// @Produce json
// @Param types query string false "Comma-separated transaction types"
// @Param statuses query string false "Comma-separated statuses"
// @Success 200 {array} models.Transaction
// @Router /portfolio/transactions [get]
func (h *PortfolioHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	wallet := walletFrom(r)
	if wallet == "" {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
		return
	}

	filter := &models.TransactionFilter{WalletAddress: &wallet}
	if types := r.URL.Query().Get("types"); types != "" {
		filter.Types = strings.Split(types, ",")
	}
	if statuses := r.URL.Query().Get("statuses"); statuses != "" {
		filter.Statuses = strings.Split(statuses, ",")
	}
	parseLimitOffset(r, &filter.Limit, &filter.Offset)

	txs, err := h.portfolioService.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// HandleYieldCurve serves the 30-day realized-yield chart for the caller.
// @Summary Get the 30-day yield curve
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.YieldCurve
// @Router /portfolio/yield-curve [get]
func (h *PortfolioHandler) HandleYieldCurve(w http.ResponseWriter, r *http.Request) {
	wallet := walletFrom(r)
	if wallet == "" {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
		return
	}

	curve, err := h.yieldService.GetYieldCurve(r.Context(), wallet)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, curve)
}
