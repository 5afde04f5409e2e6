package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/services"
	"github.com/tuanle03/assetbridge/internal/validator"
)

type AssetHandler struct {
	service services.AssetService
	logger  *zap.Logger
}

func NewAssetHandler(service services.AssetService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{service: service, logger: logger}
}

// assetRequest is the asset creation/update payload.
type assetRequest struct {
	ID              string          `json:"id" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Type            string          `json:"type" validate:"required,asset_type"`
	Issuer          string          `json:"issuer"`
	APY             decimal.Decimal `json:"apy"`
	PriceUSD        decimal.Decimal `json:"price_usd"`
	RiskScore       decimal.Decimal `json:"risk_score"`
	YieldConfidence decimal.Decimal `json:"yield_confidence"`
	DurationMonths  int             `json:"duration_months" validate:"required,gt=0"`
	MinInvestment   decimal.Decimal `json:"min_investment"`
	Status          string          `json:"status" validate:"omitempty,asset_status"`
	NextPayoutDate  *string         `json:"next_payout_date" validate:"omitempty,date"`
}

func (req *assetRequest) toModel() (*models.Asset, error) {
	asset := &models.Asset{
		ID:              req.ID,
		Name:            req.Name,
		Type:            req.Type,
		Issuer:          req.Issuer,
		APY:             req.APY,
		PriceUSD:        req.PriceUSD,
		RiskScore:       req.RiskScore,
		YieldConfidence: req.YieldConfidence,
		DurationMonths:  req.DurationMonths,
		MinInvestment:   req.MinInvestment,
		Status:          req.Status,
	}
	if req.NextPayoutDate != nil && *req.NextPayoutDate != "" {
		date, err := time.Parse("2006-01-02", *req.NextPayoutDate)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "next_payout_date must be YYYY-MM-DD")
		}
		asset.NextPayoutDate = &date
	}
	return asset, nil
}

// HandleAssets handles collection-level operations for assets.
// @Summary List or create assets
// @Description Get the asset marketplace listing or create a new asset (admin)
// @Tags assets
// @Accept json
// @Produce json
// @Param types query string false "Comma-separated asset types"
// @Param statuses query string false "Comma-separated statuses"
// @Param issuer query string false "Issuer name"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Asset
// @Failure 400 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /assets [get]
// @Router /assets [post]
func (h *AssetHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listAssets(w, r)
	case http.MethodPost:
		h.createAsset(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
	}
}

// HandleAsset handles item-level operations for an asset.
// @Summary Get, update, or delete an asset
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} models.Asset
// @Failure 404 {object} errorBody
// @Router /assets/{id} [get]
// @Router /assets/{id} [put]
// @Router /assets/{id} [delete]
func (h *AssetHandler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, h.logger, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset id is required"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getAsset(w, r, id)
	case http.MethodPut:
		h.updateAsset(w, r, id)
	case http.MethodDelete:
		h.deleteAsset(w, r, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
	}
}

func (h *AssetHandler) listAssets(w http.ResponseWriter, r *http.Request) {
	filter := &models.AssetFilter{}
	if types := r.URL.Query().Get("types"); types != "" {
		filter.Types = strings.Split(types, ",")
	}
	if statuses := r.URL.Query().Get("statuses"); statuses != "" {
		filter.Statuses = strings.Split(statuses, ",")
	}
	if issuer := r.URL.Query().Get("issuer"); issuer != "" {
		filter.Issuer = &issuer
	}
	parseLimitOffset(r, &filter.Limit, &filter.Offset)

	assets, err := h.service.ListAssets(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (h *AssetHandler) createAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := validator.Struct(&req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	asset, err := req.toModel()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.service.CreateAsset(r.Context(), asset); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) getAsset(w http.ResponseWriter, r *http.Request, id string) {
	asset, err := h.service.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) updateAsset(w http.ResponseWriter, r *http.Request, id string) {
	var req assetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.ID = id
	if err := validator.Struct(&req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	asset, err := req.toModel()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.service.UpdateAsset(r.Context(), asset); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// deleteAsset is restricted to super admins.
func (h *AssetHandler) deleteAsset(w http.ResponseWriter, r *http.Request, id string) {
	admin := adminFromContext(r.Context())
	if admin == nil || admin.Role != models.AdminRoleSuperAdmin {
		writeError(w, h.logger, apperrors.WithMessage(apperrors.ErrForbidden, "Only super admins can delete assets"))
		return
	}

	if err := h.service.DeleteAsset(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
