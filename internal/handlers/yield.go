package handlers

import (
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/services"
)

type YieldHandler struct {
	service services.YieldService
	logger  *zap.Logger
}

func NewYieldHandler(service services.YieldService, logger *zap.Logger) *YieldHandler {
	return &YieldHandler{service: service, logger: logger}
}

// distributionRequest is the POST /api/admin/yields payload.
type distributionRequest struct {
	AssetID string `json:"asset_id"`
}

// HandleYields handles pending-yield listing and distribution execution.
// @Summary List pending yields or execute a distribution
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {array} models.PendingYield
// @Failure 400 {object} errorBody
// @Failure 401 {object} errorBody
// @Router /admin/yields [get]
// @Router /admin/yields [post]
func (h *YieldHandler) HandleYields(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pending, err := h.service.ListPendingYields(r.Context())
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, pending)

	case http.MethodPost:
		var req distributionRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		if req.AssetID == "" {
			writeError(w, h.logger, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset_id is required"))
			return
		}

		dist, err := h.service.ExecuteDistribution(r.Context(), req.AssetID)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, dist)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
	}
}

// HandleDistributions lists past yield distributions.
// @Summary List yield distribution history
// @Tags admin
// @Produce json
// @Param asset_id query string false "Only distributions for this asset"
// @Success 200 {array} models.YieldDistribution
// @Router /admin/yields/history [get]
func (h *YieldHandler) HandleDistributions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
		return
	}

	var limit, offset int
	parseLimitOffset(r, &limit, &offset)

	dists, err := h.service.ListDistributions(r.Context(), r.URL.Query().Get("asset_id"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dists)
}
