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

type ApplicationHandler struct {
	service services.ApplicationService
	logger  *zap.Logger
}

func NewApplicationHandler(service services.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{service: service, logger: logger}
}

// applicationRequest is the application creation/edit payload.
type applicationRequest struct {
	Name            string          `json:"name" validate:"required"`
	Type            string          `json:"type" validate:"required,asset_type"`
	Issuer          string          `json:"issuer" validate:"required"`
	SubmitterWallet string          `json:"submitter_wallet" validate:"required,wallet"`
	APY             decimal.Decimal `json:"apy"`
	PriceUSD        decimal.Decimal `json:"price_usd"`
	RiskScore       decimal.Decimal `json:"risk_score"`
	YieldConfidence decimal.Decimal `json:"yield_confidence"`
	DurationMonths  int             `json:"duration_months" validate:"required,gt=0"`
	MinInvestment   decimal.Decimal `json:"min_investment"`
	NextPayoutDate  *string         `json:"next_payout_date" validate:"omitempty,date"`
	Metadata        models.JSONMap  `json:"metadata"`
	Draft           bool            `json:"draft"`
}

// reviewRequest is the PATCH payload: either a review action or field edits.
type reviewRequest struct {
	Action   *string `json:"action"`
	Comments *string `json:"comments"`

	applicationRequest
}

func (req *applicationRequest) toModel() (*models.Application, error) {
	app := &models.Application{
		Name:            req.Name,
		Type:            req.Type,
		Issuer:          req.Issuer,
		SubmitterWallet: req.SubmitterWallet,
		APY:             req.APY,
		PriceUSD:        req.PriceUSD,
		RiskScore:       req.RiskScore,
		YieldConfidence: req.YieldConfidence,
		DurationMonths:  req.DurationMonths,
		MinInvestment:   req.MinInvestment,
		Metadata:        req.Metadata,
	}
	if req.Draft {
		app.Status = models.ApplicationStatusDraft
	} else {
		app.Status = models.ApplicationStatusPending
	}
	if req.NextPayoutDate != nil && *req.NextPayoutDate != "" {
		date, err := time.Parse("2006-01-02", *req.NextPayoutDate)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "next_payout_date must be YYYY-MM-DD")
		}
		app.NextPayoutDate = &date
	}
	return app, nil
}

// HandleApplications handles collection-level operations for applications.
// @Summary List or submit asset applications
// @Tags admin
// @Accept json
// @Produce json
// @Param statuses query string false "Comma-separated review statuses"
// @Param types query string false "Comma-separated asset types"
// @Param submitter query string false "Submitter wallet"
// @Success 200 {array} models.Application
// @Failure 401 {object} errorBody
// @Failure 403 {object} errorBody
// @Router /admin/applications [get]
// @Router /admin/applications [post]
func (h *ApplicationHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listApplications(w, r)
	case http.MethodPost:
		h.createApplication(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
	}
}

// HandleApplication handles item-level operations for an application.
// @Summary Get, review, edit, or delete an application
// @Description PATCH with an action field applies a review decision
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} models.Application
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /admin/applications/{id} [get]
// @Router /admin/applications/{id} [patch]
// @Router /admin/applications/{id} [delete]
func (h *ApplicationHandler) HandleApplication(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, h.logger, apperrors.WithMessage(apperrors.ErrInvalidInput, "application id is required"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getApplication(w, r, id)
	case http.MethodPatch:
		h.patchApplication(w, r, id)
	case http.MethodDelete:
		h.deleteApplication(w, r, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
	}
}

func (h *ApplicationHandler) listApplications(w http.ResponseWriter, r *http.Request) {
	filter := &models.ApplicationFilter{}
	if statuses := r.URL.Query().Get("statuses"); statuses != "" {
		filter.Statuses = strings.Split(statuses, ",")
	}
	if types := r.URL.Query().Get("types"); types != "" {
		filter.Types = strings.Split(types, ",")
	}
	if submitter := r.URL.Query().Get("submitter"); submitter != "" {
		filter.SubmitterWallet = &submitter
	}
	parseLimitOffset(r, &filter.Limit, &filter.Offset)

	apps, err := h.service.ListApplications(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) createApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := validator.Struct(&req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	app, err := req.toModel()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.service.CreateApplication(r.Context(), app); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// getApplication fetches one application; an admin opening a pending
// application claims it for review.
func (h *ApplicationHandler) getApplication(w http.ResponseWriter, r *http.Request, id string) {
	admin := adminFromContext(r.Context())
	if admin == nil {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}

	app, err := h.service.ClaimForReview(r.Context(), id, admin.WalletAddress)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) patchApplication(w http.ResponseWriter, r *http.Request, id string) {
	admin := adminFromContext(r.Context())
	if admin == nil {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}

	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	// A PATCH without an action is a field edit on an editable application
	if req.Action == nil {
		if err := validator.Struct(&req.applicationRequest); err != nil {
			writeError(w, h.logger, err)
			return
		}
		app, err := req.applicationRequest.toModel()
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		app.ID = id
		if err := h.service.UpdateApplication(r.Context(), app); err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
		return
	}

	app, err := h.service.Review(r.Context(), id, *req.Action, admin.WalletAddress, req.Comments)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) deleteApplication(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.DeleteApplication(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
