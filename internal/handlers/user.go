package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/services"
	"github.com/tuanle03/assetbridge/internal/validator"
)

type UserHandler struct {
	service services.AdminService
	logger  *zap.Logger
}

func NewUserHandler(service services.AdminService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// userRequest is the KYC upsert payload.
type userRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,wallet"`
	KYCStatus     string `json:"kyc_status"`
	Frozen        bool   `json:"frozen"`
}

// HandleUsers handles user upserts (admin only).
// @Summary Create or update a user's KYC status
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} errorBody
// @Router /users [post]
func (h *UserHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
		return
	}

	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := validator.Struct(&req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user := &models.User{
		WalletAddress: req.WalletAddress,
		KYCStatus:     req.KYCStatus,
		Frozen:        req.Frozen,
	}
	if err := h.service.UpsertUser(r.Context(), user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUser fetches a user by wallet address.
// @Summary Get a user
// @Tags users
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {object} models.User
// @Failure 404 {object} errorBody
// @Router /users/{wallet} [get]
func (h *UserHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "METHOD_NOT_ALLOWED"})
		return
	}

	wallet := mux.Vars(r)["wallet"]
	if wallet == "" {
		writeError(w, h.logger, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet is required"))
		return
	}

	user, err := h.service.GetUser(r.Context(), wallet)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
