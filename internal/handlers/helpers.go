package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
)

// errorBody is the JSON error envelope: {"error": CODE, "message": "..."}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps an error to the JSON error envelope. AppErrors carry their
// own status and code; validator errors become 400s; anything else is logged
// and reported as a 500 without leaking internals.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil && logger != nil {
			logger.Error("request failed",
				zap.String("code", appErr.Code),
				zap.Error(appErr.Internal))
		}
		writeJSON(w, appErr.StatusCode, errorBody{Error: appErr.Code, Message: appErr.Message})
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "INVALID_INPUT", Message: fieldErrs.Error()})
		return
	}

	var valErr *apperrors.ErrValidation
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "INVALID_INPUT", Message: valErr.Error()})
		return
	}

	if logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "INTERNAL_ERROR", Message: "An internal error occurred"})
}

// parseLimitOffset fills limit/offset from the query string, ignoring
// unparseable values.
func parseLimitOffset(r *http.Request, limit, offset *int) {
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			*limit = v
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			*offset = v
		}
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid JSON body")
	}
	return nil
}
