package errors

import "net/http"

// ErrValidation is a field-level validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// AppError is a structured application error carrying an error code, a
// user-facing message, the HTTP status to respond with, and an optional
// wrapped internal error that is logged but never sent to clients.
type AppError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError with the same code, so copies made by Wrap and
// WithMessage still compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// Wrap creates a copy of sentinel wrapping an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a copy of sentinel with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication and authorization.
var (
	ErrUnauthenticated = &AppError{Code: "UNAUTHENTICATED", Message: "Wallet address required", StatusCode: http.StatusUnauthorized}
	ErrForbidden       = &AppError{Code: "FORBIDDEN", Message: "Permission denied", StatusCode: http.StatusForbidden}
)

// General.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrDuplicate      = &AppError{Code: "DUPLICATE", Message: "Resource already exists", StatusCode: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Assets and applications.
var (
	ErrAssetNotFound       = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAsset      = &AppError{Code: "DUPLICATE_ASSET", Message: "An asset with this id already exists", StatusCode: http.StatusConflict}
	ErrApplicationNotFound = &AppError{Code: "APPLICATION_NOT_FOUND", Message: "Application not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransition   = &AppError{Code: "INVALID_TRANSITION", Message: "Application is not in a reviewable state", StatusCode: http.StatusBadRequest}
	ErrApplicationLocked   = &AppError{Code: "APPLICATION_LOCKED", Message: "Application can no longer be edited", StatusCode: http.StatusBadRequest}
)

// Users and portfolios.
var (
	ErrUserNotFound       = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrUserNotEligible    = &AppError{Code: "USER_NOT_ELIGIBLE", Message: "User has not passed KYC or is frozen", StatusCode: http.StatusForbidden}
	ErrInsufficientCash   = &AppError{Code: "INSUFFICIENT_CASH", Message: "Insufficient cash balance", StatusCode: http.StatusBadRequest}
	ErrInsufficientShares = &AppError{Code: "INSUFFICIENT_SHARES", Message: "Redemption exceeds current share balance", StatusCode: http.StatusBadRequest}
	ErrBelowMinInvestment = &AppError{Code: "BELOW_MIN_INVESTMENT", Message: "Amount is below the asset's minimum investment", StatusCode: http.StatusBadRequest}
	ErrAssetNotActive     = &AppError{Code: "ASSET_NOT_ACTIVE", Message: "Asset is not open for investment", StatusCode: http.StatusBadRequest}
)

// Yield distributions.
var (
	ErrDistributionNotFound = &AppError{Code: "DISTRIBUTION_NOT_FOUND", Message: "Yield distribution not found", StatusCode: http.StatusNotFound}
	ErrNoHolders            = &AppError{Code: "NO_HOLDERS", Message: "Asset has no holders to distribute to", StatusCode: http.StatusBadRequest}
)
