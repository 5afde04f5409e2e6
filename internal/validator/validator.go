// Package validator wraps go-playground/validator with the custom tags used
// by the request DTOs.
package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tuanle03/assetbridge/internal/models"
)

var walletRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("asset_type", validateAssetType)
	_ = v.RegisterValidation("asset_status", validateAssetStatus)
	_ = v.RegisterValidation("review_action", validateReviewAction)
	_ = v.RegisterValidation("wallet", validateWallet)
	_ = v.RegisterValidation("date", validateDate)
	return v
}

// Struct validates a request DTO against its validate tags.
func Struct(s interface{}) error {
	return validate.Struct(s)
}

func validateAssetType(fl validator.FieldLevel) bool {
	return models.IsValidAssetType(fl.Field().String())
}

func validateAssetStatus(fl validator.FieldLevel) bool {
	return models.IsValidAssetStatus(fl.Field().String())
}

func validateReviewAction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.ReviewActionApprove, models.ReviewActionReject, models.ReviewActionRequestChanges:
		return true
	}
	return false
}

func validateWallet(fl validator.FieldLevel) bool {
	return walletRegex.MatchString(fl.Field().String())
}

// validateDate accepts YYYY-MM-DD.
func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
