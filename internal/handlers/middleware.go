package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/services"
)

// WalletHeader is the header admin and portfolio routes read the caller's
// wallet address from.
const WalletHeader = "x-wallet-address"

type contextKey string

const adminContextKey contextKey = "admin"

// AdminAuth resolves the x-wallet-address header against the admins table
// and stores the admin row in the request context. Missing header is 401,
// unknown or inactive wallet is 403.
func AdminAuth(adminService services.AdminService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, err := adminService.ResolveAdmin(r.Context(), r.Header.Get(WalletHeader))
			if err != nil {
				writeError(w, logger, err)
				return
			}
			ctx := context.WithValue(r.Context(), adminContextKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// adminFromContext returns the admin stored by AdminAuth, or nil.
func adminFromContext(ctx context.Context) *models.Admin {
	admin, _ := ctx.Value(adminContextKey).(*models.Admin)
	return admin
}

// RequestLogger logs method, path, and duration for every request.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
