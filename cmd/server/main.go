package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/tuanle03/assetbridge/internal/chain"
	"github.com/tuanle03/assetbridge/internal/db"
	"github.com/tuanle03/assetbridge/internal/handlers"
	"github.com/tuanle03/assetbridge/internal/logger"
	"github.com/tuanle03/assetbridge/internal/repositories"
	"github.com/tuanle03/assetbridge/internal/services"
)

// @title AssetBridge API
// @version 1.0
// @description REST API for the tokenized real-world-asset marketplace
// @BasePath /api
func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		zapLogger.Fatal("Database health check failed", zap.Error(err))
	}
	zapLogger.Info("Database connection established")

	// Chain bridge; runs disabled when no RPC endpoint is configured
	bridge, err := chain.New(chain.NewConfig(), zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize chain bridge", zap.Error(err))
	}

	// Repositories
	assetRepo := repositories.NewAssetRepository(database)
	appRepo := repositories.NewApplicationRepository(database)
	userRepo := repositories.NewUserRepository(database)
	portfolioRepo := repositories.NewPortfolioRepository(database)
	txRepo := repositories.NewTransactionRepository(database)
	yieldRepo := repositories.NewYieldRepository(database)

	// Services
	assetService := services.NewAssetService(assetRepo)
	applicationService := services.NewApplicationService(appRepo, assetRepo, bridge, zapLogger)
	portfolioService := services.NewPortfolioService(portfolioRepo, assetRepo, userRepo, txRepo, bridge, zapLogger)
	yieldService := services.NewYieldService(yieldRepo, assetRepo, portfolioRepo, txRepo, zapLogger)
	adminService := services.NewAdminService(userRepo)

	// Handlers
	assetHandler := handlers.NewAssetHandler(assetService, zapLogger)
	applicationHandler := handlers.NewApplicationHandler(applicationService, zapLogger)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, yieldService, zapLogger)
	yieldHandler := handlers.NewYieldHandler(yieldService, zapLogger)
	userHandler := handlers.NewUserHandler(adminService, zapLogger)

	adminAuth := handlers.AdminAuth(adminService, zapLogger)

	// Router
	r := mux.NewRouter()
	r.Use(handlers.RequestLogger(zapLogger))

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "assetbridge-api",
		})
	})

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.PathPrefix("/api").Subrouter()

	// Public marketplace endpoints
	api.HandleFunc("/assets", assetHandler.HandleAssets).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", assetHandler.HandleAsset).Methods(http.MethodGet)
	api.HandleFunc("/users/{wallet}", userHandler.HandleUser).Methods(http.MethodGet)

	// Portfolio endpoints keyed on the caller's wallet
	api.HandleFunc("/portfolio", portfolioHandler.HandlePortfolio).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/portfolio/transactions", portfolioHandler.HandleTransactions).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/yield-curve", portfolioHandler.HandleYieldCurve).Methods(http.MethodGet)

	// Admin endpoints, resolved against the admins table
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(adminAuth)
	admin.HandleFunc("/applications", applicationHandler.HandleApplications).Methods(http.MethodGet, http.MethodPost)
	admin.HandleFunc("/applications/{id}", applicationHandler.HandleApplication).Methods(http.MethodGet, http.MethodPatch, http.MethodDelete)
	admin.HandleFunc("/yields", yieldHandler.HandleYields).Methods(http.MethodGet, http.MethodPost)
	admin.HandleFunc("/yields/history", yieldHandler.HandleDistributions).Methods(http.MethodGet)
	admin.HandleFunc("/users", userHandler.HandleUsers).Methods(http.MethodPost)

	// Asset mutations are admin-gated; listing stays public above
	adminAssets := api.PathPrefix("/assets").Subrouter()
	adminAssets.Use(adminAuth)
	adminAssets.HandleFunc("", assetHandler.HandleAssets).Methods(http.MethodPost)
	adminAssets.HandleFunc("/{id}", assetHandler.HandleAsset).Methods(http.MethodPut, http.MethodDelete)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-wallet-address")

			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, req)
		})
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	zapLogger.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsHandler(r)); err != nil {
		zapLogger.Fatal("Server failed", zap.Error(err))
	}
}
