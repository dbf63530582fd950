package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kexportlab/tradematch-api/internal/api"
	"github.com/kexportlab/tradematch-api/internal/kotra"
	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/middleware"
	"github.com/kexportlab/tradematch-api/internal/scoring"
	"github.com/kexportlab/tradematch-api/internal/services"
	"github.com/kexportlab/tradematch-api/internal/store"
	"github.com/kexportlab/tradematch-api/pkg/config"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.New()
	appLog := logger.NewSimpleLogger()

	scoringCfg := scoring.DefaultConfig()
	if cfg.ScoringFormula == string(scoring.FormulaV10) {
		scoringCfg.Formula = scoring.FormulaV10
	}

	// Wire stores, collaborator client, and services
	seedStore := store.NewSeededStore()
	kotraClient := kotra.NewClient(cfg.KotraBaseURL, cfg.KotraAPIKey, appLog)
	svcs := services.NewServices(seedStore, seedStore, kotraClient, scoringCfg, appLog)

	// Pre-load the indicator snapshot when one is configured
	if cfg.SnapshotPath != "" {
		if err := svcs.Economic.LoadSnapshotFile(cfg.SnapshotPath); err != nil {
			appLog.Warn("indicator snapshot not loaded", "path", cfg.SnapshotPath, "err", err)
		}
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		log.Fatal("Failed to set trusted proxies:", err)
	}

	// Add security middleware
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))

	// Add rate limiting in production
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware())
	}

	// Add recovery middleware
	r.Use(gin.Recovery())

	// Setup API routes
	api.SetupRoutes(r, svcs, scoringCfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
