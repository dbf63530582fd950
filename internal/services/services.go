package services

import (
	"context"
	"time"

	"github.com/kexportlab/tradematch-api/internal/kotra"
	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/scoring"
	"github.com/kexportlab/tradematch-api/internal/store"
)

// Services contains all application services
type Services struct {
	Matching       MatchingService
	Recommendation RecommendationService
	Simulation     SimulationService
	Economic       EconomicService
}

// MatchingService defines the interface for buyer matching business logic
type MatchingService interface {
	Match(ctx context.Context, req models.MatchRequest) (*MatchReport, error)
}

// RecommendationService defines the interface for country recommendation logic
type RecommendationService interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (*RecommendationReport, error)
}

// SimulationService defines the interface for export simulation logic
type SimulationService interface {
	Simulate(ctx context.Context, req models.SimulationRequest) (*SimulationReport, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(profiles store.ProfileStore, cases store.CaseStore, kc *kotra.Client, cfg scoring.Config, log logger.Logger) *Services {
	return &Services{
		Matching:       newMatchingService(profiles, cases, kc, cfg, log),
		Recommendation: newRecommendationService(kc, cfg, log),
		Simulation:     newSimulationService(kc, cfg, log),
		Economic:       newEconomicService(cfg, log),
	}
}

// scoringTime resolves the reference time for recency math.
func scoringTime(cfg scoring.Config) time.Time {
	if cfg.Now.IsZero() {
		return time.Now()
	}
	return cfg.Now
}
