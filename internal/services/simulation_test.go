package services

import (
	"context"
	"testing"

	apperrors "github.com/kexportlab/tradematch-api/internal/errors"
	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/scoring"
)

func TestSimulate_BlockedCountry(t *testing.T) {
	svc := testServices()

	_, err := svc.Simulation.Simulate(context.Background(), models.SimulationRequest{
		TargetCountry:  "IR",
		HSCode:         "330499",
		PricePerUnit:   5,
		AnnualCapacity: 100000,
	})
	if err == nil {
		t.Fatal("expected a policy rejection")
	}
	if code := errCode(t, err); code != apperrors.ErrCodePolicyBlocked {
		t.Errorf("code = %s, want POLICY_BLOCKED", code)
	}
}

func TestSimulate_OfflineVietnam(t *testing.T) {
	svc := testServices()

	report, err := svc.Simulation.Simulate(context.Background(), models.SimulationRequest{
		TargetCountry:   "VN",
		HSCode:          "330499",
		PricePerUnit:    5,
		AnnualCapacity:  100000,
		IncludeNewsRisk: true,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if report.Industry != "cosmetics" {
		t.Errorf("industry = %s, want cosmetics", report.Industry)
	}
	// VN market: 409B GDP x 0.005 cosmetics ratio.
	if want := 409_000_000_000 * 0.005; report.MarketSizeUSD != want {
		t.Errorf("market size = %f, want %f", report.MarketSizeUSD, want)
	}
	if report.MarketSizeSource != "calculated" {
		t.Errorf("market size source = %s, want calculated", report.MarketSizeSource)
	}

	if report.SuccessProbability <= simProbabilityMin || report.SuccessProbability >= simProbabilityMax {
		t.Errorf("probability = %f, want inside (%f, %f)",
			report.SuccessProbability, simProbabilityMin, simProbabilityMax)
	}

	// The share-derived band far exceeds what 100k units at $5 can ship, so
	// the upper bound is the capacity cap: 5 * 100000 * 0.8.
	if report.EstimatedRevenueMax != 400000 {
		t.Errorf("revenue max = %f, want capacity-capped 400000", report.EstimatedRevenueMax)
	}
	if report.EstimatedRevenueMin <= 0 || report.EstimatedRevenueMin > 150000 {
		t.Errorf("revenue min = %f, want within (0, 150000]", report.EstimatedRevenueMin)
	}
	if report.EstimatedRevenueMin > report.EstimatedRevenueMax {
		t.Error("revenue band inverted")
	}

	if report.NewsRisk == nil {
		t.Fatal("news risk requested but absent")
	}
	if report.NewsRisk.TotalAnalyzed == 0 {
		t.Error("offline news should feed the sentiment scan")
	}

	if report.Confidence.Level != scoring.ConfidenceHigh {
		t.Errorf("confidence = %s (missing %v), want high",
			report.Confidence.Level, report.Confidence.MissingFields)
	}
	if report.RequestID == "" {
		t.Error("missing request ID")
	}
}

func TestSimulate_UserEstimateWinsMarketSizeChain(t *testing.T) {
	svc := testServices()
	estimate := 500.0 // USD millions

	report, err := svc.Simulation.Simulate(context.Background(), models.SimulationRequest{
		TargetCountry:          "VN",
		HSCode:                 "330499",
		PricePerUnit:           5,
		AnnualCapacity:         100000,
		MarketSizeEstimateMUSD: &estimate,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if report.MarketSizeUSD != 500_000_000 {
		t.Errorf("market size = %f, want 500M from the user estimate", report.MarketSizeUSD)
	}
	if report.MarketSizeSource != "user_estimate" {
		t.Errorf("source = %s, want user_estimate", report.MarketSizeSource)
	}
}

func TestSimulate_RestrictedCountry(t *testing.T) {
	svc := testServices()

	report, err := svc.Simulation.Simulate(context.Background(), models.SimulationRequest{
		TargetCountry:  "RU",
		HSCode:         "330499",
		PricePerUnit:   5,
		AnnualCapacity: 100000,
	})
	if err != nil {
		t.Fatalf("restricted country should simulate, got %v", err)
	}
	if report.Compliance.Level != scoring.ComplianceRestricted {
		t.Errorf("compliance = %s, want restricted", report.Compliance.Level)
	}
	if !report.Compliance.RequiresExportLicense {
		t.Error("restricted target should carry the export license flag")
	}
	if report.SuccessProbability < simProbabilityMin {
		t.Errorf("probability = %f below the floor", report.SuccessProbability)
	}
	// RU is outside the offline dataset: no country info, no market data.
	if report.MarketSizeSource != "default" {
		t.Errorf("market size source = %s, want default", report.MarketSizeSource)
	}
	if report.Confidence.Level == scoring.ConfidenceHigh {
		t.Error("confidence should degrade when country data is missing")
	}
}

func TestSimulate_InvalidInput(t *testing.T) {
	svc := testServices()
	tests := []struct {
		name string
		req  models.SimulationRequest
	}{
		{"bad country", models.SimulationRequest{TargetCountry: "VNM", HSCode: "330499", PricePerUnit: 5, AnnualCapacity: 1}},
		{"short hs", models.SimulationRequest{TargetCountry: "VN", HSCode: "33", PricePerUnit: 5, AnnualCapacity: 1}},
		{"no price", models.SimulationRequest{TargetCountry: "VN", HSCode: "330499", AnnualCapacity: 1}},
		{"no capacity", models.SimulationRequest{TargetCountry: "VN", HSCode: "330499", PricePerUnit: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Simulation.Simulate(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := errCode(t, err); code != apperrors.ErrCodeInvalidInput {
				t.Errorf("code = %s, want INVALID_INPUT", code)
			}
		})
	}
}

func TestProjectRevenue_CapacityCaps(t *testing.T) {
	min, max := projectRevenue(2_000_000_000, 0.5, 5, 100000)
	// Share band: 100k..1M at p=0.5, capacity revenue 500k.
	if min != 100000 {
		t.Errorf("min = %f, want 100000 from the share band", min)
	}
	if max != 400000 {
		t.Errorf("max = %f, want the 0.8 capacity cap", max)
	}

	// Tiny market: the share band stays below the caps.
	min, max = projectRevenue(1_000_000, 0.5, 5, 100000)
	if min != 50 || max != 500 {
		t.Errorf("band = (%f, %f), want (50, 500)", min, max)
	}
}
