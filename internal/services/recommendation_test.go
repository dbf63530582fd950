package services

import (
	"context"
	"math"
	"testing"

	apperrors "github.com/kexportlab/tradematch-api/internal/errors"
	"github.com/kexportlab/tradematch-api/internal/kotra"
	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/scoring"
)

func TestRecommend_OfflineRanking(t *testing.T) {
	svc := testServices()

	report, err := svc.Recommendation.Recommend(context.Background(), models.RecommendationRequest{
		HSCode: "330499",
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if report.TotalCountriesAnalyzed != 5 {
		t.Errorf("analyzed = %d, want the 5 fallback markets", report.TotalCountriesAnalyzed)
	}
	if len(report.Recommendations) != 5 {
		t.Fatalf("recommendations = %d, want 5", len(report.Recommendations))
	}

	for i, rec := range report.Recommendations {
		if rec.Rank != i+1 {
			t.Errorf("rank at index %d = %d", i, rec.Rank)
		}
		if i > 0 && report.Recommendations[i-1].SuccessProbability < rec.SuccessProbability {
			t.Errorf("probabilities not descending at index %d", i)
		}
	}

	// US: export 3.5/5*40=28, economic 15+2+5=22, risk grade A=20,
	// trends 8+2*2 offline articles=12 -> 82 points -> 0.82.
	top := report.Recommendations[0]
	if top.CountryCode != "US" {
		t.Fatalf("top market = %s, want US", top.CountryCode)
	}
	if math.Abs(top.SuccessProbability-0.82) > 1e-9 {
		t.Errorf("US probability = %f, want 0.82", top.SuccessProbability)
	}
	if math.Abs(top.Breakdown.Total()-82) > 1e-9 {
		t.Errorf("US breakdown total = %f, want 82", top.Breakdown.Total())
	}
}

func TestRecommend_NewMarketFiltersCurrentCountries(t *testing.T) {
	svc := testServices()

	report, err := svc.Recommendation.Recommend(context.Background(), models.RecommendationRequest{
		HSCode:                 "330499",
		Goal:                   GoalNewMarket,
		CurrentExportCountries: []string{"us", "CN"},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if report.TotalCountriesAnalyzed != 3 {
		t.Errorf("analyzed = %d, want 3 after filtering", report.TotalCountriesAnalyzed)
	}
	for _, rec := range report.Recommendations {
		if rec.CountryCode == "US" || rec.CountryCode == "CN" {
			t.Errorf("current market %s leaked into recommendations", rec.CountryCode)
		}
	}
}

func TestRecommend_BlockedCountryDropped(t *testing.T) {
	svc := testServices().Recommendation.(*recommendationService)

	_, ok := svc.enrich(context.Background(), kotra.ExportRecommendation{
		CountryCode: "KP", CountryName: "North Korea", Score: 3.0,
	}, "330499")
	if ok {
		t.Error("blocked country must never become a recommendation")
	}
}

func TestRecommend_RestrictedCarriesPenalty(t *testing.T) {
	svc := testServices().Recommendation.(*recommendationService)

	entry, ok := svc.enrich(context.Background(), kotra.ExportRecommendation{
		CountryCode: "RU", CountryName: "Russia", Score: 3.0,
	}, "330499")
	if !ok {
		t.Fatal("restricted country should stay in the list")
	}
	if entry.Compliance.Level != scoring.ComplianceRestricted {
		t.Errorf("compliance = %s, want restricted", entry.Compliance.Level)
	}
	raw := clamp01(entry.Breakdown.Total() / 100)
	want := round3(raw - 0.10)
	if math.Abs(entry.SuccessProbability-want) > 1e-9 {
		t.Errorf("probability = %f, want %f after the restricted penalty", entry.SuccessProbability, want)
	}
}

func TestRecommend_ShortHSCode(t *testing.T) {
	svc := testServices()

	_, err := svc.Recommendation.Recommend(context.Background(), models.RecommendationRequest{HSCode: "33"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := errCode(t, err); code != apperrors.ErrCodeInvalidInput {
		t.Errorf("code = %s, want INVALID_INPUT", code)
	}
}

func TestRiskGradePoints(t *testing.T) {
	tests := []struct {
		grade string
		want  float64
	}{
		{"A", 20}, {"AA", 20}, {"B", 15}, {"BBB", 15},
		{"C", 10}, {"D", 5}, {"E", 5}, {"", 15}, {"X", 15},
	}
	for _, tt := range tests {
		if got := riskGradePoints(tt.grade); got != tt.want {
			t.Errorf("riskGradePoints(%q) = %f, want %f", tt.grade, got, tt.want)
		}
	}
}
