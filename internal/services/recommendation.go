package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kexportlab/tradematch-api/internal/errors"
	"github.com/kexportlab/tradematch-api/internal/kotra"
	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/scoring"
)

const (
	defaultRecommendTopN = 5
	maxEnrichCandidates  = 20

	// GoalNewMarket filters out countries the exporter already serves.
	GoalNewMarket = "new_market"
)

// CountryScoreBreakdown itemizes the recommendation score components. Point
// ranges follow the configured weights over a 100-point scale.
type CountryScoreBreakdown struct {
	ExportPrediction   float64 `json:"export_prediction"`
	EconomicIndicators float64 `json:"economic_indicators"`
	RiskAssessment     float64 `json:"risk_assessment"`
	MarketTrends       float64 `json:"market_trends"`
}

// Total sums the component points.
func (b CountryScoreBreakdown) Total() float64 {
	return b.ExportPrediction + b.EconomicIndicators + b.RiskAssessment + b.MarketTrends
}

// CountryRecommendation is one ranked target-market entry.
type CountryRecommendation struct {
	Rank               int                      `json:"rank"`
	CountryCode        string                   `json:"country_code"`
	CountryName        string                   `json:"country_name"`
	ExportScore        float64                  `json:"export_score"`
	SuccessProbability float64                  `json:"success_probability"`
	GDPUSD             float64                  `json:"gdp_usd,omitempty"`
	GrowthRatePct      float64                  `json:"growth_rate_pct,omitempty"`
	RiskGrade          string                   `json:"risk_grade,omitempty"`
	Breakdown          CountryScoreBreakdown    `json:"score_breakdown"`
	SuccessCases       []models.SuccessCase     `json:"success_cases,omitempty"`
	Compliance         scoring.ComplianceStatus `json:"compliance"`
}

// RecommendationReport is the ranked country list for one request.
type RecommendationReport struct {
	RequestID              string                  `json:"request_id"`
	HSCode                 string                  `json:"hs_code"`
	Goal                   string                  `json:"goal,omitempty"`
	TotalCountriesAnalyzed int                     `json:"total_countries_analyzed"`
	Recommendations        []CountryRecommendation `json:"recommendations"`
	GeneratedAt            time.Time               `json:"generated_at"`
}

type recommendationService struct {
	kotra *kotra.Client
	cfg   scoring.Config
	log   logger.Logger
}

func newRecommendationService(kc *kotra.Client, cfg scoring.Config, log logger.Logger) *recommendationService {
	return &recommendationService{kotra: kc, cfg: cfg, log: log}
}

// Recommend ranks candidate target countries for an HS code. Blocked
// countries never appear in the list; restricted countries stay but carry
// the probability penalty and a license flag.
func (s *recommendationService) Recommend(ctx context.Context, req models.RecommendationRequest) (*RecommendationReport, error) {
	if len(req.HSCode) < 4 {
		return nil, errors.InvalidInput("hs_code must carry at least 4 digits", nil).WithOperation("recommend")
	}

	recs, err := s.kotra.ExportRecommendations(ctx, req.HSCode, 50)
	if err != nil {
		return nil, errors.UpstreamError("export prospect feed unavailable", err).WithOperation("recommend")
	}

	if strings.EqualFold(req.Goal, GoalNewMarket) && len(req.CurrentExportCountries) > 0 {
		current := make(map[string]bool, len(req.CurrentExportCountries))
		for _, c := range req.CurrentExportCountries {
			current[strings.ToUpper(strings.TrimSpace(c))] = true
		}
		kept := recs[:0]
		for _, r := range recs {
			if !current[r.CountryCode] {
				kept = append(kept, r)
			}
		}
		recs = kept
	}

	report := &RecommendationReport{
		RequestID:              uuid.NewString(),
		HSCode:                 req.HSCode,
		Goal:                   req.Goal,
		TotalCountriesAnalyzed: len(recs),
		GeneratedAt:            time.Now().UTC(),
	}

	candidates := recs
	if len(candidates) > maxEnrichCandidates {
		candidates = candidates[:maxEnrichCandidates]
	}

	for _, rec := range candidates {
		entry, ok := s.enrich(ctx, rec, req.HSCode)
		if !ok {
			continue
		}
		report.Recommendations = append(report.Recommendations, entry)
	}

	sort.Slice(report.Recommendations, func(i, j int) bool {
		a, b := report.Recommendations[i], report.Recommendations[j]
		if a.SuccessProbability != b.SuccessProbability {
			return a.SuccessProbability > b.SuccessProbability
		}
		return a.CountryCode < b.CountryCode
	})
	topN := req.TopN
	if topN <= 0 {
		topN = defaultRecommendTopN
	}
	if len(report.Recommendations) > topN {
		report.Recommendations = report.Recommendations[:topN]
	}
	for i := range report.Recommendations {
		report.Recommendations[i].Rank = i + 1
	}

	s.log.Info("recommendation run complete",
		"hs", req.HSCode, "analyzed", report.TotalCountriesAnalyzed,
		"returned", len(report.Recommendations))
	return report, nil
}

// enrich builds one recommendation entry. A blocked country is dropped from
// the list outright; a market under embargo is not a recommendation.
func (s *recommendationService) enrich(ctx context.Context, rec kotra.ExportRecommendation, hsCode string) (CountryRecommendation, bool) {
	comp := scoring.CheckCompliance(rec.CountryCode, s.cfg)
	if comp.Level == scoring.ComplianceBlocked {
		s.log.Info("dropping blocked country from recommendations", "country", rec.CountryCode)
		return CountryRecommendation{}, false
	}

	entry := CountryRecommendation{
		CountryCode: rec.CountryCode,
		CountryName: rec.CountryName,
		ExportScore: rec.Score,
		Compliance:  comp,
	}

	info, err := s.kotra.CountryInfo(ctx, rec.CountryCode)
	infoOK := err == nil
	if err != nil {
		s.log.Warn("country info unavailable", "country", rec.CountryCode, "err", err)
	} else {
		entry.GDPUSD = info.GDPUSD
		entry.GrowthRatePct = info.GrowthRatePct
		entry.RiskGrade = info.RiskGrade
		if info.CountryName != "" {
			entry.CountryName = info.CountryName
		}
	}

	news, err := s.kotra.OverseasNews(ctx, rec.CountryCode, 3)
	if err != nil {
		s.log.Warn("market news unavailable", "country", rec.CountryCode, "err", err)
	}

	if cases, err := s.kotra.SuccessCases(ctx, rec.CountryCode, hsCode); err == nil {
		if len(cases) > 3 {
			cases = cases[:3]
		}
		entry.SuccessCases = cases
	}

	entry.Breakdown = s.scoreBreakdown(rec.Score, info, infoOK, len(news))
	p := clamp01(entry.Breakdown.Total() / 100)
	entry.SuccessProbability = round3(comp.ApplyToProbability(p, s.cfg))
	return entry, true
}

// scoreBreakdown maps the evidence onto the weighted point ranges.
func (s *recommendationService) scoreBreakdown(exportScore float64, info kotra.CountryInfo, infoOK bool, trendCount int) CountryScoreBreakdown {
	var b CountryScoreBreakdown

	b.ExportPrediction = exportScore / 5.0 * (s.cfg.RecExportWeight * 100)

	economic := 15.0
	if infoOK {
		switch {
		case info.GrowthRatePct > 3:
			economic += 5
		case info.GrowthRatePct > 1:
			economic += 2
		}
		switch {
		case info.GDPUSD > 1e12:
			economic += 5
		case info.GDPUSD > 1e11:
			economic += 2
		}
	}
	if limit := s.cfg.RecEconomicWeight * 100; economic > limit {
		economic = limit
	}
	b.EconomicIndicators = economic

	b.RiskAssessment = riskGradePoints(info.RiskGrade)

	trend := 8.0 + 2.0*float64(trendCount)
	if limit := s.cfg.RecTrendWeight * 100; trend > limit {
		trend = limit
	}
	b.MarketTrends = trend

	return b
}

// riskGradePoints maps an OECD-style risk grade letter onto the 20-point
// risk range. Unknown grades score the neutral midpoint.
func riskGradePoints(grade string) float64 {
	if grade == "" {
		return 15
	}
	switch grade[:1] {
	case "A":
		return 20
	case "B":
		return 15
	case "C":
		return 10
	case "D", "E":
		return 5
	default:
		return 15
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
