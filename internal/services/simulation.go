package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kexportlab/tradematch-api/internal/errors"
	"github.com/kexportlab/tradematch-api/internal/kotra"
	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/scoring"
)

// Simulation probability model: a flat base plus a weighted factor sum
// scaled into the remaining headroom, clamped to a sane band.
const (
	simBaseProbability = 0.30
	simScale           = 0.65
	simProbabilityMin  = 0.05
	simProbabilityMax  = 0.95

	defaultExportScore = 2.5

	// Assumed achievable market share band.
	marketShareMin = 0.0001 // 0.01%
	marketShareMax = 0.001  // 0.1%

	// Capacity caps on the share-derived revenue band.
	capacityCapMin = 0.3
	capacityCapMax = 0.8
)

// SimulationBreakdown exposes every factor behind the probability.
type SimulationBreakdown struct {
	BaseProbability float64 `json:"base_probability"`
	ExportFactor    float64 `json:"export_factor"`
	EconomicFactor  float64 `json:"economic_factor"`
	NewsFactor      float64 `json:"news_factor"`
	TrendFactor     float64 `json:"trend_factor"`
	WeightedSum     float64 `json:"weighted_sum"`
}

// SimulationReport is the outcome of one export simulation.
type SimulationReport struct {
	RequestID           string                       `json:"request_id"`
	TargetCountry       string                       `json:"target_country"`
	CountryName         string                       `json:"country_name,omitempty"`
	HSCode              string                       `json:"hs_code"`
	Industry            string                       `json:"industry,omitempty"`
	SuccessProbability  float64                      `json:"success_probability"`
	EstimatedRevenueMin float64                      `json:"estimated_revenue_min"`
	EstimatedRevenueMax float64                      `json:"estimated_revenue_max"`
	MarketSizeUSD       float64                      `json:"market_size_usd"`
	MarketSizeSource    string                       `json:"market_size_source"`
	MarketShareMinPct   float64                      `json:"market_share_min_pct"`
	MarketShareMaxPct   float64                      `json:"market_share_max_pct"`
	NewsRisk            *kotra.NewsRisk              `json:"news_risk,omitempty"`
	Breakdown           SimulationBreakdown          `json:"calculation_breakdown"`
	Compliance          scoring.ComplianceStatus     `json:"compliance"`
	Confidence          scoring.ConfidenceAssessment `json:"confidence"`
	GeneratedAt         time.Time                    `json:"generated_at"`
}

type simulationService struct {
	kotra *kotra.Client
	cfg   scoring.Config
	log   logger.Logger
}

func newSimulationService(kc *kotra.Client, cfg scoring.Config, log logger.Logger) *simulationService {
	return &simulationService{kotra: kc, cfg: cfg, log: log}
}

// Simulate projects revenue and success probability for one target market.
// A blocked target terminates the run; a restricted target carries the
// probability penalty and a license flag.
func (s *simulationService) Simulate(ctx context.Context, req models.SimulationRequest) (*SimulationReport, error) {
	if len(req.TargetCountry) != 2 {
		return nil, errors.InvalidInput("target_country must be ISO2", nil).WithOperation("simulate")
	}
	if len(req.HSCode) < 4 {
		return nil, errors.InvalidInput("hs_code must carry at least 4 digits", nil).WithOperation("simulate")
	}
	if req.PricePerUnit <= 0 || req.AnnualCapacity <= 0 {
		return nil, errors.InvalidInput("price_per_unit and annual_capacity must be positive", nil).WithOperation("simulate")
	}

	comp := scoring.CheckCompliance(req.TargetCountry, s.cfg)
	if comp.Level == scoring.ComplianceBlocked {
		return nil, errors.PolicyBlocked(comp.CountryCode, comp.LegalNotice).WithOperation("simulate")
	}

	exportScore, exportOK := s.exportScore(ctx, req.HSCode, comp.CountryCode)

	info, err := s.kotra.CountryInfo(ctx, comp.CountryCode)
	infoOK := err == nil
	if err != nil {
		s.log.Warn("country info unavailable", "country", comp.CountryCode, "err", err)
	}

	var newsRisk *kotra.NewsRisk
	if req.IncludeNewsRisk {
		nr, err := s.kotra.AnalyzeNewsRisk(ctx, comp.CountryCode, 50)
		if err != nil {
			s.log.Warn("news risk unavailable", "country", comp.CountryCode, "err", err)
		} else {
			newsRisk = &nr
		}
	}

	trendNews, err := s.kotra.OverseasNews(ctx, comp.CountryCode, 10)
	if err != nil {
		s.log.Warn("trend news unavailable", "country", comp.CountryCode, "err", err)
	}

	breakdown := s.probabilityBreakdown(exportScore, info, infoOK, newsRisk, len(trendNews))
	probability := simBaseProbability + breakdown.WeightedSum*simScale
	probability = clampRange(probability, simProbabilityMin, simProbabilityMax)
	probability = comp.ApplyToProbability(probability, s.cfg)

	industry := s.cfg.IndustryByHS(req.HSCode)
	market := s.marketSize(req, comp.CountryCode, industry)

	revenueMin, revenueMax := projectRevenue(market.MarketSizeUSD, probability, req.PricePerUnit, req.AnnualCapacity)

	report := &SimulationReport{
		RequestID:           uuid.NewString(),
		TargetCountry:       comp.CountryCode,
		HSCode:              req.HSCode,
		Industry:            industry,
		SuccessProbability:  round3(probability),
		EstimatedRevenueMin: round2(revenueMin),
		EstimatedRevenueMax: round2(revenueMax),
		MarketSizeUSD:       market.MarketSizeUSD,
		MarketSizeSource:    market.Source,
		NewsRisk:            newsRisk,
		Breakdown:           breakdown,
		Compliance:          comp,
		GeneratedAt:         time.Now().UTC(),
	}
	if infoOK {
		report.CountryName = info.CountryName
	}
	if market.MarketSizeUSD > 0 {
		report.MarketShareMinPct = round4(revenueMin / market.MarketSizeUSD * 100)
		report.MarketShareMaxPct = round4(revenueMax / market.MarketSizeUSD * 100)
	}

	report.Confidence = scoring.ComputeConfidence(map[string]bool{
		"export_score": exportOK,
		"gdp":          infoOK && info.GDPUSD > 0,
		"growth_rate":  infoOK,
		"market_size":  market.Source != "default",
		"news_risk":    !req.IncludeNewsRisk || newsRisk != nil,
	}, []string{"export_score", "gdp", "growth_rate", "market_size", "news_risk"}, s.cfg)

	s.log.Info("simulation complete",
		"country", comp.CountryCode, "hs", req.HSCode,
		"probability", report.SuccessProbability, "market_size", market.MarketSizeUSD)
	return report, nil
}

// exportScore pulls the prospect score for the country/HS pair. An exact
// country match wins; otherwise the average over all returned markets;
// with no data at all, the neutral midpoint of the 0-5 scale.
func (s *simulationService) exportScore(ctx context.Context, hsCode, countryCode string) (float64, bool) {
	recs, err := s.kotra.ExportRecommendations(ctx, hsCode, 100)
	if err != nil || len(recs) == 0 {
		return defaultExportScore, false
	}

	var sum float64
	for _, rec := range recs {
		if rec.CountryCode == countryCode {
			return rec.Score, true
		}
		sum += rec.Score
	}
	return sum / float64(len(recs)), true
}

// probabilityBreakdown folds the evidence into normalized 0-1 factors.
func (s *simulationService) probabilityBreakdown(exportScore float64, info kotra.CountryInfo, infoOK bool, newsRisk *kotra.NewsRisk, trendCount int) SimulationBreakdown {
	b := SimulationBreakdown{BaseProbability: simBaseProbability}

	b.ExportFactor = clamp01(exportScore / 5.0)

	economic := 0.5
	if infoOK {
		switch {
		case info.GrowthRatePct > 5:
			economic += 0.3
		case info.GrowthRatePct > 3:
			economic += 0.2
		case info.GrowthRatePct > 1:
			economic += 0.1
		case info.GrowthRatePct < 0:
			economic -= 0.2
		}
		switch riskGradePoints(info.RiskGrade) {
		case 20:
			economic += 0.2
		case 15:
			economic += 0.1
		case 5:
			economic -= 0.2
		}
	}
	b.EconomicFactor = clamp01(economic)

	b.NewsFactor = 0.5
	if newsRisk != nil {
		b.NewsFactor = clamp01(0.5 + newsRisk.RiskAdjustment/30)
	}

	b.TrendFactor = clamp01(0.3 + float64(trendCount)*0.1)

	b.WeightedSum = b.ExportFactor*s.cfg.RecExportWeight +
		b.EconomicFactor*s.cfg.RecEconomicWeight +
		b.NewsFactor*s.cfg.RecRiskWeight +
		b.TrendFactor*s.cfg.RecTrendWeight
	return b
}

// marketSize resolves the market size chain: user estimate, then GDP times
// industry ratio, then the flat default.
func (s *simulationService) marketSize(req models.SimulationRequest, countryCode, industry string) kotra.MarketSize {
	if req.MarketSizeEstimateMUSD != nil && *req.MarketSizeEstimateMUSD > 0 {
		return kotra.MarketSize{
			MarketSizeUSD: *req.MarketSizeEstimateMUSD * 1_000_000,
			Source:        "user_estimate",
			Confidence:    "high",
		}
	}
	return kotra.EstimateMarketSize(countryCode, industry)
}

// projectRevenue converts the share band into a probability-adjusted
// revenue band, capped by what the production capacity can actually ship.
func projectRevenue(marketSize, probability, pricePerUnit float64, annualCapacity int) (float64, float64) {
	capacityRevenue := pricePerUnit * float64(annualCapacity)

	min := marketSize * marketShareMin * probability
	max := marketSize * marketShareMax * probability

	if limit := capacityRevenue * capacityCapMin; min > limit {
		min = limit
	}
	if limit := capacityRevenue * capacityCapMax; max > limit {
		max = limit
	}
	return min, max
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
