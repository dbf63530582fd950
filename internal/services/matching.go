package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kexportlab/tradematch-api/internal/errors"
	"github.com/kexportlab/tradematch-api/internal/kotra"
	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/scoring"
	"github.com/kexportlab/tradematch-api/internal/store"
)

const defaultMatchTopN = 10

// MatchReport is the full outcome of one matching run. Gated-out candidates
// are reported in Excluded with their reasons; they are data, not errors.
type MatchReport struct {
	RequestID         string                       `json:"request_id"`
	SellerID          string                       `json:"seller_id"`
	TargetCountry     string                       `json:"target_country,omitempty"`
	TotalCandidates   int                          `json:"total_candidates"`
	Matches           []scoring.MatchResult        `json:"matches"`
	Excluded          []scoring.MatchResult        `json:"excluded,omitempty"`
	HighRiskCountries []string                     `json:"high_risk_countries,omitempty"`
	Confidence        scoring.ConfidenceAssessment `json:"confidence"`
	GeneratedAt       time.Time                    `json:"generated_at"`
}

// countryContext is the per-country evidence shared by every candidate from
// that country.
type countryContext struct {
	fraud    scoring.FraudRisk
	fraudOK  bool
	cases    []models.SuccessCase
	casesOK  bool
	highRisk bool
}

type matchingService struct {
	profiles store.ProfileStore
	cases    store.CaseStore
	kotra    *kotra.Client
	cfg      scoring.Config
	log      logger.Logger
}

func newMatchingService(profiles store.ProfileStore, cases store.CaseStore, kc *kotra.Client, cfg scoring.Config, log logger.Logger) *matchingService {
	return &matchingService{profiles: profiles, cases: cases, kotra: kc, cfg: cfg, log: log}
}

// Match scores every candidate buyer against the seller and ranks the
// survivors. A blocked target country terminates the run before any
// candidate is touched.
func (s *matchingService) Match(ctx context.Context, req models.MatchRequest) (*MatchReport, error) {
	if req.SellerID == "" {
		return nil, errors.InvalidInput("seller_id is required", nil).WithOperation("match")
	}

	if req.TargetCountry != "" {
		comp := scoring.CheckCompliance(req.TargetCountry, s.cfg)
		if comp.Level == scoring.ComplianceBlocked {
			return nil, errors.PolicyBlocked(comp.CountryCode, comp.LegalNotice).WithOperation("match")
		}
	}

	seller, err := s.profiles.GetSeller(ctx, req.SellerID)
	if err != nil {
		return nil, err
	}

	var candidates []models.BuyerProfile
	if req.TargetCountry != "" {
		candidates, err = s.profiles.ListBuyersByCountry(ctx, req.TargetCountry)
	} else {
		candidates, err = s.profiles.ListBuyers(ctx)
	}
	if err != nil {
		return nil, errors.ServiceError("failed to load candidate pool", err).WithOperation("match")
	}

	contexts := s.collectCountryContexts(ctx, seller, candidates)
	today := scoringTime(s.cfg)

	report := &MatchReport{
		RequestID:       uuid.NewString(),
		SellerID:        seller.ID,
		TargetCountry:   req.TargetCountry,
		TotalCandidates: len(candidates),
		GeneratedAt:     time.Now().UTC(),
	}

	fraudOK, casesOK := true, true
	for _, buyer := range candidates {
		cc := contexts[buyer.CountryISO2]
		fraudOK = fraudOK && cc.fraudOK
		casesOK = casesOK && cc.casesOK

		result := scoring.ComputeFitScore(seller, buyer, cc.fraud, cc.cases, today, s.cfg)
		if result.FitScore == nil {
			report.Excluded = append(report.Excluded, result)
			continue
		}
		report.Matches = append(report.Matches, result)
	}

	sort.Slice(report.Matches, func(i, j int) bool {
		a, b := *report.Matches[i].FitScore, *report.Matches[j].FitScore
		if a != b {
			return a > b
		}
		return report.Matches[i].PartnerID < report.Matches[j].PartnerID
	})
	topN := req.TopN
	if topN <= 0 {
		topN = defaultMatchTopN
	}
	if len(report.Matches) > topN {
		report.Matches = report.Matches[:topN]
	}

	for code, cc := range contexts {
		if cc.highRisk {
			report.HighRiskCountries = append(report.HighRiskCountries, code)
		}
	}
	sort.Strings(report.HighRiskCountries)

	report.Confidence = scoring.ComputeConfidence(map[string]bool{
		"seller_profile": true,
		"candidate_pool": len(candidates) > 0,
		"fraud_risk":     fraudOK,
		"success_cases":  casesOK,
	}, []string{"seller_profile", "candidate_pool", "fraud_risk", "success_cases"}, s.cfg)

	s.log.Info("matching run complete",
		"seller", seller.ID, "candidates", len(candidates),
		"matched", len(report.Matches), "excluded", len(report.Excluded))
	return report, nil
}

// collectCountryContexts fetches fraud and success-case evidence once per
// candidate country. Upstream failures degrade confidence, never the run.
func (s *matchingService) collectCountryContexts(ctx context.Context, seller models.SellerProfile, candidates []models.BuyerProfile) map[string]countryContext {
	contexts := make(map[string]countryContext)
	for _, buyer := range candidates {
		code := buyer.CountryISO2
		if _, done := contexts[code]; done {
			continue
		}

		cc := countryContext{fraudOK: true, casesOK: true}
		risk, err := s.kotra.CountryFraudRisk(ctx, code)
		if err != nil {
			s.log.Warn("fraud risk unavailable", "country", code, "err", err)
			cc.fraudOK = false
		} else {
			cc.fraud = scoring.FraudRisk{RiskLevel: risk.RiskLevel, CaseCount: risk.CaseCount}
			cc.highRisk = risk.RiskLevel == "HIGH"
		}

		cc.cases, cc.casesOK = s.countryCases(ctx, code, seller.HSCode)
		contexts[code] = cc
	}
	return contexts
}

// countryCases merges locally stored cases with the collaborator feed,
// deduplicated by case ID.
func (s *matchingService) countryCases(ctx context.Context, countryCode, hsCode string) ([]models.SuccessCase, bool) {
	ok := true
	merged, err := s.cases.CasesByCountry(ctx, countryCode)
	if err != nil {
		s.log.Warn("stored cases unavailable", "country", countryCode, "err", err)
		ok = false
	}

	seen := make(map[string]bool, len(merged))
	for _, c := range merged {
		seen[c.ID] = true
	}

	remote, err := s.kotra.SuccessCases(ctx, countryCode, hsCode)
	if err != nil {
		s.log.Warn("remote cases unavailable", "country", countryCode, "err", err)
		ok = false
	}
	for _, c := range remote {
		if !seen[c.ID] {
			seen[c.ID] = true
			merged = append(merged, c)
		}
	}
	return merged, ok
}
