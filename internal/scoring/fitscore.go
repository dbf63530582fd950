package scoring

import (
	"time"

	"github.com/kexportlab/tradematch-api/internal/models"
)

// FraudRisk is the per-country fraud evidence consumed by the aggregator.
type FraudRisk struct {
	RiskLevel string `json:"risk_level"`
	CaseCount int    `json:"case_count"`
}

// ScoreBreakdown itemizes every fit-score component.
type ScoreBreakdown struct {
	Base             float64 `json:"base"`
	HSMatch          float64 `json:"hs_match"`
	PriceCompat      float64 `json:"price_compat"`
	MOQContribution  float64 `json:"moq_contribution"`
	CertContribution float64 `json:"cert_contribution"`
	FraudPenalty     float64 `json:"fraud_penalty"`
	SuccessBonus     float64 `json:"success_bonus"`
}

// GateFlags records which hard gates a candidate cleared.
type GateFlags struct {
	MOQGatePassed  bool `json:"moq_gate_passed"`
	MOVGatePassed  bool `json:"mov_gate_passed"`
	CertGatePassed bool `json:"cert_gate_passed"`
}

// MatchResult is one candidate pairing outcome. FitScore is nil when any
// gate failed: a gated-out candidate never carries a partial numeric score.
type MatchResult struct {
	PartnerID      string           `json:"partner_id"`
	FitScore       *float64         `json:"fit_score"`
	ScoreBreakdown ScoreBreakdown   `json:"score_breakdown"`
	GateFlags      GateFlags        `json:"gate_flags"`
	Reasons        []string         `json:"reasons,omitempty"`
	MOQMOV         MOQMOVResult     `json:"moq_mov"`
	Certs          CertResult       `json:"certifications"`
	Success        SuccessBonus     `json:"success_cases"`
	Compliance     ComplianceStatus `json:"compliance"`
}

// ComputeFitScore runs the full gate chain and, for survivors, the weighted
// aggregation into the published 0-100 score. Gate order is fixed:
// compliance-blocked, MOQ, MOV, certification; the first failure
// short-circuits with no partial score.
func ComputeFitScore(seller models.SellerProfile, buyer models.BuyerProfile, fraud FraudRisk, cases []models.SuccessCase, today time.Time, cfg Config) MatchResult {
	res := MatchResult{PartnerID: buyer.ID}

	res.Compliance = CheckCompliance(buyer.CountryISO2, cfg)
	if res.Compliance.Level == ComplianceBlocked {
		res.Reasons = append(res.Reasons, ReasonCountryBlocked)
		return res
	}

	res.MOQMOV = EvaluateMOQMOV(seller, buyer, cfg)
	res.GateFlags.MOQGatePassed = res.MOQMOV.MOQGatePassed
	res.GateFlags.MOVGatePassed = res.MOQMOV.MOVGatePassed
	if !res.MOQMOV.GatePassed() {
		res.Reasons = append(res.Reasons, res.MOQMOV.Reasons...)
		return res
	}

	res.Certs = EvaluateCertifications(seller.Certifications, buyer.RequiredCerts, buyer.PreferredCerts, cfg)
	res.GateFlags.CertGatePassed = res.Certs.GatePassed
	if !res.Certs.GatePassed {
		res.Reasons = append(res.Reasons, res.Certs.Reasons...)
		return res
	}

	res.Success = ComputeSuccessBonus(cases, buyer.CountryISO2, seller.HSCode, today, cfg)

	b := ScoreBreakdown{
		Base:             cfg.BaseScore,
		MOQContribution:  res.MOQMOV.MOQFinalScore,
		CertContribution: res.Certs.CertContribution,
		FraudPenalty:     FraudPenalty(fraud, cfg),
		SuccessBonus:     res.Success.TotalBonus,
	}
	if hsMatch(seller.HSCode, buyer.HSCode) {
		b.HSMatch = cfg.HSMatchBonus
	}
	if priceOverlap(seller, buyer) {
		b.PriceCompat = cfg.PriceMatchBonus
	}
	res.ScoreBreakdown = b

	total := clamp(b.Base+b.HSMatch+b.PriceCompat+b.MOQContribution+
		b.CertContribution+b.FraudPenalty+b.SuccessBonus, 0, 100)
	res.FitScore = &total
	return res
}

// FraudPenalty maps a country's fraud case count onto the tiered penalty
// table, bounded by the configured cap.
func FraudPenalty(fraud FraudRisk, cfg Config) float64 {
	for _, tier := range cfg.FraudTiers {
		if fraud.CaseCount >= tier.MinCases {
			return clamp(tier.Penalty, cfg.FraudPenaltyCap, 0)
		}
	}
	return 0
}

func hsMatch(a, b string) bool {
	return prefixMatch(a, b, 4)
}

func priceOverlap(seller models.SellerProfile, buyer models.BuyerProfile) bool {
	return seller.PriceMax >= buyer.PriceMin && buyer.PriceMax >= seller.PriceMin
}
