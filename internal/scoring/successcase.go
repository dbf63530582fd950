package scoring

import (
	"strings"
	"time"

	"github.com/kexportlab/tradematch-api/internal/models"
)

// CaseEvaluation explains how one historical case contributed to the bonus.
type CaseEvaluation struct {
	CaseID        string  `json:"case_id"`
	Bonus         float64 `json:"bonus"`
	CountryMatch  bool    `json:"country_match"`
	HSSimilarity  float64 `json:"hs_similarity"`
	Recency       float64 `json:"recency"`
	DaysAgo       int     `json:"days_ago"`
	ReferenceOnly bool    `json:"reference_only"`
	Reason        string  `json:"reason,omitempty"`
}

// SuccessBonus aggregates the evidence of historical deals into a capped
// bonus score.
type SuccessBonus struct {
	TotalBonus         float64          `json:"total_bonus"`
	MatchedCases       []CaseEvaluation `json:"matched_cases,omitempty"`
	ReferenceOnlyCases []CaseEvaluation `json:"reference_only_cases,omitempty"`
	BestCaseID         string           `json:"best_case_id,omitempty"`
}

// ComputeSuccessBonus scores each historical case as
// unit * countryMatch * hsSimilarity * recency and sums the positive
// bonuses, capped. A case from another country never contributes, whatever
// its HS or recency values; it is kept as reference only. The best case is
// the one with the highest individual bonus, ties broken by the lowest
// case ID so the outcome is deterministic.
func ComputeSuccessBonus(cases []models.SuccessCase, targetCountry, targetHS string, today time.Time, cfg Config) SuccessBonus {
	out := SuccessBonus{}
	sum := 0.0
	bestBonus := 0.0

	for _, c := range cases {
		ev := CaseEvaluation{CaseID: c.ID}

		if !strings.EqualFold(c.Country, targetCountry) {
			ev.ReferenceOnly = true
			ev.Reason = ReasonCountryMismatch
			out.ReferenceOnlyCases = append(out.ReferenceOnlyCases, ev)
			continue
		}
		ev.CountryMatch = true

		ev.HSSimilarity = hsSimilarity(c.HSCode, targetHS, cfg)
		ev.DaysAgo = daysSince(c.Date, today)
		ev.Recency = recencyFactor(ev.DaysAgo, cfg)
		ev.Bonus = cfg.CaseBonusUnit * ev.HSSimilarity * ev.Recency

		if ev.Bonus > 0 {
			sum += ev.Bonus
			out.MatchedCases = append(out.MatchedCases, ev)
			if ev.Bonus > bestBonus || (ev.Bonus == bestBonus && (out.BestCaseID == "" || c.ID < out.BestCaseID)) {
				bestBonus = ev.Bonus
				out.BestCaseID = c.ID
			}
		} else {
			ev.ReferenceOnly = true
			out.ReferenceOnlyCases = append(out.ReferenceOnlyCases, ev)
		}
	}

	if sum > cfg.CaseBonusCap {
		sum = cfg.CaseBonusCap
	}
	out.TotalBonus = sum
	return out
}

// hsSimilarity grades product closeness: 6-digit match, 4-digit match, same
// industry group, or nothing.
func hsSimilarity(caseHS, targetHS string, cfg Config) float64 {
	switch {
	case prefixMatch(caseHS, targetHS, 6):
		return cfg.HSMatch6
	case prefixMatch(caseHS, targetHS, 4):
		return cfg.HSMatch4
	}
	caseInd := cfg.IndustryByHS(caseHS)
	if caseInd != "" && caseInd == cfg.IndustryByHS(targetHS) {
		return cfg.HSMatchIndustry
	}
	return 0
}

func prefixMatch(a, b string, n int) bool {
	if len(a) < n || len(b) < n {
		return false
	}
	return a[:n] == b[:n]
}

func recencyFactor(daysAgo int, cfg Config) float64 {
	switch {
	case daysAgo <= cfg.RecencyFreshDays:
		return cfg.RecencyFresh
	case daysAgo <= cfg.RecencyMidDays:
		return cfg.RecencyMid
	default:
		return cfg.RecencyOld
	}
}

func daysSince(date string, today time.Time) int {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		// Undated evidence is treated as old, never discarded outright.
		return 1 << 20
	}
	d := int(today.Sub(t).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
