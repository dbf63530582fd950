package scoring

import (
	"sort"
	"strings"
)

// CertResult is the outcome of the certification gate and score.
type CertResult struct {
	GatePassed       bool     `json:"gate_passed"`
	CertScore        float64  `json:"cert_score"`
	CertContribution float64  `json:"cert_contribution"`
	MissingRequired  []string `json:"missing_required,omitempty"`
	MatchedRequired  []string `json:"matched_required,omitempty"`
	MatchedPreferred []string `json:"matched_preferred,omitempty"`
	Reasons          []string `json:"reasons,omitempty"`
}

// EvaluateCertifications applies the required-cert hard gate, then the soft
// score: required coverage weighted 0.7 (full credit when the buyer requires
// nothing), plus 0.1 per matched preferred cert capped at 0.3. Matching is
// case-insensitive.
func EvaluateCertifications(sellerCerts, required, preferred []string, cfg Config) CertResult {
	res := CertResult{}

	have := make(map[string]bool, len(sellerCerts))
	for _, c := range sellerCerts {
		have[normCert(c)] = true
	}

	for _, c := range required {
		if have[normCert(c)] {
			res.MatchedRequired = append(res.MatchedRequired, c)
		} else {
			res.MissingRequired = append(res.MissingRequired, c)
		}
	}
	if len(res.MissingRequired) > 0 {
		sort.Strings(res.MissingRequired)
		res.Reasons = append(res.Reasons, ReasonMissingCerts)
		return res
	}
	res.GatePassed = true

	requiredScore := cfg.CertRequiredWeight
	if len(required) > 0 {
		requiredScore = float64(len(res.MatchedRequired)) / float64(len(required)) * cfg.CertRequiredWeight
	}

	requiredSet := make(map[string]bool, len(required))
	for _, c := range required {
		requiredSet[normCert(c)] = true
	}
	for _, c := range preferred {
		n := normCert(c)
		if have[n] && !requiredSet[n] {
			res.MatchedPreferred = append(res.MatchedPreferred, c)
		}
	}
	preferredScore := float64(len(res.MatchedPreferred)) * cfg.CertPreferredStep
	if preferredScore > cfg.CertPreferredCap {
		preferredScore = cfg.CertPreferredCap
	}

	res.CertScore = requiredScore + preferredScore
	res.CertContribution = res.CertScore * cfg.CertContribScale
	return res
}

func normCert(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
