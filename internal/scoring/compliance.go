package scoring

import "strings"

// ComplianceLevel is the three-tier export policy classification.
type ComplianceLevel string

const (
	ComplianceBlocked    ComplianceLevel = "blocked"
	ComplianceRestricted ComplianceLevel = "restricted"
	ComplianceNormal     ComplianceLevel = "normal"
)

// ComplianceStatus is the policy verdict for one country. It is evaluated
// before any scoring and always takes precedence: a blocked country
// short-circuits the whole operation.
type ComplianceStatus struct {
	CountryCode           string          `json:"country_code"`
	Level                 ComplianceLevel `json:"compliance_status"`
	Reason                string          `json:"reason,omitempty"`
	Since                 string          `json:"since,omitempty"`
	LegalNotice           string          `json:"legal_notice,omitempty"`
	ScorePenalty          float64         `json:"score_penalty"`
	RequiresExportLicense bool            `json:"requires_export_license"`
	Warning               string          `json:"warning,omitempty"`
}

// CheckCompliance classifies a country against the configured policy tables.
func CheckCompliance(countryCode string, cfg Config) ComplianceStatus {
	code := strings.ToUpper(strings.TrimSpace(countryCode))

	if notice, ok := cfg.BlockedCountries[code]; ok {
		return ComplianceStatus{
			CountryCode: code,
			Level:       ComplianceBlocked,
			Reason:      "export prohibited",
			LegalNotice: notice,
		}
	}

	if entry, ok := cfg.RestrictedCountries[code]; ok {
		return ComplianceStatus{
			CountryCode:           code,
			Level:                 ComplianceRestricted,
			Reason:                entry.Reason,
			Since:                 entry.Since,
			ScorePenalty:          -cfg.RestrictedPenalty,
			RequiresExportLicense: true,
			Warning:               "exports to " + code + " are restricted: " + entry.Reason,
		}
	}

	return ComplianceStatus{CountryCode: code, Level: ComplianceNormal}
}

// ApplyToProbability overlays the restricted-country penalty on a
// probability-valued result. Blocked countries never reach this point;
// normal countries pass through unchanged.
func (s ComplianceStatus) ApplyToProbability(p float64, cfg Config) float64 {
	if s.Level != ComplianceRestricted {
		return p
	}
	p += s.ScorePenalty
	if p < cfg.ProbabilityFloor {
		p = cfg.ProbabilityFloor
	}
	return p
}
