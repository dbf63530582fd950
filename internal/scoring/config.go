package scoring

import "time"

// EconomicFormula selects which EconomicScore weight table applies.
type EconomicFormula string

const (
	// FormulaV11 is the confirmed 2-indicator formula: 0.70*GDP + 0.30*growth.
	FormulaV11 EconomicFormula = "v1.1"
	// FormulaV10 is the older 5-indicator formula kept for snapshot replays.
	FormulaV10 EconomicFormula = "v1.0"
)

// ClipRange holds fixed clip bounds for an indicator.
type ClipRange struct {
	Lower float64
	Upper float64
}

// FraudPenaltyTier maps a minimum fraud case count to a fit-score penalty.
type FraudPenaltyTier struct {
	MinCases int
	Penalty  float64
}

// RestrictedEntry describes a restricted (but not blocked) country.
type RestrictedEntry struct {
	Reason string
	Since  string // YYYY-MM-DD
}

// Config carries every tunable constant of the scoring core. Callers inject
// one per scoring run; nothing in this package reads globals, so alternate
// tables can be swapped in tests without monkey-patching.
type Config struct {
	Version string

	// Economic score
	Formula        EconomicFormula
	MaxYearGap     int
	WeightsV11     map[string]float64
	WeightsV10     map[string]float64
	ClipRanges     map[string]ClipRange
	LogNormFields  map[string]bool
	ClipNormFields map[string]bool

	// MOQ / MOV
	MOQRatioMin     float64 // below this the buyer is too small
	MOQRatioMax     float64 // above this the seller is too large
	MOQWeight       float64
	MOVWeight       float64
	MOQMOVScale     float64 // combined contribution scale (0..10)
	MOVPartialSlope float64 // penalty slope inside the budget band

	// Certifications
	CertRequiredWeight  float64
	CertPreferredStep   float64
	CertPreferredCap    float64
	CertContribScale    float64 // cert contribution scale (0..15)

	// Success cases
	CaseBonusUnit    float64
	CaseBonusCap     float64
	RecencyFreshDays int
	RecencyMidDays   int
	RecencyFresh     float64
	RecencyMid       float64
	RecencyOld       float64
	HSMatch6         float64
	HSMatch4         float64
	HSMatchIndustry  float64

	// Fit score
	BaseScore        float64
	HSMatchBonus     float64
	PriceMatchBonus  float64
	FraudPenaltyCap  float64
	FraudTiers       []FraudPenaltyTier // ordered by MinCases descending

	// Country recommendation weights and point ranges
	RecExportWeight   float64
	RecEconomicWeight float64
	RecRiskWeight     float64
	RecTrendWeight    float64

	// Compliance
	BlockedCountries    map[string]string // iso2 -> legal notice
	RestrictedCountries map[string]RestrictedEntry
	RestrictedPenalty   float64 // percentage points subtracted from probabilities
	ProbabilityFloor    float64

	// Confidence level thresholds
	ConfidenceHigh   float64
	ConfidenceMedium float64
	ConfidenceLow    float64

	// Industry groups keyed by name, values are 4-digit HS prefixes.
	IndustryHSGroups map[string][]string

	// Now is the reference time for recency math; zero means time.Now.
	Now time.Time
}

// DefaultConfig returns the canonical rule tables.
func DefaultConfig() Config {
	return Config{
		Version: "2024-01",

		Formula:    FormulaV11,
		MaxYearGap: 3,
		WeightsV11: map[string]float64{
			"gdp_usd":        0.70,
			"gdp_growth_pct": 0.30,
		},
		WeightsV10: map[string]float64{
			"gdp_usd":           0.30,
			"import_value_usd":  0.25,
			"gdp_growth_pct":    0.20,
			"import_growth_pct": 0.15,
			"inflation_pct":     -0.10,
		},
		ClipRanges: map[string]ClipRange{
			"gdp_growth_pct":    {Lower: -5, Upper: 10},
			"import_growth_pct": {Lower: -10, Upper: 15},
			"inflation_pct":     {Lower: 0, Upper: 20},
		},
		LogNormFields:  map[string]bool{"gdp_usd": true, "import_value_usd": true},
		ClipNormFields: map[string]bool{"gdp_growth_pct": true, "import_growth_pct": true, "inflation_pct": true},

		MOQRatioMin:     0.3,
		MOQRatioMax:     3.0,
		MOQWeight:       0.6,
		MOVWeight:       0.4,
		MOQMOVScale:     10,
		MOVPartialSlope: 0.3,

		CertRequiredWeight: 0.7,
		CertPreferredStep:  0.1,
		CertPreferredCap:   0.3,
		CertContribScale:   15,

		CaseBonusUnit:    10,
		CaseBonusCap:     20,
		RecencyFreshDays: 730,
		RecencyMidDays:   1460,
		RecencyFresh:     1.0,
		RecencyMid:       0.6,
		RecencyOld:       0.3,
		HSMatch6:         1.0,
		HSMatch4:         0.8,
		HSMatchIndustry:  0.6,

		BaseScore:       50,
		HSMatchBonus:    20,
		PriceMatchBonus: 15,
		FraudPenaltyCap: -25,
		FraudTiers: []FraudPenaltyTier{
			{MinCases: 20, Penalty: -20},
			{MinCases: 10, Penalty: -7},
			{MinCases: 5, Penalty: -3},
		},

		RecExportWeight:   0.40,
		RecEconomicWeight: 0.25,
		RecRiskWeight:     0.20,
		RecTrendWeight:    0.15,

		BlockedCountries: map[string]string{
			"KP": "UN and US sanctions prohibit exports to North Korea.",
			"IR": "Exports to Iran are prohibited under current sanctions.",
			"SY": "Exports to Syria are prohibited under current sanctions.",
			"CU": "The Cuba embargo prohibits this export.",
		},
		RestrictedCountries: map[string]RestrictedEntry{
			"RU": {Reason: "export controls following 2022 sanctions", Since: "2022-03-01"},
			"BY": {Reason: "export controls aligned with Russia sanctions", Since: "2022-03-01"},
			"MM": {Reason: "arms embargo and dual-use restrictions", Since: "2021-02-01"},
			"VE": {Reason: "sectoral sanctions", Since: "2019-01-28"},
		},
		RestrictedPenalty: 0.10,
		ProbabilityFloor:  0.05,

		ConfidenceHigh:   0.8,
		ConfidenceMedium: 0.6,
		ConfidenceLow:    0.4,

		IndustryHSGroups: map[string][]string{
			"cosmetics":       {"3304"},
			"pharmaceuticals": {"3004"},
			"food":            {"2106", "1901", "2202"},
			"electronics":     {"8471", "8517", "8518", "8519", "8521", "8525", "8528"},
			"textiles":        {"6109", "6110", "6201", "6202", "6203", "6204", "6205", "6206"},
			"auto_parts":      {"8708"},
			"machinery":       {"8421", "8422", "8428", "8429", "8430", "8479"},
			"plastics":        {"3901", "3902", "3903", "3904", "3917", "3923", "3926"},
			"steel":           {"7208", "7209", "7210", "7219", "7304", "7306"},
			"agriculture":     {"0702", "0709", "0710", "0712", "0804", "0805", "0810"},
		},
	}
}

func (c Config) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

// IndustryByHS returns the industry group name for an HS code, or "" when the
// 4-digit prefix is not mapped.
func (c Config) IndustryByHS(hsCode string) string {
	if len(hsCode) < 4 {
		return ""
	}
	prefix := hsCode[:4]
	for industry, prefixes := range c.IndustryHSGroups {
		for _, p := range prefixes {
			if p == prefix {
				return industry
			}
		}
	}
	return ""
}
