package scoring

import "fmt"

// Indicator field identifiers, matching the World Bank snapshot fields.
const (
	FieldGDP          = "gdp_usd"
	FieldGDPGrowth    = "gdp_growth_pct"
	FieldImportValue  = "import_value_usd"
	FieldImportGrowth = "import_growth_pct"
	FieldInflation    = "inflation_pct"
)

// Warning codes attached to economic records.
const (
	WarnGDPNegative = "GDP_NEGATIVE"
	WarnGDPZero     = "GDP_ZERO"
	WarnStale       = "INDICATOR_STALE"
)

// Observation is one raw (year, value) pair for a single indicator. A nil
// Value models a null cell in the source data.
type Observation struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

// IndicatorValue is the effective (value, year) selected for one indicator.
type IndicatorValue struct {
	Value float64
	Year  int
}

// CountryIndicators is one country's raw macro snapshot: per-indicator
// observation series, as produced by the ingestion side.
type CountryIndicators struct {
	CountryISO3 string                   `json:"country_iso3"`
	CountryName string                   `json:"country_name,omitempty"`
	Series      map[string][]Observation `json:"series"`
}

// EconomicRecord is the per-country scoring outcome for one snapshot.
type EconomicRecord struct {
	CountryISO3   string             `json:"country_iso3"`
	CountryName   string             `json:"country_name"`
	Year          int                `json:"year"`
	GDPUSD        *float64           `json:"gdp_usd"`
	GDPGrowthPct  *float64           `json:"gdp_growth_pct"`
	NormGDP       *float64           `json:"norm_gdp"`
	NormGDPGrowth *float64           `json:"norm_gdp_growth"`
	EconomicScore float64            `json:"economic_score"`
	MissingFields []string           `json:"missing_fields"`
	Warnings      []string           `json:"warnings"`
	Excluded      bool               `json:"excluded"`
	ExcludeReason string             `json:"exclude_reason,omitempty"`
	Factors       map[string]float64 `json:"factors,omitempty"`
}

// SelectEffectiveValue applies the year-selection rule for one indicator:
// take the maximum year carrying a non-null value, and reject it when it is
// more than cfg.MaxYearGap years behind currentYear. Each indicator selects
// independently, so one country may mix years across indicators.
func SelectEffectiveValue(series []Observation, currentYear, maxGap int) *IndicatorValue {
	var best *IndicatorValue
	for _, obs := range series {
		if obs.Value == nil {
			continue
		}
		if currentYear-obs.Year > maxGap {
			continue
		}
		if best == nil || obs.Year > best.Year {
			best = &IndicatorValue{Value: *obs.Value, Year: obs.Year}
		}
	}
	return best
}

func hasObservation(series []Observation) bool {
	for _, obs := range series {
		if obs.Value != nil {
			return true
		}
	}
	return false
}

// ScoreEconomic normalizes and scores every country in the snapshot.
//
// Two-phase by construction: the eligible pool is fully assembled before any
// single candidate is normalized against it. Countries whose GDP is missing,
// zero, or negative are excluded from the pool entirely and returned with
// Excluded=true; no imputation is ever performed for GDP.
func ScoreEconomic(snapshot []CountryIndicators, currentYear int, cfg Config) []EconomicRecord {
	type selected struct {
		values map[string]*IndicatorValue
	}
	sel := make([]selected, len(snapshot))

	fields := []string{FieldGDP, FieldGDPGrowth}
	if cfg.Formula == FormulaV10 {
		fields = []string{FieldGDP, FieldGDPGrowth, FieldImportValue, FieldImportGrowth, FieldInflation}
	}

	for i, country := range snapshot {
		sel[i].values = make(map[string]*IndicatorValue, len(fields))
		for _, f := range fields {
			sel[i].values[f] = SelectEffectiveValue(country.Series[f], currentYear, cfg.MaxYearGap)
		}
	}

	// Phase 1: pools over eligible candidates only.
	pools := make(map[string]LogPool)
	for _, f := range fields {
		if !cfg.LogNormFields[f] {
			continue
		}
		var vals []float64
		for i := range snapshot {
			gdp := sel[i].values[FieldGDP]
			if gdp == nil || gdp.Value <= 0 {
				continue
			}
			if v := sel[i].values[f]; v != nil && v.Value > 0 {
				vals = append(vals, v.Value)
			}
		}
		pools[f] = NewLogPool(vals)
	}

	// Phase 2: per-candidate normalization against the frozen pools.
	records := make([]EconomicRecord, 0, len(snapshot))
	for i, country := range snapshot {
		rec := EconomicRecord{
			CountryISO3: country.CountryISO3,
			CountryName: country.CountryName,
		}

		gdp := sel[i].values[FieldGDP]
		growth := sel[i].values[FieldGDPGrowth]

		if gdp != nil {
			rec.Year = gdp.Year
			v := gdp.Value
			rec.GDPUSD = &v
		}
		if growth != nil {
			v := growth.Value
			rec.GDPGrowthPct = &v
		}
		staleDropped := false
		for _, f := range fields {
			if sel[i].values[f] == nil {
				rec.MissingFields = append(rec.MissingFields, f)
				// A nil selection with non-null observations means every
				// observation fell outside the staleness window.
				if hasObservation(country.Series[f]) {
					staleDropped = true
				}
			}
		}
		if staleDropped {
			rec.Warnings = append(rec.Warnings, WarnStale)
		}

		// GDP hard filter: missing, zero, and negative all exclude the
		// country from the candidate pool. Zero is treated as missing,
		// negative as an anomaly worth flagging.
		switch {
		case gdp == nil:
			rec.Excluded = true
			rec.ExcludeReason = "GDP missing"
			records = append(records, rec)
			continue
		case gdp.Value == 0:
			rec.Excluded = true
			rec.ExcludeReason = "GDP missing"
			rec.Warnings = append(rec.Warnings, WarnGDPZero)
			records = append(records, rec)
			continue
		case gdp.Value < 0:
			rec.Excluded = true
			rec.ExcludeReason = fmt.Sprintf("GDP anomaly (%g)", gdp.Value)
			rec.Warnings = append(rec.Warnings, WarnGDPNegative)
			records = append(records, rec)
			continue
		}

		weights := cfg.WeightsV11
		if cfg.Formula == FormulaV10 {
			weights = cfg.WeightsV10
		}

		rec.Factors = make(map[string]float64, len(fields))
		score := 0.0
		for _, f := range fields {
			val := sel[i].values[f]
			if val == nil {
				// Missing soft factors contribute zero; weights are
				// never redistributed.
				continue
			}
			var norm float64
			var ok bool
			switch {
			case cfg.LogNormFields[f]:
				norm, ok = pools[f].NormLog(val.Value)
			case cfg.ClipNormFields[f]:
				r := cfg.ClipRanges[f]
				norm, ok = NormClip(val.Value, r.Lower, r.Upper), true
			}
			if !ok {
				continue
			}
			rec.Factors[f] = norm
			score += weights[f] * norm

			switch f {
			case FieldGDP:
				n := norm
				rec.NormGDP = &n
			case FieldGDPGrowth:
				n := norm
				rec.NormGDPGrowth = &n
			}
		}

		if score < 0 {
			score = 0
		}
		rec.EconomicScore = score
		records = append(records, rec)
	}

	return records
}
