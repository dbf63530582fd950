package worldbank

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kexportlab/tradematch-api/internal/scoring"
)

// IndicatorCodes maps snapshot field names to World Bank indicator codes.
var IndicatorCodes = map[string]string{
	scoring.FieldGDP:          "NY.GDP.MKTP.CD",
	scoring.FieldGDPGrowth:    "NY.GDP.MKTP.KD.ZG",
	scoring.FieldImportValue:  "NE.IMP.GNFS.CD",
	scoring.FieldImportGrowth: "NE.IMP.GNFS.KD.ZG",
	scoring.FieldInflation:    "FP.CPI.TOTL.ZG",
}

// fieldByCode is the inverse of IndicatorCodes.
var fieldByCode = func() map[string]string {
	m := make(map[string]string, len(IndicatorCodes))
	for field, code := range IndicatorCodes {
		m[code] = field
	}
	return m
}()

// ParseCSV reads indicator rows with columns REF_AREA, TIME_PERIOD,
// OBS_VALUE, INDICATOR into per-country observation series. An empty
// OBS_VALUE cell is a null observation and is kept as such. Rows with an
// unknown indicator code are skipped.
func ParseCSV(r io.Reader) ([]scoring.CountryIndicators, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"REF_AREA", "TIME_PERIOD", "OBS_VALUE", "INDICATOR"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV missing required column %s", required)
		}
	}

	byCountry := make(map[string]*scoring.CountryIndicators)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line+1, err)
		}
		line++

		iso3 := strings.ToUpper(strings.TrimSpace(row[col["REF_AREA"]]))
		if len(iso3) != 3 {
			continue
		}

		field, ok := fieldByCode[strings.TrimSpace(row[col["INDICATOR"]])]
		if !ok {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[col["TIME_PERIOD"]]))
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: bad TIME_PERIOD %q", line, row[col["TIME_PERIOD"]])
		}

		obs := scoring.Observation{Year: year}
		if raw := strings.TrimSpace(row[col["OBS_VALUE"]]); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("CSV row %d: bad OBS_VALUE %q", line, raw)
			}
			obs.Value = &v
		}

		country, ok := byCountry[iso3]
		if !ok {
			country = &scoring.CountryIndicators{
				CountryISO3: iso3,
				Series:      make(map[string][]scoring.Observation),
			}
			byCountry[iso3] = country
		}
		country.Series[field] = append(country.Series[field], obs)
	}

	out := make([]scoring.CountryIndicators, 0, len(byCountry))
	for _, c := range byCountry {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryISO3 < out[j].CountryISO3 })
	return out, nil
}
