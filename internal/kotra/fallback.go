package kotra

import (
	"strings"

	"github.com/kexportlab/tradematch-api/internal/models"
)

// MarketSize is the estimated addressable market for one country/industry.
type MarketSize struct {
	MarketSizeUSD float64 `json:"market_size_usd"`
	GDPUSD        float64 `json:"gdp_usd,omitempty"`
	IndustryRatio float64 `json:"industry_ratio,omitempty"`
	GrowthRate    float64 `json:"growth_rate,omitempty"`
	CountryName   string  `json:"country_name,omitempty"`
	RiskGrade     string  `json:"risk_grade,omitempty"`
	Source        string  `json:"source"` // calculated / default
	Confidence    string  `json:"confidence"`
}

const defaultMarketSizeUSD = 100_000_000

// EstimateMarketSize sizes a market as GDP x industry ratio, falling back to
// a flat default for countries outside the dataset.
func EstimateMarketSize(countryCode, industry string) MarketSize {
	info, ok := fallbackCountryInfo(countryCode)
	if !ok {
		return MarketSize{
			MarketSizeUSD: defaultMarketSizeUSD,
			Source:        "default",
			Confidence:    "low",
		}
	}

	ratio, ok := info.IndustryRatios[industry]
	if !ok {
		ratio = 0.005
	}
	return MarketSize{
		MarketSizeUSD: info.GDPUSD * ratio,
		GDPUSD:        info.GDPUSD,
		IndustryRatio: ratio,
		GrowthRate:    info.ImportGrowthRate,
		CountryName:   info.CountryName,
		RiskGrade:     info.RiskGrade,
		Source:        "calculated",
		Confidence:    "medium",
	}
}

// countryMarketData is the offline snapshot served when no API key is
// configured. Industry ratios are shares of GDP.
var countryMarketData = map[string]CountryInfo{
	"US": {
		CountryCode: "US", CountryName: "United States",
		GDPUSD: 25_460_000_000_000, GrowthRatePct: 2.5, ImportGrowthRate: 0.03,
		Population: 331_000_000, RiskGrade: "A",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.008, "pharmaceuticals": 0.045, "food": 0.012,
			"electronics": 0.025, "textiles": 0.006,
		},
	},
	"CN": {
		CountryCode: "CN", CountryName: "China",
		GDPUSD: 17_960_000_000_000, GrowthRatePct: 5.2, ImportGrowthRate: 0.05,
		Population: 1_412_000_000, RiskGrade: "B",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.006, "pharmaceuticals": 0.035, "food": 0.015,
			"electronics": 0.035, "textiles": 0.012,
		},
	},
	"JP": {
		CountryCode: "JP", CountryName: "Japan",
		GDPUSD: 4_230_000_000_000, GrowthRatePct: 1.9, ImportGrowthRate: 0.02,
		Population: 125_000_000, RiskGrade: "A",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.012, "pharmaceuticals": 0.055, "food": 0.010,
			"electronics": 0.022, "textiles": 0.004,
		},
	},
	"VN": {
		CountryCode: "VN", CountryName: "Vietnam",
		GDPUSD: 409_000_000_000, GrowthRatePct: 5.1, ImportGrowthRate: 0.08,
		Population: 99_000_000, RiskGrade: "B",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.005, "pharmaceuticals": 0.025, "food": 0.018,
			"electronics": 0.015, "textiles": 0.025,
		},
	},
	"DE": {
		CountryCode: "DE", CountryName: "Germany",
		GDPUSD: 4_070_000_000_000, GrowthRatePct: 0.3, ImportGrowthRate: 0.025,
		Population: 84_000_000, RiskGrade: "A",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.007, "pharmaceuticals": 0.048, "food": 0.008,
			"electronics": 0.018, "textiles": 0.005,
		},
	},
	"SG": {
		CountryCode: "SG", CountryName: "Singapore",
		GDPUSD: 397_000_000_000, GrowthRatePct: 1.1, ImportGrowthRate: 0.04,
		Population: 5_900_000, RiskGrade: "A",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.006, "pharmaceuticals": 0.035, "food": 0.008,
			"electronics": 0.045, "textiles": 0.003,
		},
	},
	"TH": {
		CountryCode: "TH", CountryName: "Thailand",
		GDPUSD: 495_000_000_000, GrowthRatePct: 2.7, ImportGrowthRate: 0.05,
		Population: 70_000_000, RiskGrade: "B",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.006, "pharmaceuticals": 0.028, "food": 0.015,
			"electronics": 0.020, "textiles": 0.008,
		},
	},
	"ID": {
		CountryCode: "ID", CountryName: "Indonesia",
		GDPUSD: 1_320_000_000_000, GrowthRatePct: 5.0, ImportGrowthRate: 0.06,
		Population: 276_000_000, RiskGrade: "B",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.004, "pharmaceuticals": 0.022, "food": 0.020,
			"electronics": 0.012, "textiles": 0.015,
		},
	},
	"IN": {
		CountryCode: "IN", CountryName: "India",
		GDPUSD: 3_390_000_000_000, GrowthRatePct: 7.2, ImportGrowthRate: 0.07,
		Population: 1_420_000_000, RiskGrade: "B",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.003, "pharmaceuticals": 0.025, "food": 0.018,
			"electronics": 0.015, "textiles": 0.020,
		},
	},
	"AU": {
		CountryCode: "AU", CountryName: "Australia",
		GDPUSD: 1_680_000_000_000, GrowthRatePct: 2.1, ImportGrowthRate: 0.03,
		Population: 26_000_000, RiskGrade: "A",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.008, "pharmaceuticals": 0.042, "food": 0.010,
			"electronics": 0.015, "textiles": 0.004,
		},
	},
	"AE": {
		CountryCode: "AE", CountryName: "United Arab Emirates",
		GDPUSD: 507_000_000_000, GrowthRatePct: 3.4, ImportGrowthRate: 0.05,
		Population: 10_000_000, RiskGrade: "A",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.010, "pharmaceuticals": 0.030, "food": 0.015,
			"electronics": 0.025, "textiles": 0.008,
		},
	},
	"GB": {
		CountryCode: "GB", CountryName: "United Kingdom",
		GDPUSD: 3_070_000_000_000, GrowthRatePct: 0.5, ImportGrowthRate: 0.025,
		Population: 67_000_000, RiskGrade: "A",
		IndustryRatios: map[string]float64{
			"cosmetics": 0.009, "pharmaceuticals": 0.050, "food": 0.009,
			"electronics": 0.016, "textiles": 0.005,
		},
	},
}

func fallbackCountryInfo(countryCode string) (CountryInfo, bool) {
	info, ok := countryMarketData[strings.ToUpper(strings.TrimSpace(countryCode))]
	return info, ok
}

// fallbackFraudCases returns a deterministic per-country case list sized to
// match the country's risk grade, so the tiers stay exercisable offline.
func fallbackFraudCases(countryCode string) []FraudCase {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	counts := map[string]int{
		"NG": 24, "PK": 12, "IN": 11, "CN": 8, "VN": 6, "ID": 5, "TH": 2, "BR": 7,
	}
	n, ok := counts[code]
	if !ok {
		return nil
	}
	types := []string{"advance payment fraud", "forged documents", "phantom shipment", "identity theft"}
	cases := make([]FraudCase, 0, n)
	for i := 0; i < n; i++ {
		cases = append(cases, FraudCase{
			Title:      "Reported trade fraud case",
			Type:       types[i%len(types)],
			Country:    code,
			Date:       "2023-06-01",
			Prevention: "Verify the counterparty through a trade office before payment.",
		})
	}
	return cases
}

// fallbackSuccessCases serves a small static case history per country.
var fallbackSuccessCaseData = []models.SuccessCase{
	{ID: "SC-1001", Country: "VN", HSCode: "330499", Date: "2023-09-12", Company: "Hanbit Cosmetics", Title: "K-beauty serum line enters Ho Chi Minh retail"},
	{ID: "SC-1002", Country: "VN", HSCode: "330410", Date: "2022-04-03", Company: "Mirae Beauty", Title: "Lip care brand expands via local distributor"},
	{ID: "SC-1003", Country: "VN", HSCode: "190190", Date: "2021-11-20", Company: "Seoul Foods", Title: "Instant cereal mix wins supermarket listing"},
	{ID: "SC-1004", Country: "US", HSCode: "330499", Date: "2023-02-17", Company: "Glow Labs", Title: "Skincare set launches on US e-commerce"},
	{ID: "SC-1005", Country: "US", HSCode: "847130", Date: "2022-08-30", Company: "Daon Tech", Title: "Portable computing accessory in national chain"},
	{ID: "SC-1006", Country: "JP", HSCode: "330499", Date: "2020-05-08", Company: "Hana Cosmetics", Title: "Essence line sold through Tokyo drugstores"},
	{ID: "SC-1007", Country: "ID", HSCode: "210690", Date: "2023-07-01", Company: "K-Food Trading", Title: "Health supplement certified and distributed"},
	{ID: "SC-1008", Country: "TH", HSCode: "330499", Date: "2023-05-22", Company: "Purelight", Title: "Sunscreen brand placed in Bangkok duty free"},
}

func fallbackSuccessCases(countryCode, hsCode string) []models.SuccessCase {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	var out []models.SuccessCase
	for _, sc := range fallbackSuccessCaseData {
		if code != "" && sc.Country != code {
			continue
		}
		if hsCode != "" && len(hsCode) >= 4 && len(sc.HSCode) >= 4 && sc.HSCode[:4] != hsCode[:4] {
			// Keep 4-digit neighbors out only when both codes are known.
			// Exact filtering happens in scoring; the client just narrows.
			continue
		}
		out = append(out, sc)
	}
	return out
}

// fallbackNews serves canned articles so the sentiment scan has material
// offline.
var fallbackNewsData = map[string][]NewsItem{
	"VN": {
		{Title: "Vietnam cosmetics demand growth continues", Content: "<p>Retail demand expansion driven by rising incomes and investment.</p>", Country: "VN", Date: "2024-04-02"},
		{Title: "New labeling regulation for imported cosmetics", Content: "<p>Authorities announced a regulation on ingredient labeling.</p>", Country: "VN", Date: "2024-03-15"},
		{Title: "Logistics investment boosts port capacity", Content: "<p>Infrastructure investment is an opportunity for exporters.</p>", Country: "VN", Date: "2024-02-20"},
	},
	"US": {
		{Title: "Tariff review announced for select imports", Content: "<p>A tariff investigation may affect consumer goods.</p>", Country: "US", Date: "2024-03-28"},
		{Title: "E-commerce demand growth for K-beauty", Content: "<p>Online demand keeps growing across beauty categories.</p>", Country: "US", Date: "2024-03-01"},
	},
	"RU": {
		{Title: "New sanction package tightens export controls", Content: "<p>Additional sanction measures restrict shipments.</p>", Country: "RU", Date: "2024-01-10"},
		{Title: "Payment crisis complicates trade settlement", Content: "<p>Settlement risk rises for foreign suppliers.</p>", Country: "RU", Date: "2024-02-05"},
	},
}

func fallbackNews(countryCode string) []NewsItem {
	return fallbackNewsData[strings.ToUpper(strings.TrimSpace(countryCode))]
}

// fallbackExportMarkets is the default promising-market list served when the
// export prospect feed is unreachable.
var fallbackExportMarkets = []ExportRecommendation{
	{CountryCode: "US", CountryName: "United States", Score: 3.5},
	{CountryCode: "CN", CountryName: "China", Score: 3.2},
	{CountryCode: "VN", CountryName: "Vietnam", Score: 3.0},
	{CountryCode: "JP", CountryName: "Japan", Score: 2.8},
	{CountryCode: "DE", CountryName: "Germany", Score: 2.5},
}

func fallbackExportRecommendations(hsCode string) []ExportRecommendation {
	out := make([]ExportRecommendation, len(fallbackExportMarkets))
	copy(out, fallbackExportMarkets)
	for i := range out {
		out[i].HSCode = hsCode
	}
	return out
}
