package models

// MatchRequest asks for ranked buyer matches for one seller. TargetCountry
// narrows the candidate pool to a single market; empty means all buyers.
type MatchRequest struct {
	SellerID      string `json:"seller_id" binding:"required"`
	TargetCountry string `json:"target_country,omitempty"`
	TopN          int    `json:"top_n,omitempty"`
}

// RecommendationRequest asks for ranked target-country recommendations for
// an HS code. Goal "new_market" filters out countries already exported to.
type RecommendationRequest struct {
	HSCode                 string   `json:"hs_code" binding:"required"`
	Goal                   string   `json:"goal,omitempty"`
	CurrentExportCountries []string `json:"current_export_countries,omitempty"`
	TopN                   int      `json:"top_n,omitempty"`
}

// SimulationRequest asks for an export performance simulation against one
// target market. MarketSizeEstimateMUSD is a user override in USD millions.
type SimulationRequest struct {
	TargetCountry          string   `json:"target_country" binding:"required"`
	HSCode                 string   `json:"hs_code" binding:"required"`
	PricePerUnit           float64  `json:"price_per_unit"`
	AnnualCapacity         int      `json:"annual_capacity"`
	MarketSizeEstimateMUSD *float64 `json:"market_size_estimate_musd,omitempty"`
	IncludeNewsRisk        bool     `json:"include_news_risk"`
}
