package kotra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/models"
)

// API endpoint paths under the data.go.kr base URL.
const (
	pathCountryInfo     = "/kotra_nationalInformation/natnInfo/natnInfo"
	pathOverseasNews    = "/kotra_overseasMarketNews/ovseaMrktNews/ovseaMrktNews"
	pathFraudCases      = "/cmmrcFraudCase/cmmrcFraudCase"
	pathSuccessCases    = "/compSucsCase/compSucsCase"
	pathExportRecommend = "/export-recommend-info"
)

// FraudCase is one reported trade fraud incident.
type FraudCase struct {
	Title      string `json:"title"`
	Type       string `json:"type"`
	Country    string `json:"country"`
	Date       string `json:"date"`
	Prevention string `json:"prevention,omitempty"`
}

// FraudRisk is the per-country fraud assessment derived from case reports.
type FraudRisk struct {
	RiskLevel   string         `json:"risk_level"` // HIGH / MEDIUM / LOW / SAFE
	CaseCount   int            `json:"case_count"`
	FraudTypes  map[string]int `json:"fraud_types,omitempty"`
	RecentCases []FraudCase    `json:"recent_cases,omitempty"`
}

// CountryInfo carries the economic summary for one country.
type CountryInfo struct {
	CountryCode      string             `json:"country_code"`
	CountryName      string             `json:"country_name"`
	GDPUSD           float64            `json:"gdp_usd"`
	GrowthRatePct    float64            `json:"growth_rate_pct"`
	ImportGrowthRate float64            `json:"import_growth_rate"`
	Population       int64              `json:"population"`
	RiskGrade        string             `json:"risk_grade"`
	IndustryRatios   map[string]float64 `json:"industry_ratios,omitempty"`
}

// NewsItem is one overseas market news article.
type NewsItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Country string `json:"country"`
	Date    string `json:"date"`
}

// ExportRecommendation is one country/HS entry from the export prospect feed.
// Score ranges 0-5, higher is better.
type ExportRecommendation struct {
	HSCode      string  `json:"hs_code"`
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_name"`
	Score       float64 `json:"score"`
	ExportScale string  `json:"export_scale,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// Client calls the KOTRA open APIs. Without a service key it serves the
// bundled fallback dataset so the scoring pipeline stays usable offline.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a KOTRA API client. An empty serviceKey switches every
// call to the fallback dataset.
func NewClient(baseURL, serviceKey string, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://apis.data.go.kr/B410001"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// HasCredentials reports whether live API calls are possible.
func (c *Client) HasCredentials() bool { return c.serviceKey != "" }

// apiEnvelope is the common KOTRA response wrapper.
type apiEnvelope struct {
	Items []map[string]string `json:"items"`
	Data  []map[string]string `json:"data"`
}

func (e apiEnvelope) records() []map[string]string {
	if len(e.Items) > 0 {
		return e.Items
	}
	return e.Data
}

func (c *Client) request(ctx context.Context, path string, params url.Values) ([]map[string]string, error) {
	params.Set("serviceKey", c.serviceKey)
	params.Set("type", "json")
	if params.Get("numOfRows") == "" {
		params.Set("numOfRows", "10")
	}
	params.Set("pageNo", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return envelope.records(), nil
}

// CountryFraudRisk classifies a country's fraud exposure from reported
// cases: >=20 HIGH, >=10 MEDIUM, >=5 LOW, else SAFE.
func (c *Client) CountryFraudRisk(ctx context.Context, countryCode string) (FraudRisk, error) {
	cases, err := c.fraudCases(ctx, countryCode, 50)
	if err != nil {
		return FraudRisk{}, err
	}

	risk := FraudRisk{CaseCount: len(cases), FraudTypes: map[string]int{}}
	switch {
	case risk.CaseCount >= 20:
		risk.RiskLevel = "HIGH"
	case risk.CaseCount >= 10:
		risk.RiskLevel = "MEDIUM"
	case risk.CaseCount >= 5:
		risk.RiskLevel = "LOW"
	default:
		risk.RiskLevel = "SAFE"
	}

	for _, fc := range cases {
		t := fc.Type
		if t == "" {
			t = "other"
		}
		risk.FraudTypes[t]++
	}
	if len(cases) > 3 {
		cases = cases[:3]
	}
	risk.RecentCases = cases
	return risk, nil
}

func (c *Client) fraudCases(ctx context.Context, countryCode string, numRows int) ([]FraudCase, error) {
	if !c.HasCredentials() {
		return fallbackFraudCases(countryCode), nil
	}

	params := url.Values{}
	params.Set("numOfRows", fmt.Sprint(numRows))
	records, err := c.request(ctx, pathFraudCases, params)
	if err != nil {
		c.log.Warn("fraud case fetch failed, using fallback", "country", countryCode, "err", err)
		return fallbackFraudCases(countryCode), nil
	}

	var out []FraudCase
	for _, r := range records {
		if countryCode != "" && !strings.Contains(strings.ToUpper(r["natNm"]+r["natCd"]), strings.ToUpper(countryCode)) {
			continue
		}
		out = append(out, FraudCase{
			Title:      r["title"],
			Type:       r["fraudTypNm"],
			Country:    r["natCd"],
			Date:       r["wrtDt"],
			Prevention: r["prvntMthd"],
		})
	}
	return out, nil
}

// SuccessCases returns historical export success cases for a country,
// optionally narrowed by HS code prefix.
func (c *Client) SuccessCases(ctx context.Context, countryCode, hsCode string) ([]models.SuccessCase, error) {
	if !c.HasCredentials() {
		return fallbackSuccessCases(countryCode, hsCode), nil
	}

	params := url.Values{}
	params.Set("numOfRows", "20")
	records, err := c.request(ctx, pathSuccessCases, params)
	if err != nil {
		c.log.Warn("success case fetch failed, using fallback", "country", countryCode, "err", err)
		return fallbackSuccessCases(countryCode, hsCode), nil
	}

	var out []models.SuccessCase
	for _, r := range records {
		if countryCode != "" && !strings.Contains(strings.ToUpper(r["natNm"]+r["natCd"]), strings.ToUpper(countryCode)) {
			continue
		}
		out = append(out, models.SuccessCase{
			ID:      r["nttSn"],
			Country: r["natCd"],
			HSCode:  r["hsCd"],
			Date:    r["wrtDt"],
			Company: r["corpNm"],
			Title:   r["title"],
		})
	}
	return out, nil
}

// CountryInfo returns the economic summary for a country.
func (c *Client) CountryInfo(ctx context.Context, countryCode string) (CountryInfo, error) {
	info, ok := fallbackCountryInfo(countryCode)
	if !c.HasCredentials() {
		if !ok {
			return CountryInfo{}, fmt.Errorf("no country info for %s", countryCode)
		}
		return info, nil
	}

	params := url.Values{}
	params.Set("isoWd2CntCd", strings.ToUpper(countryCode))
	records, err := c.request(ctx, pathCountryInfo, params)
	if err != nil || len(records) == 0 {
		if ok {
			c.log.Warn("country info fetch failed, using fallback", "country", countryCode, "err", err)
			return info, nil
		}
		if err == nil {
			err = fmt.Errorf("no country info for %s", countryCode)
		}
		return CountryInfo{}, err
	}

	r := records[0]
	live := CountryInfo{
		CountryCode: strings.ToUpper(countryCode),
		CountryName: r["natnNm"],
		RiskGrade:   r["riskGrd"],
	}
	// The API nests per-year GDP/growth lists; the fallback table carries
	// the extracted latest values, so prefer those when present.
	if ok {
		live.GDPUSD = info.GDPUSD
		live.GrowthRatePct = info.GrowthRatePct
		live.ImportGrowthRate = info.ImportGrowthRate
		live.Population = info.Population
		live.IndustryRatios = info.IndustryRatios
		if live.RiskGrade == "" {
			live.RiskGrade = info.RiskGrade
		}
	}
	return live, nil
}

// OverseasNews returns market news for a country.
func (c *Client) OverseasNews(ctx context.Context, countryCode string, numRows int) ([]NewsItem, error) {
	if !c.HasCredentials() {
		return fallbackNews(countryCode), nil
	}

	params := url.Values{}
	params.Set("numOfRows", fmt.Sprint(numRows))
	if countryCode != "" {
		params.Set("search1", countryCode)
	}
	records, err := c.request(ctx, pathOverseasNews, params)
	if err != nil {
		c.log.Warn("news fetch failed, using fallback", "country", countryCode, "err", err)
		return fallbackNews(countryCode), nil
	}

	var out []NewsItem
	for _, r := range records {
		out = append(out, NewsItem{
			Title:   r["title"],
			Content: r["cntnt"],
			Country: r["natCd"],
			Date:    r["wrtDt"],
		})
	}
	return out, nil
}

// ExportRecommendations returns export prospect entries narrowed to the
// 4-digit HS prefix, sorted by score descending.
func (c *Client) ExportRecommendations(ctx context.Context, hsCode string, numRows int) ([]ExportRecommendation, error) {
	if numRows <= 0 {
		numRows = 20
	}
	if !c.HasCredentials() {
		return fallbackExportRecommendations(hsCode), nil
	}

	params := url.Values{}
	params.Set("numOfRows", fmt.Sprint(numRows))
	records, err := c.request(ctx, pathExportRecommend, params)
	if err != nil {
		c.log.Warn("export recommendation fetch failed, using fallback", "hs", hsCode, "err", err)
		return fallbackExportRecommendations(hsCode), nil
	}

	var prefix string
	if len(hsCode) >= 4 {
		prefix = hsCode[:4]
	}
	var out []ExportRecommendation
	for _, r := range records {
		if prefix != "" && !strings.HasPrefix(r["HSCD"], prefix) {
			continue
		}
		score, _ := strconv.ParseFloat(r["EXP_BHRC_SCR"], 64)
		out = append(out, ExportRecommendation{
			HSCode:      r["HSCD"],
			CountryCode: CountryCodeFromName(r["NAT_NAME"]),
			CountryName: r["NAT_NAME"],
			Score:       score,
			ExportScale: r["EXPORTSCALE"],
			UpdatedAt:   r["UPDT_DT"],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > numRows {
		out = out[:numRows]
	}
	return out, nil
}

// countryNames maps feed country names (the feed is Korean-first) to ISO2.
// Longer names come first so 인도네시아 never resolves as 인도.
var countryNames = []struct {
	name string
	code string
}{
	{"사우디아라비아", "SA"}, {"아랍에미리트", "AE"}, {"인도네시아", "ID"},
	{"말레이시아", "MY"}, {"이탈리아", "IT"}, {"싱가포르", "SG"},
	{"캐나다", "CA"}, {"프랑스", "FR"}, {"베트남", "VN"}, {"멕시코", "MX"},
	{"브라질", "BR"}, {"러시아", "RU"}, {"필리핀", "PH"},
	{"미국", "US"}, {"중국", "CN"}, {"일본", "JP"}, {"독일", "DE"},
	{"영국", "GB"}, {"태국", "TH"}, {"인도", "IN"}, {"호주", "AU"},
}

// CountryCodeFromName resolves a feed country name to an ISO2 code, falling
// back to the first two letters upper-cased.
func CountryCodeFromName(name string) string {
	for _, entry := range countryNames {
		if strings.Contains(name, entry.name) {
			return entry.code
		}
	}
	name = strings.TrimSpace(name)
	if len(name) >= 2 {
		return strings.ToUpper(name[:2])
	}
	return strings.ToUpper(name)
}
