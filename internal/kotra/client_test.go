package kotra

import (
	"context"
	"testing"

	"github.com/kexportlab/tradematch-api/internal/logger"
)

func offlineClient() *Client {
	return NewClient("", "", logger.NewNopLogger())
}

func TestCountryFraudRisk_OfflineTiers(t *testing.T) {
	c := offlineClient()
	ctx := context.Background()

	tests := []struct {
		country   string
		wantLevel string
	}{
		{"NG", "HIGH"},   // 24 cases
		{"PK", "MEDIUM"}, // 12 cases
		{"ID", "LOW"},    // 5 cases
		{"TH", "SAFE"},   // 2 cases
		{"FR", "SAFE"},   // none
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			risk, err := c.CountryFraudRisk(ctx, tt.country)
			if err != nil {
				t.Fatalf("CountryFraudRisk: %v", err)
			}
			if risk.RiskLevel != tt.wantLevel {
				t.Errorf("risk level = %s (count %d), want %s", risk.RiskLevel, risk.CaseCount, tt.wantLevel)
			}
			if len(risk.RecentCases) > 3 {
				t.Errorf("recent cases = %d, want at most 3", len(risk.RecentCases))
			}
		})
	}
}

func TestSuccessCases_OfflineFilter(t *testing.T) {
	c := offlineClient()

	cases, err := c.SuccessCases(context.Background(), "VN", "330499")
	if err != nil {
		t.Fatalf("SuccessCases: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("expected fallback cases for VN/3304")
	}
	for _, sc := range cases {
		if sc.Country != "VN" {
			t.Errorf("case %s from %s leaked through the country filter", sc.ID, sc.Country)
		}
		if sc.HSCode[:4] != "3304" {
			t.Errorf("case %s with HS %s leaked through the HS filter", sc.ID, sc.HSCode)
		}
	}
}

func TestCountryInfo_Offline(t *testing.T) {
	c := offlineClient()

	info, err := c.CountryInfo(context.Background(), "vn")
	if err != nil {
		t.Fatalf("CountryInfo: %v", err)
	}
	if info.CountryCode != "VN" || info.GDPUSD <= 0 {
		t.Errorf("unexpected info: %+v", info)
	}

	if _, err := c.CountryInfo(context.Background(), "ZZ"); err == nil {
		t.Error("unknown country should fail offline")
	}
}

func TestCountryCodeFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"미국", "US"},
		{"베트남", "VN"},
		{"인도", "IN"},
		{"인도네시아", "ID"}, // must not resolve as 인도
		{"아랍에미리트", "AE"},
		{"Germany", "GE"}, // unmapped: first two letters
	}
	for _, tt := range tests {
		if got := CountryCodeFromName(tt.name); got != tt.want {
			t.Errorf("CountryCodeFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExportRecommendations_Offline(t *testing.T) {
	c := offlineClient()

	recs, err := c.ExportRecommendations(context.Background(), "330499", 20)
	if err != nil {
		t.Fatalf("ExportRecommendations: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("recs = %d, want the 5 fallback markets", len(recs))
	}
	if recs[0].CountryCode != "US" || recs[0].Score != 3.5 {
		t.Errorf("top market = %+v, want US at 3.5", recs[0])
	}
	for _, r := range recs {
		if r.HSCode != "330499" {
			t.Errorf("rec %s carries HS %s, want the requested code", r.CountryCode, r.HSCode)
		}
	}
}

func TestEstimateMarketSize(t *testing.T) {
	got := EstimateMarketSize("VN", "cosmetics")
	if got.Source != "calculated" {
		t.Fatalf("source = %s, want calculated", got.Source)
	}
	want := 409_000_000_000 * 0.005
	if got.MarketSizeUSD != want {
		t.Errorf("market size = %f, want %f", got.MarketSizeUSD, want)
	}

	def := EstimateMarketSize("ZZ", "cosmetics")
	if def.Source != "default" || def.MarketSizeUSD != defaultMarketSizeUSD {
		t.Errorf("unknown country should fall back to default: %+v", def)
	}
}
