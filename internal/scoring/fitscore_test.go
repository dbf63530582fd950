package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/kexportlab/tradematch-api/internal/models"
)

var fitToday = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func baseSeller() models.SellerProfile {
	return models.SellerProfile{
		ID:             "S1",
		CompanyName:    "Hanbit Cosmetics",
		HSCode:         "330499",
		CountryISO2:    "KR",
		PriceMin:       3,
		PriceMax:       5,
		MOQ:            1000,
		Certifications: []string{"FDA", "ISO9001"},
	}
}

func baseBuyer() models.BuyerProfile {
	return models.BuyerProfile{
		ID:            "B1",
		CompanyName:   "Saigon Beauty Trading",
		HSCode:        "330499",
		CountryISO2:   "VN",
		PriceMin:      4,
		PriceMax:      6,
		MOQ:           2000,
		RequiredCerts: []string{"FDA"},
	}
}

func TestComputeFitScore_BlockedCountryShortCircuits(t *testing.T) {
	cfg := DefaultConfig()
	buyer := baseBuyer()
	buyer.CountryISO2 = "KP"

	res := ComputeFitScore(baseSeller(), buyer, FraudRisk{}, nil, fitToday, cfg)
	if res.FitScore != nil {
		t.Errorf("blocked country must yield no score, got %f", *res.FitScore)
	}
	if !contains(res.Reasons, ReasonCountryBlocked) {
		t.Errorf("reasons = %v, want %s", res.Reasons, ReasonCountryBlocked)
	}
	// Blocked is the first gate: nothing downstream runs.
	if res.GateFlags.MOQGatePassed || res.GateFlags.CertGatePassed {
		t.Error("downstream gates must not run for a blocked country")
	}
}

func TestComputeFitScore_MOQGateShortCircuits(t *testing.T) {
	cfg := DefaultConfig()
	buyer := baseBuyer()
	buyer.MOQ = 100 // ratio 0.1, below 0.3

	res := ComputeFitScore(baseSeller(), buyer, FraudRisk{}, nil, fitToday, cfg)
	if res.FitScore != nil {
		t.Errorf("MOQ-gated pair must yield no score, got %f", *res.FitScore)
	}
	if !contains(res.Reasons, ReasonMOQBuyerTooSmall) {
		t.Errorf("reasons = %v, want %s", res.Reasons, ReasonMOQBuyerTooSmall)
	}
	if res.GateFlags.CertGatePassed {
		t.Error("cert gate must not run after an MOQ rejection")
	}
}

func TestComputeFitScore_CertGateShortCircuits(t *testing.T) {
	cfg := DefaultConfig()
	seller := baseSeller()
	seller.Certifications = nil

	res := ComputeFitScore(seller, baseBuyer(), FraudRisk{}, nil, fitToday, cfg)
	if res.FitScore != nil {
		t.Errorf("cert-gated pair must yield no score, got %f", *res.FitScore)
	}
	if !contains(res.Reasons, ReasonMissingCerts) {
		t.Errorf("reasons = %v, want %s", res.Reasons, ReasonMissingCerts)
	}
	if !res.GateFlags.MOQGatePassed {
		t.Error("the pair should have cleared the MOQ gate before the cert rejection")
	}
}

func TestComputeFitScore_HappyPath(t *testing.T) {
	cfg := DefaultConfig()
	cases := []models.SuccessCase{
		{ID: "C1", Country: "VN", HSCode: "330499", Date: "2024-01-01"},
	}

	res := ComputeFitScore(baseSeller(), baseBuyer(), FraudRisk{CaseCount: 12}, cases, fitToday, cfg)
	if res.FitScore == nil {
		t.Fatalf("expected a score, reasons=%v", res.Reasons)
	}

	b := res.ScoreBreakdown
	if b.Base != 50 || b.HSMatch != 20 || b.PriceCompat != 15 {
		t.Errorf("base/hs/price = %f/%f/%f, want 50/20/15", b.Base, b.HSMatch, b.PriceCompat)
	}
	if b.FraudPenalty != -7 {
		t.Errorf("fraud penalty = %f, want -7 for 12 cases", b.FraudPenalty)
	}
	if b.SuccessBonus != 10 {
		t.Errorf("success bonus = %f, want 10", b.SuccessBonus)
	}

	want := clamp(b.Base+b.HSMatch+b.PriceCompat+b.MOQContribution+
		b.CertContribution+b.FraudPenalty+b.SuccessBonus, 0, 100)
	if math.Abs(*res.FitScore-want) > 1e-9 {
		t.Errorf("fit score = %f, want %f", *res.FitScore, want)
	}
	if *res.FitScore < 0 || *res.FitScore > 100 {
		t.Errorf("fit score out of range: %f", *res.FitScore)
	}
}

func TestComputeFitScore_ClampsAt100(t *testing.T) {
	cfg := DefaultConfig()

	seller := baseSeller()
	seller.MOQ = 1000
	seller.PriceMin = 1
	buyer := baseBuyer()
	buyer.MOQ = 1000
	buyer.PreferredCerts = []string{"ISO9001", "HALAL", "GMP"}

	cases := []models.SuccessCase{
		{ID: "C1", Country: "VN", HSCode: "330499", Date: "2024-01-01"},
		{ID: "C2", Country: "VN", HSCode: "330499", Date: "2024-02-01"},
		{ID: "C3", Country: "VN", HSCode: "330499", Date: "2024-03-01"},
	}

	res := ComputeFitScore(seller, buyer, FraudRisk{}, cases, fitToday, cfg)
	if res.FitScore == nil {
		t.Fatalf("expected a score, reasons=%v", res.Reasons)
	}
	// 50+20+15+10+(0.7+0.1)*15+20 = 127 before the clamp.
	if *res.FitScore != 100 {
		t.Errorf("fit score = %f, want clamped 100", *res.FitScore)
	}
}

func TestFraudPenalty_Tiers(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		cases int
		want  float64
	}{
		{0, 0},
		{4, 0},
		{5, -3},
		{9, -3},
		{10, -7},
		{19, -7},
		{20, -20},
		{100, -20},
	}

	for _, tt := range tests {
		if got := FraudPenalty(FraudRisk{CaseCount: tt.cases}, cfg); got != tt.want {
			t.Errorf("FraudPenalty(%d cases) = %f, want %f", tt.cases, got, tt.want)
		}
	}
}

func TestFraudPenalty_CapBoundsCustomTiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FraudTiers = []FraudPenaltyTier{{MinCases: 1, Penalty: -40}}

	if got := FraudPenalty(FraudRisk{CaseCount: 3}, cfg); got != cfg.FraudPenaltyCap {
		t.Errorf("penalty = %f, want capped at %f", got, cfg.FraudPenaltyCap)
	}
}
