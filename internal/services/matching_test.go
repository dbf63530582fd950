package services

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/kexportlab/tradematch-api/internal/errors"
	"github.com/kexportlab/tradematch-api/internal/kotra"
	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/models"
	"github.com/kexportlab/tradematch-api/internal/scoring"
	"github.com/kexportlab/tradematch-api/internal/store"
)

func testServices() *Services {
	cfg := scoring.DefaultConfig()
	cfg.Now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	st := store.NewSeededStore()
	kc := kotra.NewClient("", "", logger.NewNopLogger())
	return NewServices(st, st, kc, cfg, logger.NewNopLogger())
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestMatch_BlockedTargetCountry(t *testing.T) {
	svc := testServices()

	_, err := svc.Matching.Match(context.Background(), models.MatchRequest{
		SellerID:      "SEL-001",
		TargetCountry: "KP",
	})
	if err == nil {
		t.Fatal("expected a policy rejection")
	}
	if code := errCode(t, err); code != apperrors.ErrCodePolicyBlocked {
		t.Errorf("code = %s, want POLICY_BLOCKED", code)
	}
}

func TestMatch_RanksAndExcludes(t *testing.T) {
	svc := testServices()

	report, err := svc.Matching.Match(context.Background(), models.MatchRequest{SellerID: "SEL-001"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if report.TotalCandidates != 5 {
		t.Errorf("total candidates = %d, want 5", report.TotalCandidates)
	}
	if len(report.Matches) != 3 {
		t.Fatalf("matches = %d, want 3 (VN, US, RU buyers)", len(report.Matches))
	}
	if len(report.Excluded) != 2 {
		t.Fatalf("excluded = %d, want 2 (JP and ID buyers fail the MOQ gate)", len(report.Excluded))
	}

	for i := 1; i < len(report.Matches); i++ {
		if *report.Matches[i-1].FitScore < *report.Matches[i].FitScore {
			t.Errorf("matches not sorted: %f before %f",
				*report.Matches[i-1].FitScore, *report.Matches[i].FitScore)
		}
	}
	for _, m := range report.Matches {
		if m.FitScore == nil {
			t.Errorf("match %s carries no score", m.PartnerID)
		}
	}
	for _, e := range report.Excluded {
		if e.FitScore != nil {
			t.Errorf("excluded %s carries a partial score %f", e.PartnerID, *e.FitScore)
		}
		if len(e.Reasons) == 0 {
			t.Errorf("excluded %s carries no reason", e.PartnerID)
		}
	}

	if report.RequestID == "" {
		t.Error("missing request ID")
	}
	if report.Confidence.Level != scoring.ConfidenceHigh {
		t.Errorf("confidence = %s, want high with full offline data", report.Confidence.Level)
	}
}

func TestMatch_RestrictedBuyerStaysScored(t *testing.T) {
	svc := testServices()

	report, err := svc.Matching.Match(context.Background(), models.MatchRequest{SellerID: "SEL-001"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	var found bool
	for _, m := range report.Matches {
		if m.PartnerID == "BUY-005" {
			found = true
			if m.Compliance.Level != scoring.ComplianceRestricted {
				t.Errorf("RU buyer compliance = %s, want restricted", m.Compliance.Level)
			}
			if !m.Compliance.RequiresExportLicense {
				t.Error("RU buyer should carry the export license flag")
			}
		}
	}
	if !found {
		t.Error("restricted-country buyer should be scored, not excluded")
	}
}

func TestMatch_TargetCountryNarrowsPool(t *testing.T) {
	svc := testServices()

	report, err := svc.Matching.Match(context.Background(), models.MatchRequest{
		SellerID:      "SEL-001",
		TargetCountry: "VN",
	})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if report.TotalCandidates != 1 {
		t.Errorf("total candidates = %d, want 1", report.TotalCandidates)
	}
	if len(report.Matches) != 1 || report.Matches[0].PartnerID != "BUY-001" {
		t.Errorf("matches = %+v, want only BUY-001", report.Matches)
	}
}

func TestMatch_TopNTruncates(t *testing.T) {
	svc := testServices()

	report, err := svc.Matching.Match(context.Background(), models.MatchRequest{
		SellerID: "SEL-001",
		TopN:     1,
	})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(report.Matches) != 1 {
		t.Errorf("matches = %d, want 1", len(report.Matches))
	}
}

func TestMatch_UnknownSeller(t *testing.T) {
	svc := testServices()

	_, err := svc.Matching.Match(context.Background(), models.MatchRequest{SellerID: "nope"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := errCode(t, err); code != apperrors.ErrCodeNotFound {
		t.Errorf("code = %s, want NOT_FOUND", code)
	}
}
