package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kexportlab/tradematch-api/internal/kotra"
	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/scoring"
	"github.com/kexportlab/tradematch-api/internal/store"
	"github.com/kexportlab/tradematch-api/pkg/config"
)

// Manual check harness: score one seller/buyer pair from the demo dataset
// and print the full breakdown.
func main() {
	var (
		sellerID = flag.String("seller", "SEL-001", "seller profile ID")
		buyerID  = flag.String("buyer", "BUY-001", "buyer profile ID")
		asJSON   = flag.Bool("json", false, "print the raw result as JSON")
	)
	flag.Parse()

	log := logger.NewSimpleLogger()
	cfg := config.New()
	scoringCfg := scoring.DefaultConfig()

	st := store.NewSeededStore()
	kc := kotra.NewClient(cfg.KotraBaseURL, cfg.KotraAPIKey, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seller, err := st.GetSeller(ctx, *sellerID)
	if err != nil {
		log.Fatal("seller lookup failed", err)
	}
	buyer, err := st.GetBuyer(ctx, *buyerID)
	if err != nil {
		log.Fatal("buyer lookup failed", err)
	}

	risk, err := kc.CountryFraudRisk(ctx, buyer.CountryISO2)
	if err != nil {
		log.Warn("no fraud data, scoring without it", "err", err)
	}
	cases, err := kc.SuccessCases(ctx, buyer.CountryISO2, seller.HSCode)
	if err != nil {
		log.Warn("no success cases", "err", err)
	}

	result := scoring.ComputeFitScore(seller, buyer,
		scoring.FraudRisk{RiskLevel: risk.RiskLevel, CaseCount: risk.CaseCount},
		cases, time.Now(), scoringCfg)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatal("encode failed", err)
		}
		return
	}

	fmt.Printf("%s -> %s (%s)\n", seller.ID, buyer.ID, buyer.CountryISO2)
	fmt.Printf("  compliance:  %s\n", result.Compliance.Level)
	fmt.Printf("  moq gate:    %v (ratio %.2f)\n", result.MOQMOV.MOQGatePassed, result.MOQMOV.MOQRatio)
	fmt.Printf("  mov gate:    %v (order value %.2f)\n", result.MOQMOV.MOVGatePassed, result.MOQMOV.OrderValueUSD)
	fmt.Printf("  cert gate:   %v\n", result.Certs.GatePassed)
	if result.FitScore == nil {
		fmt.Printf("  EXCLUDED:    %v\n", result.Reasons)
		return
	}

	b := result.ScoreBreakdown
	fmt.Printf("  base         %+6.2f\n", b.Base)
	fmt.Printf("  hs match     %+6.2f\n", b.HSMatch)
	fmt.Printf("  price fit    %+6.2f\n", b.PriceCompat)
	fmt.Printf("  moq/mov      %+6.2f\n", b.MOQContribution)
	fmt.Printf("  certs        %+6.2f\n", b.CertContribution)
	fmt.Printf("  fraud        %+6.2f (%s, %d cases)\n", b.FraudPenalty, risk.RiskLevel, risk.CaseCount)
	fmt.Printf("  success      %+6.2f\n", b.SuccessBonus)
	fmt.Printf("  FIT SCORE    %6.2f\n", *result.FitScore)
}
