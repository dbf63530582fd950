package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/scoring"
	"github.com/kexportlab/tradematch-api/internal/worldbank"
	"github.com/kexportlab/tradematch-api/pkg/config"
)

// The pipeline has three modes:
//
//	-fetch            collect indicators from the World Bank API and save a snapshot
//	-csv FILE         score an indicator CSV export
//	-snapshot FILE    score a previously saved snapshot
//
// Scored records are written as indented JSON to -out (default stdout).
func main() {
	// Optional; the pipeline runs fine on plain env vars.
	_ = godotenv.Load()

	var (
		fetch        = flag.Bool("fetch", false, "collect indicators from the World Bank API")
		csvPath      = flag.String("csv", "", "score an indicator CSV export")
		snapshotPath = flag.String("snapshot", "", "score a saved snapshot")
		outPath      = flag.String("out", "", "output file (default stdout)")
		year         = flag.Int("year", time.Now().Year(), "scoring reference year")
		formula      = flag.String("formula", "v1.1", "economic formula version (v1.1 or v1.0)")
	)
	flag.Parse()

	log := logger.NewSimpleLogger()
	cfg := config.New()

	scoringCfg := scoring.DefaultConfig()
	if *formula == string(scoring.FormulaV10) {
		scoringCfg.Formula = scoring.FormulaV10
	}

	var (
		countries []scoring.CountryIndicators
		err       error
	)
	switch {
	case *fetch:
		client := worldbank.NewClient(cfg.WorldBankBaseURL, 5)
		defer client.Close()
		collector := worldbank.NewCollector(client, log, *year, scoringCfg.MaxYearGap)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		countries, err = collector.CollectBulk(ctx)
		if err != nil {
			log.Fatal("indicator collection failed", err)
		}
		if *snapshotPath != "" {
			if err := worldbank.SaveSnapshot(*snapshotPath, *year, countries); err != nil {
				log.Fatal("snapshot save failed", err)
			}
			log.Info("snapshot saved", "path", *snapshotPath, "countries", len(countries))
		}

	case *csvPath != "":
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal("cannot open CSV", err)
		}
		defer f.Close()
		countries, err = worldbank.ParseCSV(f)
		if err != nil {
			log.Fatal("CSV parse failed", err)
		}

	case *snapshotPath != "":
		snap, err := worldbank.LoadSnapshot(*snapshotPath)
		if err != nil {
			log.Fatal("snapshot load failed", err)
		}
		countries = snap.Records
		*year = snap.CurrentYear

	default:
		flag.Usage()
		os.Exit(2)
	}

	records := scoring.ScoreEconomic(countries, *year, scoringCfg)

	out := os.Stdout
	if *outPath != "" {
		out, err = os.Create(*outPath)
		if err != nil {
			log.Fatal("cannot create output file", err)
		}
		defer out.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		log.Fatal("output encode failed", err)
	}

	excluded := 0
	for _, rec := range records {
		if rec.Excluded {
			excluded++
		}
	}
	log.Info("scoring complete", "countries", len(records), "excluded", excluded, "year", *year)
}
