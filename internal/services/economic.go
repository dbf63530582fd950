package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/kexportlab/tradematch-api/internal/errors"
	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/scoring"
	"github.com/kexportlab/tradematch-api/internal/worldbank"
)

// EconomicReport is one scored indicator snapshot.
type EconomicReport struct {
	SnapshotDate   string                   `json:"snapshot_date"`
	CurrentYear    int                      `json:"current_year"`
	Formula        scoring.EconomicFormula  `json:"formula"`
	TotalCountries int                      `json:"total_countries"`
	ExcludedCount  int                      `json:"excluded_count"`
	Records        []scoring.EconomicRecord `json:"records"`
	GeneratedAt    time.Time                `json:"generated_at"`
}

// EconomicService holds the latest scored World Bank snapshot and rescores
// uploaded CSV data.
type EconomicService interface {
	LatestScores(ctx context.Context) (*EconomicReport, error)
	IngestCSV(ctx context.Context, r io.Reader, currentYear int) (*EconomicReport, error)
	LoadSnapshotFile(path string) error
}

type economicService struct {
	cfg scoring.Config
	log logger.Logger

	mu      sync.RWMutex
	current *EconomicReport
}

func newEconomicService(cfg scoring.Config, log logger.Logger) *economicService {
	return &economicService{cfg: cfg, log: log}
}

// LatestScores returns the most recently scored snapshot.
func (s *economicService) LatestScores(context.Context) (*EconomicReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, errors.NotFound("no indicator snapshot loaded", nil).WithOperation("economic_scores")
	}
	return s.current, nil
}

// IngestCSV parses an indicator CSV, scores it, and promotes it to the
// current snapshot. currentYear 0 defaults to the calendar year.
func (s *economicService) IngestCSV(_ context.Context, r io.Reader, currentYear int) (*EconomicReport, error) {
	countries, err := worldbank.ParseCSV(r)
	if err != nil {
		return nil, errors.InvalidInput("malformed indicator CSV", err).WithOperation("economic_ingest")
	}
	if currentYear == 0 {
		currentYear = time.Now().Year()
	}
	report := s.score(countries, currentYear, time.Now().Format("2006-01-02"))
	s.promote(report)
	return report, nil
}

// LoadSnapshotFile scores a snapshot previously written by the collection
// pipeline and promotes it.
func (s *economicService) LoadSnapshotFile(path string) error {
	snap, err := worldbank.LoadSnapshot(path)
	if err != nil {
		return errors.ServiceError("failed to load indicator snapshot", err).WithOperation("economic_load")
	}
	s.promote(s.score(snap.Records, snap.CurrentYear, snap.SnapshotDate))
	return nil
}

func (s *economicService) score(countries []scoring.CountryIndicators, currentYear int, snapshotDate string) *EconomicReport {
	records := scoring.ScoreEconomic(countries, currentYear, s.cfg)

	excluded := 0
	for _, rec := range records {
		if rec.Excluded {
			excluded++
		}
	}

	s.log.Info("scored indicator snapshot",
		"countries", len(records), "excluded", excluded, "year", currentYear)
	return &EconomicReport{
		SnapshotDate:   snapshotDate,
		CurrentYear:    currentYear,
		Formula:        s.cfg.Formula,
		TotalCountries: len(records),
		ExcludedCount:  excluded,
		Records:        records,
		GeneratedAt:    time.Now().UTC(),
	}
}

func (s *economicService) promote(report *EconomicReport) {
	s.mu.Lock()
	s.current = report
	s.mu.Unlock()
}
