package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/kexportlab/tradematch-api/internal/logger"
	"github.com/kexportlab/tradematch-api/internal/scoring"
)

// Collector gathers indicator series from the World Bank API into the
// snapshot shape consumed by the scoring side.
type Collector struct {
	client      *Client
	log         logger.Logger
	currentYear int
	maxYearGap  int
}

// NewCollector wires a collector over the given client.
func NewCollector(client *Client, log logger.Logger, currentYear, maxYearGap int) *Collector {
	if currentYear == 0 {
		currentYear = time.Now().Year()
	}
	if maxYearGap <= 0 {
		maxYearGap = 3
	}
	return &Collector{
		client:      client,
		log:         log,
		currentYear: currentYear,
		maxYearGap:  maxYearGap,
	}
}

// CollectBulk fetches every configured indicator for all countries over the
// staleness window and aggregates the raw series per country. Year selection
// itself happens downstream in scoring; the collector only keeps the window.
func (c *Collector) CollectBulk(ctx context.Context) ([]scoring.CountryIndicators, error) {
	yearStart := c.currentYear - c.maxYearGap
	yearEnd := c.currentYear

	byCountry := make(map[string]*scoring.CountryIndicators)

	for field, code := range IndicatorCodes {
		c.log.Info("fetching indicator", "field", field, "code", code)
		obs, err := c.client.FetchIndicatorBulk(ctx, code, yearStart, yearEnd)
		if err != nil {
			return nil, fmt.Errorf("bulk fetch %s: %w", code, err)
		}

		for _, o := range obs {
			iso3 := o.Country.ID
			if len(iso3) != 3 {
				// Aggregate regions come back with 2-char ids; skip them.
				continue
			}
			year, err := strconv.Atoi(o.Date)
			if err != nil {
				continue
			}

			country, ok := byCountry[iso3]
			if !ok {
				country = &scoring.CountryIndicators{
					CountryISO3: iso3,
					CountryName: o.Country.Value,
					Series:      make(map[string][]scoring.Observation),
				}
				byCountry[iso3] = country
			}
			country.Series[field] = append(country.Series[field], scoring.Observation{
				Year:  year,
				Value: o.Value,
			})
		}
	}

	out := make([]scoring.CountryIndicators, 0, len(byCountry))
	for _, country := range byCountry {
		out = append(out, *country)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryISO3 < out[j].CountryISO3 })

	c.log.Info("collected country records", "count", len(out))
	return out, nil
}

// Snapshot is the persisted form of a collection run.
type Snapshot struct {
	SnapshotDate string                      `json:"snapshot_date"`
	CurrentYear  int                         `json:"current_year"`
	Records      []scoring.CountryIndicators `json:"records"`
}

// SaveSnapshot writes a snapshot as indented JSON, creating parent
// directories as needed.
func SaveSnapshot(path string, currentYear int, records []scoring.CountryIndicators) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	snap := Snapshot{
		SnapshotDate: time.Now().Format("2006-01-02"),
		CurrentYear:  currentYear,
		Records:      records,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
