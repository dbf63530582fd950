package worldbank

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/kexportlab/tradematch-api/internal/scoring"
)

const sampleCSV = `REF_AREA,TIME_PERIOD,OBS_VALUE,INDICATOR
VNM,2023,433000000000,NY.GDP.MKTP.CD
VNM,2022,408000000000,NY.GDP.MKTP.CD
VNM,2023,5.07,NY.GDP.MKTP.KD.ZG
USA,2023,27360000000000,NY.GDP.MKTP.CD
USA,2023,,NY.GDP.MKTP.KD.ZG
USA,2022,1.9,NY.GDP.MKTP.KD.ZG
KOR,2023,1712000000000,XX.UNKNOWN.CODE
`

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	// KOR only carries an unknown indicator and must not appear.
	if len(records) != 2 {
		t.Fatalf("expected 2 countries, got %d", len(records))
	}

	byISO := map[string]scoring.CountryIndicators{}
	for _, r := range records {
		byISO[r.CountryISO3] = r
	}

	vnm, ok := byISO["VNM"]
	if !ok {
		t.Fatal("missing VNM")
	}
	if got := len(vnm.Series[scoring.FieldGDP]); got != 2 {
		t.Errorf("VNM GDP observations = %d, want 2", got)
	}
	if got := len(vnm.Series[scoring.FieldGDPGrowth]); got != 1 {
		t.Errorf("VNM growth observations = %d, want 1", got)
	}

	// The empty OBS_VALUE cell must come through as a null observation,
	// not be dropped.
	usa := byISO["USA"]
	var nullSeen bool
	for _, obs := range usa.Series[scoring.FieldGDPGrowth] {
		if obs.Year == 2023 && obs.Value == nil {
			nullSeen = true
		}
	}
	if !nullSeen {
		t.Error("null OBS_VALUE for USA 2023 growth was not preserved")
	}
}

func TestParseCSV_HeaderVariants(t *testing.T) {
	csv := "ref_area, time_period, obs_value, indicator\nVNM,2023,1000,NY.GDP.MKTP.CD\n"
	records, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(records) != 1 || records[0].CountryISO3 != "VNM" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing column", "REF_AREA,TIME_PERIOD,OBS_VALUE\nVNM,2023,1\n"},
		{"bad year", "REF_AREA,TIME_PERIOD,OBS_VALUE,INDICATOR\nVNM,20x3,1,NY.GDP.MKTP.CD\n"},
		{"bad value", "REF_AREA,TIME_PERIOD,OBS_VALUE,INDICATOR\nVNM,2023,abc,NY.GDP.MKTP.CD\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")
	if err := SaveSnapshot(path, 2024, records); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.CurrentYear != 2024 {
		t.Errorf("current_year = %d, want 2024", snap.CurrentYear)
	}
	if len(snap.Records) != len(records) {
		t.Fatalf("records = %d, want %d", len(snap.Records), len(records))
	}

	// Null observations must survive the round trip.
	for _, r := range snap.Records {
		if r.CountryISO3 != "USA" {
			continue
		}
		for _, obs := range r.Series[scoring.FieldGDPGrowth] {
			if obs.Year == 2023 && obs.Value != nil {
				t.Error("null observation did not survive snapshot round trip")
			}
		}
	}
}
