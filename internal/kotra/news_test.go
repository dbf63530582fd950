package kotra

import (
	"math"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "tariff increase announced", "tariff increase announced"},
		{"tags removed", "<p>tariff <b>increase</b> announced</p>", "tariff increase announced"},
		{"nested markup", "<div><span>growth</span> in <em>demand</em></div>", "growth in demand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScoreNewsRisk(t *testing.T) {
	tests := []struct {
		name         string
		news         []NewsItem
		wantAdj      float64
		wantPositive int
		wantNegative int
	}{
		{
			name:    "no articles",
			news:    nil,
			wantAdj: 0,
		},
		{
			name: "all positive",
			news: []NewsItem{
				{Title: "market growth accelerates"},
				{Title: "new investment announced"},
			},
			wantAdj:      15,
			wantPositive: 2,
		},
		{
			name: "all negative",
			news: []NewsItem{
				{Title: "import ban considered"},
				{Title: "tariff dispute deepens"},
			},
			wantAdj:      -15,
			wantNegative: 2,
		},
		{
			name: "mixed three to one",
			news: []NewsItem{
				{Title: "strong growth in demand"},
				{Title: "expansion of retail channels"},
				{Title: "investment inflows rise"},
				{Title: "recall of faulty products"},
			},
			wantAdj:      (3.0 - 1.0) / 4.0 * 15,
			wantPositive: 3,
			wantNegative: 1,
		},
		{
			name: "neutral articles count nothing",
			news: []NewsItem{
				{Title: "weather outlook for the region"},
			},
			wantAdj: 0,
		},
		{
			name: "keywords inside html bodies",
			news: []NewsItem{
				{Title: "market note", Content: "<p>New <b>sanction</b> package in force.</p>"},
			},
			wantAdj:      -15,
			wantNegative: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreNewsRisk(tt.news)
			if math.Abs(got.RiskAdjustment-tt.wantAdj) > 1e-9 {
				t.Errorf("risk adjustment = %f, want %f", got.RiskAdjustment, tt.wantAdj)
			}
			if got.PositiveCount != tt.wantPositive || got.NegativeCount != tt.wantNegative {
				t.Errorf("counts = +%d/-%d, want +%d/-%d",
					got.PositiveCount, got.NegativeCount, tt.wantPositive, tt.wantNegative)
			}
			if got.TotalAnalyzed != len(tt.news) {
				t.Errorf("total analyzed = %d, want %d", got.TotalAnalyzed, len(tt.news))
			}
		})
	}
}

func TestScoreNewsRisk_HeadlineCap(t *testing.T) {
	var news []NewsItem
	for i := 0; i < 10; i++ {
		news = append(news, NewsItem{Title: "growth report"})
	}
	got := ScoreNewsRisk(news)
	if len(got.RecentNews) != 5 {
		t.Errorf("recent news = %d entries, want capped 5", len(got.RecentNews))
	}
}
