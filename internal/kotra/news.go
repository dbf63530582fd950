package kotra

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Keyword lists for the news sentiment count. The feed mixes Korean and
// English coverage, so both vocabularies are matched.
var (
	negativeKeywords = []string{
		"규제", "금지", "관세", "제재", "리콜", "분쟁", "위기",
		"하락", "감소", "리스크", "제한", "조사", "경고",
		"regulation", "ban", "tariff", "sanction", "recall", "crisis",
	}
	positiveKeywords = []string{
		"성장", "수요증가", "호조", "확대", "개선", "증가",
		"투자", "협력", "기회", "호재", "활성화",
		"growth", "demand", "expansion", "investment", "opportunity",
	}
)

// NewsHeadline is one article that tripped a sentiment keyword.
type NewsHeadline struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Sentiment string `json:"sentiment"`
}

// NewsRisk is the outcome of the market-news sentiment scan.
type NewsRisk struct {
	RiskAdjustment float64        `json:"risk_adjustment"` // -15 to +15
	NegativeCount  int            `json:"negative_count"`
	PositiveCount  int            `json:"positive_count"`
	TotalAnalyzed  int            `json:"total_analyzed"`
	RecentNews     []NewsHeadline `json:"recent_news,omitempty"`
}

// AnalyzeNewsRisk scans recent market news for sentiment keywords and folds
// the counts into an adjustment of up to +/-15 points.
func (c *Client) AnalyzeNewsRisk(ctx context.Context, countryCode string, numArticles int) (NewsRisk, error) {
	if numArticles <= 0 {
		numArticles = 50
	}
	news, err := c.OverseasNews(ctx, countryCode, numArticles)
	if err != nil {
		return NewsRisk{}, err
	}
	return ScoreNewsRisk(news), nil
}

// ScoreNewsRisk counts positive and negative keyword hits per article and
// maps the balance to (pos-neg)/total * 15, clamped to [-15, 15]. Article
// bodies arrive as HTML fragments and are reduced to text first.
func ScoreNewsRisk(news []NewsItem) NewsRisk {
	risk := NewsRisk{TotalAnalyzed: len(news)}

	for _, article := range news {
		text := strings.ToLower(article.Title + " " + StripHTML(article.Content))

		hasNegative := containsAny(text, negativeKeywords)
		hasPositive := containsAny(text, positiveKeywords)

		if hasNegative {
			risk.NegativeCount++
		}
		if hasPositive {
			risk.PositiveCount++
		}
		if (hasNegative || hasPositive) && len(risk.RecentNews) < 5 {
			sentiment := "positive"
			if hasNegative {
				sentiment = "negative"
			}
			risk.RecentNews = append(risk.RecentNews, NewsHeadline{
				Title:     article.Title,
				Date:      article.Date,
				Sentiment: sentiment,
			})
		}
	}

	total := risk.NegativeCount + risk.PositiveCount
	if total < 1 {
		total = 1
	}
	adj := float64(risk.PositiveCount-risk.NegativeCount) / float64(total) * 15
	if adj > 15 {
		adj = 15
	}
	if adj < -15 {
		adj = -15
	}
	risk.RiskAdjustment = adj
	return risk
}

// StripHTML extracts the text content of an HTML fragment. Plain text comes
// back unchanged.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
