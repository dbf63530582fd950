package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.worldbank.org/v2"
	perPage        = 1000
	maxRetries     = 3
)

// RawObservation is one cell of the World Bank v2 API response. A null value
// is a real observation and must survive decoding.
type RawObservation struct {
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

type apiMeta struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// Client calls the World Bank v2 API with rate limiting and retry.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter chan struct{}
}

// NewClient creates a World Bank API client capped at requestsPerSecond.
func NewClient(baseURL string, requestsPerSecond int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}

	rateLimiter := make(chan struct{}, requestsPerSecond)
	for i := 0; i < requestsPerSecond; i++ {
		rateLimiter <- struct{}{}
	}
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(requestsPerSecond))
		defer ticker.Stop()
		for range ticker.C {
			select {
			case rateLimiter <- struct{}{}:
			default:
			}
		}
	}()

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		rateLimiter: rateLimiter,
	}
}

// FetchIndicator returns the raw observation list for one country and one
// indicator code over [yearStart, yearEnd]. Null-valued cells are included.
func (c *Client) FetchIndicator(ctx context.Context, countryISO2, indicatorCode string, yearStart, yearEnd int) ([]RawObservation, error) {
	url := fmt.Sprintf("%s/country/%s/indicator/%s?date=%d:%d&format=json&per_page=%d",
		c.baseURL, countryISO2, indicatorCode, yearStart, yearEnd, perPage)

	_, obs, err := c.getPage(ctx, url)
	return obs, err
}

// FetchIndicatorBulk returns observations for all countries for one
// indicator, following API pagination.
func (c *Client) FetchIndicatorBulk(ctx context.Context, indicatorCode string, yearStart, yearEnd int) ([]RawObservation, error) {
	base := fmt.Sprintf("%s/country/all/indicator/%s?date=%d:%d&format=json&per_page=%d",
		c.baseURL, indicatorCode, yearStart, yearEnd, perPage)

	var all []RawObservation
	page := 1
	for {
		url := fmt.Sprintf("%s&page=%d", base, page)
		meta, obs, err := c.getPage(ctx, url)
		if err != nil {
			if len(all) > 0 {
				// Partial data beats no data for a bulk snapshot run.
				return all, nil
			}
			return nil, err
		}
		all = append(all, obs...)
		if meta == nil || page >= meta.Pages {
			break
		}
		page++
	}
	return all, nil
}

// getPage performs one rate-limited, retried request and decodes the
// [meta, data] response envelope.
func (c *Client) getPage(ctx context.Context, url string) (*apiMeta, []RawObservation, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		select {
		case <-c.rateLimiter:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}

		meta, obs, err := c.doRequest(ctx, url)
		if err == nil {
			return meta, obs, nil
		}
		lastErr = err

		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}
	}
	return nil, nil, fmt.Errorf("worldbank request failed after %d retries: %w", maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, url string) (*apiMeta, []RawObservation, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The API returns a two-element array: [meta, observations].
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if len(envelope) < 2 {
		return nil, nil, nil
	}

	var meta apiMeta
	if err := json.Unmarshal(envelope[0], &meta); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response meta: %w", err)
	}
	var obs []RawObservation
	if err := json.Unmarshal(envelope[1], &obs); err != nil {
		return nil, nil, fmt.Errorf("failed to decode observations: %w", err)
	}
	return &meta, obs, nil
}

// Close cleans up the client resources
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
