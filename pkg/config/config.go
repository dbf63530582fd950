package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port        string
	Environment string

	// Upstream data sources
	WorldBankBaseURL string
	KotraAPIKey      string
	KotraBaseURL     string

	// Scoring data
	SnapshotPath   string
	ScoringFormula string

	// Security configuration
	AllowedOrigins  string
	TrustedProxies  string
	EnableRateLimit bool
	MaxRequestSize  int64
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		WorldBankBaseURL: getEnv("WORLDBANK_BASE_URL", "https://api.worldbank.org/v2"),
		KotraAPIKey:      getEnv("KOTRA_API_KEY", ""),
		KotraBaseURL:     getEnv("KOTRA_BASE_URL", "https://apis.data.go.kr/B410001"),

		SnapshotPath:   getEnv("SNAPSHOT_PATH", "data/economic_snapshot.json"),
		ScoringFormula: getEnv("SCORING_FORMULA", "v1.1"),

		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies:  getEnv("TRUSTED_PROXIES", ""),
		EnableRateLimit: getEnv("ENABLE_RATE_LIMIT", "true") == "true",
		MaxRequestSize:  getEnvAsInt64("MAX_REQUEST_SIZE", 10*1024*1024), // 10MB default
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasKotraCredentials returns true if a KOTRA API key is configured
func (c *Config) HasKotraCredentials() bool {
	return c.KotraAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{
			"https://app.tradematch.kr",
			"https://www.tradematch.kr",
		}
	}
	return strings.Split(c.AllowedOrigins, ",")
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return []string{} // No trusted proxies by default
	}
	return strings.Split(c.TrustedProxies, ",")
}

// IsSecurityEnabled returns true if security features should be enabled
func (c *Config) IsSecurityEnabled() bool {
	return c.IsProduction() || getEnv("ENABLE_SECURITY", "false") == "true"
}
