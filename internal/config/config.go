package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel    string
	MetricsPort string

	AdamsBaseURL  string
	AdamsAPIKey   string
	LegacyBaseURL string
	DocsBaseURL   string

	GoogleAPIKey    string
	GoogleCX        string
	WebSearchDomain string

	DownloadDir      string
	DownloadWorkers  int
	MaxDownloadBytes int64

	CallsPerMinute     int
	HTTPTimeoutSeconds int

	CacheTTLSeconds int
	CacheMaxEntries int

	BoostsPath string
}

func Load() Config {
	return Config{
		LogLevel:    mustEnv("LOG_LEVEL", "info"),
		MetricsPort: mustEnv("METRICS_PORT", ""),

		AdamsBaseURL:  mustEnv("ADAMS_API_URL", "https://adams-api.nrc.gov/aps/api/search"),
		AdamsAPIKey:   mustEnv("ADAMS_API_KEY", ""),
		LegacyBaseURL: mustEnv("ADAMS_LEGACY_URL", "https://adams.nrc.gov/wba/services/search/advanced/nrc"),
		DocsBaseURL:   mustEnv("ADAMS_DOCS_URL", "https://www.nrc.gov/docs"),

		GoogleAPIKey:    mustEnv("GOOGLE_API_KEY", ""),
		GoogleCX:        mustEnv("GOOGLE_CSE_CX", ""),
		WebSearchDomain: mustEnv("WEB_SEARCH_DOMAIN", "nrc.gov"),

		DownloadDir:      mustEnv("DOWNLOAD_DIR", "./data/downloads"),
		DownloadWorkers:  mustEnvInt("DOWNLOAD_WORKERS", 4),
		MaxDownloadBytes: int64(mustEnvInt("MAX_DOWNLOAD_BYTES", 50_000_000)),

		CallsPerMinute:     mustEnvInt("CALLS_PER_MINUTE", 20),
		HTTPTimeoutSeconds: mustEnvInt("HTTP_TIMEOUT_SECONDS", 30),

		CacheTTLSeconds: mustEnvInt("CACHE_TTL_SECONDS", 300),
		CacheMaxEntries: mustEnvInt("CACHE_MAX_ENTRIES", 256),

		BoostsPath: mustEnv("SCORE_BOOSTS_PATH", ""),
	}
}

// LoadBoosts reads the optional document-type boost table. An empty
// path keeps the built-in defaults.
func LoadBoosts(path string) (map[string]float64, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boosts file: %w", err)
	}
	var boosts map[string]float64
	if err := yaml.Unmarshal(raw, &boosts); err != nil {
		return nil, fmt.Errorf("parse boosts file: %w", err)
	}
	return boosts, nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
