package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	SearchTimeout      time.Duration
	AnalysisTimeout    time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64

	// OCR
	OCRLanguages []string

	// AI enrichment (disabled when the key is empty)
	GeminiAPIKey string
	GeminiModel  string

	// Museum provider keys; a missing key disables that source
	RijksmuseumAPIKey string
	HarvardAPIKey     string

	// Image store (uploads disabled when account is empty)
	AzureStorageAccount   string
	AzureStorageKey       string
	AzureStorageContainer string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// EnrichmentEnabled reports whether the AI vision service is configured
func (c *Config) EnrichmentEnabled() bool {
	return c.GeminiAPIKey != ""
}

// UploadsEnabled reports whether the blob image store is configured
func (c *Config) UploadsEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		SearchTimeout:      parseDurationOrDefault("SEARCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 45*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB, two base64 photos

		OCRLanguages: splitList(getEnvOrDefault("OCR_LANGUAGES", "eng,fra")),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		RijksmuseumAPIKey: os.Getenv("RIJKSMUSEUM_API_KEY"),
		HarvardAPIKey:     os.Getenv("HARVARD_API_KEY"),

		AzureStorageAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureStorageContainer: getEnvOrDefault("AZURE_STORAGE_CONTAINER", "artworks"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.SearchTimeout <= 0 || cfg.AnalysisTimeout <= 0 || cfg.ImageFetchTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, search=%s, analysis=%s, fetch=%s)",
			cfg.RequestTimeout, cfg.SearchTimeout, cfg.AnalysisTimeout, cfg.ImageFetchTimeout)
	}
	if len(cfg.OCRLanguages) == 0 {
		return nil, fmt.Errorf("OCR_LANGUAGES must name at least one language")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
