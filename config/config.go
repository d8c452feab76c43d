package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort      string
	UpstreamURL     string
	CertKey         string
	HTTPTimeoutSecs string
	CacheTTLSecs    string
	LogLevel        string
}

// StoreConfig holds snapshot cache configuration
type StoreConfig struct {
	TTL time.Duration `json:"ttl"`
}

// DefaultStoreConfig returns default snapshot cache configuration
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		TTL: 60 * time.Second, // Upstream data moves slowly; a short TTL still shields it from request bursts
	}
}

// FetcherConfig holds upstream client configuration
type FetcherConfig struct {
	BaseURL     string        `json:"base_url"`
	CertKey     string        `json:"-"`
	HTTPTimeout time.Duration `json:"http_timeout"`
}

// DefaultFetcherConfig returns production-ready upstream client configuration
func DefaultFetcherConfig() *FetcherConfig {
	return &FetcherConfig{
		BaseURL:     "https://www.nfqs.go.kr/hpmg/front/api/organic_api.do",
		HTTPTimeout: 20 * time.Second,
	}
}

// GetCacheTTL returns the cache TTL from environment or default
func (c *Config) GetCacheTTL() time.Duration {
	if c.CacheTTLSecs == "" {
		return DefaultStoreConfig().TTL
	}

	secs, err := strconv.Atoi(c.CacheTTLSecs)
	if err != nil || secs <= 0 {
		logrus.Warnf("Invalid CACHE_TTL_SECONDS value: %s, using default 60 seconds", c.CacheTTLSecs)
		return DefaultStoreConfig().TTL
	}

	return time.Duration(secs) * time.Second
}

// GetHTTPTimeout returns the upstream request timeout from environment or default
func (c *Config) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeoutSecs == "" {
		return DefaultFetcherConfig().HTTPTimeout
	}

	secs, err := strconv.Atoi(c.HTTPTimeoutSecs)
	if err != nil || secs <= 0 {
		logrus.Warnf("Invalid HTTP_TIMEOUT_SECONDS value: %s, using default 20 seconds", c.HTTPTimeoutSecs)
		return DefaultFetcherConfig().HTTPTimeout
	}

	return time.Duration(secs) * time.Second
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		UpstreamURL:     getEnv("NFQS_API_URL", DefaultFetcherConfig().BaseURL),
		CertKey:         getEnv("NFQS_CERT_KEY", ""),
		HTTPTimeoutSecs: getEnv("HTTP_TIMEOUT_SECONDS", "20"),
		CacheTTLSecs:    getEnv("CACHE_TTL_SECONDS", "60"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
