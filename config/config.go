// Package config loads the backend's configuration, layering built-in
// defaults, an optional YAML file, and environment variables, the way
// cartographus's internal/config/koanf.go does it (Koanf v2). CLI flags
// are layered on top by cmd/, which assigns the flagged fields on the
// loaded Config before it is used, mirroring the teacher's main.go
// pattern of flags overriding env vars.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds every environment-derived setting named in spec.md §6
// ("Environment") plus the ambient settings the serving process needs.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Media    MediaConfig    `koanf:"media"`
	Market   MarketConfig   `koanf:"market"`
	Vector   VectorConfig   `koanf:"vector"`
	Logging  LoggingConfig  `koanf:"logging"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type HTTPConfig struct {
	ListenAddr      string        `koanf:"listen_addr"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig configures the relational store backing clip metadata and
// conversation memory (spec.md §3, §6 "Persistent state"). When URL is
// empty no relational store is opened and `serve` runs with the clip and
// conversation routes disabled; there is no in-memory replacement.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// MediaConfig configures object-storage access for clip blobs.
type MediaConfig struct {
	GCSBucket     string        `koanf:"gcs_bucket"`
	CDNDomain     string        `koanf:"cdn_domain"`
	OpenAccess    bool          `koanf:"open_access"`
	SignedTTL     time.Duration `koanf:"signed_ttl"`
	SigningSecret string        `koanf:"signing_secret"`
}

// MarketConfig configures the market-analytics columnar/CSV readers.
type MarketConfig struct {
	DisableBigQuery bool   `koanf:"disable_bigquery"`
	WarehouseDSN    string `koanf:"warehouse_dsn"`
	ParquetRoot     string `koanf:"parquet_root"`
	ContractsCSVDir string `koanf:"contracts_csv_dir"`
}

// VectorConfig configures the orchestrator's vector-search tool backend.
type VectorConfig struct {
	Backend  string `koanf:"backend"`
	Endpoint string `koanf:"endpoint"`
	APIKey   string `koanf:"api_key"`
	IndexName string `koanf:"index_name"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "console" or "json"
}

// AnalyticsConfig holds defaults for the advanced metrics engine.
type AnalyticsConfig struct {
	RollingWindow int `koanf:"rolling_window"`
	TopN          int `koanf:"top_n"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// DefaultConfigPaths lists where an optional YAML config file is searched,
// first match wins, mirroring cartographus's DefaultConfigPaths.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/icehockey-analytics/config.yaml",
}

// ConfigPathEnvVar overrides the search list with a single explicit path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			ListenAddr:      ":8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Media: MediaConfig{
			OpenAccess: false,
			SignedTTL:  60 * time.Minute,
		},
		Market: MarketConfig{
			DisableBigQuery: false,
			ParquetRoot:     "data/market",
			ContractsCSVDir: "data/contracts",
		},
		Vector: VectorConfig{
			Backend: "none",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Analytics: AnalyticsConfig{
			RollingWindow: 10,
			TopN:          10,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		},
	}
}

// envMappings maps the spec's named environment variables (and a few
// operational extras) onto koanf dotted paths, the way cartographus's
// envTransformFunc does for its own legacy variable names.
var envMappings = map[string]string{
	"database_url":            "database.url",
	"media_gcs_bucket":        "media.gcs_bucket",
	"media_cdn_domain":        "media.cdn_domain",
	"media_signing_secret":    "media.signing_secret",
	"clips_open_access":       "media.open_access",
	"market_disable_bigquery": "market.disable_bigquery",
	"market_warehouse_dsn":    "market.warehouse_dsn",
	"market_parquet_root":     "market.parquet_root",
	"market_contracts_dir":    "market.contracts_csv_dir",
	"vector_backend":          "vector.backend",
	"vector_endpoint":         "vector.endpoint",
	"vector_api_key":          "vector.api_key",
	"vector_index_name":       "vector.index_name",
	"http_listen_addr":        "http.listen_addr",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
	"analytics_rolling_window": "analytics.rolling_window",
	"analytics_top_n":          "analytics.top_n",
	"rate_limit_rps":           "rate_limit.requests_per_second",
	"rate_limit_burst":         "rate_limit.burst",
}

func envTransform(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// Load builds a Config from defaults, an optional YAML file, and
// environment variables, in that order of increasing precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks only that the rolling window and the rate limit are
// positive. It never requires a database URL: callers that need a real
// store (e.g. `serve`) check cfg.Database.URL != "" themselves, per the
// "never fails hard on a missing optional field" rule.
func (c *Config) Validate() error {
	if c.Analytics.RollingWindow <= 0 {
		return fmt.Errorf("analytics.rolling_window must be positive")
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be positive")
	}
	return nil
}
