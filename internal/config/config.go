// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	rankingDomain "github.com/savexlabs/arb-engine/business/ranking/domain"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Horizon   HorizonConfig   `mapstructure:"horizon"`
	Coingecko CoingeckoConfig `mapstructure:"coingecko"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Selection SelectionConfig `mapstructure:"selection"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
}

// HorizonConfig holds the Horizon API client settings.
type HorizonConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// CoingeckoConfig holds the CoinGecko API client settings.
type CoingeckoConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	CacheMaxAge       time.Duration `mapstructure:"cache_max_age"`
}

// RedisConfig holds the optional shared quote cache settings.
type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	DB      int           `mapstructure:"db"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// PostgresConfig holds the optional opportunity store settings.
type PostgresConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// SelectionConfig holds the pool coverage set bounds.
type SelectionConfig struct {
	MaxMajor            int `mapstructure:"max_major"`
	MaxStablecoin       int `mapstructure:"max_stablecoin"`
	MaxDefi             int `mapstructure:"max_defi"`
	MaxLongtail         int `mapstructure:"max_longtail"`
	MaxTotal            int `mapstructure:"max_total"`
	PopularityThreshold int `mapstructure:"popularity_threshold"`
}

// Caps returns the selection bounds as domain caps.
func (c *SelectionConfig) Caps() rankingDomain.Caps {
	return rankingDomain.Caps{
		Major:      c.MaxMajor,
		Stablecoin: c.MaxStablecoin,
		Defi:       c.MaxDefi,
		Longtail:   c.MaxLongtail,
		Global:     c.MaxTotal,
	}
}

// ArbitrageConfig holds detection settings.
type ArbitrageConfig struct {
	BaseSymbol       string        `mapstructure:"base_symbol"`
	MinProfitPercent float64       `mapstructure:"min_profit_percent"`
	FetchLimit       int           `mapstructure:"fetch_limit"`
	ScanInterval     time.Duration `mapstructure:"scan_interval"`
}

// MinProfitPercentDecimal returns the threshold as decimal.Decimal.
func (c *ArbitrageConfig) MinProfitPercentDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitPercent)
}

// StorageConfig holds the JSONL opportunity log settings.
type StorageConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.log_file", "ARB_LOG_FILE")

	// Horizon
	v.BindEnv("horizon.base_url", "ARB_HORIZON_URL", "HORIZON_URL")
	v.BindEnv("horizon.requests_per_minute", "ARB_HORIZON_RPM")

	// CoinGecko
	v.BindEnv("coingecko.base_url", "ARB_COINGECKO_URL")
	v.BindEnv("coingecko.requests_per_minute", "ARB_COINGECKO_RPM")

	// Redis
	v.BindEnv("redis.enabled", "ARB_REDIS_ENABLED")
	v.BindEnv("redis.addr", "ARB_REDIS_ADDR", "REDIS_ADDR")

	// Postgres
	v.BindEnv("postgres.enabled", "ARB_POSTGRES_ENABLED")
	v.BindEnv("postgres.dsn", "ARB_POSTGRES_DSN", "DATABASE_URL")

	// Arbitrage
	v.BindEnv("arbitrage.base_symbol", "ARB_BASE_SYMBOL")
	v.BindEnv("arbitrage.min_profit_percent", "ARB_MIN_PROFIT_PERCENT")
	v.BindEnv("arbitrage.scan_interval", "ARB_SCAN_INTERVAL")

	// Storage
	v.BindEnv("storage.enabled", "ARB_STORAGE_ENABLED")
	v.BindEnv("storage.path", "ARB_STORAGE_PATH")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "arb-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_file", "")

	// Horizon defaults
	v.SetDefault("horizon.base_url", "https://horizon.stellar.org")
	v.SetDefault("horizon.timeout", "10s")
	v.SetDefault("horizon.requests_per_minute", 600)

	// CoinGecko defaults
	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.timeout", "10s")
	v.SetDefault("coingecko.requests_per_minute", 30)
	v.SetDefault("coingecko.cache_max_age", "60s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "60s")

	// Postgres defaults
	v.SetDefault("postgres.enabled", false)

	// Selection defaults
	v.SetDefault("selection.max_major", 50)
	v.SetDefault("selection.max_stablecoin", 100)
	v.SetDefault("selection.max_defi", 200)
	v.SetDefault("selection.max_longtail", 150)
	v.SetDefault("selection.max_total", 500)
	v.SetDefault("selection.popularity_threshold", 50)

	// Arbitrage defaults
	v.SetDefault("arbitrage.base_symbol", "XLM")
	v.SetDefault("arbitrage.min_profit_percent", 1.0)
	v.SetDefault("arbitrage.fetch_limit", 1000)
	v.SetDefault("arbitrage.scan_interval", "60s")

	// Storage defaults
	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.path", "data/opportunities.jsonl")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "arb-engine")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Horizon.BaseURL == "" {
		return fmt.Errorf("horizon.base_url is required")
	}
	if c.Coingecko.BaseURL == "" {
		return fmt.Errorf("coingecko.base_url is required")
	}
	if c.Arbitrage.BaseSymbol == "" {
		return fmt.Errorf("arbitrage.base_symbol is required")
	}
	if c.Arbitrage.FetchLimit <= 0 {
		return fmt.Errorf("arbitrage.fetch_limit must be positive")
	}
	if c.Arbitrage.ScanInterval <= 0 {
		return fmt.Errorf("arbitrage.scan_interval must be positive")
	}
	if err := c.Selection.Caps().Validate(); err != nil {
		return fmt.Errorf("invalid selection caps: %w", err)
	}
	if c.Postgres.Enabled && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required when postgres.enabled")
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required when storage.enabled")
	}
	return nil
}
