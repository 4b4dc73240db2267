// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Pancake    PancakeConfig    `mapstructure:"pancake"`
	Raydium    RaydiumConfig    `mapstructure:"raydium"`
	Uniswap    UniswapConfig    `mapstructure:"uniswap"`
	Monitor    MonitorConfig    `mapstructure:"monitor"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// AggregatorConfig holds best-execution aggregator settings.
type AggregatorConfig struct {
	ProviderTimeout     time.Duration `mapstructure:"provider_timeout"`
	LargeOrderThreshold float64       `mapstructure:"large_order_threshold"`
	SplitBenefitPercent float64       `mapstructure:"split_benefit_percent"`
	DefaultSlippagePct  float64       `mapstructure:"default_slippage_percent"`
}

// LargeOrderThresholdDecimal returns the large-order threshold as decimal.
func (c *AggregatorConfig) LargeOrderThresholdDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.LargeOrderThreshold)
}

// SplitBenefitDecimal returns the split benefit threshold as decimal.
func (c *AggregatorConfig) SplitBenefitDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SplitBenefitPercent)
}

// PancakeConfig holds PancakeSwap API configuration.
type PancakeConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	BaseURL           string `mapstructure:"base_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// RaydiumConfig holds Raydium API configuration.
type RaydiumConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url"`
	RetryMax int    `mapstructure:"retry_max"`
}

// UniswapConfig holds Uniswap V3 onchain quoter configuration.
type UniswapConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	RPCURLs        map[string]string `mapstructure:"rpc_urls"` // chain -> HTTP RPC endpoint
	QuoterAddress  string            `mapstructure:"quoter_address"`
	DefaultFeeTier int               `mapstructure:"default_fee_tier"`
}

// MonitorConfig holds market monitor scheduler configuration.
type MonitorConfig struct {
	Interval        time.Duration  `mapstructure:"interval"`
	Store           string         `mapstructure:"store"` // "memory" or "postgres"
	ReferenceAmount float64        `mapstructure:"reference_amount"`
	Postgres        PostgresConfig `mapstructure:"postgres"`
}

// ReferenceAmountDecimal returns the per-tick reference trade size as decimal.
func (c *MonitorConfig) ReferenceAmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.ReferenceAmount)
}

// PostgresConfig holds monitor store connection parameters.
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int    `mapstructure:"max_conns"`
	MinConns int    `mapstructure:"min_conns"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("DEXFLOW")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
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
	v.BindEnv("app.name", "DEXFLOW_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "DEXFLOW_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "DEXFLOW_LOG_LEVEL", "LOG_LEVEL")

	// Aggregator
	v.BindEnv("aggregator.provider_timeout", "DEXFLOW_PROVIDER_TIMEOUT")
	v.BindEnv("aggregator.large_order_threshold", "DEXFLOW_LARGE_ORDER_THRESHOLD")

	// Providers
	v.BindEnv("pancake.base_url", "DEXFLOW_PANCAKE_URL", "PANCAKE_URL")
	v.BindEnv("raydium.base_url", "DEXFLOW_RAYDIUM_URL", "RAYDIUM_URL")
	v.BindEnv("uniswap.quoter_address", "DEXFLOW_UNISWAP_QUOTER", "UNISWAP_QUOTER")

	// Monitor
	v.BindEnv("monitor.interval", "DEXFLOW_MONITOR_INTERVAL")
	v.BindEnv("monitor.store", "DEXFLOW_MONITOR_STORE")
	v.BindEnv("monitor.postgres.dsn", "DEXFLOW_POSTGRES_DSN", "DATABASE_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "DEXFLOW_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "DEXFLOW_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "DEXFLOW_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "dexflow")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Aggregator defaults
	v.SetDefault("aggregator.provider_timeout", "4s")
	v.SetDefault("aggregator.large_order_threshold", 100000)
	v.SetDefault("aggregator.split_benefit_percent", 1.0)
	v.SetDefault("aggregator.default_slippage_percent", 0.5)

	// PancakeSwap defaults
	v.SetDefault("pancake.enabled", true)
	v.SetDefault("pancake.base_url", "https://api.pancakeswap.info/api/v2")
	v.SetDefault("pancake.requests_per_minute", 120)

	// Raydium defaults
	v.SetDefault("raydium.enabled", true)
	v.SetDefault("raydium.base_url", "https://api.raydium.io/v2")
	v.SetDefault("raydium.retry_max", 3)

	// Uniswap V3 defaults (QuoterV2 mainnet address)
	v.SetDefault("uniswap.enabled", false)
	v.SetDefault("uniswap.quoter_address", "0x61fFE014bA17989E743c5F6cB21bF9697530B21e")
	v.SetDefault("uniswap.default_fee_tier", 3000) // 0.3%

	// Monitor defaults
	v.SetDefault("monitor.interval", "1m")
	v.SetDefault("monitor.store", "memory")
	v.SetDefault("monitor.reference_amount", 1)
	v.SetDefault("monitor.postgres.max_conns", 4)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "dexflow")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Aggregator.ProviderTimeout <= 0 {
		return fmt.Errorf("aggregator.provider_timeout must be positive")
	}
	if c.Aggregator.LargeOrderThreshold <= 0 {
		return fmt.Errorf("aggregator.large_order_threshold must be positive")
	}
	if c.Pancake.Enabled && c.Pancake.BaseURL == "" {
		return fmt.Errorf("pancake.base_url is required when pancake is enabled")
	}
	if c.Raydium.Enabled && c.Raydium.BaseURL == "" {
		return fmt.Errorf("raydium.base_url is required when raydium is enabled")
	}
	if c.Uniswap.Enabled && len(c.Uniswap.RPCURLs) == 0 {
		return fmt.Errorf("uniswap.rpc_urls is required when uniswap is enabled")
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive")
	}
	switch c.Monitor.Store {
	case "memory", "postgres":
	default:
		return fmt.Errorf("monitor.store must be %q or %q, got %q", "memory", "postgres", c.Monitor.Store)
	}
	if c.Monitor.Store == "postgres" && c.Monitor.Postgres.DSN == "" {
		return fmt.Errorf("monitor.postgres.dsn is required when monitor.store is postgres")
	}
	return nil
}
