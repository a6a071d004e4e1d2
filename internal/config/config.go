// Package config loads the engine configuration from defaults, an optional
// toml file, and XRPLHIST_-prefixed environment variables, in that priority
// order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config is the engine configuration.
type Config struct {
	// Network selects the endpoint used from Endpoints.
	Network string `mapstructure:"network"`
	// Endpoints maps network names to websocket URLs.
	Endpoints map[string]string `mapstructure:"endpoints"`
	// PageSize is the account_tx page size.
	PageSize int `mapstructure:"page_size"`
	// LinesCacheTTL is how long a trust-line snapshot stays cached.
	LinesCacheTTL time.Duration `mapstructure:"lines_cache_ttl"`
	// RequestTimeout bounds each ledger request/response exchange.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// ReserveBase and ReserveIncrement are the network's reserve schedule
	// in XRP, as decimal strings.
	ReserveBase      string `mapstructure:"reserve_base"`
	ReserveIncrement string `mapstructure:"reserve_increment"`
	// DataDir, when set, enables the local record store.
	DataDir string `mapstructure:"data_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", "mainnet")
	v.SetDefault("endpoints", map[string]string{
		"mainnet": "wss://xrplcluster.com",
		"testnet": "wss://s.altnet.rippletest.net:51233",
		"devnet":  "wss://s.devnet.rippletest.net:51233",
	})
	v.SetDefault("page_size", 300)
	v.SetDefault("lines_cache_ttl", "30s")
	v.SetDefault("request_timeout", "20s")
	v.SetDefault("reserve_base", "10")
	v.SetDefault("reserve_increment", "2")
	v.SetDefault("data_dir", "")
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("XRPLHIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for internal consistency.
func Validate(cfg *Config) error {
	if _, ok := cfg.Endpoints[cfg.Network]; !ok {
		return fmt.Errorf("no endpoint configured for network %q", cfg.Network)
	}
	if cfg.PageSize < 1 || cfg.PageSize > 1000 {
		return fmt.Errorf("page_size must be between 1 and 1000, got %d", cfg.PageSize)
	}
	if cfg.LinesCacheTTL <= 0 {
		return fmt.Errorf("lines_cache_ttl must be positive, got %s", cfg.LinesCacheTTL)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}
	if _, err := decimal.NewFromString(cfg.ReserveBase); err != nil {
		return fmt.Errorf("invalid reserve_base %q: %w", cfg.ReserveBase, err)
	}
	if _, err := decimal.NewFromString(cfg.ReserveIncrement); err != nil {
		return fmt.Errorf("invalid reserve_increment %q: %w", cfg.ReserveIncrement, err)
	}
	return nil
}

// Endpoint returns the websocket URL for the selected network.
func (c *Config) Endpoint() string {
	return c.Endpoints[c.Network]
}

// Reserves returns the configured reserve schedule as decimals. Load has
// already validated both strings.
func (c *Config) Reserves() (base, increment decimal.Decimal) {
	base, _ = decimal.NewFromString(c.ReserveBase)
	increment, _ = decimal.NewFromString(c.ReserveIncrement)
	return base, increment
}
