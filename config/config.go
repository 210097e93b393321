package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	PrivateKey      string
	RPCURL          string
	SlippagePercent float64
	FeeEnabled      bool
	DeadlineMinutes int
	QuoteDebounce   time.Duration
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".monad-swap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("slippage_percent", 0.5)
	viper.SetDefault("fee_enabled", true)
	viper.SetDefault("deadline_minutes", 10)
	viper.SetDefault("quote_debounce_ms", 500)

	// Read from environment variables
	viper.SetEnvPrefix("MONAD_SWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		PrivateKey:      viper.GetString("private_key"),
		RPCURL:          viper.GetString("rpc_url"),
		SlippagePercent: viper.GetFloat64("slippage_percent"),
		FeeEnabled:      viper.GetBool("fee_enabled"),
		DeadlineMinutes: viper.GetInt("deadline_minutes"),
		QuoteDebounce:   time.Duration(viper.GetInt("quote_debounce_ms")) * time.Millisecond,
	}

	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not found. Please set MONAD_SWAP_PRIVATE_KEY environment variable or create a .monad-swap.yaml config file")
	}
	if cfg.SlippagePercent < 0 || cfg.SlippagePercent >= 100 {
		return nil, fmt.Errorf("slippage_percent must be in [0, 100), got %v", cfg.SlippagePercent)
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
