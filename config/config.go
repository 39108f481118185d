package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// envPrefix namespaces every environment variable read by Load,
	// e.g. SVMSENDER_RPC_URLS.
	envPrefix = "SVMSENDER"

	// DefaultRPCURL is the fallback source-chain endpoint when the
	// environment supplies none.
	DefaultRPCURL = "https://api.devnet.solana.com"
)

// Config holds all runtime settings. There is no config file: per the system
// contract everything arrives through the environment, with hardcoded
// defaults for local use.
type Config struct {
	// Log Config
	LogLevel   int    // 0 = debug, 1 = info, etc.
	LogFormat  string // "json" or "console"
	LogSampler bool   // if true, samples logs (e.g., 1 in 5)

	// Source chain RPC endpoints, tried in round-robin order on failure.
	RPCURLs []string

	// Commitment is the confirmation level a transfer waits for:
	// "processed", "confirmed" or "finalized".
	Commitment string

	// Confirmation polling bounds.
	ConfirmationTimeout      time.Duration
	ConfirmationPollInterval time.Duration

	// ComputeUnitLimit caps execution cost for the whole transaction.
	ComputeUnitLimit uint32

	// SkipPreflight disables the RPC node's simulation before submission.
	SkipPreflight bool

	// Static fee model: fee = base + amount * num / den lamports.
	FeeBaseLamports    uint64
	FeeRateNumerator   uint64
	FeeRateDenominator uint64
}

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("log_level", 1)
	v.SetDefault("log_format", "console")
	v.SetDefault("log_sampler", false)
	v.SetDefault("rpc_urls", DefaultRPCURL)
	v.SetDefault("commitment", "confirmed")
	v.SetDefault("confirmation_timeout_seconds", 60)
	v.SetDefault("confirmation_poll_seconds", 2)
	v.SetDefault("compute_unit_limit", 200000)
	v.SetDefault("skip_preflight", false)
	v.SetDefault("fee_base_lamports", 5000)
	v.SetDefault("fee_rate_numerator", 1)
	v.SetDefault("fee_rate_denominator", 1000)

	cfg := &Config{
		LogLevel:                 v.GetInt("log_level"),
		LogFormat:                v.GetString("log_format"),
		LogSampler:               v.GetBool("log_sampler"),
		RPCURLs:                  splitURLs(v.GetString("rpc_urls")),
		Commitment:               v.GetString("commitment"),
		ConfirmationTimeout:      time.Duration(v.GetInt("confirmation_timeout_seconds")) * time.Second,
		ConfirmationPollInterval: time.Duration(v.GetInt("confirmation_poll_seconds")) * time.Second,
		ComputeUnitLimit:         v.GetUint32("compute_unit_limit"),
		SkipPreflight:            v.GetBool("skip_preflight"),
		FeeBaseLamports:          v.GetUint64("fee_base_lamports"),
		FeeRateNumerator:         v.GetUint64("fee_rate_numerator"),
		FeeRateDenominator:       v.GetUint64("fee_rate_denominator"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and fills zero values with defaults.
func (c *Config) Validate() error {
	if c.LogLevel < 0 || c.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	if len(c.RPCURLs) == 0 {
		c.RPCURLs = []string{DefaultRPCURL}
	}

	switch c.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("commitment must be 'processed', 'confirmed' or 'finalized', got %q", c.Commitment)
	}

	if c.ConfirmationTimeout <= 0 {
		c.ConfirmationTimeout = 60 * time.Second
	}
	if c.ConfirmationPollInterval <= 0 {
		c.ConfirmationPollInterval = 2 * time.Second
	}
	if c.ConfirmationPollInterval >= c.ConfirmationTimeout {
		return fmt.Errorf("confirmation poll interval must be shorter than the timeout")
	}

	if c.ComputeUnitLimit == 0 {
		c.ComputeUnitLimit = 200000
	}
	if c.FeeRateDenominator == 0 {
		return fmt.Errorf("fee rate denominator must be non-zero")
	}

	return nil
}

func splitURLs(s string) []string {
	var urls []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}
