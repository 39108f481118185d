package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultRPCURL}, cfg.RPCURLs)
	assert.Equal(t, "confirmed", cfg.Commitment)
	assert.Equal(t, 60*time.Second, cfg.ConfirmationTimeout)
	assert.Equal(t, 2*time.Second, cfg.ConfirmationPollInterval)
	assert.Equal(t, uint32(200000), cfg.ComputeUnitLimit)
	assert.Equal(t, uint64(5000), cfg.FeeBaseLamports)
	assert.False(t, cfg.SkipPreflight)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SVMSENDER_RPC_URLS", "https://rpc-a.example.com, https://rpc-b.example.com")
	t.Setenv("SVMSENDER_COMMITMENT", "finalized")
	t.Setenv("SVMSENDER_CONFIRMATION_TIMEOUT_SECONDS", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://rpc-a.example.com", "https://rpc-b.example.com"}, cfg.RPCURLs)
	assert.Equal(t, "finalized", cfg.Commitment)
	assert.Equal(t, 120*time.Second, cfg.ConfirmationTimeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			LogLevel:                 1,
			LogFormat:                "json",
			RPCURLs:                  []string{DefaultRPCURL},
			Commitment:               "confirmed",
			ConfirmationTimeout:      30 * time.Second,
			ConfirmationPollInterval: time.Second,
			ComputeUnitLimit:         200000,
			FeeBaseLamports:          5000,
			FeeRateNumerator:         1,
			FeeRateDenominator:       1000,
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("bad commitment rejected", func(t *testing.T) {
		cfg := base()
		cfg.Commitment = "eventual"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log format rejected", func(t *testing.T) {
		cfg := base()
		cfg.LogFormat = "xml"
		assert.Error(t, cfg.Validate())
	})

	t.Run("poll interval must be below timeout", func(t *testing.T) {
		cfg := base()
		cfg.ConfirmationPollInterval = time.Minute
		cfg.ConfirmationTimeout = time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero fee denominator rejected", func(t *testing.T) {
		cfg := base()
		cfg.FeeRateDenominator = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty rpc urls fall back to default", func(t *testing.T) {
		cfg := base()
		cfg.RPCURLs = nil
		require.NoError(t, cfg.Validate())
		assert.Equal(t, []string{DefaultRPCURL}, cfg.RPCURLs)
	})
}
