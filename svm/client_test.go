package svm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	t.Run("assembles an orchestrator from configuration", func(t *testing.T) {
		sg := &stubSigner{account: solana.NewWallet().PublicKey(), connected: true}

		o, err := NewFromConfig(orchTestConfig(), sg)
		require.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, StateIdle, o.LastState())
	})

	t.Run("nil config rejected", func(t *testing.T) {
		_, err := NewFromConfig(nil, &stubSigner{connected: true})
		assert.Error(t, err)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := orchTestConfig()
		cfg.Commitment = "eventual"

		_, err := NewFromConfig(cfg, &stubSigner{connected: true})
		assert.Error(t, err)
	})
}
