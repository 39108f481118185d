package svm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosslane/svmsender/chains"
	"github.com/crosslane/svmsender/config"
)

func feeTestConfig() *config.Config {
	return &config.Config{
		FeeBaseLamports:    5000,
		FeeRateNumerator:   1,
		FeeRateDenominator: 1000,
		ComputeUnitLimit:   200000,
	}
}

func feeTestRequest(amount int64) *TransferRequest {
	return &TransferRequest{
		DestChain: chains.EthereumSepolia,
		Receiver:  "0x9d087fC03ae39b088326b67fA3C788236645b717",
		TokenAmounts: []TokenAmount{
			{Mint: solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"), Amount: math.NewInt(amount)},
		},
	}
}

func TestStaticEstimator(t *testing.T) {
	est := NewStaticEstimator(feeTestConfig())

	t.Run("base plus proportional component", func(t *testing.T) {
		fee, err := est.EstimateFee(context.Background(), feeTestRequest(10000000))
		require.NoError(t, err)
		assert.Equal(t, uint64(5000+10000), fee.Lamports)
	})

	t.Run("message-only transfer pays the base fee", func(t *testing.T) {
		req := feeTestRequest(0)
		req.TokenAmounts = nil
		req.Payload = []byte("hello")

		fee, err := est.EstimateFee(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, uint64(5000), fee.Lamports)
	})

	t.Run("only the first token amount drives the variable part", func(t *testing.T) {
		req := feeTestRequest(1000)
		req.TokenAmounts = append(req.TokenAmounts, TokenAmount{
			Mint:   solana.MustPublicKeyFromBase58("4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"),
			Amount: math.NewInt(999999999),
		})

		fee, err := est.EstimateFee(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, uint64(5000+1), fee.Lamports)
	})

	t.Run("deterministic across repeated and concurrent calls", func(t *testing.T) {
		var wg sync.WaitGroup
		results := make([]uint64, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				fee, err := est.EstimateFee(context.Background(), feeTestRequest(10000000))
				require.NoError(t, err)
				results[i] = fee.Lamports
			}(i)
		}
		wg.Wait()
		for _, r := range results {
			assert.Equal(t, uint64(15000), r)
		}
	})

	t.Run("nil request rejected", func(t *testing.T) {
		_, err := est.EstimateFee(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("rate parameters above the signed 64-bit range", func(t *testing.T) {
		cfg := feeTestConfig()
		cfg.FeeRateNumerator = 1 << 63

		fee, err := NewStaticEstimator(cfg).EstimateFee(context.Background(), feeTestRequest(2))
		require.NoError(t, err)
		// 2 * 2^63 / 1000, floored, plus the base fee.
		assert.Equal(t, uint64(5000+18446744073709551), fee.Lamports)
	})
}

func TestOracleEstimator(t *testing.T) {
	t.Run("adds sampled prioritization cost", func(t *testing.T) {
		ledger := &stubLedger{medianFee: 1_000_000} // 1 lamport per CU
		est := NewOracleEstimator(ledger, feeTestConfig(), zerolog.Nop())

		fee, err := est.EstimateFee(context.Background(), feeTestRequest(10000000))
		require.NoError(t, err)
		assert.Equal(t, uint64(15000+200000), fee.Lamports)
	})

	t.Run("sampling failure degrades to static estimate", func(t *testing.T) {
		ledger := &stubLedger{medianFeeErr: errors.New("rpc unavailable")}
		est := NewOracleEstimator(ledger, feeTestConfig(), zerolog.Nop())

		fee, err := est.EstimateFee(context.Background(), feeTestRequest(10000000))
		require.NoError(t, err)
		assert.Equal(t, uint64(15000), fee.Lamports)
	})
}
