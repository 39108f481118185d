package svm

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/crosslane/svmsender/config"
)

// Estimator prices a prospective transfer in the source chain's smallest
// unit. Implementations must be read-only and safe to call repeatedly and
// concurrently; interactive callers recompute estimates on every edit and
// discard stale results themselves.
type Estimator interface {
	EstimateFee(ctx context.Context, req *TransferRequest) (*FeeEstimate, error)
}

// StaticEstimator prices a transfer as base + amount * rate, a deterministic
// placeholder cost model with the same call contract as a live quoter.
type StaticEstimator struct {
	baseLamports uint64
	rateNum      uint64
	rateDen      uint64
}

var _ Estimator = (*StaticEstimator)(nil)

// NewStaticEstimator builds an estimator from the configured fee model.
func NewStaticEstimator(cfg *config.Config) *StaticEstimator {
	return &StaticEstimator{
		baseLamports: cfg.FeeBaseLamports,
		rateNum:      cfg.FeeRateNumerator,
		rateDen:      cfg.FeeRateDenominator,
	}
}

// EstimateFee computes the fee from the first token amount in the request.
func (e *StaticEstimator) EstimateFee(_ context.Context, req *TransferRequest) (*FeeEstimate, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}

	fee := math.NewIntFromUint64(e.baseLamports)
	if len(req.TokenAmounts) > 0 {
		// Rate parameters are u64 and may exceed the signed 64-bit range.
		variable := req.TokenAmounts[0].Amount.
			Mul(math.NewIntFromUint64(e.rateNum)).
			Quo(math.NewIntFromUint64(e.rateDen))
		fee = fee.Add(variable)
	}

	if !fee.IsUint64() {
		return nil, fmt.Errorf("fee estimate overflows lamport range: %s", fee.String())
	}
	return &FeeEstimate{Lamports: fee.Uint64()}, nil
}

// OracleEstimator augments the static model with the network's recent
// prioritization fees. It performs read-only queries only, so it satisfies
// the same contract as StaticEstimator and can be swapped in transparently.
type OracleEstimator struct {
	ledger       Ledger
	static       *StaticEstimator
	computeUnits uint32
	logger       zerolog.Logger
}

var _ Estimator = (*OracleEstimator)(nil)

// NewOracleEstimator builds a live estimator on top of the static model.
func NewOracleEstimator(ledger Ledger, cfg *config.Config, logger zerolog.Logger) *OracleEstimator {
	return &OracleEstimator{
		ledger:       ledger,
		static:       NewStaticEstimator(cfg),
		computeUnits: cfg.ComputeUnitLimit,
		logger:       logger.With().Str("component", "svm_fee_oracle").Logger(),
	}
}

// EstimateFee adds the sampled prioritization cost for the configured compute
// budget to the static estimate. A sampling failure degrades to the static
// estimate; estimation must never block a transfer on oracle availability.
func (e *OracleEstimator) EstimateFee(ctx context.Context, req *TransferRequest) (*FeeEstimate, error) {
	est, err := e.static.EstimateFee(ctx, req)
	if err != nil {
		return nil, err
	}

	microLamportsPerCU, err := e.ledger.MedianPrioritizationFee(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("prioritization fee sampling failed, using static estimate")
		return est, nil
	}

	priority := microLamportsPerCU * uint64(e.computeUnits) / 1_000_000
	return &FeeEstimate{Lamports: est.Lamports + priority}, nil
}
