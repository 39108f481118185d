package svm

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/crosslane/svmsender/config"
	"github.com/crosslane/svmsender/logger"
	"github.com/crosslane/svmsender/signer"
)

// NewFromConfig assembles a ready-to-use orchestrator from runtime
// configuration: the process logger, a failover RPC pool over the configured
// endpoints, and live fee estimation on top of the static model. Callers
// that need to substitute any collaborator use NewOrchestrator directly.
func NewFromConfig(cfg *config.Config, sg signer.Signer) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogSampler)

	ledger, err := NewRPCClient(cfg.RPCURLs, rpc.CommitmentType(cfg.Commitment), log)
	if err != nil {
		return nil, err
	}

	return NewOrchestrator(cfg, ledger, sg, NewOracleEstimator(ledger, cfg, log), log)
}
