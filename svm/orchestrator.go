package svm

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/crosslane/svmsender/chains"
	"github.com/crosslane/svmsender/config"
	"github.com/crosslane/svmsender/errors"
	"github.com/crosslane/svmsender/signer"
	"github.com/crosslane/svmsender/utils"
)

// errNotYetConfirmed drives the confirmation poll loop; it is never surfaced.
var errNotYetConfirmed = fmt.Errorf("transaction not yet confirmed")

// Orchestrator drives a transfer through the full sequence: validation, fee
// estimation, balance checks, instruction assembly, external signing,
// submission, bounded confirmation polling and message-id correlation.
//
// Each Execute call owns its own state-machine instance; the orchestrator
// itself holds only read-only collaborators, so concurrent Execute calls do
// not interact. Every failure is terminal for its call — nothing retries a
// possibly-applied submission.
type Orchestrator struct {
	cfg        *config.Config
	ledger     Ledger
	signer     signer.Signer
	estimator  Estimator
	balances   *BalanceValidator
	builder    *TxBuilder
	correlator *Correlator
	source     chains.Descriptor
	logger     zerolog.Logger

	// lastState is observability only; transfer correctness never reads it.
	lastState atomic.Value
}

// NewOrchestrator wires an orchestrator for the source chain. A nil
// estimator selects the static fee model from the configuration.
func NewOrchestrator(
	cfg *config.Config,
	ledger Ledger,
	sg signer.Signer,
	estimator Estimator,
	logger zerolog.Logger,
) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if sg == nil {
		return nil, fmt.Errorf("signer is required")
	}

	source := chains.Source()
	log := logger.With().Str("component", "svm_orchestrator").Str("chain", string(source.ID)).Logger()

	builder, err := NewTxBuilder(source, logger)
	if err != nil {
		return nil, err
	}

	if estimator == nil {
		estimator = NewStaticEstimator(cfg)
	}

	o := &Orchestrator{
		cfg:        cfg,
		ledger:     ledger,
		signer:     sg,
		estimator:  estimator,
		balances:   NewBalanceValidator(ledger, string(source.ID), source.TokenMints["WSOL"], logger),
		builder:    builder,
		correlator: NewCorrelator(ledger, string(source.ID), logger),
		source:     source,
		logger:     log,
	}
	o.lastState.Store(StateIdle)
	return o, nil
}

// LastState reports the most recent state transition, for observability.
func (o *Orchestrator) LastState() State {
	return o.lastState.Load().(State)
}

func (o *Orchestrator) setState(s State) {
	o.lastState.Store(s)
	o.logger.Debug().Str("state", string(s)).Msg("state transition")
}

func (o *Orchestrator) fail(req *TransferRequest, err *errors.TransferError) (*TransferResult, error) {
	o.setState(StateResolvedFailure)
	transfersTotal.WithLabelValues(string(req.DestChain), string(err.Kind)).Inc()
	o.logger.Warn().
		Str("kind", string(err.Kind)).
		Str("dest_chain", string(req.DestChain)).
		Msg(err.Message)
	return nil, err
}

// EstimateFee exposes fee estimation independently of Execute so an
// interactive caller can recompute it while the request is being edited.
func (o *Orchestrator) EstimateFee(ctx context.Context, req TransferRequest) (*FeeEstimate, error) {
	return o.estimator.EstimateFee(ctx, &req)
}

// Execute runs one transfer end to end and returns its result or a typed
// failure. The request is not retained past the call.
func (o *Orchestrator) Execute(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	o.setState(StateValidating)

	account, connected := o.signer.CurrentAccount()
	if !connected {
		return o.fail(&req, errors.New(errors.KindNotConnected, string(o.source.ID),
			"no account available for signing"))
	}

	dest, err := chains.Resolve(req.DestChain)
	if err != nil {
		return o.fail(&req, err.(*errors.TransferError))
	}

	if verr := validateRequest(&req); verr != nil {
		return o.fail(&req, verr)
	}

	fee, err := o.estimator.EstimateFee(ctx, &req)
	if err != nil {
		return o.fail(&req, errors.Wrap(errors.KindInvalidInput, string(o.source.ID),
			"fee estimation failed", err))
	}

	native := o.balances.ValidateNative(ctx, account, fee.Lamports)
	if !native.Sufficient {
		msg := fmt.Sprintf("insufficient native balance: need %d lamports, have %d", fee.Lamports, native.Lamports)
		if !native.Known {
			msg = "insufficient native balance: balance unknown"
		}
		return o.fail(&req, errors.New(errors.KindInsufficientNativeFunds, string(o.source.ID), msg))
	}

	missingMints, err := o.balances.ValidateTokens(ctx, account, req.TokenAmounts)
	if err != nil {
		return o.fail(&req, err.(*errors.TransferError))
	}

	o.setState(StateBuilding)

	instructions, err := o.builder.Build(account, dest, &req, o.cfg.ComputeUnitLimit, missingMints)
	if err != nil {
		return o.fail(&req, errors.Wrap(errors.KindInvalidInput, string(o.source.ID),
			"failed to build transaction", err))
	}

	// Fetched immediately before signing to minimize staleness.
	blockhash, err := o.ledger.LatestBlockhash(ctx)
	if err != nil {
		return o.fail(&req, errors.Wrap(errors.KindSubmissionRejected, string(o.source.ID),
			"failed to fetch recent blockhash", err))
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(account))
	if err != nil {
		return o.fail(&req, errors.Wrap(errors.KindInvalidInput, string(o.source.ID),
			"failed to assemble transaction", err))
	}

	o.setState(StateAwaitingSignature)

	signed, err := o.signer.Sign(ctx, tx)
	if err != nil {
		return o.fail(&req, errors.Wrap(errors.KindSignatureRejected, string(o.source.ID),
			"signing was rejected", err))
	}

	o.setState(StateSubmitting)

	sig, err := o.ledger.Submit(ctx, signed, o.cfg.SkipPreflight)
	if err != nil {
		return o.fail(&req, errors.Wrap(errors.KindSubmissionRejected, string(o.source.ID),
			"network rejected the transaction", err))
	}

	o.setState(StateConfirming)

	submittedAt := time.Now()
	if err := o.awaitConfirmation(ctx, sig); err != nil {
		if stderrors.Is(err, ErrTransactionFailed) {
			return o.fail(&req, errors.Wrap(errors.KindSubmissionRejected, string(o.source.ID),
				fmt.Sprintf("transaction %s executed and failed on-chain", sig.String()), err))
		}
		// Terminal: the transaction may already be applied, so it is never
		// resubmitted. The caller is told to check the signature manually.
		return o.fail(&req, errors.Wrap(errors.KindConfirmationTimeout, string(o.source.ID),
			fmt.Sprintf("confirmation not observed within %s; check signature %s manually",
				o.cfg.ConfirmationTimeout, sig.String()), err))
	}
	confirmationLatency.WithLabelValues(o.cfg.Commitment).Observe(time.Since(submittedAt).Seconds())

	// A correlator failure does not fail the transfer: it already succeeded
	// on-chain. Resolve degrades to the derived fallback id internally.
	messageID := o.correlator.Resolve(ctx, sig)

	o.setState(StateResolvedSuccess)
	transfersTotal.WithLabelValues(string(req.DestChain), "success").Inc()

	result := &TransferResult{
		Signature:       sig,
		MessageID:       messageID,
		ExplorerURL:     fmt.Sprintf(o.source.ExplorerTxTemplate, sig.String()),
		MessageExplorer: fmt.Sprintf(o.source.MessageTemplate, messageID),
	}

	o.logger.Info().
		Str("signature", sig.String()).
		Str("message_id", messageID).
		Str("dest_chain", string(req.DestChain)).
		Msg("transfer completed")

	return result, nil
}

// awaitConfirmation polls the signature status at the configured interval
// until the required commitment level is reached or the bounded wait
// elapses. The wait is a sequence of short checks, never one unbounded call.
func (o *Orchestrator) awaitConfirmation(ctx context.Context, sig solana.Signature) error {
	required := commitmentRank(rpc.ConfirmationStatusType(o.cfg.Commitment))
	maxPolls := uint64(o.cfg.ConfirmationTimeout / o.cfg.ConfirmationPollInterval)
	if maxPolls == 0 {
		maxPolls = 1
	}

	check := func() error {
		status, err := o.ledger.SignatureStatus(ctx, sig)
		if err != nil {
			if stderrors.Is(err, ErrTransactionFailed) {
				// The status of a failed transaction never improves.
				return backoff.Permanent(err)
			}
			return err
		}
		if commitmentRank(status) >= required {
			return nil
		}
		return errNotYetConfirmed
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(o.cfg.ConfirmationPollInterval), maxPolls),
		ctx,
	)
	return backoff.Retry(check, policy)
}

// commitmentRank orders commitment levels so a stronger observed level
// satisfies a weaker requirement.
func commitmentRank(status rpc.ConfirmationStatusType) int {
	switch status {
	case rpc.ConfirmationStatusProcessed:
		return 1
	case rpc.ConfirmationStatusConfirmed:
		return 2
	case rpc.ConfirmationStatusFinalized:
		return 3
	default:
		return 0
	}
}

// validateRequest applies the pure input validators before any network call.
func validateRequest(req *TransferRequest) *errors.TransferError {
	chain := string(req.DestChain)

	if !utils.IsValidEVMAddress(req.Receiver) {
		return errors.Newf(errors.KindInvalidInput, chain, "invalid receiver address %q", req.Receiver)
	}

	if len(req.TokenAmounts) == 0 && len(req.Payload) == 0 {
		return errors.New(errors.KindInvalidInput, chain,
			"transfer carries neither tokens nor a message payload")
	}

	for _, ta := range req.TokenAmounts {
		if ta.Amount.IsNil() || !ta.Amount.IsPositive() {
			return errors.Newf(errors.KindInvalidInput, chain,
				"token amount for mint %s must be a positive integer", ta.Mint.String())
		}
		if !ta.Amount.IsUint64() {
			return errors.Newf(errors.KindInvalidInput, chain,
				"token amount for mint %s exceeds the u64 range", ta.Mint.String())
		}
	}

	return nil
}
