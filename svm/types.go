package svm

import (
	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/crosslane/svmsender/chains"
	"github.com/crosslane/svmsender/utils"
)

// FeeToken selects the currency a transfer's protocol fee is paid in.
type FeeToken uint8

const (
	// FeeTokenNative pays fees in SOL.
	FeeTokenNative FeeToken = iota
	// FeeTokenWrappedNative pays fees in wrapped SOL.
	FeeTokenWrappedNative
	// FeeTokenProtocol pays fees in the protocol's own fee token.
	FeeTokenProtocol
)

// TokenAmount pairs a token mint with a raw smallest-unit amount.
type TokenAmount struct {
	Mint   solana.PublicKey
	Amount math.Int
}

// ExtraArgs carries destination-side execution parameters.
type ExtraArgs struct {
	GasLimit                 uint64
	AllowOutOfOrderExecution bool
}

// TransferRequest describes one cross-chain transfer. It is owned by the
// caller and passed by value into Execute; the orchestrator does not retain
// it past the call.
type TransferRequest struct {
	DestChain    chains.ChainID
	Receiver     string
	TokenAmounts []TokenAmount
	FeeToken     FeeToken
	Payload      []byte
	ExtraArgs    ExtraArgs
}

// FeeEstimate is the estimated network fee for a prospective transfer,
// denominated in the source chain's smallest unit.
type FeeEstimate struct {
	Lamports uint64
}

// SOL formats the estimate in whole native units.
func (f FeeEstimate) SOL() string {
	return utils.ToDisplayAmount(math.NewIntFromUint64(f.Lamports).String(), 9)
}

// TransferResult is produced only on success and is immutable once built.
type TransferResult struct {
	Signature       solana.Signature
	MessageID       string
	ExplorerURL     string
	MessageExplorer string
}

// State names a position in the transfer state machine. Every failure is
// terminal for a given Execute call; a fresh call owns a fresh machine.
type State string

const (
	StateIdle              State = "idle"
	StateValidating        State = "validating"
	StateBuilding          State = "building"
	StateAwaitingSignature State = "awaiting_signature"
	StateSubmitting        State = "submitting"
	StateConfirming        State = "confirming"
	StateResolvedSuccess   State = "resolved_success"
	StateResolvedFailure   State = "resolved_failure"
)
