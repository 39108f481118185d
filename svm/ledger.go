package svm

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ErrNoTokenAccount reports that the queried associated token account does
// not exist for its owner. Callers treat this as a distinct condition from an
// account that exists with an insufficient balance.
var ErrNoTokenAccount = errors.New("token account does not exist")

// ErrTransactionFailed reports that the network executed a submitted
// transaction and it failed. The condition is definitive: a failed
// transaction's status never improves, so polling must stop.
var ErrTransactionFailed = errors.New("transaction failed on-chain")

// Ledger is the network-facing surface the orchestration core depends on.
// RPCClient implements it against real endpoints; tests substitute stubs.
type Ledger interface {
	// NativeBalance returns the owner's balance in lamports.
	NativeBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)

	// TokenAccountBalance returns the raw token balance held by the given
	// associated token account, or ErrNoTokenAccount when it does not exist.
	TokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error)

	// LatestBlockhash returns a fresh blockhash to anchor a transaction.
	LatestBlockhash(ctx context.Context) (solana.Hash, error)

	// Submit sends a signed transaction and returns its signature. The
	// signature is provisional until confirmation is observed.
	Submit(ctx context.Context, tx *solana.Transaction, skipPreflight bool) (solana.Signature, error)

	// SignatureStatus returns the current confirmation status of a
	// submitted transaction, or an empty status when it is not yet known
	// to the network.
	SignatureStatus(ctx context.Context, sig solana.Signature) (rpc.ConfirmationStatusType, error)

	// TransactionLogs returns the ordered log lines emitted by a
	// confirmed transaction.
	TransactionLogs(ctx context.Context, sig solana.Signature) ([]string, error)

	// MedianPrioritizationFee samples recent prioritization fees and
	// returns their median in micro-lamports per compute unit.
	MedianPrioritizationFee(ctx context.Context) (uint64, error)
}
