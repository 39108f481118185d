package svm

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// stubLedger is a hand-written Ledger for tests. Call counters let tests
// assert fail-fast behavior (no wasted external calls after a terminal
// failure).
type stubLedger struct {
	nativeLamports uint64
	nativeErr      error

	// token balances keyed by associated token account
	tokenBalances map[solana.PublicKey]uint64
	tokenErr      error

	blockhash    solana.Hash
	blockhashErr error

	submitSig solana.Signature
	submitErr error

	// statuses are returned in order; the last one repeats
	statuses  []rpc.ConfirmationStatusType
	statusErr error

	logs    []string
	logsErr error

	medianFee    uint64
	medianFeeErr error

	nativeCalls    int
	tokenCalls     int
	blockhashCalls int
	submitCalls    int
	statusCalls    int
	logsCalls      int
}

var _ Ledger = (*stubLedger)(nil)

func (s *stubLedger) NativeBalance(_ context.Context, _ solana.PublicKey) (uint64, error) {
	s.nativeCalls++
	return s.nativeLamports, s.nativeErr
}

func (s *stubLedger) TokenAccountBalance(_ context.Context, account solana.PublicKey) (uint64, error) {
	s.tokenCalls++
	if s.tokenErr != nil {
		return 0, s.tokenErr
	}
	balance, ok := s.tokenBalances[account]
	if !ok {
		return 0, ErrNoTokenAccount
	}
	return balance, nil
}

func (s *stubLedger) LatestBlockhash(_ context.Context) (solana.Hash, error) {
	s.blockhashCalls++
	return s.blockhash, s.blockhashErr
}

func (s *stubLedger) Submit(_ context.Context, _ *solana.Transaction, _ bool) (solana.Signature, error) {
	s.submitCalls++
	if s.submitErr != nil {
		return solana.Signature{}, s.submitErr
	}
	return s.submitSig, nil
}

func (s *stubLedger) SignatureStatus(_ context.Context, _ solana.Signature) (rpc.ConfirmationStatusType, error) {
	s.statusCalls++
	if s.statusErr != nil {
		return "", s.statusErr
	}
	if len(s.statuses) == 0 {
		return "", nil
	}
	status := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}
	return status, nil
}

func (s *stubLedger) TransactionLogs(_ context.Context, _ solana.Signature) ([]string, error) {
	s.logsCalls++
	return s.logs, s.logsErr
}

func (s *stubLedger) MedianPrioritizationFee(_ context.Context) (uint64, error) {
	return s.medianFee, s.medianFeeErr
}

// stubSigner is a Signer whose behavior tests control directly.
type stubSigner struct {
	account   solana.PublicKey
	connected bool
	rejectErr error
	signCalls int
}

func (s *stubSigner) CurrentAccount() (solana.PublicKey, bool) {
	return s.account, s.connected
}

func (s *stubSigner) Sign(_ context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	s.signCalls++
	if s.rejectErr != nil {
		return nil, s.rejectErr
	}
	return tx, nil
}

// mustATA derives the associated token account or panics; test setup only.
func mustATA(owner, mint solana.PublicKey) solana.PublicKey {
	account, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		panic(fmt.Sprintf("ata derivation failed: %v", err))
	}
	return account
}
