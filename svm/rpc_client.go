package svm

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
)

// RPCClient provides the Ledger operations against one or more Solana RPC
// endpoints with round-robin failover.
type RPCClient struct {
	clients    []*rpc.Client
	commitment rpc.CommitmentType
	index      uint64
	mu         sync.RWMutex
	logger     zerolog.Logger
}

var _ Ledger = (*RPCClient)(nil)

// NewRPCClient creates an RPC client from a list of endpoint URLs.
func NewRPCClient(rpcURLs []string, commitment rpc.CommitmentType, logger zerolog.Logger) (*RPCClient, error) {
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("no RPC URLs provided")
	}

	log := logger.With().Str("component", "svm_rpc_client").Logger()
	clients := make([]*rpc.Client, 0, len(rpcURLs))
	for _, url := range rpcURLs {
		clients = append(clients, rpc.New(url))
		log.Info().Str("url", url).Msg("registered RPC endpoint")
	}

	return &RPCClient{
		clients:    clients,
		commitment: commitment,
		logger:     log,
	}, nil
}

// executeWithFailover executes a function with round-robin failover
func (rc *RPCClient) executeWithFailover(ctx context.Context, operation string, fn func(*rpc.Client) error) error {
	rc.mu.RLock()
	clients := rc.clients
	rc.mu.RUnlock()

	if len(clients) == 0 {
		return fmt.Errorf("no RPC clients available for %s", operation)
	}

	maxAttempts := len(clients)
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		index := atomic.AddUint64(&rc.index, 1) - 1
		client := clients[index%uint64(len(clients))]

		err := fn(client)
		if err == nil {
			return nil
		}
		lastErr = err

		rc.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Err(err).
			Msg("operation failed, trying next endpoint")
	}

	rpcErrorsTotal.WithLabelValues(operation).Inc()
	return fmt.Errorf("operation %s failed after trying %d endpoints: %w", operation, maxAttempts, lastErr)
}

// IsHealthy checks whether any endpoint in the pool answers a health probe.
func (rc *RPCClient) IsHealthy(ctx context.Context) bool {
	err := rc.executeWithFailover(ctx, "get_health", func(client *rpc.Client) error {
		health, innerErr := client.GetHealth(ctx)
		if innerErr != nil {
			return innerErr
		}
		if health != "ok" {
			return fmt.Errorf("node reported health %q", health)
		}
		return nil
	})
	return err == nil
}

// NativeBalance returns the owner's balance in lamports.
func (rc *RPCClient) NativeBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	var balance uint64
	err := rc.executeWithFailover(ctx, "get_balance", func(client *rpc.Client) error {
		resp, innerErr := client.GetBalance(ctx, owner, rc.commitment)
		if innerErr != nil {
			return innerErr
		}
		balance = resp.Value
		return nil
	})
	return balance, err
}

// TokenAccountBalance returns the raw balance of an associated token account,
// or ErrNoTokenAccount when the account does not exist.
func (rc *RPCClient) TokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	// Existence is checked first: a missing account and a zero balance are
	// different conditions with different recovery paths.
	var exists bool
	err := rc.executeWithFailover(ctx, "get_account_info", func(client *rpc.Client) error {
		_, innerErr := client.GetAccountInfo(ctx, account)
		if innerErr == rpc.ErrNotFound {
			exists = false
			return nil
		}
		if innerErr != nil {
			return innerErr
		}
		exists = true
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrNoTokenAccount
	}

	var amount uint64
	err = rc.executeWithFailover(ctx, "get_token_account_balance", func(client *rpc.Client) error {
		resp, innerErr := client.GetTokenAccountBalance(ctx, account, rc.commitment)
		if innerErr != nil {
			return innerErr
		}
		if resp.Value == nil {
			return fmt.Errorf("empty token balance response")
		}
		parsed, innerErr := strconv.ParseUint(resp.Value.Amount, 10, 64)
		if innerErr != nil {
			return fmt.Errorf("invalid token amount %q: %w", resp.Value.Amount, innerErr)
		}
		amount = parsed
		return nil
	})
	return amount, err
}

// LatestBlockhash gets a recent blockhash for transaction building.
func (rc *RPCClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	var blockhash solana.Hash
	err := rc.executeWithFailover(ctx, "get_latest_blockhash", func(client *rpc.Client) error {
		resp, innerErr := client.GetLatestBlockhash(ctx, rc.commitment)
		if innerErr != nil {
			return innerErr
		}
		blockhash = resp.Value.Blockhash
		return nil
	})
	return blockhash, err
}

// Submit broadcasts a signed transaction and returns its signature.
func (rc *RPCClient) Submit(ctx context.Context, tx *solana.Transaction, skipPreflight bool) (solana.Signature, error) {
	var sig solana.Signature
	err := rc.executeWithFailover(ctx, "send_transaction", func(client *rpc.Client) error {
		var innerErr error
		sig, innerErr = client.SendTransactionWithOpts(
			ctx,
			tx,
			rpc.TransactionOpts{
				SkipPreflight:       skipPreflight,
				PreflightCommitment: rc.commitment,
			},
		)
		return innerErr
	})
	if err != nil {
		return solana.Signature{}, err
	}

	rc.logger.Info().
		Str("signature", sig.String()).
		Msg("transaction submitted")
	return sig, nil
}

// SignatureStatus returns the confirmation status of a submitted transaction.
func (rc *RPCClient) SignatureStatus(ctx context.Context, sig solana.Signature) (rpc.ConfirmationStatusType, error) {
	var status rpc.ConfirmationStatusType
	err := rc.executeWithFailover(ctx, "get_signature_statuses", func(client *rpc.Client) error {
		resp, innerErr := client.GetSignatureStatuses(ctx, false, sig)
		if innerErr != nil {
			return innerErr
		}
		if resp == nil || len(resp.Value) == 0 || resp.Value[0] == nil {
			// Not yet known to the network.
			status = ""
			return nil
		}
		if resp.Value[0].Err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, resp.Value[0].Err)
		}
		status = resp.Value[0].ConfirmationStatus
		return nil
	})
	return status, err
}

// TransactionLogs returns the ordered log lines emitted by a transaction.
func (rc *RPCClient) TransactionLogs(ctx context.Context, sig solana.Signature) ([]string, error) {
	var logs []string
	err := rc.executeWithFailover(ctx, "get_transaction", func(client *rpc.Client) error {
		maxVersion := uint64(0)
		tx, innerErr := client.GetTransaction(
			ctx,
			sig,
			&rpc.GetTransactionOpts{
				Encoding:                       solana.EncodingBase64,
				Commitment:                     rc.commitment,
				MaxSupportedTransactionVersion: &maxVersion,
			},
		)
		if innerErr != nil {
			return innerErr
		}
		if tx == nil || tx.Meta == nil {
			return fmt.Errorf("transaction meta not available")
		}
		logs = tx.Meta.LogMessages
		return nil
	})
	return logs, err
}

// MedianPrioritizationFee samples recent prioritization fees and returns
// their median in micro-lamports per compute unit.
func (rc *RPCClient) MedianPrioritizationFee(ctx context.Context) (uint64, error) {
	var fees []uint64
	err := rc.executeWithFailover(ctx, "get_recent_prioritization_fees", func(client *rpc.Client) error {
		recent, innerErr := client.GetRecentPrioritizationFees(ctx, nil)
		if innerErr != nil {
			return innerErr
		}
		fees = fees[:0]
		for _, fee := range recent {
			if fee.PrioritizationFee > 0 {
				fees = append(fees, fee.PrioritizationFee)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(fees) == 0 {
		// No recent non-zero fees; report a floor so estimates stay sane.
		return 1000, nil
	}
	return calculateMedian(fees), nil
}

// calculateMedian calculates the median of a slice of uint64 values
func calculateMedian(fees []uint64) uint64 {
	if len(fees) == 0 {
		return 0
	}

	sort.Slice(fees, func(i, j int) bool {
		return fees[i] < fees[j]
	})

	n := len(fees)
	if n%2 == 0 {
		return (fees[n/2-1] + fees[n/2]) / 2
	}
	return fees[n/2]
}

// Close releases the endpoint pool.
func (rc *RPCClient) Close() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.clients = nil
}
