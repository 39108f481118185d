package svm

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"github.com/crosslane/svmsender/errors"
)

// messageIDLogTag marks the router's send event in program logs. The line
// carries the protocol-level message id after the tag.
const messageIDLogTag = "Program log: ccip_send: message_id="

// messageIDFallbackDomain separates the fallback derivation from any other
// keccak use of the signature bytes.
const messageIDFallbackDomain = "svm-ccip-msg-v1:"

// Correlator resolves the cross-chain message identifier for a confirmed
// transaction, distinct from the source-chain signature.
type Correlator struct {
	ledger Ledger
	chain  string
	logger zerolog.Logger
}

// NewCorrelator creates a message-id correlator.
func NewCorrelator(ledger Ledger, chain string, logger zerolog.Logger) *Correlator {
	return &Correlator{
		ledger: ledger,
		chain:  chain,
		logger: logger.With().Str("component", "svm_msgid_correlator").Str("chain", chain).Logger(),
	}
}

// Extract scans the transaction's emitted logs for the router's send event
// and parses the embedded message id. It fails with MessageIdUnresolvable
// when no matching line is found or the logs cannot be fetched; callers fall
// back to DeriveMessageID, so the transfer itself never fails here.
func (c *Correlator) Extract(ctx context.Context, sig solana.Signature) (string, error) {
	logs, err := c.ledger.TransactionLogs(ctx, sig)
	if err != nil {
		return "", errors.Wrap(errors.KindMessageIdUnresolvable, c.chain,
			"failed to fetch transaction logs", err)
	}

	for _, line := range logs {
		if !strings.HasPrefix(line, messageIDLogTag) {
			continue
		}
		id, ok := normalizeMessageID(strings.TrimSpace(strings.TrimPrefix(line, messageIDLogTag)))
		if !ok {
			return "", errors.Newf(errors.KindMessageIdUnresolvable, c.chain,
				"malformed message id in log line %q", line)
		}
		return id, nil
	}

	return "", errors.New(errors.KindMessageIdUnresolvable, c.chain,
		"no message id event found in transaction logs")
}

// Resolve returns the log-derived message id when extraction succeeds and
// the deterministic fallback otherwise. It never fails.
func (c *Correlator) Resolve(ctx context.Context, sig solana.Signature) string {
	id, err := c.Extract(ctx, sig)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("signature", sig.String()).
			Msg("message id extraction failed, using derived fallback")
		return DeriveMessageID(sig)
	}
	return id
}

// DeriveMessageID derives a deterministic placeholder message id from the
// transaction signature: the keccak256 hash of a domain-separated digest of
// the signature bytes. Repeated calls for the same signature yield the same
// id, across processes.
func DeriveMessageID(sig solana.Signature) string {
	digest := crypto.Keccak256([]byte(messageIDFallbackDomain), sig[:])
	return "0x" + hex.EncodeToString(digest)
}

// normalizeMessageID renders a logged id token in the canonical 0x-prefixed
// 32-byte hex form. The router logs hex, but base58-rendered 32-byte ids are
// accepted too since on-chain tooling commonly prints them that way.
func normalizeMessageID(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	hexPart := strings.TrimPrefix(token, "0x")
	if len(hexPart) == 64 {
		if _, err := hex.DecodeString(hexPart); err == nil {
			return "0x" + strings.ToLower(hexPart), true
		}
	}

	raw, err := base58.Decode(token)
	if err == nil && len(raw) == 32 {
		return "0x" + hex.EncodeToString(raw), true
	}
	return "", false
}
