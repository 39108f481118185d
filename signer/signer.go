package signer

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Signer is the wallet capability injected into the orchestrator. It exposes
// exactly two operations and never leaks key material: report the current
// account, and sign a prepared transaction. A signer may reject signing,
// which the orchestrator surfaces as a signature-rejected failure.
type Signer interface {
	// CurrentAccount returns the active account, or false when no account
	// is connected.
	CurrentAccount() (solana.PublicKey, bool)

	// Sign signs the transaction in place and returns it. Implementations
	// may block on user interaction; ctx bounds that wait.
	Sign(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// Keypair is a Signer backed by an in-memory private key. It is meant for
// tests and server-side automation; interactive wallet bindings implement
// Signer externally.
type Keypair struct {
	key solana.PrivateKey
}

// NewKeypair wraps a private key as a Signer.
func NewKeypair(key solana.PrivateKey) *Keypair {
	return &Keypair{key: key}
}

// CurrentAccount returns the keypair's public key.
func (k *Keypair) CurrentAccount() (solana.PublicKey, bool) {
	if k == nil || len(k.key) == 0 {
		return solana.PublicKey{}, false
	}
	return k.key.PublicKey(), true
}

// Sign signs the transaction with the wrapped key.
func (k *Keypair) Sign(_ context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	if k == nil || len(k.key) == 0 {
		return nil, fmt.Errorf("no key available")
	}

	_, err := tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(k.key.PublicKey()) {
			key := k.key
			return &key
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}
