package signer

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypairCurrentAccount(t *testing.T) {
	t.Run("reports connected account", func(t *testing.T) {
		wallet := solana.NewWallet()
		k := NewKeypair(wallet.PrivateKey)

		account, ok := k.CurrentAccount()
		require.True(t, ok)
		assert.Equal(t, wallet.PublicKey(), account)
	})

	t.Run("empty keypair reports disconnected", func(t *testing.T) {
		k := NewKeypair(nil)
		_, ok := k.CurrentAccount()
		assert.False(t, ok)
	})
}

func TestKeypairSign(t *testing.T) {
	wallet := solana.NewWallet()
	k := NewKeypair(wallet.PrivateKey)

	instr := solana.NewInstruction(
		solana.SystemProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(wallet.PublicKey(), true, true),
		},
		[]byte{0},
	)
	tx, err := solana.NewTransaction(
		[]solana.Instruction{instr},
		solana.Hash{},
		solana.TransactionPayer(wallet.PublicKey()),
	)
	require.NoError(t, err)

	signed, err := k.Sign(context.Background(), tx)
	require.NoError(t, err)
	require.NotEmpty(t, signed.Signatures)
	assert.False(t, signed.Signatures[0].IsZero())
}
