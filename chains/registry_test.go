package chains

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosslane/svmsender/errors"
)

func TestResolve(t *testing.T) {
	t.Run("resolves supported destinations", func(t *testing.T) {
		for _, id := range Destinations() {
			desc, err := Resolve(id)
			require.NoError(t, err)
			assert.Equal(t, id, desc.ID)
			assert.NotEmpty(t, desc.Name)
			assert.NotEmpty(t, desc.ExplorerTxTemplate)
		}
	})

	t.Run("unsupported chain fails with typed error", func(t *testing.T) {
		_, err := Resolve(ChainID("near-testnet"))
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindUnsupportedChain))
	})
}

func TestSelectors(t *testing.T) {
	t.Run("selectors are positive and distinct", func(t *testing.T) {
		seen := make(map[string]ChainID)
		ids := append(Destinations(), SolanaDevnet)
		for _, id := range ids {
			sel, err := SelectorOf(id)
			require.NoError(t, err)
			assert.True(t, sel.IsPositive(), "selector for %s must be positive", id)

			prev, dup := seen[sel.String()]
			assert.False(t, dup, "selector for %s collides with %s", id, prev)
			seen[sel.String()] = id
		}
	})

	t.Run("selectors exceed the signed 64-bit range", func(t *testing.T) {
		sel, err := SelectorOf(EthereumSepolia)
		require.NoError(t, err)
		maxInt64 := math.NewInt(9223372036854775807)
		assert.True(t, sel.GT(maxInt64))
	})

	t.Run("unsupported chain has no selector", func(t *testing.T) {
		_, err := SelectorOf(ChainID("osmosis"))
		assert.True(t, errors.IsKind(err, errors.KindUnsupportedChain))
	})
}

func TestSource(t *testing.T) {
	src := Source()
	assert.Equal(t, SolanaDevnet, src.ID)
	assert.False(t, src.Router.IsZero())
	assert.False(t, src.FeeQuoter.IsZero())
	assert.Contains(t, src.TokenMints, "WSOL")
	assert.Contains(t, src.TokenMints, "USDC")
}

func TestRegistryImmutability(t *testing.T) {
	t.Run("token mints are insulated from caller mutation", func(t *testing.T) {
		first := Source()
		first.TokenMints["WSOL"] = solana.PublicKey{}
		delete(first.TokenMints, "USDC")

		second := Source()
		assert.False(t, second.TokenMints["WSOL"].IsZero())
		assert.Contains(t, second.TokenMints, "USDC")
	})
}
