package chains

import (
	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/crosslane/svmsender/errors"
)

// ChainID identifies a supported chain.
type ChainID string

const (
	// SolanaDevnet is the only supported source chain.
	SolanaDevnet ChainID = "solana-devnet"

	EthereumSepolia ChainID = "ethereum-sepolia"
	AvalancheFuji   ChainID = "avalanche-fuji"
	ArbitrumSepolia ChainID = "arbitrum-sepolia"
)

// Descriptor holds the immutable network metadata for one chain. The routing
// selector is the protocol's opaque numeric identifier for the chain; it is
// stored and compared, never interpreted arithmetically. Selector values can
// exceed the signed 64-bit range, so they are kept as arbitrary-precision
// integers.
type Descriptor struct {
	ID       ChainID
	Name     string
	Selector math.Int
	RPCURL   string

	// ExplorerTxTemplate renders a source-chain transaction URL from a
	// signature; MessageTemplate renders the cross-chain protocol explorer
	// URL from a message id. Both are fmt.Sprintf templates with one %s.
	ExplorerTxTemplate string
	MessageTemplate    string

	// Source-chain program addresses. Zero-valued for destination chains,
	// whose programs live outside this client's reach.
	Router    solana.PublicKey
	FeeQuoter solana.PublicKey

	// Well-known token mints on the source chain, keyed by symbol.
	TokenMints map[string]solana.PublicKey
}

// registry is process-wide read-only state, built once at package init and
// never mutated afterwards, so lookups need no synchronization.
var registry = map[ChainID]Descriptor{
	SolanaDevnet: {
		ID:                 SolanaDevnet,
		Name:               "Solana Devnet",
		Selector:           mustSelector("16423721717087811551"),
		RPCURL:             "https://api.devnet.solana.com",
		ExplorerTxTemplate: "https://explorer.solana.com/tx/%s?cluster=devnet",
		MessageTemplate:    "https://ccip.chain.link/msg/%s",
		Router:             solana.MustPublicKeyFromBase58("Ccip842gzYHhvdDkSyi2YVCoAWPbYJoApMFzSxQroE9C"),
		FeeQuoter:          solana.MustPublicKeyFromBase58("FeeQPGkKDeRV1MgoYfMH6L8o3KeuYjwUZrgn4LRKfjHi"),
		TokenMints: map[string]solana.PublicKey{
			"WSOL": solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
			"USDC": solana.MustPublicKeyFromBase58("4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"),
		},
	},
	EthereumSepolia: {
		ID:                 EthereumSepolia,
		Name:               "Ethereum Sepolia",
		Selector:           mustSelector("16015286601757825753"),
		RPCURL:             "https://rpc.sepolia.org",
		ExplorerTxTemplate: "https://sepolia.etherscan.io/tx/%s",
		MessageTemplate:    "https://ccip.chain.link/msg/%s",
	},
	AvalancheFuji: {
		ID:                 AvalancheFuji,
		Name:               "Avalanche Fuji",
		Selector:           mustSelector("14767482510784806043"),
		RPCURL:             "https://api.avax-test.network/ext/bc/C/rpc",
		ExplorerTxTemplate: "https://testnet.snowtrace.io/tx/%s",
		MessageTemplate:    "https://ccip.chain.link/msg/%s",
	},
	ArbitrumSepolia: {
		ID:                 ArbitrumSepolia,
		Name:               "Arbitrum Sepolia",
		Selector:           mustSelector("3478487238524512106"),
		RPCURL:             "https://sepolia-rollup.arbitrum.io/rpc",
		ExplorerTxTemplate: "https://sepolia.arbiscan.io/tx/%s",
		MessageTemplate:    "https://ccip.chain.link/msg/%s",
	},
}

func mustSelector(s string) math.Int {
	v, ok := math.NewIntFromString(s)
	if !ok {
		panic("chains: invalid selector literal: " + s)
	}
	return v
}

// Resolve looks up the descriptor for a chain identifier. The returned
// descriptor carries its own copy of the mint table, so mutating it cannot
// reach the registry.
func Resolve(id ChainID) (Descriptor, error) {
	desc, ok := registry[id]
	if !ok {
		return Descriptor{}, errors.Newf(errors.KindUnsupportedChain, string(id), "unsupported chain: %s", id)
	}
	desc.TokenMints = cloneMints(desc.TokenMints)
	return desc, nil
}

func cloneMints(src map[string]solana.PublicKey) map[string]solana.PublicKey {
	if src == nil {
		return nil
	}
	out := make(map[string]solana.PublicKey, len(src))
	for symbol, mint := range src {
		out[symbol] = mint
	}
	return out
}

// SelectorOf returns the routing selector for a chain identifier.
func SelectorOf(id ChainID) (math.Int, error) {
	desc, err := Resolve(id)
	if err != nil {
		return math.Int{}, err
	}
	return desc.Selector, nil
}

// Source returns the descriptor of the single supported source chain.
func Source() Descriptor {
	desc, _ := Resolve(SolanaDevnet)
	return desc
}

// Destinations returns the identifiers of all supported destination chains.
func Destinations() []ChainID {
	return []ChainID{EthereumSepolia, AvalancheFuji, ArbitrumSepolia}
}
