package svm

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/crosslane/svmsender/chains"
)

// DefaultComputeUnitLimit caps execution cost when no limit is configured.
const DefaultComputeUnitLimit = 200000

// setComputeUnitLimitOpcode is the compute-budget program's instruction tag
// for SetComputeUnitLimit.
const setComputeUnitLimitOpcode = 0x02

// createIdempotentOpcode is the associated-token-program instruction tag for
// CreateIdempotent, which succeeds even if the account already exists.
const createIdempotentOpcode = 0x01

var computeBudgetProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

// TxBuilder assembles the ordered instruction list for one transfer. The
// ordering is a wire-compatibility requirement of the router: compute budget
// first, token-account creation next, exactly one send instruction last.
type TxBuilder struct {
	source chains.Descriptor
	logger zerolog.Logger
}

// NewTxBuilder creates a transaction builder for the source chain.
func NewTxBuilder(source chains.Descriptor, logger zerolog.Logger) (*TxBuilder, error) {
	if source.Router.IsZero() {
		return nil, fmt.Errorf("source chain %s has no router program", source.ID)
	}
	if source.FeeQuoter.IsZero() {
		return nil, fmt.Errorf("source chain %s has no fee quoter program", source.ID)
	}

	return &TxBuilder{
		source: source,
		logger: logger.With().Str("component", "svm_tx_builder").Str("chain", string(source.ID)).Logger(),
	}, nil
}

// Build assembles the instruction list for a transfer:
//
//  1. SetComputeUnitLimit, bounding execution cost for the whole transaction.
//  2. One CreateIdempotent associated-token-account instruction per mint the
//     balance validator reported missing, in the order the mints appear in
//     the request.
//  3. The router send instruction carrying the Borsh-encoded message body.
func (tb *TxBuilder) Build(
	payer solana.PublicKey,
	dest chains.Descriptor,
	req *TransferRequest,
	computeUnitLimit uint32,
	missingMints []solana.PublicKey,
) ([]solana.Instruction, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if computeUnitLimit == 0 {
		computeUnitLimit = DefaultComputeUnitLimit
	}

	instructions := []solana.Instruction{
		tb.buildSetComputeUnitLimitInstruction(computeUnitLimit),
	}

	missing := make(map[solana.PublicKey]bool, len(missingMints))
	for _, mint := range missingMints {
		missing[mint] = true
	}
	for _, ta := range req.TokenAmounts {
		if !missing[ta.Mint] {
			continue
		}
		createIx, err := tb.buildCreateTokenAccountInstruction(payer, ta.Mint)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, createIx)
		delete(missing, ta.Mint)
	}

	sendIx, err := tb.buildSendInstruction(payer, dest, req)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, sendIx)

	tb.logger.Debug().
		Int("instructions", len(instructions)).
		Uint32("compute_unit_limit", computeUnitLimit).
		Str("dest_chain", string(dest.ID)).
		Msg("built transfer instructions")

	return instructions, nil
}

// buildSetComputeUnitLimitInstruction encodes the compute-budget program's
// SetComputeUnitLimit instruction: 1-byte opcode followed by a u32 limit.
func (tb *TxBuilder) buildSetComputeUnitLimitInstruction(limit uint32) solana.Instruction {
	data := make([]byte, 5)
	data[0] = setComputeUnitLimitOpcode
	binary.LittleEndian.PutUint32(data[1:], limit)

	return solana.NewInstruction(computeBudgetProgramID, solana.AccountMetaSlice{}, data)
}

// buildCreateTokenAccountInstruction encodes a CreateIdempotent instruction
// for the payer's associated token account of the given mint.
func (tb *TxBuilder) buildCreateTokenAccountInstruction(payer, mint solana.PublicKey) (solana.Instruction, error) {
	account, _, err := solana.FindAssociatedTokenAddress(payer, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive token account for mint %s: %w", mint.String(), err)
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(account, true, false),
		solana.NewAccountMeta(payer, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}

	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		accounts,
		[]byte{createIdempotentOpcode},
	), nil
}

// buildSendInstruction encodes the router send instruction. Account order is
// part of the router's interface: sender, router program, fee-quoter
// program, system program, then for each token its account and mint.
func (tb *TxBuilder) buildSendInstruction(payer solana.PublicKey, dest chains.Descriptor, req *TransferRequest) (solana.Instruction, error) {
	body, err := EncodeRouterMessage(dest.Selector, req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode router message: %w", err)
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(tb.source.Router, false, false),
		solana.NewAccountMeta(tb.source.FeeQuoter, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	for _, ta := range req.TokenAmounts {
		account, _, err := solana.FindAssociatedTokenAddress(payer, ta.Mint)
		if err != nil {
			return nil, fmt.Errorf("failed to derive token account for mint %s: %w", ta.Mint.String(), err)
		}
		accounts = append(accounts,
			solana.NewAccountMeta(account, true, false),
			solana.NewAccountMeta(ta.Mint, false, false),
		)
	}

	data := make([]byte, 0, len(sendDiscriminator)+len(body))
	data = append(data, sendDiscriminator...)
	data = append(data, body...)

	return solana.NewInstruction(tb.source.Router, accounts, data), nil
}
