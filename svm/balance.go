package svm

import (
	"context"
	stderrors "errors"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/crosslane/svmsender/errors"
)

// NativeBalance reports the outcome of a native-currency balance check.
// Known is false when the query itself failed; the caller still gets a
// renderable "not sufficient, balance unknown" result instead of an error.
type NativeBalance struct {
	Sufficient bool
	Lamports   uint64
	Known      bool
}

// BalanceValidator checks that a sending account can fund a transfer.
type BalanceValidator struct {
	ledger        Ledger
	chain         string
	wrappedNative solana.PublicKey
	logger        zerolog.Logger
}

// NewBalanceValidator creates a balance validator for the source chain. The
// wrapped-native mint is special-cased: a missing account for it is always
// remediable, because the send instruction wraps lamports on the fly.
func NewBalanceValidator(ledger Ledger, chain string, wrappedNative solana.PublicKey, logger zerolog.Logger) *BalanceValidator {
	return &BalanceValidator{
		ledger:        ledger,
		chain:         chain,
		wrappedNative: wrappedNative,
		logger:        logger.With().Str("component", "svm_balance_validator").Str("chain", chain).Logger(),
	}
}

// ValidateNative checks the owner's lamport balance against the minimum
// required for fees. A query failure never raises: it degrades to an
// insufficient/unknown result and logs the underlying cause.
func (bv *BalanceValidator) ValidateNative(ctx context.Context, owner solana.PublicKey, minLamports uint64) NativeBalance {
	balance, err := bv.ledger.NativeBalance(ctx, owner)
	if err != nil {
		bv.logger.Warn().
			Err(err).
			Str("owner", owner.String()).
			Msg("native balance query failed, reporting balance unknown")
		return NativeBalance{Sufficient: false, Known: false}
	}

	return NativeBalance{
		Sufficient: balance >= minLamports,
		Lamports:   balance,
		Known:      true,
	}
}

// ValidateTokens checks every required token balance in request order. The
// two token failure conditions are distinct because they drive different
// recovery paths: a missing wrapped-native account is remediable (the
// transaction builder creates it and the send wraps lamports), so those
// mints are returned for the builder to handle; a missing account for any
// other mint with a non-zero required amount cannot hold funds and fails
// with TokenAccountMissing, while an existing account holding less than
// required fails with InsufficientTokenFunds.
func (bv *BalanceValidator) ValidateTokens(ctx context.Context, owner solana.PublicKey, amounts []TokenAmount) ([]solana.PublicKey, error) {
	var missing []solana.PublicKey

	for _, ta := range amounts {
		account, _, err := solana.FindAssociatedTokenAddress(owner, ta.Mint)
		if err != nil {
			return nil, errors.Wrap(errors.KindInvalidInput, bv.chain,
				"failed to derive associated token account for mint "+ta.Mint.String(), err)
		}

		available, err := bv.ledger.TokenAccountBalance(ctx, account)
		if stderrors.Is(err, ErrNoTokenAccount) {
			if ta.Amount.IsPositive() && !ta.Mint.Equals(bv.wrappedNative) {
				return nil, errors.Newf(errors.KindTokenAccountMissing, bv.chain,
					"no token account for mint %s", ta.Mint.String())
			}
			bv.logger.Debug().
				Str("mint", ta.Mint.String()).
				Str("account", account.String()).
				Msg("token account missing, will be created")
			missing = append(missing, ta.Mint)
			continue
		}
		if err != nil {
			// Degrade like the native path: an unreadable balance is
			// reported as insufficient with unknown availability.
			bv.logger.Warn().
				Err(err).
				Str("mint", ta.Mint.String()).
				Msg("token balance query failed")
			return nil, errors.Wrap(errors.KindInsufficientTokenFunds, bv.chain,
				"token balance unknown for mint "+ta.Mint.String(), err)
		}

		if ta.Amount.GT(math.NewIntFromUint64(available)) {
			return nil, errors.Newf(errors.KindInsufficientTokenFunds, bv.chain,
				"insufficient balance for mint %s: required %s, available %d",
				ta.Mint.String(), ta.Amount.String(), available)
		}
	}

	return missing, nil
}
