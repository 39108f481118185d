package svm

import (
	"crypto/sha256"
	"fmt"

	"cosmossdk.io/math"
	"github.com/near/borsh-go"

	"github.com/crosslane/svmsender/utils"
)

// sendDiscriminator is the 8-byte Anchor instruction discriminator for the
// router's send entrypoint: the first 8 bytes of sha256("global:ccip_send").
var sendDiscriminator = func() []byte {
	h := sha256.Sum256([]byte("global:ccip_send"))
	return h[:8]
}()

// Wire structures for the router message body. The router program defines
// the byte layout (Borsh, per its interface definition); these mirror it
// field for field and must not be reordered.
type tokenAmountWire struct {
	Mint   [32]byte
	Amount uint64
}

type extraArgsWire struct {
	GasLimit                 uint64
	AllowOutOfOrderExecution bool
}

type routerMessageWire struct {
	DestChainSelector [16]byte // u128, little-endian
	Receiver          []byte
	TokenAmounts      []tokenAmountWire
	FeeToken          uint8
	Payload           []byte
	ExtraArgs         extraArgsWire
}

// EncodeRouterMessage serializes the transfer request into the router's
// Borsh wire format. The receiver address is carried as raw bytes in the
// destination chain's native width (20 bytes for EVM chains).
func EncodeRouterMessage(destSelector math.Int, req *TransferRequest) ([]byte, error) {
	selector, err := selectorToU128LE(destSelector)
	if err != nil {
		return nil, err
	}

	if !utils.IsValidEVMAddress(req.Receiver) {
		return nil, fmt.Errorf("receiver %q is not a valid destination address", req.Receiver)
	}

	tokens := make([]tokenAmountWire, 0, len(req.TokenAmounts))
	for _, ta := range req.TokenAmounts {
		if !ta.Amount.IsUint64() {
			return nil, fmt.Errorf("token amount %s for mint %s exceeds the u64 range",
				ta.Amount.String(), ta.Mint.String())
		}
		tokens = append(tokens, tokenAmountWire{
			Mint:   [32]byte(ta.Mint),
			Amount: ta.Amount.Uint64(),
		})
	}

	payload := req.Payload
	if payload == nil {
		payload = []byte{}
	}

	msg := routerMessageWire{
		DestChainSelector: selector,
		Receiver:          utils.EVMAddressBytes(req.Receiver),
		TokenAmounts:      tokens,
		FeeToken:          uint8(req.FeeToken),
		Payload:           payload,
		ExtraArgs: extraArgsWire{
			GasLimit:                 req.ExtraArgs.GasLimit,
			AllowOutOfOrderExecution: req.ExtraArgs.AllowOutOfOrderExecution,
		},
	}

	body, err := borsh.Serialize(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize router message: %w", err)
	}
	return body, nil
}

// selectorToU128LE packs a routing selector into 16 little-endian bytes. The
// selector is opaque: it is stored and compared, never computed with, so the
// only validity requirements are non-negativity and fitting in 128 bits.
func selectorToU128LE(selector math.Int) ([16]byte, error) {
	var out [16]byte
	if selector.IsNegative() {
		return out, fmt.Errorf("selector must be non-negative")
	}

	be := selector.BigInt().Bytes()
	if len(be) > 16 {
		return out, fmt.Errorf("selector %s exceeds the u128 range", selector.String())
	}
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out, nil
}
