package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a transfer failure into a stable tag the UI layer can
// switch on. The free-text message is for display only.
type Kind string

const (
	// KindNotConnected indicates no account/signing capability is available
	KindNotConnected Kind = "NOT_CONNECTED"

	// KindInvalidInput indicates a bad receiver address or amount
	KindInvalidInput Kind = "INVALID_INPUT"

	// KindUnsupportedChain indicates an unknown destination chain identifier
	KindUnsupportedChain Kind = "UNSUPPORTED_CHAIN"

	// KindInsufficientNativeFunds indicates the sender cannot cover network fees
	KindInsufficientNativeFunds Kind = "INSUFFICIENT_NATIVE_FUNDS"

	// KindTokenAccountMissing indicates the sender has no token account for a mint
	KindTokenAccountMissing Kind = "TOKEN_ACCOUNT_MISSING"

	// KindInsufficientTokenFunds indicates the token account holds less than required
	KindInsufficientTokenFunds Kind = "INSUFFICIENT_TOKEN_FUNDS"

	// KindSignatureRejected indicates the signer declined or failed to sign
	KindSignatureRejected Kind = "SIGNATURE_REJECTED"

	// KindSubmissionRejected indicates the network rejected the transaction at submission
	KindSubmissionRejected Kind = "SUBMISSION_REJECTED"

	// KindConfirmationTimeout indicates confirmation was not observed within the bounded wait
	KindConfirmationTimeout Kind = "CONFIRMATION_TIMEOUT"

	// KindMessageIdUnresolvable indicates log extraction of the message id failed.
	// Non-fatal: the transfer result degrades to a derived fallback id.
	KindMessageIdUnresolvable Kind = "MESSAGE_ID_UNRESOLVABLE"
)

// TransferError is the failure surface of the orchestration core. It carries
// a stable kind tag plus human-readable detail, never a raw low-level
// exception object; the underlying cause is kept for logging via Unwrap.
type TransferError struct {
	Kind    Kind
	Message string
	Chain   string
	Cause   error
}

// New creates a TransferError without an underlying cause.
func New(kind Kind, chain, message string) *TransferError {
	return &TransferError{
		Kind:    kind,
		Message: message,
		Chain:   chain,
	}
}

// Wrap creates a TransferError carrying the underlying low-level error.
func Wrap(kind Kind, chain, message string, cause error) *TransferError {
	return &TransferError{
		Kind:    kind,
		Message: message,
		Chain:   chain,
		Cause:   cause,
	}
}

// Newf creates a TransferError with a formatted message.
func Newf(kind Kind, chain, format string, args ...interface{}) *TransferError {
	return New(kind, chain, fmt.Sprintf(format, args...))
}

// Error implements the error interface
func (e *TransferError) Error() string {
	if e.Chain != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Chain, e.Kind, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *TransferError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a TransferError with the given kind.
func IsKind(err error, kind Kind) bool {
	var te *TransferError
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}

// KindOf returns the kind of a TransferError, or an empty Kind for any
// other error (including nil).
func KindOf(err error) Kind {
	var te *TransferError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// As checks if an error can be assigned to a target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
