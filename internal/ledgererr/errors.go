// Package ledgererr defines the fixed error-kind set every validating chain
// operation surfaces. Errors carry a kind only; formatting for
// a human is left to the host, but each kind is wrapped with
// github.com/pkg/errors so a caller that does want a stack trace for
// diagnostics during development can print one with the %+v verb;
// errors.Cause unwraps to the underlying *Error.
package ledgererr

import "github.com/pkg/errors"

// Kind enumerates the validation failure categories.
type Kind int

const (
	// InvalidBlock covers header-level failures: wrong prev hash,
	// non-monotonic timestamp, proof-of-work mismatch, empty tx list.
	InvalidBlock Kind = iota
	// InvalidBlockHeader covers malformed header encodings.
	InvalidBlockHeader
	// InvalidMerkleRoot means the computed root didn't match the declared one.
	InvalidMerkleRoot
	// InvalidTransaction covers UTXO misses, intra-block double-spends,
	// value non-conservation, malformed coinbase, and bad reward totals.
	InvalidTransaction
	// InvalidTransactionInput covers structural issues with an input.
	InvalidTransactionInput
	// InvalidTransactionOutput covers structural issues with an output.
	InvalidTransactionOutput
	// InvalidSignature means cryptographic verification failed.
	InvalidSignature
	// InvalidHash covers hash decoding failures.
	InvalidHash
	// InvalidPrivateKey covers private key decoding failures.
	InvalidPrivateKey
	// InvalidPublicKey covers public key decoding failures.
	InvalidPublicKey
	// InvalidBlockChain is reserved for chain-level reconstruction failures.
	InvalidBlockChain
)

func (k Kind) String() string {
	switch k {
	case InvalidBlock:
		return "InvalidBlock"
	case InvalidBlockHeader:
		return "InvalidBlockHeader"
	case InvalidMerkleRoot:
		return "InvalidMerkleRoot"
	case InvalidTransaction:
		return "InvalidTransaction"
	case InvalidTransactionInput:
		return "InvalidTransactionInput"
	case InvalidTransactionOutput:
		return "InvalidTransactionOutput"
	case InvalidSignature:
		return "InvalidSignature"
	case InvalidHash:
		return "InvalidHash"
	case InvalidPrivateKey:
		return "InvalidPrivateKey"
	case InvalidPublicKey:
		return "InvalidPublicKey"
	case InvalidBlockChain:
		return "InvalidBlockChain"
	default:
		return "Unknown"
	}
}

// Error is a validation failure tagged with its Kind.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.msg
}

// New builds a Kind-tagged error with a wrapped stack trace.
func New(kind Kind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, msg: msg})
}

// Newf builds a Kind-tagged error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, msg: errorf(format, args...)})
}

func errorf(format string, args ...interface{}) string {
	return errors.Errorf(format, args...).Error()
}

// Is reports whether err (or anything it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	cause := errors.Cause(err)
	le, ok := cause.(*Error)
	return ok && le.Kind == kind
}
