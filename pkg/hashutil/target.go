package hashutil

import (
	"math/big"

	"github.com/pkg/errors"
)

// Target is a 256-bit unsigned proof-of-work threshold: a header hash is
// valid only if, read as a big-endian unsigned integer, it is <= Target.
//
// The multiply-then-divide done during retargeting overflows
// 256 bits before it is truncated back down, so Target is backed by
// math/big rather than a fixed-width integer, a standard-library type
// rather than a pack dependency. See
// DESIGN.md for why no third-party wide-integer library fits better than
// math/big for this arbitrary-precision intermediate.
type Target struct {
	v *big.Int
}

// minimumTarget is the ceiling every target is capped at: the 256-bit value
// whose top 16 bits are zero and whose remaining 240 bits are one, i.e.
// 2^240 - 1.
var minimumTarget = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 240), big.NewInt(1))

// MinimumTarget returns the minimum-difficulty ceiling target.
func MinimumTarget() Target {
	return Target{v: new(big.Int).Set(minimumTarget)}
}

// NewTarget wraps a big.Int as a Target, clamping it into (0, MinimumTarget].
func NewTarget(v *big.Int) Target {
	t := new(big.Int).Set(v)
	if t.Sign() <= 0 {
		t = big.NewInt(1)
	}
	if t.Cmp(minimumTarget) > 0 {
		t = new(big.Int).Set(minimumTarget)
	}
	return Target{v: t}
}

// BigInt returns a defensive copy of the underlying integer.
func (t Target) BigInt() *big.Int {
	return new(big.Int).Set(t.v)
}

// Bytes returns the canonical 32-byte big-endian encoding of the target.
func (t Target) Bytes() []byte {
	out := make([]byte, Size)
	b := t.v.Bytes()
	copy(out[Size-len(b):], b)
	return out
}

// TargetFromBytes decodes a 32-byte big-endian target.
func TargetFromBytes(b []byte) (Target, error) {
	if len(b) != Size {
		return Target{}, errors.Errorf("hashutil: target must be %d bytes, got %d", Size, len(b))
	}
	return Target{v: new(big.Int).SetBytes(b)}, nil
}

// Cmp compares t against o the way big.Int.Cmp does.
func (t Target) Cmp(o Target) int {
	return t.v.Cmp(o.v)
}

// MatchesTarget reports whether h, read as a big-endian unsigned 256-bit
// integer, is <= t.
func (h Hash) MatchesTarget(t Target) bool {
	hv := new(big.Int).SetBytes(h[:])
	return hv.Cmp(t.v) <= 0
}
