// Package hashutil implements the ledger's hash primitive: a fixed
// 256-bit digest, a canonical byte encoder, and a numeric target ordering
// used by proof-of-work matching.
package hashutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
)

// Size is the digest length in bytes.
const Size = 32

// Hash is a 256-bit content digest. Equality is byte equality.
type Hash [Size]byte

// Zero returns the all-zero hash, used as the genesis block's prev-hash link.
func Zero() Hash { return Hash{} }

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }

// Bytes returns the digest as a slice. The returned slice is a fresh copy,
// so mutating it never changes h.
func (h Hash) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h[:])
	return out
}

// Equal reports whether h and o are byte-identical.
func (h Hash) Equal(o Hash) bool { return h == o }

// String renders the hash as lowercase hex, matching the rest of the pack's
// debug/log formatting conventions.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// FromBytes builds a Hash from a 32-byte slice, failing on any other length.
func FromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, errors.Errorf("hashutil: expected %d bytes, got %d", Size, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Encoder builds the canonical, stable byte representation that Sum hashes.
// Fields are written in declaration order; fixed-width integers are
// big-endian; variable-length byte sequences are length-prefixed so that no
// two distinct field sequences can ever collide on their concatenation.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty canonical encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Uint64 appends v as 8 big-endian bytes.
func (e *Encoder) Uint64(v uint64) *Encoder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	e.buf.Write(tmp[:])
	return e
}

// Int64 appends v (typically a Unix timestamp) as 8 big-endian bytes of its
// unsigned bit pattern.
func (e *Encoder) Int64(v int64) *Encoder {
	return e.Uint64(uint64(v))
}

// Bytes appends b prefixed with its length as 4 big-endian bytes, so
// sequences of differing length can never be confused with one another.
func (e *Encoder) Bytes(b []byte) *Encoder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(b)))
	e.buf.Write(tmp[:])
	e.buf.Write(b)
	return e
}

// Raw appends b verbatim with no length prefix. Use only for fields whose
// width is already fixed and known to the reader (e.g. embedding a Hash).
func (e *Encoder) Raw(b []byte) *Encoder {
	e.buf.Write(b)
	return e
}

// Encoded returns the accumulated canonical byte string.
func (e *Encoder) Encoded() []byte {
	return e.buf.Bytes()
}

// Sum hashes e's accumulated byte string with SHA-256.
func Sum(e *Encoder) Hash {
	return sha256.Sum256(e.Encoded())
}

// SumBytes is a convenience for hashing a single already-serialized value
// with SHA-256.
func SumBytes(b []byte) Hash {
	return sha256.Sum256(b)
}
