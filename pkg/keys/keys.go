// Package keys implements key generation and ECDSA signatures over the
// secp256k1 curve. It wraps github.com/btcsuite/btcd/btcec/v2 rather than
// crypto/elliptic's P-256.
package keys

import (
	"crypto/ecdsa"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
)

// PrivateKey is a secp256k1 scalar. It is never serialized by this package;
// persisting one in plaintext is a host-process concern.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// PublicKey is a secp256k1 curve point, held in its canonical compressed
// encoding so that equality is simple byte equality.
type PublicKey struct {
	encoded []byte
}

// Signature is an ECDSA (r, s) pair over a 32-byte digest.
type Signature struct {
	sig *btcecdsa.Signature
}

// NewPrivateKey draws a fresh key from a cryptographically secure source.
func NewPrivateKey() (*PrivateKey, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "keys: generate private key")
	}
	return &PrivateKey{key: key}, nil
}

// Public returns the public key corresponding to priv.
func (priv *PrivateKey) Public() PublicKey {
	return PublicKey{encoded: priv.key.PubKey().SerializeCompressed()}
}

// ECDSA exposes the stdlib-shaped key for callers that need it (e.g. to
// interoperate with crypto/ecdsa based code elsewhere).
func (priv *PrivateKey) ECDSA() *ecdsa.PrivateKey {
	return priv.key.ToECDSA()
}

// Bytes returns the canonical compressed encoding of pub.
func (pub PublicKey) Bytes() []byte {
	out := make([]byte, len(pub.encoded))
	copy(out, pub.encoded)
	return out
}

// Equal reports whether two public keys encode to the same point.
func (pub PublicKey) Equal(o PublicKey) bool {
	if len(pub.encoded) != len(o.encoded) {
		return false
	}
	for i := range pub.encoded {
		if pub.encoded[i] != o.encoded[i] {
			return false
		}
	}
	return true
}

// PublicKeyFromBytes decodes a compressed secp256k1 public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	parsed, err := btcec.ParsePubKey(b)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "keys: invalid public key encoding")
	}
	return PublicKey{encoded: parsed.SerializeCompressed()}, nil
}

func (pub PublicKey) parsed() (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(pub.encoded)
}

// Sign signs a 32-byte digest with priv. Callers pass the hash of the
// referenced output, never a raw output value.
func Sign(digest []byte, priv *PrivateKey) (Signature, error) {
	if len(digest) != 32 {
		return Signature{}, errors.Errorf("keys: digest must be 32 bytes, got %d", len(digest))
	}
	sig := btcecdsa.Sign(priv.key, digest)
	return Signature{sig: sig}, nil
}

// Verify reports whether sig is a valid signature over digest by pub. A
// cryptographically failed check returns false with a nil error; an empty
// signature or a malformed public key encoding returns an error. It never
// panics.
func Verify(sig Signature, digest []byte, pub PublicKey) (bool, error) {
	if sig.sig == nil {
		return false, errors.New("keys: empty signature")
	}
	parsed, err := pub.parsed()
	if err != nil {
		return false, errors.Wrap(err, "keys: invalid public key")
	}
	return sig.sig.Verify(digest, parsed), nil
}

// Bytes returns the DER encoding of the signature.
func (s Signature) Bytes() []byte {
	if s.sig == nil {
		return nil
	}
	return s.sig.Serialize()
}

// SignatureFromBytes parses a DER-encoded ECDSA signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	sig, err := btcecdsa.ParseDERSignature(b)
	if err != nil {
		return Signature{}, errors.Wrap(err, "keys: invalid signature encoding")
	}
	return Signature{sig: sig}, nil
}
