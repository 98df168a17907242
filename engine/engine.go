// Package engine defines the boundary to the cryptographic primitives the
// record protection layer is built on. The record layer never touches a
// cipher implementation directly; it holds engine handles, so the whole
// primitive set can be swapped out (hardware token, FIPS build, test fake)
// without touching any wire-format logic.
package engine

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
)

// AEADAlgorithm identifies an authenticated encryption transform
type AEADAlgorithm int

const (
	AES128GCM AEADAlgorithm = iota + 1
	AES256GCM
	ChaCha20Poly1305
)

func (a AEADAlgorithm) String() string {
	switch a {
	case AES128GCM:
		return "AES-128-GCM"
	case AES256GCM:
		return "AES-256-GCM"
	case ChaCha20Poly1305:
		return "ChaCha20-Poly1305"
	default:
		return fmt.Sprintf("AEADAlgorithm(%d)", int(a))
	}
}

// KeySize returns the bulk key length in bytes for the algorithm
func (a AEADAlgorithm) KeySize() int {
	switch a {
	case AES128GCM:
		return 16
	case AES256GCM, ChaCha20Poly1305:
		return 32
	default:
		return 0
	}
}

// HashAlgorithm identifies a digest function
type HashAlgorithm int

const (
	SHA256 HashAlgorithm = iota + 1
	SHA384
)

func (h HashAlgorithm) String() string {
	switch h {
	case SHA256:
		return "SHA-256"
	case SHA384:
		return "SHA-384"
	default:
		return fmt.Sprintf("HashAlgorithm(%d)", int(h))
	}
}

// ErrAuthentication is returned by AEAD.Open when the ciphertext or its
// associated data fail authentication. Callers must not surface any more
// detail than this single error value.
var ErrAuthentication = errors.New("engine: message authentication failed")

// ErrClosed is returned when a handle is used after Close
var ErrClosed = errors.New("engine: handle is closed")

// AEAD is an owned handle to a keyed authenticated cipher. A handle is
// bound to exactly one key; Close wipes the key copy and makes the handle
// unusable. Handles are safe for concurrent use only if the underlying
// implementation is; independent handles are always independent.
type AEAD interface {
	// Seal encrypts and authenticates plaintext, authenticates
	// additionalData, and returns ciphertext with the tag appended.
	Seal(nonce, plaintext, additionalData []byte) ([]byte, error)

	// Open authenticates and decrypts ciphertext (which carries the tag
	// as its suffix). On any authentication failure it returns
	// ErrAuthentication and nothing else.
	Open(nonce, ciphertext, additionalData []byte) ([]byte, error)

	// Overhead returns the tag length added by Seal
	Overhead() int

	// NonceSize returns the required nonce length in bytes
	NonceSize() int

	// Close releases the handle and wipes its key material
	Close() error
}

// KeyExchange is an in-progress ephemeral key agreement
type KeyExchange interface {
	// PublicKey returns the local public share to send to the peer
	PublicKey() []byte

	// SharedSecret completes the exchange with the peer's public share
	SharedSecret(peerPublic []byte) ([]byte, error)

	// Close drops the ephemeral private key
	Close() error
}

// Engine is the complete primitive surface consumed by the layers above.
// Every operation is deterministic given its inputs (key generation and
// signing draw their randomness internally) and returns synchronously.
type Engine interface {
	// NewAEAD creates a keyed AEAD handle. Key length mismatches are
	// caller contract violations and fail immediately.
	NewAEAD(alg AEADAlgorithm, key []byte) (AEAD, error)

	// Hash computes a one-shot digest
	Hash(alg HashAlgorithm, data []byte) []byte

	// HMAC computes a one-shot keyed MAC
	HMAC(alg HashAlgorithm, key, data []byte) []byte

	// Sign signs a precomputed digest with an ECDSA private key,
	// returning an ASN.1 DER signature
	Sign(priv *ecdsa.PrivateKey, digest []byte) ([]byte, error)

	// Verify checks an ASN.1 DER signature over a precomputed digest
	Verify(pub *ecdsa.PublicKey, digest, sig []byte) error

	// NewKeyExchange starts a fresh X25519 key agreement
	NewKeyExchange() (KeyExchange, error)
}
