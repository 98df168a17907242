package engine

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/chacha20poly1305"

	"tls-provider/shared"
)

// StdEngine implements Engine on top of Go's crypto and golang.org/x/crypto.
// It is stateless apart from its logger, so a single instance can serve any
// number of connections concurrently.
type StdEngine struct {
	logger *shared.Logger
	id     string
}

// NewStdEngine creates an engine backed by the standard library primitives
func NewStdEngine() *StdEngine {
	return &StdEngine{
		logger: shared.NewNopLogger(),
		id:     uuid.NewString(),
	}
}

// SetLogger attaches a logger. Only public metadata (algorithm names,
// lengths) is ever logged; key bytes never reach the logger.
func (e *StdEngine) SetLogger(logger *shared.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// NewAEAD creates a keyed AEAD handle for the given algorithm
func (e *StdEngine) NewAEAD(alg AEADAlgorithm, key []byte) (AEAD, error) {
	if len(key) != alg.KeySize() {
		return nil, fmt.Errorf("invalid %s key length: got %d, expected %d",
			alg, len(key), alg.KeySize())
	}

	var aead cipher.AEAD
	var err error

	switch alg {
	case AES128GCM, AES256GCM:
		var block cipher.Block
		block, err = aes.NewCipher(key)
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case ChaCha20Poly1305:
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("unsupported AEAD algorithm: %v", alg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %v", alg, err)
	}

	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)

	e.logger.Debug("created AEAD handle",
		zap.String("engine_id", e.id),
		zap.String("algorithm", alg.String()),
		zap.Int("key_len", len(key)))

	return &stdAEAD{aead: aead, key: keyCopy}, nil
}

// Hash computes a one-shot digest
func (e *StdEngine) Hash(alg HashAlgorithm, data []byte) []byte {
	switch alg {
	case SHA384:
		sum := sha512.Sum384(data)
		return sum[:]
	default:
		sum := sha256.Sum256(data)
		return sum[:]
	}
}

// HMAC computes a one-shot keyed MAC
func (e *StdEngine) HMAC(alg HashAlgorithm, key, data []byte) []byte {
	var mac = hmac.New(sha256.New, key)
	if alg == SHA384 {
		mac = hmac.New(sha512.New384, key)
	}
	mac.Write(data)
	return mac.Sum(nil)
}

// Sign signs a precomputed digest, returning an ASN.1 DER signature
func (e *StdEngine) Sign(priv *ecdsa.PrivateKey, digest []byte) ([]byte, error) {
	if priv == nil {
		return nil, errors.New("nil signing key")
	}
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest)
	if err != nil {
		return nil, fmt.Errorf("ECDSA signing failed: %v", err)
	}
	return sig, nil
}

// Verify checks an ASN.1 DER signature over a precomputed digest
func (e *StdEngine) Verify(pub *ecdsa.PublicKey, digest, sig []byte) error {
	if pub == nil {
		return errors.New("nil verification key")
	}
	if !ecdsa.VerifyASN1(pub, digest, sig) {
		return errors.New("signature verification failed")
	}
	return nil
}

// NewKeyExchange starts a fresh X25519 key agreement
func (e *StdEngine) NewKeyExchange() (KeyExchange, error) {
	priv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate X25519 key: %v", err)
	}
	return &x25519Exchange{priv: priv}, nil
}

// stdAEAD wraps cipher.AEAD with single-ownership key lifecycle
type stdAEAD struct {
	aead cipher.AEAD
	key  []byte
}

func (a *stdAEAD) Seal(nonce, plaintext, additionalData []byte) ([]byte, error) {
	if a.aead == nil {
		return nil, ErrClosed
	}
	if len(nonce) != a.aead.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length: got %d, expected %d",
			len(nonce), a.aead.NonceSize())
	}
	return a.aead.Seal(nil, nonce, plaintext, additionalData), nil
}

func (a *stdAEAD) Open(nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if a.aead == nil {
		return nil, ErrClosed
	}
	if len(nonce) != a.aead.NonceSize() {
		// Reported as a plain authentication failure: inbound records
		// must not be able to tell length errors from tag errors.
		return nil, ErrAuthentication
	}
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

func (a *stdAEAD) Overhead() int {
	if a.aead == nil {
		return 0
	}
	return a.aead.Overhead()
}

func (a *stdAEAD) NonceSize() int {
	if a.aead == nil {
		return 0
	}
	return a.aead.NonceSize()
}

// Close wipes the key copy and releases the cipher
func (a *stdAEAD) Close() error {
	for i := range a.key {
		a.key[i] = 0
	}
	a.key = nil
	a.aead = nil
	return nil
}

// x25519Exchange holds one side of an ephemeral X25519 agreement
type x25519Exchange struct {
	priv *ecdh.PrivateKey
}

func (x *x25519Exchange) PublicKey() []byte {
	if x.priv == nil {
		return nil
	}
	return x.priv.PublicKey().Bytes()
}

func (x *x25519Exchange) SharedSecret(peerPublic []byte) ([]byte, error) {
	if x.priv == nil {
		return nil, ErrClosed
	}
	peer, err := ecdh.X25519().NewPublicKey(peerPublic)
	if err != nil {
		return nil, fmt.Errorf("invalid peer public key: %v", err)
	}
	secret, err := x.priv.ECDH(peer)
	if err != nil {
		return nil, fmt.Errorf("X25519 agreement failed: %v", err)
	}
	return secret, nil
}

func (x *x25519Exchange) Close() error {
	x.priv = nil
	return nil
}
