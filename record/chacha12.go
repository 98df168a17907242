package record

import (
	"fmt"

	"go.uber.org/zap"

	"tls-provider/engine"
)

// TLS 1.2 ChaCha20-Poly1305 record protection (RFC 7905). The nonce is
// fully implicit — the 12-byte IV XORed with the padded sequence number —
// so the only per-record expansion is the 16-byte tag.

const chacha12TagLen = 16

type chacha12 struct {
	aead engine.AEAD
	iv   [NonceSize]byte
}

// NewChaCha2012 creates a TLS 1.2 ChaCha20-Poly1305 record cipher.
// key must be 32 bytes and iv 12 bytes.
func NewChaCha2012(eng engine.Engine, key, iv []byte) (RecordCipher, error) {
	if len(iv) != NonceSize {
		return nil, fmt.Errorf("invalid ChaCha20 IV length: got %d, expected %d", len(iv), NonceSize)
	}

	aead, err := eng.NewAEAD(engine.ChaCha20Poly1305, key)
	if err != nil {
		return nil, err
	}

	c := &chacha12{aead: aead}
	copy(c.iv[:], iv)

	logger.Debug("record cipher ready",
		zap.String("suite", "ChaCha20-Poly1305/TLS1.2"),
		zap.Int("overhead", chacha12TagLen))
	return c, nil
}

func (c *chacha12) EncryptRecord(rec PlainRecord, seq uint64) (OpaqueRecord, error) {
	if len(rec.Payload) > maxPlaintextLen {
		return OpaqueRecord{}, fmt.Errorf("fragment too large: %d bytes", len(rec.Payload))
	}

	nonce := xorNonce(c.iv, seq)
	aad := makeTLS12AAD(seq, rec.Type, rec.Version, len(rec.Payload))

	sealed, err := c.aead.Seal(nonce[:], rec.Payload, aad[:])
	if err != nil {
		return OpaqueRecord{}, fmt.Errorf("ChaCha20-Poly1305 seal failed: %w", err)
	}

	return OpaqueRecord{Type: rec.Type, Version: rec.Version, Payload: sealed}, nil
}

func (c *chacha12) DecryptRecord(rec *OpaqueRecord, seq uint64) (PlainRecord, error) {
	if len(rec.Payload) < chacha12TagLen {
		return PlainRecord{}, ErrDecryptError
	}

	nonce := xorNonce(c.iv, seq)
	plainLen := len(rec.Payload) - chacha12TagLen
	aad := makeTLS12AAD(seq, rec.Type, rec.Version, plainLen)

	plaintext, err := c.aead.Open(nonce[:], rec.Payload, aad[:])
	if err != nil {
		return PlainRecord{}, ErrDecryptError
	}

	n := copy(rec.Payload, plaintext)
	rec.Payload = rec.Payload[:n]

	return PlainRecord{Type: rec.Type, Version: rec.Version, Payload: rec.Payload}, nil
}

func (c *chacha12) EncryptedPayloadLen(plainLen int) int {
	return plainLen + chacha12TagLen
}

func (c *chacha12) Close() error {
	return c.aead.Close()
}
