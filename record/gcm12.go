package record

import (
	"fmt"

	"go.uber.org/zap"

	"tls-provider/engine"
)

// TLS 1.2 AES-GCM record protection (RFC 5288).
// The 12-byte nonce is salt(4) ‖ explicit(8); the explicit half is
// derived per record from the sequence number and travels in the clear
// at the front of the protected payload, so the peer can rebuild the
// nonce without sharing sequence-number state.

const (
	gcm12ExplicitLen = 8
	gcm12TagLen      = 16
	gcm12Overhead    = gcm12ExplicitLen + gcm12TagLen
)

type aesGCM12 struct {
	aead engine.AEAD

	// writeIV is salt(4) ‖ explicit seed(8); the per-record nonce is
	// writeIV XOR the padded sequence number, so with an all-zero seed
	// the wire-visible explicit bytes are the sequence number itself.
	writeIV [NonceSize]byte

	// implicitIV is the 4-byte salt alone, used to rebuild read-side
	// nonces from the explicit bytes carried in the record
	implicitIV [4]byte
}

// NewAESGCM12 creates a TLS 1.2 AES-128-GCM record cipher. key must be
// 16 bytes and fixedIV 4 bytes; explicit is the 8-byte explicit-nonce
// seed from the key block and may be nil for a decrypt-only instance.
func NewAESGCM12(eng engine.Engine, key, fixedIV, explicit []byte) (RecordCipher, error) {
	if len(fixedIV) != 4 {
		return nil, fmt.Errorf("invalid AES-GCM fixed IV length: got %d, expected 4", len(fixedIV))
	}
	if explicit != nil && len(explicit) != gcm12ExplicitLen {
		return nil, fmt.Errorf("invalid explicit nonce salt length: got %d, expected %d",
			len(explicit), gcm12ExplicitLen)
	}

	aead, err := eng.NewAEAD(engine.AES128GCM, key)
	if err != nil {
		return nil, err
	}

	c := &aesGCM12{aead: aead}
	copy(c.writeIV[:4], fixedIV)
	copy(c.writeIV[4:], explicit)
	copy(c.implicitIV[:], fixedIV)

	logger.Debug("record cipher ready",
		zap.String("suite", "AES-128-GCM/TLS1.2"),
		zap.Int("overhead", gcm12Overhead))
	return c, nil
}

func (c *aesGCM12) EncryptRecord(rec PlainRecord, seq uint64) (OpaqueRecord, error) {
	if len(rec.Payload) > maxPlaintextLen {
		return OpaqueRecord{}, fmt.Errorf("fragment too large: %d bytes", len(rec.Payload))
	}

	nonce := xorNonce(c.writeIV, seq)
	aad := makeTLS12AAD(seq, rec.Type, rec.Version, len(rec.Payload))

	sealed, err := c.aead.Seal(nonce[:], rec.Payload, aad[:])
	if err != nil {
		return OpaqueRecord{}, fmt.Errorf("AES-GCM seal failed: %w", err)
	}

	payload := make([]byte, 0, c.EncryptedPayloadLen(len(rec.Payload)))
	payload = append(payload, nonce[4:]...) // explicit nonce, in the clear
	payload = append(payload, sealed...)

	return OpaqueRecord{Type: rec.Type, Version: rec.Version, Payload: payload}, nil
}

func (c *aesGCM12) DecryptRecord(rec *OpaqueRecord, seq uint64) (PlainRecord, error) {
	if len(rec.Payload) < gcm12Overhead {
		return PlainRecord{}, ErrDecryptError
	}

	nonce := gcm12Nonce(c.implicitIV, rec.Payload[:gcm12ExplicitLen])
	plainLen := len(rec.Payload) - gcm12Overhead
	aad := makeTLS12AAD(seq, rec.Type, rec.Version, plainLen)

	plaintext, err := c.aead.Open(nonce[:], rec.Payload[gcm12ExplicitLen:], aad[:])
	if err != nil {
		return PlainRecord{}, ErrDecryptError
	}

	// Commit: shift the recovered plaintext over the explicit nonce and
	// truncate the record's own buffer. Only reached after the tag check.
	n := copy(rec.Payload, plaintext)
	rec.Payload = rec.Payload[:n]

	return PlainRecord{Type: rec.Type, Version: rec.Version, Payload: rec.Payload}, nil
}

func (c *aesGCM12) EncryptedPayloadLen(plainLen int) int {
	return plainLen + gcm12Overhead
}

func (c *aesGCM12) Close() error {
	return c.aead.Close()
}
