package record

import (
	"fmt"

	"go.uber.org/zap"

	"tls-provider/engine"
)

// TLS 1.3 record protection (RFC 8446 §5.2). The true content type is
// appended to the plaintext as a single trailing byte before sealing;
// the outer record always claims ApplicationData and the legacy version
// 0x0303 regardless of what it carries. The construction is identical
// for every TLS 1.3 AEAD, so one implementation serves AES-GCM and
// ChaCha20-Poly1305 alike.

const (
	tls13TagLen   = 16
	tls13Overhead = 1 + tls13TagLen // inner content-type byte + tag
)

type tls13Cipher struct {
	aead engine.AEAD
	iv   [NonceSize]byte
}

// NewTLS13Cipher creates a TLS 1.3 record cipher over the given AEAD
// algorithm. iv must be the 12-byte traffic IV.
func NewTLS13Cipher(eng engine.Engine, alg engine.AEADAlgorithm, key, iv []byte) (RecordCipher, error) {
	if len(iv) != NonceSize {
		return nil, fmt.Errorf("invalid traffic IV length: got %d, expected %d", len(iv), NonceSize)
	}

	aead, err := eng.NewAEAD(alg, key)
	if err != nil {
		return nil, err
	}

	c := &tls13Cipher{aead: aead}
	copy(c.iv[:], iv)

	logger.Debug("record cipher ready",
		zap.String("suite", alg.String()+"/TLS1.3"),
		zap.Int("overhead", tls13Overhead))
	return c, nil
}

func (c *tls13Cipher) EncryptRecord(rec PlainRecord, seq uint64) (OpaqueRecord, error) {
	if len(rec.Payload) > maxPlaintextLen {
		return OpaqueRecord{}, fmt.Errorf("fragment too large: %d bytes", len(rec.Payload))
	}

	// Inner plaintext: fragment ‖ true content type (no padding emitted)
	inner := make([]byte, 0, len(rec.Payload)+1)
	inner = append(inner, rec.Payload...)
	inner = append(inner, uint8(rec.Type))

	nonce := xorNonce(c.iv, seq)
	aad := makeTLS13AAD(c.EncryptedPayloadLen(len(rec.Payload)))

	sealed, err := c.aead.Seal(nonce[:], inner, aad[:])
	if err != nil {
		return OpaqueRecord{}, fmt.Errorf("TLS 1.3 seal failed: %w", err)
	}

	return OpaqueRecord{
		Type:    TypeApplicationData,
		Version: VersionTLS12,
		Payload: sealed,
	}, nil
}

func (c *tls13Cipher) DecryptRecord(rec *OpaqueRecord, seq uint64) (PlainRecord, error) {
	if len(rec.Payload) < tls13Overhead {
		return PlainRecord{}, ErrDecryptError
	}

	nonce := xorNonce(c.iv, seq)
	aad := makeTLS13AAD(len(rec.Payload))

	inner, err := c.aead.Open(nonce[:], rec.Payload, aad[:])
	if err != nil {
		return PlainRecord{}, ErrDecryptError
	}

	// Strip zero padding from the end; the first non-zero byte from the
	// back is the true content type (RFC 8446 §5.4). A record that is
	// all padding is malformed even though it authenticated.
	i := len(inner) - 1
	for i >= 0 && inner[i] == 0 {
		i--
	}
	if i < 0 {
		logger.Security("TLS 1.3 record with no content type",
			zap.Uint64("seq", seq),
			zap.Int("payload_len", len(rec.Payload)))
		return PlainRecord{}, &FramingError{Reason: "no non-zero content type in plaintext"}
	}

	typ := ContentType(inner[i])
	n := copy(rec.Payload, inner[:i])
	rec.Payload = rec.Payload[:n]

	return PlainRecord{Type: typ, Version: rec.Version, Payload: rec.Payload}, nil
}

func (c *tls13Cipher) EncryptedPayloadLen(plainLen int) int {
	return plainLen + tls13Overhead
}

func (c *tls13Cipher) Close() error {
	return c.aead.Close()
}
