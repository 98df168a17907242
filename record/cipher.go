package record

import (
	"fmt"

	"tls-provider/engine"
	"tls-provider/shared"
)

// RecordCipher protects one direction of one connection. An instance is
// bound to a single (key, direction) pair and must be invoked with the
// sequence numbers in actual wire order; calls on the same instance are
// not internally serialized. Independent instances are safe in parallel.
type RecordCipher interface {
	// EncryptRecord protects one plaintext record. It fails only if the
	// primitive engine reports an internal fault, which indicates a
	// broken caller contract rather than a runtime condition.
	EncryptRecord(rec PlainRecord, seq uint64) (OpaqueRecord, error)

	// DecryptRecord unprotects one inbound record. The only expected
	// error is ErrDecryptError (generic, oracle-safe); a FramingError is
	// possible for TLS 1.3 records that authenticate but carry no inner
	// content type. On success the plaintext is committed into the
	// record's own payload buffer, which is truncated in place; on
	// failure the buffer is left untouched.
	DecryptRecord(rec *OpaqueRecord, seq uint64) (PlainRecord, error)

	// EncryptedPayloadLen returns the exact protected payload size for a
	// given plaintext size, for caller-side buffer sizing. The expansion
	// matches EncryptRecord byte for byte.
	EncryptedPayloadLen(plainLen int) int

	// Close releases the underlying engine handle and its key material
	Close() error
}

var logger = shared.NewNopLogger()

// SetLogger installs a package-level logger. Only public record metadata
// (suites, lengths, sequence numbers) is logged; never key material.
func SetLogger(l *shared.Logger) {
	if l != nil {
		logger = l
	}
}

// NewCipher constructs the record cipher for a negotiated suite from raw
// key material. iv is the fixed IV from the key schedule (4 bytes for
// TLS 1.2 AES-GCM, 12 bytes otherwise); explicit is the 8-byte
// explicit-nonce salt and applies only to TLS 1.2 AES-GCM.
func NewCipher(eng engine.Engine, suite uint16, key, iv, explicit []byte) (RecordCipher, error) {
	info, err := shared.CipherSuiteByID(suite)
	if err != nil {
		return nil, err
	}

	if info.TLSVersion == shared.VersionTLS13 {
		return NewTLS13Cipher(eng, aeadAlgorithm(info.Algorithm), key, iv)
	}

	switch info.Algorithm {
	case "AES-128-GCM":
		return NewAESGCM12(eng, key, iv, explicit)
	case "ChaCha20-Poly1305":
		return NewChaCha2012(eng, key, iv)
	default:
		return nil, fmt.Errorf("unsupported cipher suite: 0x%04x", suite)
	}
}

// aeadAlgorithm maps the suite table's algorithm name to an engine id
func aeadAlgorithm(name string) engine.AEADAlgorithm {
	switch name {
	case "AES-128-GCM":
		return engine.AES128GCM
	case "AES-256-GCM":
		return engine.AES256GCM
	default:
		return engine.ChaCha20Poly1305
	}
}
