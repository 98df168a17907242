package record

import (
	"bytes"
	"errors"
	"testing"

	"tls-provider/engine"
)

func newTLS13(t *testing.T, alg engine.AEADAlgorithm, key, iv []byte) RecordCipher {
	t.Helper()
	c, err := NewTLS13Cipher(engine.NewStdEngine(), alg, key, iv)
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// TestTLS13OuterRecordDisguise verifies the outer record always claims
// application data and the legacy version, whatever it carries.
func TestTLS13OuterRecordDisguise(t *testing.T) {
	c := newTLS13(t, engine.AES128GCM, make([]byte, 16), make([]byte, 12))

	for _, typ := range []ContentType{TypeHandshake, TypeAlert, TypeApplicationData} {
		plain := PlainRecord{Type: typ, Version: VersionTLS13, Payload: []byte("inner")}
		opaque, err := c.EncryptRecord(plain, 0)
		if err != nil {
			t.Fatalf("encrypt failed for %v: %v", typ, err)
		}
		if opaque.Type != TypeApplicationData {
			t.Errorf("outer type for %v: got %v", typ, opaque.Type)
		}
		if opaque.Version != VersionTLS12 {
			t.Errorf("outer version for %v: got %#04x", typ, opaque.Version)
		}
	}
}

func TestTLS13ContentTypeRecovery(t *testing.T) {
	key := bytes.Repeat([]byte{0x33}, 32)
	iv := bytes.Repeat([]byte{0x44}, 12)

	enc := newTLS13(t, engine.ChaCha20Poly1305, key, iv)
	dec := newTLS13(t, engine.ChaCha20Poly1305, key, iv)

	cases := []struct {
		typ     ContentType
		payload []byte
	}{
		{TypeHandshake, []byte{20, 0, 0, 32}},
		{TypeAlert, []byte{2, 40}},
		{TypeApplicationData, []byte("GET / HTTP/1.1\r\n\r\n")},
		{TypeApplicationData, nil},
	}

	for i, tc := range cases {
		seq := uint64(i)
		plain := PlainRecord{Type: tc.typ, Version: VersionTLS13, Payload: tc.payload}

		opaque, err := enc.EncryptRecord(plain, seq)
		if err != nil {
			t.Fatalf("encrypt failed: %v", err)
		}
		if got, want := len(opaque.Payload), len(tc.payload)+tls13Overhead; got != want {
			t.Errorf("payload length: got %d, want %d", got, want)
		}

		recovered, err := dec.DecryptRecord(&opaque, seq)
		if err != nil {
			t.Fatalf("decrypt failed: %v", err)
		}
		if recovered.Type != tc.typ {
			t.Errorf("recovered type: got %v, want %v", recovered.Type, tc.typ)
		}
		if !bytes.Equal(recovered.Payload, tc.payload) {
			t.Errorf("payload mismatch:\ngot  %x\nwant %x", recovered.Payload, tc.payload)
		}
	}
}

// TestTLS13PaddingStrip builds a padded inner plaintext by hand and
// checks the padding is removed and the content type still recovered.
func TestTLS13PaddingStrip(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 12)

	eng := engine.NewStdEngine()
	aead, err := eng.NewAEAD(engine.AES128GCM, key)
	if err != nil {
		t.Fatalf("failed to create AEAD: %v", err)
	}
	defer aead.Close()

	payload := []byte("padded")
	inner := append([]byte{}, payload...)
	inner = append(inner, uint8(TypeApplicationData))
	inner = append(inner, make([]byte, 7)...) // zero padding after the type

	nonce := xorNonce([NonceSize]byte{}, 5)
	aad := makeTLS13AAD(len(inner) + tls13TagLen)
	sealed, err := aead.Seal(nonce[:], inner, aad[:])
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	dec := newTLS13(t, engine.AES128GCM, key, iv)
	rec := OpaqueRecord{Type: TypeApplicationData, Version: VersionTLS12, Payload: sealed}
	recovered, err := dec.DecryptRecord(&rec, 5)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if recovered.Type != TypeApplicationData {
		t.Errorf("recovered type: got %v", recovered.Type)
	}
	if !bytes.Equal(recovered.Payload, payload) {
		t.Errorf("payload mismatch:\ngot  %q\nwant %q", recovered.Payload, payload)
	}
}

// TestTLS13AllZeroPlaintext checks that a record which authenticates but
// contains only padding is rejected as malformed, not as a MAC failure.
func TestTLS13AllZeroPlaintext(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 12)

	eng := engine.NewStdEngine()
	aead, err := eng.NewAEAD(engine.AES128GCM, key)
	if err != nil {
		t.Fatalf("failed to create AEAD: %v", err)
	}
	defer aead.Close()

	inner := make([]byte, 9) // all zero: no content type anywhere
	nonce := xorNonce([NonceSize]byte{}, 0)
	aad := makeTLS13AAD(len(inner) + tls13TagLen)
	sealed, err := aead.Seal(nonce[:], inner, aad[:])
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	dec := newTLS13(t, engine.AES128GCM, key, iv)
	rec := OpaqueRecord{Type: TypeApplicationData, Version: VersionTLS12, Payload: sealed}

	_, err = dec.DecryptRecord(&rec, 0)
	var framing *FramingError
	if !errors.As(err, &framing) {
		t.Fatalf("got %v, want FramingError", err)
	}
	if errors.Is(err, ErrDecryptError) {
		t.Error("framing failure must not be reported as a decrypt error")
	}
}

func TestTLS13TamperSensitivity(t *testing.T) {
	key := bytes.Repeat([]byte{0x55}, 16)
	iv := bytes.Repeat([]byte{0x66}, 12)

	enc := newTLS13(t, engine.AES128GCM, key, iv)
	dec := newTLS13(t, engine.AES128GCM, key, iv)

	plain := PlainRecord{Type: TypeApplicationData, Version: VersionTLS13, Payload: []byte("secret")}
	opaque, err := enc.EncryptRecord(plain, 4)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	t.Run("flipped bit", func(t *testing.T) {
		tampered := OpaqueRecord{Type: opaque.Type, Version: opaque.Version,
			Payload: append([]byte{}, opaque.Payload...)}
		tampered.Payload[2] ^= 0x04

		before := append([]byte{}, tampered.Payload...)
		if _, err := dec.DecryptRecord(&tampered, 4); !errors.Is(err, ErrDecryptError) {
			t.Fatalf("got %v, want ErrDecryptError", err)
		}
		if !bytes.Equal(tampered.Payload, before) {
			t.Error("failed decrypt mutated the record buffer")
		}
	})

	t.Run("wrong sequence number", func(t *testing.T) {
		copied := OpaqueRecord{Type: opaque.Type, Version: opaque.Version,
			Payload: append([]byte{}, opaque.Payload...)}
		if _, err := dec.DecryptRecord(&copied, 5); !errors.Is(err, ErrDecryptError) {
			t.Errorf("got %v, want ErrDecryptError", err)
		}
	})

	t.Run("truncated record", func(t *testing.T) {
		rec := OpaqueRecord{Type: TypeApplicationData, Version: VersionTLS12,
			Payload: make([]byte, tls13Overhead-1)}
		if _, err := dec.DecryptRecord(&rec, 0); !errors.Is(err, ErrDecryptError) {
			t.Errorf("got %v, want ErrDecryptError", err)
		}
	})
}

func TestTLS13AES256(t *testing.T) {
	key := bytes.Repeat([]byte{0x77}, 32)
	iv := bytes.Repeat([]byte{0x88}, 12)

	enc := newTLS13(t, engine.AES256GCM, key, iv)
	dec := newTLS13(t, engine.AES256GCM, key, iv)

	plain := PlainRecord{Type: TypeHandshake, Version: VersionTLS13, Payload: []byte("finished")}
	opaque, err := enc.EncryptRecord(plain, 1)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	recovered, err := dec.DecryptRecord(&opaque, 1)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if recovered.Type != TypeHandshake || !bytes.Equal(recovered.Payload, []byte("finished")) {
		t.Errorf("roundtrip mismatch: %+v", recovered)
	}
}

func TestTLS13Validation(t *testing.T) {
	eng := engine.NewStdEngine()

	if _, err := NewTLS13Cipher(eng, engine.AES128GCM, make([]byte, 16), make([]byte, 4)); err == nil {
		t.Error("expected error for short IV")
	}
	if _, err := NewTLS13Cipher(eng, engine.AES128GCM, make([]byte, 32), make([]byte, 12)); err == nil {
		t.Error("expected error for wrong key length")
	}
}
