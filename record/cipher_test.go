package record

import (
	"bytes"
	"errors"
	"testing"

	"tls-provider/engine"
	"tls-provider/shared"
)

// TestNewCipherAllSuites drives the factory across every supported suite
// and checks the full protect/unprotect roundtrip plus the advertised
// expansion.
func TestNewCipherAllSuites(t *testing.T) {
	eng := engine.NewStdEngine()

	for _, info := range shared.AllCipherSuites {
		t.Run(info.Name, func(t *testing.T) {
			key := bytes.Repeat([]byte{0x42}, info.KeyLength)
			iv := bytes.Repeat([]byte{0x24}, info.FixedIVLen)
			explicit := bytes.Repeat([]byte{0x01}, info.ExplicitLen)

			enc, err := NewCipher(eng, info.ID, key, iv, explicit)
			if err != nil {
				t.Fatalf("failed to create cipher: %v", err)
			}
			defer enc.Close()

			// Peers never share the encrypt side's explicit seed
			dec, err := NewCipher(eng, info.ID, key, iv, nil)
			if err != nil {
				t.Fatalf("failed to create decrypt cipher: %v", err)
			}
			defer dec.Close()

			payload := []byte("the quick brown fox")
			plain := PlainRecord{Type: TypeApplicationData, Version: info.TLSVersion, Payload: payload}

			opaque, err := enc.EncryptRecord(plain, 12)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			if got, want := len(opaque.Payload), enc.EncryptedPayloadLen(len(payload)); got != want {
				t.Errorf("expansion mismatch: got %d, want %d", got, want)
			}

			recovered, err := dec.DecryptRecord(&opaque, 12)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if recovered.Type != TypeApplicationData {
				t.Errorf("recovered type: got %v", recovered.Type)
			}
			if !bytes.Equal(recovered.Payload, payload) {
				t.Errorf("payload mismatch:\ngot  %x\nwant %x", recovered.Payload, payload)
			}
		})
	}
}

// TestNewCipherExpansion pins down the per-family record expansion.
func TestNewCipherExpansion(t *testing.T) {
	eng := engine.NewStdEngine()

	cases := []struct {
		suite     uint16
		expansion int
	}{
		{shared.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, 24},
		{shared.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256, 16},
		{shared.TLS_AES_128_GCM_SHA256, 17},
		{shared.TLS_AES_256_GCM_SHA384, 17},
		{shared.TLS_CHACHA20_POLY1305_SHA256, 17},
	}

	for _, tc := range cases {
		info, err := shared.CipherSuiteByID(tc.suite)
		if err != nil {
			t.Fatalf("suite lookup failed: %v", err)
		}
		c, err := NewCipher(eng, tc.suite,
			make([]byte, info.KeyLength),
			make([]byte, info.FixedIVLen),
			make([]byte, info.ExplicitLen))
		if err != nil {
			t.Fatalf("failed to create cipher for %s: %v", info.Name, err)
		}

		if got := c.EncryptedPayloadLen(100) - 100; got != tc.expansion {
			t.Errorf("%s expansion: got %d, want %d", info.Name, got, tc.expansion)
		}
		c.Close()
	}
}

func TestNewCipherRejectsUnknownSuite(t *testing.T) {
	eng := engine.NewStdEngine()
	if _, err := NewCipher(eng, 0x0000, make([]byte, 16), make([]byte, 12), nil); err == nil {
		t.Error("expected error for unknown suite")
	}
}

func TestNewCipherRejectsBadKeyMaterial(t *testing.T) {
	eng := engine.NewStdEngine()

	cases := []struct {
		name          string
		suite         uint16
		keyLen, ivLen int
	}{
		{"GCM12 short key", shared.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, 8, 4},
		{"GCM12 wrong IV", shared.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, 16, 12},
		{"ChaCha12 short key", shared.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256, 16, 12},
		{"TLS 1.3 wrong IV", shared.TLS_AES_128_GCM_SHA256, 16, 4},
		{"TLS 1.3 wrong key", shared.TLS_AES_256_GCM_SHA384, 16, 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCipher(eng, tc.suite, make([]byte, tc.keyLen), make([]byte, tc.ivLen), nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestCipherOracleSafety verifies that distinct failure causes — a
// truncated record and a forged tag — are indistinguishable to a caller.
func TestCipherOracleSafety(t *testing.T) {
	eng := engine.NewStdEngine()

	c, err := NewCipher(eng, shared.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		make([]byte, 16), make([]byte, 4), nil)
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	defer c.Close()

	short := OpaqueRecord{Type: TypeApplicationData, Version: VersionTLS12, Payload: make([]byte, 10)}
	_, errShort := c.DecryptRecord(&short, 0)

	forged := OpaqueRecord{Type: TypeApplicationData, Version: VersionTLS12, Payload: make([]byte, 40)}
	_, errForged := c.DecryptRecord(&forged, 0)

	if !errors.Is(errShort, ErrDecryptError) || !errors.Is(errForged, ErrDecryptError) {
		t.Fatalf("expected ErrDecryptError for both, got %v and %v", errShort, errForged)
	}
	if errShort.Error() != errForged.Error() {
		t.Errorf("failure causes are distinguishable: %q vs %q", errShort, errForged)
	}
}

func TestEncryptRejectsOversizeFragment(t *testing.T) {
	eng := engine.NewStdEngine()

	for _, info := range shared.AllCipherSuites {
		c, err := NewCipher(eng, info.ID,
			make([]byte, info.KeyLength),
			make([]byte, info.FixedIVLen),
			make([]byte, info.ExplicitLen))
		if err != nil {
			t.Fatalf("failed to create cipher for %s: %v", info.Name, err)
		}

		plain := PlainRecord{Type: TypeApplicationData, Version: info.TLSVersion,
			Payload: make([]byte, maxPlaintextLen+1)}
		if _, err := c.EncryptRecord(plain, 0); err == nil {
			t.Errorf("%s accepted an oversize fragment", info.Name)
		}
		c.Close()
	}
}

func TestAlertDescriptionMapping(t *testing.T) {
	if got := AlertDescription(ErrDecryptError); got != alertBadRecordMAC {
		t.Errorf("decrypt error alert: got %d, want %d", got, alertBadRecordMAC)
	}
	if got := AlertDescription(&FramingError{Reason: "x"}); got != alertUnexpectedMessage {
		t.Errorf("framing error alert: got %d, want %d", got, alertUnexpectedMessage)
	}
	if got := AlertDescription(errors.New("boom")); got != alertInternalError {
		t.Errorf("unknown error alert: got %d, want %d", got, alertInternalError)
	}
}
