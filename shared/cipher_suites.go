package shared

import (
	"fmt"
	"strings"
)

// TLS version constants
const (
	VersionTLS12 = 0x0303
	VersionTLS13 = 0x0304
)

// TLS 1.3 Cipher Suites
const (
	TLS_AES_128_GCM_SHA256       = 0x1301
	TLS_AES_256_GCM_SHA384       = 0x1302
	TLS_CHACHA20_POLY1305_SHA256 = 0x1303
)

// TLS 1.2 AEAD Cipher Suites (following Go's crypto/tls constants)
const (
	TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256         = 0xc02f
	TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256       = 0xc02b
	TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256   = 0xcca8
	TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256 = 0xcca9
)

// CipherSuiteInfo contains metadata about a cipher suite
type CipherSuiteInfo struct {
	ID         uint16
	Name       string
	TLSVersion uint16 // VersionTLS12 or VersionTLS13
	Algorithm  string // "AES-128-GCM", "AES-256-GCM", "ChaCha20-Poly1305"
	KeyLength  int    // Bulk key length in bytes
	FixedIVLen int    // Implicit IV length from the key block, in bytes
	ExplicitLen int   // Explicit per-record nonce bytes carried on the wire
}

// AllCipherSuites contains complete information about all supported cipher suites
var AllCipherSuites = []CipherSuiteInfo{
	// TLS 1.3 cipher suites
	{
		ID:         TLS_AES_128_GCM_SHA256,
		Name:       "TLS_AES_128_GCM_SHA256",
		TLSVersion: VersionTLS13,
		Algorithm:  "AES-128-GCM",
		KeyLength:  16,
		FixedIVLen: 12,
	},
	{
		ID:         TLS_AES_256_GCM_SHA384,
		Name:       "TLS_AES_256_GCM_SHA384",
		TLSVersion: VersionTLS13,
		Algorithm:  "AES-256-GCM",
		KeyLength:  32,
		FixedIVLen: 12,
	},
	{
		ID:         TLS_CHACHA20_POLY1305_SHA256,
		Name:       "TLS_CHACHA20_POLY1305_SHA256",
		TLSVersion: VersionTLS13,
		Algorithm:  "ChaCha20-Poly1305",
		KeyLength:  32,
		FixedIVLen: 12,
	},
	// TLS 1.2 cipher suites
	{
		ID:          TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		Name:        "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
		TLSVersion:  VersionTLS12,
		Algorithm:   "AES-128-GCM",
		KeyLength:   16,
		FixedIVLen:  4,
		ExplicitLen: 8,
	},
	{
		ID:          TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		Name:        "TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256",
		TLSVersion:  VersionTLS12,
		Algorithm:   "AES-128-GCM",
		KeyLength:   16,
		FixedIVLen:  4,
		ExplicitLen: 8,
	},
	{
		ID:         TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		Name:       "TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256",
		TLSVersion: VersionTLS12,
		Algorithm:  "ChaCha20-Poly1305",
		KeyLength:  32,
		FixedIVLen: 12,
	},
	{
		ID:         TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
		Name:       "TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256",
		TLSVersion: VersionTLS12,
		Algorithm:  "ChaCha20-Poly1305",
		KeyLength:  32,
		FixedIVLen: 12,
	},
}

// CipherSuiteByID returns the metadata for a cipher suite ID
func CipherSuiteByID(id uint16) (*CipherSuiteInfo, error) {
	for i := range AllCipherSuites {
		if AllCipherSuites[i].ID == id {
			return &AllCipherSuites[i], nil
		}
	}
	return nil, fmt.Errorf("unsupported cipher suite: 0x%04x", id)
}

// CipherSuiteByName returns the metadata for a cipher suite name
func CipherSuiteByName(name string) (*CipherSuiteInfo, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for i := range AllCipherSuites {
		if AllCipherSuites[i].Name == normalized {
			return &AllCipherSuites[i], nil
		}
	}
	return nil, fmt.Errorf("unknown cipher suite name: %q", name)
}

// IsTLS13Suite reports whether the suite ID belongs to TLS 1.3
func IsTLS13Suite(id uint16) bool {
	info, err := CipherSuiteByID(id)
	return err == nil && info.TLSVersion == VersionTLS13
}

// CipherSuiteName returns the registered name for a suite ID, or a
// hex placeholder for unknown IDs
func CipherSuiteName(id uint16) string {
	if info, err := CipherSuiteByID(id); err == nil {
		return info.Name
	}
	return fmt.Sprintf("UNKNOWN_0x%04x", id)
}
