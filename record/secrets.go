package record

import (
	"fmt"

	"tls-provider/shared"
)

// TrafficSecrets is the opaque traffic-secret value handed back to the
// connection layer for bookkeeping: secret export, introspection, key
// update accounting. The IV is always the full 12-byte nonce base — for
// TLS 1.2 AES-GCM that is the implicit salt with the explicit seed
// reattached behind it.
type TrafficSecrets struct {
	Suite uint16
	Key   []byte
	IV    []byte
}

// ExtractTrafficSecrets converts negotiated key material back into its
// traffic-secret representation. It is pure; the only failures are
// malformed input lengths, which indicate a broken caller contract.
func ExtractTrafficSecrets(suite uint16, key, iv, explicit []byte) (*TrafficSecrets, error) {
	info, err := shared.CipherSuiteByID(suite)
	if err != nil {
		return nil, err
	}

	if len(key) != info.KeyLength {
		return nil, fmt.Errorf("invalid key length for %s: got %d, expected %d",
			info.Name, len(key), info.KeyLength)
	}
	if len(iv) != info.FixedIVLen {
		return nil, fmt.Errorf("invalid IV length for %s: got %d, expected %d",
			info.Name, len(iv), info.FixedIVLen)
	}
	if len(explicit) != info.ExplicitLen {
		return nil, fmt.Errorf("invalid explicit nonce length for %s: got %d, expected %d",
			info.Name, len(explicit), info.ExplicitLen)
	}

	secrets := &TrafficSecrets{
		Suite: suite,
		Key:   make([]byte, len(key)),
		IV:    make([]byte, info.FixedIVLen+info.ExplicitLen),
	}
	copy(secrets.Key, key)
	copy(secrets.IV, iv)
	copy(secrets.IV[info.FixedIVLen:], explicit)

	return secrets, nil
}
