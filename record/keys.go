package record

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/hkdf"

	"tls-provider/engine"
	"tls-provider/shared"
)

// TrafficKeys is one direction's record key material from the key
// schedule: the bulk key and the fixed IV (4 bytes for TLS 1.2 AES-GCM,
// 12 bytes otherwise). Immutable for the lifetime of the epoch.
type TrafficKeys struct {
	Key []byte
	IV  []byte
}

// hashForSuite returns the PRF/HKDF hash for a cipher suite
func hashForSuite(suite uint16) engine.HashAlgorithm {
	if suite == shared.TLS_AES_256_GCM_SHA384 {
		return engine.SHA384
	}
	return engine.SHA256
}

// DeriveKeyBlock12 expands the TLS 1.2 master secret into per-direction
// record keys (RFC 5246 §6.3):
//
//	key_block = PRF(master_secret, "key expansion", server_random ‖ client_random)
//
// AEAD suites carry no MAC keys, so the block partitions as
// client_write_key ‖ server_write_key ‖ client_write_IV ‖ server_write_IV.
func DeriveKeyBlock12(eng engine.Engine, suite uint16, masterSecret, clientRandom, serverRandom []byte) (client, server TrafficKeys, err error) {
	info, err := shared.CipherSuiteByID(suite)
	if err != nil {
		return client, server, err
	}
	if info.TLSVersion != shared.VersionTLS12 {
		return client, server, fmt.Errorf("suite %s is not a TLS 1.2 suite", info.Name)
	}
	if len(clientRandom) != 32 || len(serverRandom) != 32 {
		return client, server, fmt.Errorf("invalid random lengths: client %d, server %d",
			len(clientRandom), len(serverRandom))
	}

	seed := make([]byte, 0, len(serverRandom)+len(clientRandom))
	seed = append(seed, serverRandom...)
	seed = append(seed, clientRandom...)

	total := 2*info.KeyLength + 2*info.FixedIVLen
	block := prf12(eng, hashForSuite(suite), masterSecret, "key expansion", seed, total)

	client.Key, block = block[:info.KeyLength], block[info.KeyLength:]
	server.Key, block = block[:info.KeyLength], block[info.KeyLength:]
	client.IV, block = block[:info.FixedIVLen], block[info.FixedIVLen:]
	server.IV = block[:info.FixedIVLen]

	return client, server, nil
}

// DeriveTrafficKeys13 derives the record key and IV from a TLS 1.3
// traffic secret (RFC 8446 §7.3):
//
//	key = HKDF-Expand-Label(secret, "key", "", key_length)
//	iv  = HKDF-Expand-Label(secret, "iv", "", iv_length)
func DeriveTrafficKeys13(suite uint16, trafficSecret []byte) (TrafficKeys, error) {
	info, err := shared.CipherSuiteByID(suite)
	if err != nil {
		return TrafficKeys{}, err
	}
	if info.TLSVersion != shared.VersionTLS13 {
		return TrafficKeys{}, fmt.Errorf("suite %s is not a TLS 1.3 suite", info.Name)
	}

	hashFunc := hashFunc13(suite)
	return TrafficKeys{
		Key: hkdfExpandLabel(hashFunc, trafficSecret, "key", nil, info.KeyLength),
		IV:  hkdfExpandLabel(hashFunc, trafficSecret, "iv", nil, info.FixedIVLen),
	}, nil
}

func hashFunc13(suite uint16) func() hash.Hash {
	if suite == shared.TLS_AES_256_GCM_SHA384 {
		return sha512.New384
	}
	return sha256.New
}

// hkdfExpandLabel implements HKDF-Expand-Label from RFC 8446 §7.1
func hkdfExpandLabel(hashFunc func() hash.Hash, secret []byte, label string, context []byte, length int) []byte {
	hkdfLabel := make([]byte, 0, 2+1+len("tls13 ")+len(label)+1+len(context))
	hkdfLabel = append(hkdfLabel, byte(length>>8), byte(length))
	hkdfLabel = append(hkdfLabel, byte(len("tls13 ")+len(label)))
	hkdfLabel = append(hkdfLabel, "tls13 "...)
	hkdfLabel = append(hkdfLabel, label...)
	hkdfLabel = append(hkdfLabel, byte(len(context)))
	hkdfLabel = append(hkdfLabel, context...)

	reader := hkdf.Expand(hashFunc, secret, hkdfLabel)
	result := make([]byte, length)
	if _, err := reader.Read(result); err != nil {
		// Expand only fails when asked for more output than the hash
		// allows, which the fixed labels above never do.
		panic("hkdf expand failed: " + err.Error())
	}
	return result
}
