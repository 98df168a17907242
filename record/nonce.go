package record

// NonceSize is the per-record AEAD nonce length for every supported suite
const NonceSize = 12

// Nonce is a fully constructed 96-bit per-record nonce. A nonce must
// never repeat for a given key; both constructions below guarantee that
// as long as the caller never reuses a sequence number within an epoch.
type Nonce [NonceSize]byte

// xorNonce derives an implicit nonce by XORing the big-endian sequence
// number, right-aligned, into the 12-byte fixed IV (RFC 8446 §5.3,
// RFC 7905 §2). Also used for the TLS 1.2 AES-GCM write side, where the
// fixed IV is salt(4) ‖ explicit seed(8) and the trailing 8 bytes of the
// result travel on the wire.
func xorNonce(iv [NonceSize]byte, seq uint64) Nonce {
	var nonce Nonce
	copy(nonce[:], iv[:])
	for i := 0; i < 8; i++ {
		nonce[NonceSize-1-i] ^= byte(seq >> (8 * i))
	}
	return nonce
}

// gcm12Nonce reassembles the TLS 1.2 AES-GCM read-side nonce from the
// held 4-byte implicit IV and the 8 explicit bytes taken from the
// incoming record (RFC 5288 §3)
func gcm12Nonce(implicitIV [4]byte, explicit []byte) Nonce {
	var nonce Nonce
	copy(nonce[:4], implicitIV[:])
	copy(nonce[4:], explicit)
	return nonce
}
