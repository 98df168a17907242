package record

import "encoding/binary"

// tls12AADLen is seq(8) + type(1) + version(2) + length(2)
const tls12AADLen = 13

// makeTLS12AAD builds the TLS 1.2 additional authenticated data
// (RFC 5246 §6.2.3.3): the sequence number, content type, protocol
// version, and the length of the plaintext before cipher expansion.
func makeTLS12AAD(seq uint64, typ ContentType, version uint16, plainLen int) [tls12AADLen]byte {
	var aad [tls12AADLen]byte
	binary.BigEndian.PutUint64(aad[:8], seq)
	aad[8] = uint8(typ)
	binary.BigEndian.PutUint16(aad[9:11], version)
	binary.BigEndian.PutUint16(aad[11:13], uint16(plainLen))
	return aad
}

// makeTLS13AAD builds the TLS 1.3 additional authenticated data
// (RFC 8446 §5.2): the outer record header exactly as it appears on the
// wire, whose length field covers the whole encrypted payload —
// ciphertext, inner content-type byte, and tag.
func makeTLS13AAD(totalLen int) [headerSize]byte {
	var aad [headerSize]byte
	aad[0] = uint8(TypeApplicationData)
	binary.BigEndian.PutUint16(aad[1:3], VersionTLS12)
	binary.BigEndian.PutUint16(aad[3:5], uint16(totalLen))
	return aad
}
