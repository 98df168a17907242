// Package record implements the TLS record protection layer: the
// per-record transforms that turn a plaintext record into an
// authenticated, encrypted wire record and back, for TLS 1.2 and
// TLS 1.3 framing. Based on RFC 5246, RFC 5288, RFC 7905 and RFC 8446.
//
// The package performs no I/O and owns no sequence numbers; the
// connection layer supplies the strictly increasing per-direction
// sequence number with every call.
package record

import (
	"encoding/binary"
	"fmt"

	"tls-provider/shared"
)

// TLS version constants, re-exported from the shared suite table
const (
	VersionTLS12 = shared.VersionTLS12
	VersionTLS13 = shared.VersionTLS13
)

// ContentType is the record-layer content type
type ContentType uint8

const (
	TypeChangeCipherSpec ContentType = 20
	TypeAlert            ContentType = 21
	TypeHandshake        ContentType = 22
	TypeApplicationData  ContentType = 23
)

func (t ContentType) String() string {
	switch t {
	case TypeChangeCipherSpec:
		return "change_cipher_spec"
	case TypeAlert:
		return "alert"
	case TypeHandshake:
		return "handshake"
	case TypeApplicationData:
		return "application_data"
	default:
		return fmt.Sprintf("ContentType(%d)", uint8(t))
	}
}

const (
	// headerSize is the fixed outer record header: type, version, length
	headerSize = 5

	// maxPlaintextLen is the largest fragment a record may carry (RFC 5246 §6.2.1)
	maxPlaintextLen = 16384

	// maxCiphertextLen bounds an inbound protected fragment (RFC 5246 §6.2.3)
	maxCiphertextLen = 16384 + 2048
)

// PlainRecord is an unprotected record: the true content type, the
// protocol version to bind into the AAD, and the plaintext fragment.
type PlainRecord struct {
	Type    ContentType
	Version uint16
	Payload []byte
}

// OpaqueRecord is a protected record as it appears on the wire after the
// 5-byte outer header: explicit nonce prefix (TLS 1.2 AES-GCM only),
// ciphertext, and trailing authentication tag.
type OpaqueRecord struct {
	Type    ContentType
	Version uint16
	Payload []byte
}

// Header returns the 5-byte outer record header
func (r *OpaqueRecord) Header() [headerSize]byte {
	var hdr [headerSize]byte
	hdr[0] = uint8(r.Type)
	binary.BigEndian.PutUint16(hdr[1:3], r.Version)
	binary.BigEndian.PutUint16(hdr[3:5], uint16(len(r.Payload)))
	return hdr
}

// Bytes returns the full wire encoding: header followed by the payload
func (r *OpaqueRecord) Bytes() []byte {
	out := make([]byte, headerSize+len(r.Payload))
	hdr := r.Header()
	copy(out, hdr[:])
	copy(out[headerSize:], r.Payload)
	return out
}

// ParseRecord decodes one record from the front of data and returns it
// together with the remaining bytes. The payload aliases data; callers
// that keep the record across reads must copy it.
func ParseRecord(data []byte) (*OpaqueRecord, []byte, error) {
	if len(data) < headerSize {
		return nil, data, fmt.Errorf("record header truncated: %d bytes", len(data))
	}
	typ := ContentType(data[0])
	if typ < TypeChangeCipherSpec || typ > TypeApplicationData {
		return nil, data, fmt.Errorf("invalid record type: %d", data[0])
	}
	version := binary.BigEndian.Uint16(data[1:3])
	if version != VersionTLS12 && version != VersionTLS13 {
		return nil, data, fmt.Errorf("unsupported record version: 0x%04x", version)
	}
	length := int(binary.BigEndian.Uint16(data[3:5]))
	if length > maxCiphertextLen {
		return nil, data, fmt.Errorf("record too large: %d bytes", length)
	}
	if len(data) < headerSize+length {
		return nil, data, fmt.Errorf("record fragment truncated: want %d, have %d",
			length, len(data)-headerSize)
	}
	rec := &OpaqueRecord{
		Type:    typ,
		Version: version,
		Payload: data[headerSize : headerSize+length],
	}
	return rec, data[headerSize+length:], nil
}
