package record

import "errors"

// TLS alert descriptions relevant to record protection (RFC 8446 §6)
const (
	alertUnexpectedMessage = 10
	alertBadRecordMAC      = 20
	alertDecodeError       = 50
	alertInternalError     = 80
)

// ErrDecryptError is the single error returned for any inbound record
// that fails protection: tag mismatch, truncated payload, or malformed
// explicit nonce. The cases are deliberately indistinguishable so that
// observable behavior gives an attacker no decryption oracle.
var ErrDecryptError = errors.New("record: decrypt error")

// FramingError reports a record whose contents violated framing rules
// after authentication succeeded, such as a TLS 1.3 record whose
// plaintext carries no content type. Fatal to the connection.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return "record: framing error: " + e.Reason
}

// AlertDescription returns the TLS alert the connection layer should
// send for this error before tearing the connection down
func AlertDescription(err error) uint8 {
	var framing *FramingError
	switch {
	case errors.Is(err, ErrDecryptError):
		return alertBadRecordMAC
	case errors.As(err, &framing):
		return alertUnexpectedMessage
	default:
		return alertInternalError
	}
}
