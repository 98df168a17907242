package record

import "tls-provider/engine"

// TLS 1.2 PRF (RFC 5246 §5), driven through the primitive engine's HMAC
// so the hash implementation stays behind the engine boundary.

// pHash implements P_hash:
//
//	P_hash(secret, seed) = HMAC(secret, A(1) ‖ seed) ‖
//	                       HMAC(secret, A(2) ‖ seed) ‖ ...
//	A(0) = seed, A(i) = HMAC(secret, A(i-1))
func pHash(eng engine.Engine, alg engine.HashAlgorithm, secret, seed []byte, length int) []byte {
	a := eng.HMAC(alg, secret, seed) // A(1)

	result := make([]byte, 0, length)
	for len(result) < length {
		input := make([]byte, 0, len(a)+len(seed))
		input = append(input, a...)
		input = append(input, seed...)
		b := eng.HMAC(alg, secret, input)

		todo := len(b)
		if len(result)+todo > length {
			todo = length - len(result)
		}
		result = append(result, b[:todo]...)

		a = eng.HMAC(alg, secret, a)
	}

	return result
}

// prf12 computes PRF(secret, label, seed): P_SHA256 for SHA-256 based
// suites, P_SHA384 for SHA-384 based suites
func prf12(eng engine.Engine, alg engine.HashAlgorithm, secret []byte, label string, seed []byte, length int) []byte {
	labelSeed := make([]byte, 0, len(label)+len(seed))
	labelSeed = append(labelSeed, label...)
	labelSeed = append(labelSeed, seed...)

	return pHash(eng, alg, secret, labelSeed, length)
}
