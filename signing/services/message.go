package services

import (
	"crypto/sha256"

	"github.com/pentasign/pentasign-sdk/signing/values"
)

// SigningMessage builds the bytes bound by a signature: the digest's
// lowercase hex followed directly by the identity bytes, with no delimiter.
func SigningMessage(docHash values.DocumentDigest, identity values.Identity) []byte {
	hexDigest := docHash.Hex()
	id := identity.String()
	msg := make([]byte, 0, len(hexDigest)+len(id))
	msg = append(msg, hexDigest...)
	msg = append(msg, id...)
	return msg
}

// MessageHash returns SHA-256 of the signing message. This is what is signed.
func MessageHash(docHash values.DocumentDigest, identity values.Identity) []byte {
	sum := sha256.Sum256(SigningMessage(docHash, identity))
	return sum[:]
}
