package entities

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/pentasign/pentasign-sdk/signing/values"
)

// SignatureBundle is the aggregate root of a signing operation.
// It binds a document digest and a signer identity to an ephemeral public
// key and the signature that key produced over the message hash.
type SignatureBundle struct {
	docHash   values.DocumentDigest
	identity  values.Identity
	publicKey []byte // SPKI/DER
	signature []byte
	maskNonce values.MaskNonce
}

// NewSignatureBundle creates a bundle. Key and signature bytes are copied.
func NewSignatureBundle(
	docHash values.DocumentDigest,
	identity values.Identity,
	publicKey []byte,
	signature []byte,
	maskNonce values.MaskNonce,
) *SignatureBundle {
	return &SignatureBundle{
		docHash:   docHash,
		identity:  identity,
		publicKey: bytes.Clone(publicKey),
		signature: bytes.Clone(signature),
		maskNonce: maskNonce,
	}
}

// DocHash returns the signed document's digest.
func (b *SignatureBundle) DocHash() values.DocumentDigest {
	return b.docHash
}

// Identity returns the signer identity (SOFI).
func (b *SignatureBundle) Identity() values.Identity {
	return b.identity
}

// PublicKey returns a copy of the SPKI/DER encoded public key.
func (b *SignatureBundle) PublicKey() []byte {
	return bytes.Clone(b.publicKey)
}

// Signature returns a copy of the raw signature bytes.
func (b *SignatureBundle) Signature() []byte {
	return bytes.Clone(b.signature)
}

// MaskNonce returns the cosmetic nonce.
func (b *SignatureBundle) MaskNonce() values.MaskNonce {
	return b.maskNonce
}

// PublicKeyBase64 returns the public key in standard padded base64.
func (b *SignatureBundle) PublicKeyBase64() string {
	return base64.StdEncoding.EncodeToString(b.publicKey)
}

// SignatureBase64 returns the signature in standard padded base64.
func (b *SignatureBundle) SignatureBase64() string {
	return base64.StdEncoding.EncodeToString(b.signature)
}

// KeyFingerprint returns a short stable identifier for the public key:
// the first 16 hex characters of its SHA-256.
func (b *SignatureBundle) KeyFingerprint() string {
	sum := sha256.Sum256(b.publicKey)
	return hex.EncodeToString(sum[:8])
}

// MatchesDocument checks the bundle's digest against the document bytes.
func (b *SignatureBundle) MatchesDocument(document []byte) error {
	actual := values.DigestBytes(document)
	if !b.docHash.Equals(actual) {
		return &DigestMismatchError{
			Expected: b.docHash,
			Actual:   actual,
		}
	}
	return nil
}

// SigningResult is the single value returned by a sign call.
type SigningResult struct {
	Bundle  *SignatureBundle
	Pattern VisualPattern
}
