package ports

import "io"

// KeyScheme creates ephemeral key pairs for one signature scheme.
type KeyScheme interface {
	// Name returns the scheme identifier (e.g., "ed25519").
	Name() string

	// Generate creates a fresh key pair from the given entropy source.
	Generate(entropy io.Reader) (EphemeralSigner, error)
}

// EphemeralSigner holds a private key for the duration of one sign call.
// Destroy must be called once the signature and public key are taken.
type EphemeralSigner interface {
	// Sign signs the 32-byte message hash.
	Sign(messageHash []byte) ([]byte, error)

	// PublicKeySPKI exports the public key as SPKI/DER.
	PublicKeySPKI() ([]byte, error)

	// Destroy zeroes and drops the private key.
	Destroy()
}

// SignatureVerifier checks a signature against an SPKI encoded public key.
// The domain doesn't know which algorithms exist; the verifier infers the
// scheme from the key type.
type SignatureVerifier interface {
	// Verify returns the inferred scheme and whether the signature is valid.
	// An error means the key could not be decoded or is of an unsupported type.
	Verify(publicKeySPKI, messageHash, signature []byte) (scheme string, valid bool, err error)
}
