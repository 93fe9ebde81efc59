package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/x509"
	"fmt"

	"github.com/pentasign/pentasign-sdk/signing/ports"
)

// SPKIVerifier implements ports.SignatureVerifier for every scheme in this
// package, dispatching on the decoded key type.
type SPKIVerifier struct{}

// NewSPKIVerifier creates a verifier.
func NewSPKIVerifier() *SPKIVerifier {
	return &SPKIVerifier{}
}

// Verify decodes the SPKI key and checks signature over messageHash.
func (*SPKIVerifier) Verify(publicKeySPKI, messageHash, signature []byte) (string, bool, error) {
	pub, err := x509.ParsePKIXPublicKey(publicKeySPKI)
	if err != nil {
		return "", false, fmt.Errorf("parse public key: %w", err)
	}

	switch key := pub.(type) {
	case ed25519.PublicKey:
		if len(signature) != ed25519.SignatureSize {
			return SchemeEd25519, false, nil
		}
		return SchemeEd25519, ed25519.Verify(key, messageHash, signature), nil
	case *ecdsa.PublicKey:
		if key.Curve != elliptic.P256() {
			return "", false, fmt.Errorf("unsupported curve %s", key.Curve.Params().Name)
		}
		return SchemeECDSAP256, ecdsa.VerifyASN1(key, messageHash, signature), nil
	default:
		return "", false, fmt.Errorf("unsupported public key type %T", pub)
	}
}

// Lookup returns the key scheme registered under name.
func Lookup(name string) (ports.KeyScheme, error) {
	switch name {
	case SchemeEd25519, "":
		return NewEd25519Scheme(), nil
	case SchemeECDSAP256:
		return NewECDSAP256Scheme(), nil
	default:
		return nil, fmt.Errorf("unknown key scheme %q (supported: %s, %s)", name, SchemeEd25519, SchemeECDSAP256)
	}
}

// Names lists the supported scheme identifiers.
func Names() []string {
	return []string{SchemeEd25519, SchemeECDSAP256}
}
