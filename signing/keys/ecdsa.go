package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"fmt"
	"io"

	"github.com/pentasign/pentasign-sdk/signing/ports"
)

// ECDSAP256Scheme implements ports.KeyScheme with ECDSA over P-256.
// Signatures are ASN.1 DER over the message hash used as the digest.
type ECDSAP256Scheme struct{}

// NewECDSAP256Scheme creates the ECDSA P-256 key scheme.
func NewECDSAP256Scheme() *ECDSAP256Scheme {
	return &ECDSAP256Scheme{}
}

// Name returns "ecdsa-p256".
func (*ECDSAP256Scheme) Name() string {
	return SchemeECDSAP256
}

// Generate creates a fresh P-256 key pair.
func (*ECDSAP256Scheme) Generate(entropy io.Reader) (ports.EphemeralSigner, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), entropy)
	if err != nil {
		return nil, err
	}
	return &ecdsaSigner{priv: priv, pub: &priv.PublicKey, entropy: entropy}, nil
}

type ecdsaSigner struct {
	priv    *ecdsa.PrivateKey
	pub     *ecdsa.PublicKey
	entropy io.Reader
}

func (s *ecdsaSigner) Sign(messageHash []byte) ([]byte, error) {
	if s.priv == nil {
		return nil, errDestroyed
	}
	if len(messageHash) != messageHashSize {
		return nil, fmt.Errorf("message hash must be %d bytes, got %d", messageHashSize, len(messageHash))
	}
	return ecdsa.SignASN1(s.entropy, s.priv, messageHash)
}

func (s *ecdsaSigner) PublicKeySPKI() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(s.pub)
}

func (s *ecdsaSigner) Destroy() {
	if s.priv != nil && s.priv.D != nil {
		s.priv.D.SetInt64(0)
	}
	s.priv = nil
}
