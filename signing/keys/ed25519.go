// Package keys implements the ephemeral key schemes used to sign bundles
// and the SPKI based verifier that checks them.
package keys

import (
	"crypto/ed25519"
	"crypto/x509"
	"errors"
	"fmt"
	"io"

	"github.com/pentasign/pentasign-sdk/signing/ports"
)

// Scheme identifiers.
const (
	SchemeEd25519   = "ed25519"
	SchemeECDSAP256 = "ecdsa-p256"
)

// messageHashSize is the length of a SHA-256 message hash.
const messageHashSize = 32

var errDestroyed = errors.New("private key already destroyed")

// Ed25519Scheme implements ports.KeyScheme with Ed25519 keys.
// The 32-byte message hash is signed as the Ed25519 message.
type Ed25519Scheme struct{}

// NewEd25519Scheme creates the Ed25519 key scheme.
func NewEd25519Scheme() *Ed25519Scheme {
	return &Ed25519Scheme{}
}

// Name returns "ed25519".
func (*Ed25519Scheme) Name() string {
	return SchemeEd25519
}

// Generate creates a fresh Ed25519 key pair.
func (*Ed25519Scheme) Generate(entropy io.Reader) (ports.EphemeralSigner, error) {
	pub, priv, err := ed25519.GenerateKey(entropy)
	if err != nil {
		return nil, err
	}
	return &ed25519Signer{pub: pub, priv: priv}, nil
}

type ed25519Signer struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

func (s *ed25519Signer) Sign(messageHash []byte) ([]byte, error) {
	if s.priv == nil {
		return nil, errDestroyed
	}
	if len(messageHash) != messageHashSize {
		return nil, fmt.Errorf("message hash must be %d bytes, got %d", messageHashSize, len(messageHash))
	}
	return ed25519.Sign(s.priv, messageHash), nil
}

func (s *ed25519Signer) PublicKeySPKI() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(s.pub)
}

func (s *ed25519Signer) Destroy() {
	clear(s.priv)
	s.priv = nil
}
