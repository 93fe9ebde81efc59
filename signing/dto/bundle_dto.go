// Package dto holds the wire forms of bundles and reports.
package dto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// BundleDTO is the portable JSON form of a signature bundle.
type BundleDTO struct {
	DocHash   string `json:"docHash" yaml:"docHash" jsonschema:"pattern=^[a-f0-9]{64}$,description=SHA-256 of the document as lowercase hex"`
	Sofi      string `json:"sofi" yaml:"sofi" jsonschema:"minLength=1,description=Signer identity"`
	PublicKey string `json:"publicKey" yaml:"publicKey" jsonschema:"minLength=1,description=Base64 SPKI/DER public key"`
	Signature string `json:"signature" yaml:"signature" jsonschema:"minLength=1,description=Base64 signature over SHA-256(docHash || sofi)"`
	MaskNonce uint32 `json:"maskNonce" yaml:"maskNonce" jsonschema:"minimum=0,maximum=4294967295"`
}

// FromBundle converts a domain bundle to its wire form.
func FromBundle(b *entities.SignatureBundle) *BundleDTO {
	if b == nil {
		return nil
	}
	return &BundleDTO{
		DocHash:   b.DocHash().Hex(),
		Sofi:      b.Identity().String(),
		PublicKey: b.PublicKeyBase64(),
		Signature: b.SignatureBase64(),
		MaskNonce: b.MaskNonce().Uint32(),
	}
}

// ToEntity validates the wire form and converts it to a domain bundle.
// All failures wrap entities.ErrInvalidBundle.
func (d *BundleDTO) ToEntity() (*entities.SignatureBundle, error) {
	docHash, err := values.ParseHex(d.DocHash)
	if err != nil {
		return nil, fmt.Errorf("%w: docHash: %v", entities.ErrInvalidBundle, err)
	}
	id, err := values.NewIdentity(d.Sofi)
	if err != nil {
		return nil, fmt.Errorf("%w: sofi: %v", entities.ErrInvalidBundle, err)
	}
	pub, err := base64.StdEncoding.DecodeString(d.PublicKey)
	if err != nil || len(pub) == 0 {
		return nil, fmt.Errorf("%w: publicKey is not valid base64", entities.ErrInvalidBundle)
	}
	sig, err := base64.StdEncoding.DecodeString(d.Signature)
	if err != nil || len(sig) == 0 {
		return nil, fmt.Errorf("%w: signature is not valid base64", entities.ErrInvalidBundle)
	}
	return entities.NewSignatureBundle(docHash, id, pub, sig, values.MaskNonce(d.MaskNonce)), nil
}

// MarshalIndent renders the bundle as pretty-printed JSON with a trailing newline.
func (d *BundleDTO) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// SignResponseDTO is the result of a sign call over HTTP.
type SignResponseDTO struct {
	Bundle *BundleDTO `json:"bundle"`
	SVG    string     `json:"svg"`
}

// FromResult converts a signing result to its wire form.
func FromResult(r *entities.SigningResult) *SignResponseDTO {
	return &SignResponseDTO{
		Bundle: FromBundle(r.Bundle),
		SVG:    r.Pattern.SVG,
	}
}
