package values

import (
	_ "crypto/sha256" // registers SHA-256 with go-digest
	"encoding/hex"
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
)

// DocumentDigest is the SHA-256 content hash of a document.
// The bundle carries the bare lowercase hex form; archives and ledgers use
// the algorithm-prefixed form ("sha256:<hex>").
type DocumentDigest struct {
	value digest.Digest
}

// DigestBytes computes the digest of data.
func DigestBytes(data []byte) DocumentDigest {
	return DocumentDigest{value: digest.SHA256.FromBytes(data)}
}

// DigestReader computes the digest of reader contents.
func DigestReader(r io.Reader) (DocumentDigest, error) {
	d, err := digest.SHA256.FromReader(r)
	if err != nil {
		return DocumentDigest{}, err
	}
	return DocumentDigest{value: d}, nil
}

// ParseHex parses the bare 64-character lowercase hex form.
func ParseHex(s string) (DocumentDigest, error) {
	d := digest.NewDigestFromEncoded(digest.SHA256, s)
	if err := d.Validate(); err != nil {
		return DocumentDigest{}, fmt.Errorf("invalid document digest %q: %w", s, err)
	}
	return DocumentDigest{value: d}, nil
}

// ParseDigest parses the prefixed form (e.g., "sha256:b94d27...").
func ParseDigest(s string) (DocumentDigest, error) {
	d, err := digest.Parse(s)
	if err != nil {
		return DocumentDigest{}, fmt.Errorf("invalid digest format: %s: %w", s, err)
	}
	if d.Algorithm() != digest.SHA256 {
		return DocumentDigest{}, fmt.Errorf("unsupported digest algorithm: %s", d.Algorithm())
	}
	return DocumentDigest{value: d}, nil
}

// Hex returns the 64-character lowercase hex encoding.
func (d DocumentDigest) Hex() string {
	return d.value.Encoded()
}

// String returns the prefixed form.
func (d DocumentDigest) String() string {
	return d.value.String()
}

// Bytes returns the raw 32-byte hash.
func (d DocumentDigest) Bytes() []byte {
	b, _ := hex.DecodeString(d.Hex())
	return b
}

// IsZero reports whether the digest is unset.
func (d DocumentDigest) IsZero() bool {
	return d.value == ""
}

// Equals checks equality with another digest.
func (d DocumentDigest) Equals(other DocumentDigest) bool {
	return d.value == other.value
}

// Verify validates data matches this digest.
func (d DocumentDigest) Verify(data []byte) error {
	if d.IsZero() {
		return fmt.Errorf("digest is empty")
	}
	v := d.value.Verifier()
	if _, err := v.Write(data); err != nil {
		return err
	}
	if !v.Verified() {
		return fmt.Errorf("digest mismatch: expected %s, got %s", d.String(), DigestBytes(data).String())
	}
	return nil
}
