package signing

import (
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/pentasign/pentasign-sdk/signing/values"
)

var errEmptyDocument = errors.New("document is empty")

// RandomNonceSource draws mask nonces from the non-cryptographic global
// generator. Nonces are cosmetic.
type RandomNonceSource struct{}

// NewRandomNonceSource creates a nonce source.
func NewRandomNonceSource() *RandomNonceSource {
	return &RandomNonceSource{}
}

// Next returns a pseudo-random nonce.
func (*RandomNonceSource) Next() values.MaskNonce {
	return values.MaskNonce(rand.Uint32())
}

// FixedNonceSource always returns the same nonce.
type FixedNonceSource values.MaskNonce

// Next returns the fixed nonce.
func (f FixedNonceSource) Next() values.MaskNonce {
	return values.MaskNonce(f)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type nopMetrics struct{}

func (nopMetrics) ObserveSign(string, time.Duration, error) {}

func (nopMetrics) ObserveVerify(string, bool, error) {}
