package ports

import (
	"time"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// NonceSource produces cosmetic mask nonces.
type NonceSource interface {
	Next() values.MaskNonce
}

// PatternRenderer derives the visual fingerprint of a hex digest.
type PatternRenderer interface {
	Render(docHashHex string) (entities.VisualPattern, error)
}

// MetricsRecorder observes sign and verify calls.
type MetricsRecorder interface {
	ObserveSign(scheme string, duration time.Duration, err error)
	ObserveVerify(scheme string, valid bool, err error)
}
