package ports

import (
	"context"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// BundleRepository manages persistent storage of signing results.
// Implements Repository pattern for the SignatureBundle aggregate.
type BundleRepository interface {
	// Store persists a signing result. Returns the archive directory.
	Store(ctx context.Context, result *entities.SigningResult) (string, error)

	// Find retrieves the archived bundle for a digest.
	Find(ctx context.Context, digest values.DocumentDigest) (*entities.SignatureBundle, error)

	// List returns the digests of all archived bundles.
	List(ctx context.Context) ([]values.DocumentDigest, error)

	// Delete removes an archived bundle.
	Delete(ctx context.Context, digest values.DocumentDigest) error
}
