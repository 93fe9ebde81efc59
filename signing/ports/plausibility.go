package ports

import (
	"context"

	"github.com/pentasign/pentasign-sdk/signing/entities"
)

// PlausibilityRequest is the input of a heuristic document assessment.
// VisualSignature is the rendered pattern SVG when one is available.
type PlausibilityRequest struct {
	Bundle          *entities.SignatureBundle
	Metadata        string
	Document        []byte
	VisualSignature []byte
}

// PlausibilityChecker asks an external service whether a document looks
// authentic. Its answer is advisory and never replaces signature checks.
type PlausibilityChecker interface {
	Check(ctx context.Context, req PlausibilityRequest) (*entities.PlausibilityResult, error)
}
