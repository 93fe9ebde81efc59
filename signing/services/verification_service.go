package services

import (
	"context"
	"fmt"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/ports"
)

// VerificationService provides domain logic for checking signature bundles.
// Signature math is delegated to the SignatureVerifier port.
type VerificationService struct {
	verifier ports.SignatureVerifier
}

// NewVerificationService creates a verification service.
func NewVerificationService(verifier ports.SignatureVerifier) *VerificationService {
	return &VerificationService{
		verifier: verifier,
	}
}

// Verify checks that document is the one the bundle was made for and that
// the bundle's signature is valid. A mismatch is reported as an invalid
// result, not as an error.
func (s *VerificationService) Verify(
	ctx context.Context,
	document []byte,
	bundle *entities.SignatureBundle,
) (entities.VerificationResult, error) {
	if bundle == nil {
		return entities.VerificationResult{}, &entities.VerificationError{Reason: "bundle is nil"}
	}
	if err := bundle.MatchesDocument(document); err != nil {
		return entities.VerificationResult{Reason: err.Error()}, nil
	}
	return s.VerifyBundle(ctx, bundle)
}

// VerifyBundle checks the bundle's signature against its own docHash,
// without the document.
func (s *VerificationService) VerifyBundle(
	ctx context.Context,
	bundle *entities.SignatureBundle,
) (entities.VerificationResult, error) {
	if bundle == nil {
		return entities.VerificationResult{}, &entities.VerificationError{Reason: "bundle is nil"}
	}
	if err := ctx.Err(); err != nil {
		return entities.VerificationResult{}, err
	}
	if err := validateBundleFields(bundle); err != nil {
		return entities.VerificationResult{}, err
	}

	messageHash := MessageHash(bundle.DocHash(), bundle.Identity())
	scheme, valid, err := s.verifier.Verify(bundle.PublicKey(), messageHash, bundle.Signature())
	if err != nil {
		return entities.VerificationResult{}, &entities.VerificationError{Reason: "public key unusable", Cause: err}
	}

	result := entities.VerificationResult{Scheme: scheme, Valid: valid}
	if !valid {
		result.Reason = fmt.Sprintf("%s signature does not match message hash", scheme)
	}
	return result, nil
}

func validateBundleFields(bundle *entities.SignatureBundle) error {
	switch {
	case bundle.DocHash().IsZero():
		return &entities.VerificationError{Reason: "bundle has no document digest"}
	case bundle.Identity().IsEmpty():
		return &entities.VerificationError{Reason: "bundle has no identity"}
	case len(bundle.PublicKey()) == 0:
		return &entities.VerificationError{Reason: "bundle has no public key"}
	case len(bundle.Signature()) == 0:
		return &entities.VerificationError{Reason: "bundle has no signature"}
	}
	return nil
}

