package entities

import (
	"errors"
	"fmt"

	"github.com/pentasign/pentasign-sdk/signing/values"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrDigest is returned when the document cannot be hashed.
	ErrDigest = errors.New("digest computation failed")

	// ErrKeyGen is returned when an ephemeral key pair cannot be generated.
	ErrKeyGen = errors.New("key generation failed")

	// ErrSigning is returned when signing or public key export fails.
	ErrSigning = errors.New("signing failed")

	// ErrVerification is returned when a bundle cannot be evaluated at all.
	ErrVerification = errors.New("verification failed")

	// ErrInvalidIdentity is returned when the signer identity is rejected.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrBundleNotFound is returned when no archived bundle exists for a digest.
	ErrBundleNotFound = errors.New("bundle not found")

	// ErrInvalidBundle is returned when a bundle document is malformed.
	ErrInvalidBundle = errors.New("invalid bundle")

	// ErrDigestMismatch is returned when a document does not match a bundle.
	ErrDigestMismatch = errors.New("document digest mismatch")
)

// DigestError indicates the document could not be read or hashed.
type DigestError struct {
	Cause error
}

func (e *DigestError) Error() string {
	return fmt.Sprintf("digest computation failed: %v", e.Cause)
}

func (e *DigestError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, entities.ErrDigest)
func (e *DigestError) Is(target error) bool {
	return target == ErrDigest
}

// KeyGenError indicates ephemeral key generation failed.
type KeyGenError struct {
	Cause  error
	Scheme string
}

func (e *KeyGenError) Error() string {
	return fmt.Sprintf("key generation failed (%s): %v", e.Scheme, e.Cause)
}

func (e *KeyGenError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is() checks.
func (e *KeyGenError) Is(target error) bool {
	return target == ErrKeyGen
}

// SigningError indicates the sign or public key export step failed.
type SigningError struct {
	Cause  error
	Scheme string
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed (%s): %v", e.Scheme, e.Cause)
}

func (e *SigningError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is() checks.
func (e *SigningError) Is(target error) bool {
	return target == ErrSigning
}

// VerificationError indicates a bundle that cannot be evaluated.
// A well-formed bundle whose signature does not verify is not an error.
type VerificationError struct {
	Cause  error
	Reason string
}

func (e *VerificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("verification failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("verification failed: %s", e.Reason)
}

func (e *VerificationError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is() checks.
func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}

// BundleNotFoundError indicates no archived bundle exists for a digest.
type BundleNotFoundError struct {
	Digest values.DocumentDigest
}

func (e *BundleNotFoundError) Error() string {
	return fmt.Sprintf("bundle not found: %s", e.Digest.String())
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, entities.ErrBundleNotFound)
func (e *BundleNotFoundError) Is(target error) bool {
	return target == ErrBundleNotFound
}

// DigestMismatchError indicates a document differs from the one signed.
type DigestMismatchError struct {
	Expected values.DocumentDigest
	Actual   values.DocumentDigest
}

func (e *DigestMismatchError) Error() string {
	return fmt.Sprintf(
		"document digest mismatch: expected %s, got %s",
		e.Expected.Hex(),
		e.Actual.Hex(),
	)
}

// Is implements error matching for errors.Is() checks.
func (e *DigestMismatchError) Is(target error) bool {
	return target == ErrDigestMismatch
}
