// Package signing produces and checks PentaSign bundles: an ephemeral
// signature over a document digest bound to a signer identity, plus the
// digest's visual fingerprint.
package signing

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pentasign/pentasign-sdk/pattern"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/keys"
	"github.com/pentasign/pentasign-sdk/signing/ports"
	"github.com/pentasign/pentasign-sdk/signing/services"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// SigningService orchestrates the sign and verify use cases.
// It holds no per-call state and is safe for concurrent use.
type SigningService struct {
	scheme       ports.KeyScheme
	nonces       ports.NonceSource
	renderer     ports.PatternRenderer
	verification *services.VerificationService
	plausibility ports.PlausibilityChecker
	metrics      ports.MetricsRecorder
	entropy      io.Reader
	logger       *slog.Logger
}

// SigningServiceOption configures a SigningService.
type SigningServiceOption func(*SigningService)

// NewSigningService creates a signing service with the given options.
// Defaults: Ed25519 keys, random nonces, the pentagon pattern renderer.
func NewSigningService(opts ...SigningServiceOption) *SigningService {
	s := &SigningService{
		scheme:       keys.NewEd25519Scheme(),
		nonces:       NewRandomNonceSource(),
		renderer:     pattern.NewRenderer(),
		verification: services.NewVerificationService(keys.NewSPKIVerifier()),
		metrics:      nopMetrics{},
		entropy:      rand.Reader,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithKeyScheme sets the ephemeral key scheme.
func WithKeyScheme(scheme ports.KeyScheme) SigningServiceOption {
	return func(s *SigningService) { s.scheme = scheme }
}

// WithNonceSource sets the mask nonce source.
func WithNonceSource(n ports.NonceSource) SigningServiceOption {
	return func(s *SigningService) { s.nonces = n }
}

// WithPatternRenderer sets the visual fingerprint renderer.
func WithPatternRenderer(r ports.PatternRenderer) SigningServiceOption {
	return func(s *SigningService) { s.renderer = r }
}

// WithSignatureVerifier sets the verifier used by Verify and Check.
func WithSignatureVerifier(v ports.SignatureVerifier) SigningServiceOption {
	return func(s *SigningService) { s.verification = services.NewVerificationService(v) }
}

// WithPlausibilityChecker enables the advisory plausibility section of Check.
func WithPlausibilityChecker(c ports.PlausibilityChecker) SigningServiceOption {
	return func(s *SigningService) { s.plausibility = c }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m ports.MetricsRecorder) SigningServiceOption {
	return func(s *SigningService) { s.metrics = m }
}

// WithEntropy sets the randomness source for key generation.
func WithEntropy(r io.Reader) SigningServiceOption {
	return func(s *SigningService) { s.entropy = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SigningServiceOption {
	return func(s *SigningService) { s.logger = l }
}

// Scheme returns the configured key scheme name.
func (s *SigningService) Scheme() string {
	return s.scheme.Name()
}

// Sign hashes document, signs the digest bound to identity with a fresh
// key pair and renders the digest's pattern. The private key is destroyed
// before Sign returns. Either a complete result or an error is returned.
func (s *SigningService) Sign(ctx context.Context, document []byte, identity string) (*entities.SigningResult, error) {
	start := time.Now()
	result, err := s.sign(ctx, identity, func() (values.DocumentDigest, error) {
		if len(document) == 0 {
			return values.DocumentDigest{}, &entities.DigestError{Cause: errEmptyDocument}
		}
		return values.DigestBytes(document), nil
	})
	s.metrics.ObserveSign(s.scheme.Name(), time.Since(start), err)
	return result, err
}

// SignReader is Sign for streamed input. The document is hashed as it is
// read and never held in memory; read failures surface as DigestError.
func (s *SigningService) SignReader(ctx context.Context, r io.Reader, identity string) (*entities.SigningResult, error) {
	start := time.Now()
	result, err := s.sign(ctx, identity, func() (values.DocumentDigest, error) {
		counter := &countingReader{r: r}
		d, err := values.DigestReader(counter)
		if err != nil {
			return values.DocumentDigest{}, &entities.DigestError{Cause: err}
		}
		if counter.n == 0 {
			return values.DocumentDigest{}, &entities.DigestError{Cause: errEmptyDocument}
		}
		return d, nil
	})
	s.metrics.ObserveSign(s.scheme.Name(), time.Since(start), err)
	return result, err
}

func (s *SigningService) sign(
	ctx context.Context,
	identity string,
	digest func() (values.DocumentDigest, error),
) (*entities.SigningResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := values.NewIdentity(identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidIdentity, err)
	}

	docHash, err := digest()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messageHash := services.MessageHash(docHash, id)

	signer, err := s.scheme.Generate(s.entropy)
	if err != nil {
		return nil, &entities.KeyGenError{Scheme: s.scheme.Name(), Cause: err}
	}
	defer signer.Destroy()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signature, err := signer.Sign(messageHash)
	if err != nil {
		return nil, &entities.SigningError{Scheme: s.scheme.Name(), Cause: err}
	}
	publicKey, err := signer.PublicKeySPKI()
	if err != nil {
		return nil, &entities.SigningError{Scheme: s.scheme.Name(), Cause: fmt.Errorf("export public key: %w", err)}
	}
	signer.Destroy()

	visual, err := s.renderer.Render(docHash.Hex())
	if err != nil {
		return nil, fmt.Errorf("render pattern: %w", err)
	}

	bundle := entities.NewSignatureBundle(docHash, id, publicKey, signature, s.nonces.Next())

	s.logger.Debug("document signed",
		"doc_hash", docHash.Hex(),
		"sofi", id.String(),
		"scheme", s.scheme.Name())

	return &entities.SigningResult{Bundle: bundle, Pattern: visual}, nil
}

// Verify checks a bundle against the document it claims to sign.
// A bundle that does not match is a Valid=false result, not an error.
func (s *SigningService) Verify(
	ctx context.Context,
	document []byte,
	bundle *entities.SignatureBundle,
) (entities.VerificationResult, error) {
	result, err := s.verification.Verify(ctx, document, bundle)
	s.metrics.ObserveVerify(result.Scheme, result.Valid, err)
	if err == nil && !result.Valid {
		s.logger.Info("bundle rejected", "doc_hash", bundle.DocHash().Hex(), "reason", result.Reason)
	}
	return result, err
}

// VerifyBundle checks a bundle's signature against its own docHash.
func (s *SigningService) VerifyBundle(ctx context.Context, bundle *entities.SignatureBundle) (entities.VerificationResult, error) {
	result, err := s.verification.VerifyBundle(ctx, bundle)
	s.metrics.ObserveVerify(result.Scheme, result.Valid, err)
	return result, err
}

// Check returns a verification report: the cryptographic result and, when
// a plausibility checker is configured, its advisory result. A failing
// plausibility service is logged and leaves that section empty.
func (s *SigningService) Check(
	ctx context.Context,
	document []byte,
	bundle *entities.SignatureBundle,
	metadata string,
) (*entities.VerificationReport, error) {
	crypto, err := s.Verify(ctx, document, bundle)
	if err != nil {
		return nil, err
	}

	report := &entities.VerificationReport{Cryptographic: crypto}
	if s.plausibility == nil {
		return report, nil
	}

	req := ports.PlausibilityRequest{
		Document: document,
		Bundle:   bundle,
		Metadata: metadata,
	}
	if visual, err := s.renderer.Render(bundle.DocHash().Hex()); err == nil {
		req.VisualSignature = []byte(visual.SVG)
	}

	plausible, err := s.plausibility.Check(ctx, req)
	if err != nil {
		s.logger.Warn("plausibility check failed", "doc_hash", bundle.DocHash().Hex(), "error", err)
		return report, nil
	}
	report.Plausibility = plausible
	return report, nil
}
