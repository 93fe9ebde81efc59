package signing_test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/pentasign/pentasign-sdk/pattern"
	"github.com/pentasign/pentasign-sdk/signing"
	"github.com/pentasign/pentasign-sdk/signing/dto"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/keys"
	"github.com/pentasign/pentasign-sdk/signing/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorldHex = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func newService(opts ...signing.SigningServiceOption) *signing.SigningService {
	return signing.NewSigningService(append([]signing.SigningServiceOption{
		signing.WithLogger(signing.NewTestLogger()),
	}, opts...)...)
}

func TestSigningService_Sign_HelloWorld(t *testing.T) {
	svc := newService()

	result, err := svc.Sign(context.Background(), []byte("hello world"), "111111111")
	require.NoError(t, err)
	require.NotNil(t, result.Bundle)

	b := result.Bundle
	assert.Equal(t, helloWorldHex, b.DocHash().Hex())
	assert.Equal(t, "111111111", b.Identity().String())
	assert.Len(t, b.PublicKey(), 44)
	assert.Len(t, b.Signature(), 64)

	pub, err := base64.StdEncoding.DecodeString(b.PublicKeyBase64())
	require.NoError(t, err)
	assert.Equal(t, b.PublicKey(), pub)

	want, err := pattern.NewRenderer().Render(helloWorldHex)
	require.NoError(t, err)
	assert.Equal(t, want.SVG, result.Pattern.SVG)

	res, err := svc.Verify(context.Background(), []byte("hello world"), b)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestSigningService_Sign_DifferentIdentity(t *testing.T) {
	svc := newService()
	doc := []byte("hello world")

	first, err := svc.Sign(context.Background(), doc, "111111111")
	require.NoError(t, err)
	second, err := svc.Sign(context.Background(), doc, "222222222")
	require.NoError(t, err)

	assert.Equal(t, first.Bundle.DocHash(), second.Bundle.DocHash())
	assert.NotEqual(t, first.Bundle.Signature(), second.Bundle.Signature())
	assert.Equal(t, first.Pattern.SVG, second.Pattern.SVG)

	data, err := dto.FromBundle(first.Bundle).MarshalIndent()
	require.NoError(t, err)
	var wire dto.BundleDTO
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "111111111", wire.Sofi)

	decoded, err := wire.ToEntity()
	require.NoError(t, err)
	assert.Equal(t, "111111111", decoded.Identity().String())

	for _, r := range []*entities.SigningResult{first, second} {
		res, err := svc.Verify(context.Background(), doc, r.Bundle)
		require.NoError(t, err)
		assert.True(t, res.Valid)
	}
}

func TestSigningService_Sign_ECDSA(t *testing.T) {
	svc := newService(signing.WithKeyScheme(keys.NewECDSAP256Scheme()))
	assert.Equal(t, keys.SchemeECDSAP256, svc.Scheme())

	result, err := svc.Sign(context.Background(), []byte("hello world"), "123456")
	require.NoError(t, err)
	assert.Len(t, result.Bundle.PublicKey(), 91)
	assert.LessOrEqual(t, len(result.Bundle.Signature()), 72)

	res, err := svc.VerifyBundle(context.Background(), result.Bundle)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, keys.SchemeECDSAP256, res.Scheme)
}

func TestSigningService_Sign_Repeatable(t *testing.T) {
	svc := newService()
	doc := []byte("the same bytes")

	r1, err := svc.Sign(context.Background(), doc, "42")
	require.NoError(t, err)
	r2, err := svc.Sign(context.Background(), doc, "42")
	require.NoError(t, err)

	assert.Equal(t, r1.Bundle.DocHash(), r2.Bundle.DocHash())
	assert.Equal(t, r1.Pattern.SVG, r2.Pattern.SVG)
	assert.NotEqual(t, r1.Bundle.PublicKey(), r2.Bundle.PublicKey(), "keys are ephemeral")
	assert.NotEqual(t, r1.Bundle.Signature(), r2.Bundle.Signature())
}

func TestSigningService_Sign_SignsMessageHash(t *testing.T) {
	signer := &signing.MockSigner{Signature: []byte("sig"), PublicKey: []byte("pub")}
	svc := newService(
		signing.WithKeyScheme(&signing.MockKeyScheme{Signer: signer}),
		signing.WithNonceSource(signing.FixedNonce(77)),
	)

	result, err := svc.Sign(context.Background(), []byte("hello world"), "123456")
	require.NoError(t, err)

	want := sha256.Sum256([]byte(helloWorldHex + "123456"))
	require.Len(t, signer.Signed, 1)
	assert.Equal(t, want[:], signer.Signed[0])
	assert.True(t, signer.Destroyed, "private key must be destroyed")
	assert.Equal(t, values.MaskNonce(77), result.Bundle.MaskNonce())
	assert.Equal(t, "c2ln", result.Bundle.SignatureBase64())
}

func TestSigningService_Sign_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	tests := []struct {
		svc      *signing.SigningService
		sentinel error
		name     string
		doc      []byte
		identity string
	}{
		{
			name:     "empty document",
			svc:      newService(),
			doc:      nil,
			identity: "1",
			sentinel: entities.ErrDigest,
		},
		{
			name:     "empty identity",
			svc:      newService(),
			doc:      []byte("x"),
			identity: "",
			sentinel: entities.ErrInvalidIdentity,
		},
		{
			name:     "key generation",
			svc:      newService(signing.WithKeyScheme(&signing.MockKeyScheme{GenerateErr: boom})),
			doc:      []byte("x"),
			identity: "1",
			sentinel: entities.ErrKeyGen,
		},
		{
			name: "sign",
			svc: newService(signing.WithKeyScheme(&signing.MockKeyScheme{
				Signer: &signing.MockSigner{SignErr: boom},
			})),
			doc:      []byte("x"),
			identity: "1",
			sentinel: entities.ErrSigning,
		},
		{
			name: "export",
			svc: newService(signing.WithKeyScheme(&signing.MockKeyScheme{
				Signer: &signing.MockSigner{ExportErr: boom},
			})),
			doc:      []byte("x"),
			identity: "1",
			sentinel: entities.ErrSigning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.svc.Sign(ctx, tt.doc, tt.identity)
			assert.Nil(t, result, "no partial result")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}

func TestSigningService_Sign_DestroysKeyOnFailure(t *testing.T) {
	signer := &signing.MockSigner{SignErr: errors.New("boom")}
	svc := newService(signing.WithKeyScheme(&signing.MockKeyScheme{Signer: signer}))

	_, err := svc.Sign(context.Background(), []byte("x"), "1")
	require.Error(t, err)
	assert.True(t, signer.Destroyed)
}

func TestSigningService_Sign_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newService().Sign(ctx, []byte("x"), "1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSigningService_Sign_RendererFailure(t *testing.T) {
	svc := newService(signing.WithPatternRenderer(&signing.MockRenderer{Err: errors.New("no ink")}))

	result, err := svc.Sign(context.Background(), []byte("x"), "1")
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "render pattern")
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestSigningService_SignReader(t *testing.T) {
	svc := newService()

	result, err := svc.SignReader(context.Background(), strings.NewReader("hello world"), "123456")
	require.NoError(t, err)
	assert.Equal(t, helloWorldHex, result.Bundle.DocHash().Hex())

	_, err = svc.SignReader(context.Background(), strings.NewReader(""), "123456")
	assert.ErrorIs(t, err, entities.ErrDigest)

	_, err = svc.SignReader(context.Background(), brokenReader{}, "123456")
	assert.ErrorIs(t, err, entities.ErrDigest)
	assert.ErrorContains(t, err, "read failed")
}

func TestSigningService_Concurrent(t *testing.T) {
	svc := newService()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := []byte(strings.Repeat("x", i+1))
			result, err := svc.Sign(context.Background(), doc, "1")
			if err != nil {
				errs <- err
				return
			}
			res, err := svc.Verify(context.Background(), doc, result.Bundle)
			if err != nil {
				errs <- err
				return
			}
			if !res.Valid {
				errs <- errors.New(res.Reason)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestSigningService_Metrics(t *testing.T) {
	m := &signing.MockMetrics{}
	svc := newService(signing.WithMetrics(m))

	result, err := svc.Sign(context.Background(), []byte("x"), "1")
	require.NoError(t, err)
	_, _ = svc.Sign(context.Background(), nil, "1")
	_, _ = svc.Verify(context.Background(), []byte("y"), result.Bundle)

	require.Len(t, m.SignErrs, 2)
	assert.NoError(t, m.SignErrs[0])
	assert.Error(t, m.SignErrs[1])
	assert.Equal(t, []bool{false}, m.VerifyValid)
}

func TestSigningService_Check(t *testing.T) {
	ctx := context.Background()
	doc := []byte("hello world")

	t.Run("WithoutPlausibility", func(t *testing.T) {
		svc := newService()
		result, err := svc.Sign(ctx, doc, "1")
		require.NoError(t, err)

		report, err := svc.Check(ctx, doc, result.Bundle, "")
		require.NoError(t, err)
		assert.True(t, report.Cryptographic.Valid)
		assert.Nil(t, report.Plausibility)
	})

	t.Run("PlausibilityIsSeparate", func(t *testing.T) {
		checker := &signing.MockPlausibilityChecker{
			Result: &entities.PlausibilityResult{IsAuthentic: true, Details: "looks fine", Source: "mock"},
		}
		svc := newService(signing.WithPlausibilityChecker(checker))
		result, err := svc.Sign(ctx, doc, "1")
		require.NoError(t, err)

		report, err := svc.Check(ctx, []byte("tampered"), result.Bundle, "invoice")
		require.NoError(t, err)
		assert.False(t, report.Cryptographic.Valid, "heuristic approval never overrides the signature check")
		require.NotNil(t, report.Plausibility)
		assert.True(t, report.Plausibility.IsAuthentic)

		require.Len(t, checker.Requests, 1)
		assert.Equal(t, "invoice", checker.Requests[0].Metadata)
		assert.Contains(t, string(checker.Requests[0].VisualSignature), "<svg")
	})

	t.Run("PlausibilityFailureIsTolerated", func(t *testing.T) {
		checker := &signing.MockPlausibilityChecker{Err: errors.New("service down")}
		svc := newService(signing.WithPlausibilityChecker(checker))
		result, err := svc.Sign(ctx, doc, "1")
		require.NoError(t, err)

		report, err := svc.Check(ctx, doc, result.Bundle, "")
		require.NoError(t, err)
		assert.True(t, report.Cryptographic.Valid)
		assert.Nil(t, report.Plausibility)
	})

	t.Run("NilBundle", func(t *testing.T) {
		_, err := newService().Check(ctx, doc, nil, "")
		assert.ErrorIs(t, err, entities.ErrVerification)
	})
}
