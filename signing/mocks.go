package signing

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/ports"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// MockKeyScheme implements ports.KeyScheme for testing.
type MockKeyScheme struct {
	Signer      *MockSigner
	GenerateErr error
	SchemeName  string
}

func (m *MockKeyScheme) Name() string {
	if m.SchemeName == "" {
		return "mock"
	}
	return m.SchemeName
}

func (m *MockKeyScheme) Generate(io.Reader) (ports.EphemeralSigner, error) {
	if m.GenerateErr != nil {
		return nil, m.GenerateErr
	}
	if m.Signer == nil {
		m.Signer = &MockSigner{}
	}
	return m.Signer, nil
}

// MockSigner implements ports.EphemeralSigner.
type MockSigner struct {
	SignErr   error
	ExportErr error
	Signature []byte
	PublicKey []byte
	Signed    [][]byte
	Destroyed bool
}

func (m *MockSigner) Sign(messageHash []byte) ([]byte, error) {
	m.Signed = append(m.Signed, messageHash)
	if m.SignErr != nil {
		return nil, m.SignErr
	}
	return m.Signature, nil
}

func (m *MockSigner) PublicKeySPKI() ([]byte, error) {
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.PublicKey, nil
}

func (m *MockSigner) Destroy() {
	m.Destroyed = true
}

// MockRenderer implements ports.PatternRenderer.
type MockRenderer struct {
	Err      error
	Rendered []string
}

func (m *MockRenderer) Render(docHashHex string) (entities.VisualPattern, error) {
	m.Rendered = append(m.Rendered, docHashHex)
	if m.Err != nil {
		return entities.VisualPattern{}, m.Err
	}
	return entities.VisualPattern{SVG: "<svg>" + docHashHex + "</svg>"}, nil
}

// MockPlausibilityChecker implements ports.PlausibilityChecker.
type MockPlausibilityChecker struct {
	Result   *entities.PlausibilityResult
	Err      error
	Requests []ports.PlausibilityRequest
}

func (m *MockPlausibilityChecker) Check(_ context.Context, req ports.PlausibilityRequest) (*entities.PlausibilityResult, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// MockLedgerRepository implements ports.LedgerRepository in memory.
// Like the file repository, a missing ledger loads as nil without error.
type MockLedgerRepository struct {
	Ledgers map[string]*entities.Ledger
	LoadErr error
	SaveErr error
}

func (m *MockLedgerRepository) Load(_ context.Context, path string) (*entities.Ledger, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Ledgers[path], nil
}

func (m *MockLedgerRepository) Save(_ context.Context, ledger *entities.Ledger, path string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.Ledgers == nil {
		m.Ledgers = make(map[string]*entities.Ledger)
	}
	m.Ledgers[path] = ledger
	return nil
}

func (m *MockLedgerRepository) Exists(_ context.Context, path string) (bool, error) {
	if m.LoadErr != nil {
		return false, m.LoadErr
	}
	_, ok := m.Ledgers[path]
	return ok, nil
}

// MockMetrics implements ports.MetricsRecorder.
type MockMetrics struct {
	SignErrs    []error
	VerifyValid []bool
	mu          sync.Mutex
}

func (m *MockMetrics) ObserveSign(_ string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignErrs = append(m.SignErrs, err)
}

func (m *MockMetrics) ObserveVerify(_ string, valid bool, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyValid = append(m.VerifyValid, valid)
}

// FixedNonce is a convenience for tests that need a known nonce.
func FixedNonce(n uint32) FixedNonceSource {
	return FixedNonceSource(values.MaskNonce(n))
}

func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
