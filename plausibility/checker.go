// Package plausibility is the HTTP client for the external document
// plausibility service. Its verdicts are advisory only.
package plausibility

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pentasign/pentasign-sdk/netutil"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/ports"
)

// ErrCheckFailed matches every *CheckError.
var ErrCheckFailed = errors.New("plausibility check failed")

// CheckError describes a failed call to the plausibility service.
type CheckError struct {
	Cause      error
	Code       string
	StatusCode int
}

func (e *CheckError) Error() string {
	msg := "plausibility check failed: " + e.Code
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CheckError) Unwrap() error { return e.Cause }

// Is implements error matching for errors.Is() checks.
func (e *CheckError) Is(target error) bool {
	return target == ErrCheckFailed
}

// Error codes carried by CheckError.
const (
	CodeRequestFailed   = "REQUEST_FAILED"
	CodeTimeout         = "TIMEOUT"
	CodeBadStatus       = "BAD_STATUS"
	CodeResponseTooBig  = "RESPONSE_TOO_LARGE"
	CodeInvalidResponse = "INVALID_RESPONSE"
)

type checkRequest struct {
	DocumentDataURI        string `json:"documentDataUri"`
	VisualSignatureDataURI string `json:"visualSignatureDataUri,omitempty"`
	CryptographicSignature string `json:"cryptographicSignature"`
	DocumentMetadata       string `json:"documentMetadata,omitempty"`
}

type checkResponse struct {
	IsAuthentic         *bool  `json:"isAuthentic"`
	VerificationDetails string `json:"verificationDetails"`
}

// HTTPChecker implements ports.PlausibilityChecker against a JSON endpoint.
type HTTPChecker struct {
	client      *http.Client
	logger      *slog.Logger
	endpoint    string
	timeout     time.Duration
	maxBodySize int64
	maxRetries  int
	insecure    bool
}

var _ ports.PlausibilityChecker = (*HTTPChecker)(nil)

// Option configures an HTTPChecker.
type Option func(*HTTPChecker)

// WithTimeout bounds a whole check, retries included.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPChecker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxResponseSize caps the response body read.
func WithMaxResponseSize(n int64) Option {
	return func(c *HTTPChecker) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *HTTPChecker) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInsecure skips certificate verification and allows plain http.
func WithInsecure(insecure bool) Option {
	return func(c *HTTPChecker) { c.insecure = insecure }
}

// WithHTTPClient replaces the default retrying client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPChecker) { c.client = client }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPChecker) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewHTTPChecker creates a checker posting to endpoint.
func NewHTTPChecker(endpoint string, opts ...Option) (*HTTPChecker, error) {
	c := &HTTPChecker{
		endpoint:    endpoint,
		timeout:     30 * time.Second,
		maxBodySize: 1 << 20,
		maxRetries:  2,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := netutil.ValidateEndpoint(endpoint, c.insecure); err != nil {
		return nil, err
	}
	if c.client == nil {
		c.client = netutil.NewClient(netutil.ClientConfig{
			Timeout:    c.timeout,
			MaxRetries: c.maxRetries,
			Insecure:   c.insecure,
			OnRetry:    c.logRetry,
		})
	}
	return c, nil
}

// Endpoint returns the endpoint without credentials.
func (c *HTTPChecker) Endpoint() string {
	return netutil.StripCredentials(c.endpoint)
}

// Check sends the document, its signature and the rendered pattern to the
// service and returns its verdict.
func (c *HTTPChecker) Check(ctx context.Context, req ports.PlausibilityRequest) (*entities.PlausibilityResult, error) {
	if req.Bundle == nil {
		return nil, &CheckError{Code: CodeRequestFailed, Cause: errors.New("bundle is required")}
	}

	payload := checkRequest{
		DocumentDataURI:        DataURI(req.Document),
		CryptographicSignature: req.Bundle.SignatureBase64(),
		DocumentMetadata:       req.Metadata,
	}
	if len(req.VisualSignature) > 0 {
		payload.VisualSignatureDataURI = DataURI(req.VisualSignature)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &CheckError{Code: CodeRequestFailed, Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &CheckError{Code: CodeRequestFailed, Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		code := CodeRequestFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = CodeTimeout
		}
		return nil, &CheckError{Code: code, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := netutil.ReadAll(resp.Body, c.maxBodySize)
	if err != nil {
		if netutil.IsSizeLimitExceededError(err) {
			return nil, &CheckError{Code: CodeResponseTooBig, StatusCode: resp.StatusCode, Cause: err}
		}
		return nil, &CheckError{Code: CodeRequestFailed, StatusCode: resp.StatusCode, Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CheckError{Code: CodeBadStatus, StatusCode: resp.StatusCode}
	}

	var decoded checkResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &CheckError{Code: CodeInvalidResponse, StatusCode: resp.StatusCode, Cause: err}
	}
	if decoded.IsAuthentic == nil {
		return nil, &CheckError{Code: CodeInvalidResponse, StatusCode: resp.StatusCode, Cause: errors.New("missing isAuthentic")}
	}

	c.logger.Debug("plausibility check completed",
		"endpoint", c.Endpoint(),
		"doc_hash", req.Bundle.DocHash().Hex(),
		"authentic", *decoded.IsAuthentic,
		"tls", tlsVersion(resp),
		"latency_ms", time.Since(start).Milliseconds())

	return &entities.PlausibilityResult{
		IsAuthentic: *decoded.IsAuthentic,
		Details:     decoded.VerificationDetails,
		Source:      netutil.ExtractHost(c.endpoint),
	}, nil
}

func tlsVersion(resp *http.Response) string {
	if resp.TLS == nil {
		return "none"
	}
	return netutil.TLSVersionString(resp.TLS.Version)
}

func (c *HTTPChecker) logRetry(attempt int, wait time.Duration, status int) {
	c.logger.Warn("retrying plausibility check",
		"endpoint", c.Endpoint(),
		"attempt", attempt,
		"wait", wait,
		"status", status)
}

// DataURI encodes data as "data:<media type>;base64,<payload>" using the
// detected media type without parameters.
func DataURI(data []byte) string {
	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
