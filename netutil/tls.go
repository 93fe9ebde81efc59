package netutil

import (
	"crypto/tls"
	"net/http"
	"time"
)

// TLSConfig returns the client TLS configuration: TLS 1.2 or newer with
// AEAD cipher suites only.
func TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		},
	}
}

// InsecureTLSConfig is TLSConfig without certificate verification.
// Only reachable through an explicit --insecure flag.
func InsecureTLSConfig() *tls.Config {
	cfg := TLSConfig()
	cfg.InsecureSkipVerify = true
	return cfg
}

// TLSVersionString returns a human-readable TLS version string.
func TLSVersionString(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return "Unknown"
	}
}

// ClientConfig describes an outbound HTTP client.
type ClientConfig struct {
	OnRetry    func(attempt int, wait time.Duration, statusCode int)
	Timeout    time.Duration
	MaxRetries int
	Insecure   bool
}

// NewClient builds an http.Client with the package TLS defaults and a
// RetryTransport in front of a cloned default transport. A zero
// MaxRetries disables retries.
func NewClient(cfg ClientConfig) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Insecure {
		base.TLSClientConfig = InsecureTLSConfig()
	} else {
		base.TLSClientConfig = TLSConfig()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &RetryTransport{
			Base:       base,
			MaxRetries: cfg.MaxRetries,
			OnRetry:    cfg.OnRetry,
			MaxBackoff: timeout / 2,
		},
	}
}
