package netutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrInsecureEndpoint is returned for plain-http endpoints on non-loopback hosts.
var ErrInsecureEndpoint = errors.New("endpoint must use https")

// StripCredentials removes user:password@ from a URL for safe logging.
// Unparseable input is returned unchanged.
func StripCredentials(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.User = nil
	return parsed.String()
}

// HasCredentials returns true if the URL contains credentials.
func HasCredentials(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.User != nil
}

// ExtractHost returns just the host:port from a URL.
func ExtractHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// IsHTTPS returns true if the URL uses the HTTPS scheme.
func IsHTTPS(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Scheme, "https")
}

// ValidateEndpoint checks that rawURL is an absolute http(s) URL. Plain
// http is accepted only for loopback hosts unless allowHTTP is set.
func ValidateEndpoint(rawURL string, allowHTTP bool) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", StripCredentials(rawURL), err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", StripCredentials(rawURL))
	}

	switch strings.ToLower(parsed.Scheme) {
	case "https":
		return nil
	case "http":
		if allowHTTP || isLoopback(parsed.Hostname()) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrInsecureEndpoint, parsed.Host)
	default:
		return fmt.Errorf("invalid endpoint %q: unsupported scheme %q", StripCredentials(rawURL), parsed.Scheme)
	}
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
