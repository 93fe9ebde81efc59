package netutil_test

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentasign/pentasign-sdk/netutil"
)

func Test_TLSConfig_MinVersion(t *testing.T) {
	cfg := netutil.TLSConfig()

	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Contains(t, cfg.CipherSuites, tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256)
}

func Test_InsecureTLSConfig(t *testing.T) {
	cfg := netutil.InsecureTLSConfig()

	assert.True(t, cfg.InsecureSkipVerify)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
}

func Test_TLSVersionString(t *testing.T) {
	assert.Equal(t, "TLS 1.2", netutil.TLSVersionString(tls.VersionTLS12))
	assert.Equal(t, "TLS 1.3", netutil.TLSVersionString(tls.VersionTLS13))
	assert.Equal(t, "Unknown", netutil.TLSVersionString(0))
}

func Test_NewClient(t *testing.T) {
	tests := []struct {
		name     string
		cfg      netutil.ClientConfig
		timeout  time.Duration
		insecure bool
	}{
		{name: "defaults", cfg: netutil.ClientConfig{}, timeout: 30 * time.Second},
		{name: "insecure with timeout", cfg: netutil.ClientConfig{Insecure: true, Timeout: 4 * time.Second}, timeout: 4 * time.Second, insecure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := netutil.NewClient(tt.cfg)
			assert.Equal(t, tt.timeout, client.Timeout)

			rt, ok := client.Transport.(*netutil.RetryTransport)
			require.True(t, ok)
			assert.Equal(t, tt.timeout/2, rt.MaxBackoff)

			base, ok := rt.Base.(*http.Transport)
			require.True(t, ok)
			assert.Equal(t, tt.insecure, base.TLSClientConfig.InsecureSkipVerify)
		})
	}
}
