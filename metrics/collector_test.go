package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pentasign/pentasign-sdk/signing/entities"
)

func TestCollector_ObserveSign(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveSign("ed25519", time.Millisecond, nil)
	c.ObserveSign("ed25519", time.Millisecond, nil)
	c.ObserveSign("ed25519", time.Millisecond, &entities.KeyGenError{Scheme: "ed25519", Cause: errors.New("no entropy")})
	c.ObserveSign("ecdsa-p256", time.Millisecond, fmt.Errorf("%w: empty", entities.ErrInvalidIdentity))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.signs.WithLabelValues("ed25519", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signs.WithLabelValues("ed25519", OutcomeKeyGen)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signs.WithLabelValues("ecdsa-p256", OutcomeBadInput)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.signDuration))
}

func TestCollector_ObserveVerify(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveVerify("ed25519", true, nil)
	c.ObserveVerify("ed25519", false, nil)
	c.ObserveVerify("", false, &entities.VerificationError{Reason: "bundle is nil"})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifies.WithLabelValues("ed25519", "true", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifies.WithLabelValues("ed25519", "false", OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifies.WithLabelValues("unknown", "false", OutcomeBadInput)))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err   error
		name  string
		want  string
		valid bool
	}{
		{name: "ok", valid: true, want: OutcomeOK},
		{name: "invalid", want: OutcomeInvalid},
		{name: "digest", err: &entities.DigestError{Cause: errors.New("read")}, want: OutcomeBadInput},
		{name: "signing", err: &entities.SigningError{Cause: errors.New("x")}, want: OutcomeSigning},
		{name: "cancelled", err: context.Canceled, want: OutcomeCancelled},
		{name: "deadline", err: context.DeadlineExceeded, want: OutcomeCancelled},
		{name: "other", err: errors.New("render"), want: OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcome(tt.err, tt.valid))
		})
	}
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
