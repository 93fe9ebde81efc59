// Package metrics exports sign and verify counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/ports"
)

const namespace = "pentasign"

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeBadInput  = "bad_input"
	OutcomeKeyGen    = "keygen_error"
	OutcomeSigning   = "signing_error"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// Collector implements ports.MetricsRecorder.
type Collector struct {
	signs        *prometheus.CounterVec
	signDuration *prometheus.HistogramVec
	verifies     *prometheus.CounterVec
}

var _ ports.MetricsRecorder = (*Collector)(nil)

// NewCollector creates the metric vectors and registers them with reg.
// Registration panics on duplicate names, like prometheus.MustRegister.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sign",
			Name:      "requests_total",
			Help:      "Sign calls by key scheme and outcome.",
		}, []string{"scheme", "outcome"}),
		signDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sign",
			Name:      "duration_seconds",
			Help:      "Sign call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"scheme"}),
		verifies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "requests_total",
			Help:      "Verify calls by key scheme, validity and outcome.",
		}, []string{"scheme", "valid", "outcome"}),
	}
	reg.MustRegister(c.signs, c.signDuration, c.verifies)
	return c
}

// ObserveSign records one sign call.
func (c *Collector) ObserveSign(scheme string, d time.Duration, err error) {
	c.signs.WithLabelValues(scheme, outcome(err, true)).Inc()
	c.signDuration.WithLabelValues(scheme).Observe(d.Seconds())
}

// ObserveVerify records one verify call.
func (c *Collector) ObserveVerify(scheme string, valid bool, err error) {
	if scheme == "" {
		scheme = "unknown"
	}
	c.verifies.WithLabelValues(scheme, strconv.FormatBool(valid), outcome(err, valid)).Inc()
}

func outcome(err error, valid bool) string {
	switch {
	case err == nil && valid:
		return OutcomeOK
	case err == nil:
		return OutcomeInvalid
	case errors.Is(err, entities.ErrDigest),
		errors.Is(err, entities.ErrInvalidIdentity),
		errors.Is(err, entities.ErrVerification):
		return OutcomeBadInput
	case errors.Is(err, entities.ErrKeyGen):
		return OutcomeKeyGen
	case errors.Is(err, entities.ErrSigning):
		return OutcomeSigning
	case isCancellation(err):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
