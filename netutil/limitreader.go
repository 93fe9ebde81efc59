// Package netutil bounds untrusted input and wraps outbound HTTP calls
// with TLS defaults and retries.
package netutil

import (
	"errors"
	"fmt"
	"io"
)

// ErrSizeLimitExceeded matches every SizeLimitExceededError.
var ErrSizeLimitExceeded = errors.New("size limit exceeded")

// LimitedReader reads at most Limit bytes from R and fails with
// SizeLimitExceededError as soon as more data is available.
type LimitedReader struct {
	R     io.Reader
	N     int64 // bytes still allowed
	Limit int64
	read  int64
}

// NewLimitedReader creates a LimitedReader allowing limit bytes.
func NewLimitedReader(r io.Reader, limit int64) *LimitedReader {
	return &LimitedReader{R: r, N: limit, Limit: limit}
}

// Read implements io.Reader with size limit enforcement.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.N <= 0 {
		return 0, l.probe()
	}
	if int64(len(p)) > l.N {
		p = p[:l.N]
	}

	n, err := l.R.Read(p)
	l.N -= int64(n)
	l.read += int64(n)
	return n, err
}

// probe tells a source that ended exactly at the limit from one that is
// too big. It returns io.EOF for the former.
func (l *LimitedReader) probe() error {
	var b [1]byte
	if _, err := io.ReadFull(l.R, b[:]); err != nil {
		return err
	}
	return &SizeLimitExceededError{Limit: l.Limit, Read: l.read + 1}
}

// ReadAll reads r completely, failing once more than limit bytes arrive.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(NewLimitedReader(r, limit))
}

// SizeLimitExceededError is returned when the size limit is exceeded.
type SizeLimitExceededError struct {
	Limit int64
	Read  int64
}

func (e *SizeLimitExceededError) Error() string {
	return fmt.Sprintf("size limit exceeded: read %d bytes, limit is %d bytes", e.Read, e.Limit)
}

// Is implements error matching for errors.Is() checks.
func (e *SizeLimitExceededError) Is(target error) bool {
	return target == ErrSizeLimitExceeded
}

// IsSizeLimitExceededError returns true if the error is a SizeLimitExceededError.
func IsSizeLimitExceededError(err error) bool {
	return errors.Is(err, ErrSizeLimitExceeded)
}

// FormatSize returns a human-readable size string.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
