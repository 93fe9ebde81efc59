// Package pentasign composes cross-cutting policy around sign calls.
package pentasign

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/pentasign/pentasign-sdk/netutil"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// SignFunc signs a document on behalf of identity.
// (*signing.SigningService).Sign satisfies it.
type SignFunc func(ctx context.Context, document []byte, identity string) (*entities.SigningResult, error)

// Middleware wraps a SignFunc to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	audit := func(next pentasign.SignFunc) pentasign.SignFunc {
//	    return func(ctx context.Context, doc []byte, identity string) (*entities.SigningResult, error) {
//	        log.Printf("signing for %s", identity)
//	        return next(ctx, doc, identity)
//	    }
//	}
type Middleware func(next SignFunc) SignFunc

// Chain wraps base so that mws[0] is the outermost layer.
func Chain(base SignFunc, mws ...Middleware) SignFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// NumericIdentityMiddleware rejects identities that are not all ASCII
// digits, the format of SOFI IDs.
func NumericIdentityMiddleware() Middleware {
	return func(next SignFunc) SignFunc {
		return func(ctx context.Context, document []byte, identity string) (*entities.SigningResult, error) {
			id, err := values.NewIdentity(identity)
			if err != nil || !id.IsNumeric() {
				return nil, fmt.Errorf("%w: SOFI ID must be numeric, got %q", entities.ErrInvalidIdentity, identity)
			}
			return next(ctx, document, identity)
		}
	}
}

// SizeLimitMiddleware rejects documents larger than maxBytes.
func SizeLimitMiddleware(maxBytes int64) Middleware {
	return func(next SignFunc) SignFunc {
		return func(ctx context.Context, document []byte, identity string) (*entities.SigningResult, error) {
			if int64(len(document)) > maxBytes {
				return nil, &netutil.SizeLimitExceededError{Limit: maxBytes, Read: int64(len(document))}
			}
			return next(ctx, document, identity)
		}
	}
}

// PanicError is returned by PanicRecoveryMiddleware in place of a panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during signing: %v", e.Value)
}

// PanicRecoveryMiddleware converts panics in the wrapped call into a
// *PanicError so a server or batch job keeps running.
func PanicRecoveryMiddleware() Middleware {
	return func(next SignFunc) SignFunc {
		return func(ctx context.Context, document []byte, identity string) (result *entities.SigningResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					result = nil
					err = &PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			return next(ctx, document, identity)
		}
	}
}

// LoggingMiddleware logs each sign call with its outcome and duration.
// Document bytes are never logged.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next SignFunc) SignFunc {
		return func(ctx context.Context, document []byte, identity string) (*entities.SigningResult, error) {
			start := time.Now()
			result, err := next(ctx, document, identity)
			attrs := []any{
				"sofi", identity,
				"size", len(document),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.ErrorContext(ctx, "sign failed", append(attrs, "error", err)...)
				return nil, err
			}
			logger.InfoContext(ctx, "sign completed", append(attrs, "doc_hash", result.Bundle.DocHash().Hex())...)
			return result, nil
		}
	}
}
