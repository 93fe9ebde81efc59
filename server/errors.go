package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pentasign/pentasign-sdk/netutil"
	"github.com/pentasign/pentasign-sdk/pattern"
	"github.com/pentasign/pentasign-sdk/schema"
	"github.com/pentasign/pentasign-sdk/signing/entities"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Causes    []string `json:"causes,omitempty"`
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	RequestID string   `json:"requestId,omitempty"`
	Status    int      `json:"status"`
}

// Error codes.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidIdentity = "INVALID_IDENTITY"
	CodeInvalidBundle   = "INVALID_BUNDLE"
	CodeInvalidDigest   = "INVALID_DIGEST"
	CodeTooLarge        = "DOCUMENT_TOO_LARGE"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL"
)

// toErrorResponse classifies err. Internal failures keep their detail out
// of the response.
func toErrorResponse(err error) ErrorResponse {
	var (
		httpErr   *echo.HTTPError
		schemaErr *schema.ValidationError
		sizeErr   *netutil.SizeLimitExceededError
	)

	switch {
	case errors.As(err, &httpErr):
		code := CodeInvalidRequest
		switch {
		case httpErr.Code == http.StatusNotFound:
			code = CodeNotFound
		case httpErr.Code == http.StatusRequestEntityTooLarge:
			code = CodeTooLarge
		case httpErr.Code >= http.StatusInternalServerError:
			code = CodeInternal
		}
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return ErrorResponse{Status: httpErr.Code, Code: code, Message: msg}
	case errors.As(err, &schemaErr):
		return ErrorResponse{Status: http.StatusBadRequest, Code: CodeInvalidBundle, Message: "bundle does not match schema", Causes: schemaErr.Causes}
	case errors.As(err, &sizeErr):
		return ErrorResponse{
			Status:  http.StatusRequestEntityTooLarge,
			Code:    CodeTooLarge,
			Message: "document exceeds the " + netutil.FormatSize(sizeErr.Limit) + " limit",
		}
	case errors.Is(err, entities.ErrInvalidIdentity):
		return ErrorResponse{Status: http.StatusBadRequest, Code: CodeInvalidIdentity, Message: err.Error()}
	case errors.Is(err, entities.ErrInvalidBundle), errors.Is(err, entities.ErrVerification):
		return ErrorResponse{Status: http.StatusBadRequest, Code: CodeInvalidBundle, Message: err.Error()}
	case errors.Is(err, entities.ErrDigest), errors.Is(err, pattern.ErrInvalidDigest):
		return ErrorResponse{Status: http.StatusBadRequest, Code: CodeInvalidDigest, Message: err.Error()}
	case errors.Is(err, entities.ErrBundleNotFound):
		return ErrorResponse{Status: http.StatusNotFound, Code: CodeNotFound, Message: err.Error()}
	default:
		return ErrorResponse{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal error"}
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := toErrorResponse(err)
	resp.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	if resp.Status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed", "error", err, "request_id", resp.RequestID)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.Status)
	} else {
		err = c.JSON(resp.Status, resp)
	}
	if err != nil {
		s.logger.Error("write error response", "error", err)
	}
}
