// Package apperr defines the error taxonomy shared by orchestrators and
// HTTP handlers. Errors created here carry everything a handler needs to
// produce a stable response: a kind, a caller-safe message, and an
// optional details string. Raw collaborator errors never cross the
// transport boundary.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies an error for transport-level mapping.
type Kind int

const (
	// KindBadRequest marks invalid caller input.
	KindBadRequest Kind = iota
	// KindNotFound marks a record that does not exist upstream.
	KindNotFound
	// KindConfig marks a missing credential or environment value, a
	// deployment defect rather than a transient condition.
	KindConfig
	// KindUpstream marks a failure reported by a downstream dependency.
	KindUpstream
	// KindTimeout marks a bounded wait that elapsed.
	KindTimeout
	// KindUnavailable marks an optional capability absent from the
	// current deployment.
	KindUnavailable
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Details string
	// Status overrides the kind's default HTTP status when non-zero,
	// e.g. a CRM 404 passed through, or the 500 contract for token
	// refresh failures.
	Status int
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// BadRequest reports invalid caller input.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// NotFound reports a missing upstream record.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Config reports a missing credential or configuration value.
func Config(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

// Upstream reports a downstream failure, carrying the upstream status
// code and response body for diagnostics.
func Upstream(message string, upstreamStatus int, body string) *Error {
	details := body
	if upstreamStatus > 0 {
		details = fmt.Sprintf("status %d: %s", upstreamStatus, body)
	}
	return &Error{Kind: KindUpstream, Message: message, Details: details}
}

// Timeout reports an elapsed bounded wait.
func Timeout(message string) *Error {
	return &Error{Kind: KindTimeout, Message: message}
}

// Unavailable reports an optional capability missing from this deployment.
func Unavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

// FromTransport classifies a raw client error: context deadlines and
// net timeouts become KindTimeout, everything else KindUpstream.
func FromTransport(message string, err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: message, Details: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: message, Details: err.Error()}
	}
	return &Error{Kind: KindUpstream, Message: message, Details: err.Error()}
}

// HTTPStatus resolves the transport status for any error. Unclassified
// errors map to 500.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	if appErr.Status != 0 {
		return appErr.Status
	}
	switch appErr.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConfig:
		return http.StatusInternalServerError
	case KindUpstream:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusRequestTimeout
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
