package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := map[error]int{
		BadRequest("bad"):         http.StatusBadRequest,
		NotFound("missing"):       http.StatusNotFound,
		Config("unset"):           http.StatusInternalServerError,
		Upstream("boom", 503, ""): http.StatusBadGateway,
		Timeout("slow"):           http.StatusRequestTimeout,
		Unavailable("down"):       http.StatusServiceUnavailable,
		errors.New("plain"):       http.StatusInternalServerError,
	}

	for err, want := range cases {
		if got := HTTPStatus(err); got != want {
			t.Fatalf("%v: expected %d, got %d", err, want, got)
		}
	}
}

func TestHTTPStatusOverride(t *testing.T) {
	err := &Error{Kind: KindUpstream, Message: "token refresh failed", Status: http.StatusInternalServerError}
	if got := HTTPStatus(err); got != http.StatusInternalServerError {
		t.Fatalf("expected status override, got %d", got)
	}
}

func TestHTTPStatusWrappedError(t *testing.T) {
	err := fmt.Errorf("context: %w", NotFound("record"))
	if got := HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("expected 404 through wrapping, got %d", got)
	}
}

func TestFromTransportClassifiesTimeout(t *testing.T) {
	err := FromTransport("request failed", context.DeadlineExceeded)

	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind != KindTimeout {
		t.Fatalf("expected timeout classification, got %v", err)
	}
}

func TestFromTransportDefaultsToUpstream(t *testing.T) {
	err := FromTransport("request failed", errors.New("connection refused"))

	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind != KindUpstream {
		t.Fatalf("expected upstream classification, got %v", err)
	}
}
