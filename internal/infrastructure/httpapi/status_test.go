package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

func TestClassifyHTTPStatuses(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusInternalServerError, true},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		err := &StatusError{Operation: "op", StatusCode: tt.status, Status: http.StatusText(tt.status)}
		class := Classify(err)
		if class.Retryable != tt.retryable {
			t.Fatalf("status %d: expected retryable=%v, got %v", tt.status, tt.retryable, class.Retryable)
		}
	}
}

func TestClassifyContextCancellationIsNotRecorded(t *testing.T) {
	class := Classify(context.Canceled)
	if class.Retryable || class.RecordFailure {
		t.Fatalf("expected cancellation to be terminal and unrecorded, got %+v", class)
	}
}

func TestClassifyParseAndValidationAreTerminal(t *testing.T) {
	for _, kind := range []error{domain.ErrParse, domain.ErrValidation} {
		err := domain.WrapError(kind, "op", errors.New("boom"))
		class := Classify(err)
		if class.Retryable {
			t.Fatalf("expected %v to be terminal", kind)
		}
	}
}

func TestWrapOutcomeMapsNotFound(t *testing.T) {
	inner := &StatusError{Operation: "op", StatusCode: http.StatusNotFound, Status: "404 Not Found"}
	err := WrapOutcome("op", fmt.Errorf("call failed: %w", inner))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a 404, got %v", err)
	}

	other := &StatusError{Operation: "op", StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}
	err = WrapOutcome("op", other)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport for a 502, got %v", err)
	}
}
