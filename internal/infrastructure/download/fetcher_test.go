package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/infrastructure/httpapi"
	"github.com/tamu-aesl/adams/internal/infrastructure/ratelimit"
	"github.com/tamu-aesl/adams/internal/infrastructure/resilience"
)

func testCaller() *httpapi.Caller {
	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1.0,
		BreakerEnabled:      false,
	})
	return httpapi.NewCaller(&http.Client{Timeout: 5 * time.Second}, ratelimit.New(6000), exec)
}

func TestFetchAcceptsPDFContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 payload"))
	}))
	defer srv.Close()

	fetcher := NewFetcher(testCaller(), 0)
	data, err := fetcher.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "%PDF-1.4 payload" {
		t.Fatalf("unexpected payload %q", data)
	}
}

func TestFetchRejectsNonPDFContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not found page</html>"))
	}))
	defer srv.Close()

	fetcher := NewFetcher(testCaller(), 0)
	if _, err := fetcher.Fetch(context.Background(), srv.URL); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for HTML body, got %v", err)
	}
}

func TestFetchRejectsOversizedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	fetcher := NewFetcher(testCaller(), 16)
	if _, err := fetcher.Fetch(context.Background(), srv.URL); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for oversized payload, got %v", err)
	}
}

func TestFetchMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fetcher := NewFetcher(testCaller(), 0)
	if _, err := fetcher.Fetch(context.Background(), srv.URL); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a 404, got %v", err)
	}
}
