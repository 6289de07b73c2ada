package adamsrest

import (
	"context"
	"encoding/json"
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
		RetryMaxAttempts:    1,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1.0,
	})
	return httpapi.NewCaller(&http.Client{Timeout: 5 * time.Second}, ratelimit.New(6000), exec)
}

func TestFetchPageSendsAuthAndPayload(t *testing.T) {
	var (
		gotKey     string
		gotPayload searchPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"results":[{"document":{"AccessionNumber":"ML24001A001","DocumentTitle":"Steam Generator Report"}}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "secret-key", testCaller())
	model := domain.FilterModel{FreeText: "steam generator"}

	docs, err := client.FetchPage(context.Background(), model, 100, 100)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(docs) != 1 || docs[0].AccessionNumber != "ML24001A001" {
		t.Fatalf("unexpected documents %+v", docs)
	}
	if gotKey != "secret-key" {
		t.Fatalf("expected subscription key header, got %q", gotKey)
	}
	if gotPayload.Skip != 100 || gotPayload.Q != "steam generator" {
		t.Fatalf("unexpected payload %+v", gotPayload)
	}
}

func TestFetchPageRequiresAPIKey(t *testing.T) {
	client := New("http://unused.test", "", testCaller())

	_, err := client.FetchPage(context.Background(), domain.FilterModel{FreeText: "reactor"}, 0, 10)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation without an API key, got %v", err)
	}
}

func TestGetDocumentMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret-key", testCaller())
	if _, err := client.GetDocument(context.Background(), "ML99999X999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetDocumentNormalizesAccessionFirst(t *testing.T) {
	client := New("http://unused.test", "secret-key", testCaller())

	if _, err := client.GetDocument(context.Background(), "bogus"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for a bad accession, got %v", err)
	}
}
