package adamsxml

import (
	"context"
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

func TestFetchPageSendsPagingParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := New(srv.URL, testCaller())
	model := domain.FilterModel{FreeText: "steam generator"}

	docs, err := client.FetchPage(context.Background(), model, 50, 25)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 parsed documents, got %d", len(docs))
	}

	if got := gotQuery["start"]; len(got) != 1 || got[0] != "50" {
		t.Fatalf("expected start=50, got %v", got)
	}
	if got := gotQuery["rows"]; len(got) != 1 || got[0] != "25" {
		t.Fatalf("expected rows=25, got %v", got)
	}
	if got := gotQuery["qn"]; len(got) != 1 || got[0] != "AdamsSearch" {
		t.Fatalf("expected qn=AdamsSearch, got %v", got)
	}
}

func TestFetchPageCapsPageSize(t *testing.T) {
	var rows string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows = r.URL.Query().Get("rows")
		_, _ = w.Write([]byte(`<search><resultset></resultset></search>`))
	}))
	defer srv.Close()

	client := New(srv.URL, testCaller())
	if _, err := client.FetchPage(context.Background(), domain.FilterModel{FreeText: "reactor"}, 0, 500); err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if rows != "50" {
		t.Fatalf("expected page size capped at 50, got %s", rows)
	}
}
