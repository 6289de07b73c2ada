package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/infrastructure/cache"
)

type stubBackend struct {
	name  string
	auth  bool
	docs  []domain.Document
	err   error
	calls int
}

func (b *stubBackend) Name() string        { return b.name }
func (b *stubBackend) Authoritative() bool { return b.auth }
func (b *stubBackend) PageSize() int       { return 100 }

func (b *stubBackend) FetchPage(_ context.Context, _ domain.FilterModel, _, _ int) ([]domain.Document, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.docs, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(modern, legacy, web *stubBackend) *SearchService {
	svc := NewSearchService(nil, nil, nil, nil, NewScorer(nil), nil, discardLogger(), "https://www.nrc.gov/docs")
	if modern != nil {
		svc.modern = modern
	}
	if legacy != nil {
		svc.legacy = legacy
	}
	if web != nil {
		svc.web = web
	}
	return svc
}

func TestSearchSkipsFailedBackend(t *testing.T) {
	modern := &stubBackend{name: domain.SourceADAMSAPI, auth: true, err: errors.New("upstream 503")}
	legacy := &stubBackend{name: domain.SourceLegacyXML, auth: true, docs: []domain.Document{
		{AccessionNumber: "ML003696315", Title: "Steam Generator Tube Report", Source: domain.SourceLegacyXML},
		{AccessionNumber: "ML003696316", Title: "Steam Generator Followup", Source: domain.SourceLegacyXML},
	}}
	svc := newTestService(modern, legacy, nil)

	outcome, err := svc.Search(context.Background(), domain.SearchRequest{
		Query:         "steam generator",
		IncludeLegacy: true,
	})
	if err != nil {
		t.Fatalf("expected partial failure to succeed, got %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("expected 2 results from the surviving backend, got %d", len(outcome.Results))
	}
	if len(outcome.SkippedSources) != 1 || outcome.SkippedSources[0] != domain.SourceADAMSAPI {
		t.Fatalf("expected the failed backend to be reported, got %v", outcome.SkippedSources)
	}
	if len(outcome.Sources) != 1 || outcome.Sources[0] != domain.SourceLegacyXML {
		t.Fatalf("expected only the surviving source, got %v", outcome.Sources)
	}
}

func TestSearchDeduplicatesAcrossBackends(t *testing.T) {
	shared := domain.Document{AccessionNumber: "ML12345A678", Title: "Steam Generator Report", Source: domain.SourceADAMSAPI}
	modern := &stubBackend{name: domain.SourceADAMSAPI, auth: true, docs: []domain.Document{shared}}
	dup := shared
	dup.Source = domain.SourceLegacyXML
	legacy := &stubBackend{name: domain.SourceLegacyXML, auth: true, docs: []domain.Document{dup}}
	svc := newTestService(modern, legacy, nil)

	outcome, err := svc.Search(context.Background(), domain.SearchRequest{
		Query:         "steam generator",
		IncludeLegacy: true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if outcome.Fetched != 2 {
		t.Fatalf("expected 2 raw records, got %d", outcome.Fetched)
	}
	if outcome.AfterDedup != 1 {
		t.Fatalf("expected 1 record after dedup, got %d", outcome.AfterDedup)
	}
	if outcome.Returned != 1 {
		t.Fatalf("expected returned to count the final slice, got %d", outcome.Returned)
	}
	if outcome.Results[0].Document.Source != domain.SourceADAMSAPI {
		t.Fatalf("expected the first-seen authoritative record to win, got %q", outcome.Results[0].Document.Source)
	}
}

func TestSearchAutoEnablesLegacyForPre1999Queries(t *testing.T) {
	modern := &stubBackend{name: domain.SourceADAMSAPI, auth: true}
	legacy := &stubBackend{name: domain.SourceLegacyXML, auth: true}
	svc := newTestService(modern, legacy, nil)

	outcome, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "containment inspection 1985-1990",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if legacy.calls == 0 {
		t.Fatal("expected a pre-1999 query to drive the legacy backend")
	}
	if !outcome.LegacyUsed {
		t.Fatal("expected legacy use to be reported")
	}
	if outcome.FiltersApplied != 1 {
		t.Fatalf("expected the implied year range to compile into one date filter, got %d", outcome.FiltersApplied)
	}
}

func TestSearchIgnoresWebBackendUnlessRequested(t *testing.T) {
	modern := &stubBackend{name: domain.SourceADAMSAPI, auth: true}
	web := &stubBackend{name: domain.SourceWebSearch, auth: false}
	svc := newTestService(modern, nil, web)

	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "steam generator"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if web.calls != 0 {
		t.Fatal("expected the web backend to stay idle without use_web")
	}

	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "steam generator", UseWeb: true}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if web.calls == 0 {
		t.Fatal("expected use_web to drive the web backend")
	}
}

func TestSearchServesRepeatRequestsFromCache(t *testing.T) {
	modern := &stubBackend{name: domain.SourceADAMSAPI, auth: true, docs: []domain.Document{
		{AccessionNumber: "ML24001A001", Title: "Steam Generator Report"},
	}}
	svc := newTestService(modern, nil, nil)
	svc.results = cache.New(5*time.Minute, 16, nil)

	req := domain.SearchRequest{Query: "steam generator"}
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if modern.calls != 1 {
		t.Fatalf("expected the second search to hit the cache, backend called %d times", modern.calls)
	}
}

func TestSearchAppliesPostFiltersAndTopN(t *testing.T) {
	var docs []domain.Document
	for i := 0; i < 8; i++ {
		docs = append(docs, domain.Document{
			AccessionNumber: fmt.Sprintf("ML2400%dA00%d", i, i),
			Title:           fmt.Sprintf("Unrelated Filing %d", i),
			Source:          domain.SourceADAMSAPI,
		})
	}
	docs = append(docs, domain.Document{
		AccessionNumber: "ML24009A009",
		Title:           "Steam Generator Report",
		Source:          domain.SourceADAMSAPI,
	})
	modern := &stubBackend{name: domain.SourceADAMSAPI, auth: true, docs: docs}
	svc := newTestService(modern, nil, nil)

	outcome, err := svc.Search(context.Background(), domain.SearchRequest{
		Query:       "steam generator",
		TopN:        3,
		MinScore:    5,
		HasMinScore: true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(outcome.Results) != 1 {
		t.Fatalf("expected only the relevant document to clear min_score, got %d", len(outcome.Results))
	}
	if outcome.Results[0].Document.AccessionNumber != "ML24009A009" {
		t.Fatalf("unexpected surviving result: %+v", outcome.Results[0].Document)
	}
	if outcome.Returned != len(outcome.Results) {
		t.Fatalf("expected returned %d to match the final slice of %d", outcome.Returned, len(outcome.Results))
	}
}

func TestSearchDoesNotCacheTotalFailureOutcomes(t *testing.T) {
	modern := &stubBackend{name: domain.SourceADAMSAPI, auth: true, err: errors.New("upstream 503")}
	svc := newTestService(modern, nil, nil)
	svc.results = cache.New(5*time.Minute, 16, nil)

	req := domain.SearchRequest{Query: "steam generator"}
	first, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("expected total failure to degrade to an empty outcome, got %v", err)
	}
	if len(first.Sources) != 0 || len(first.Results) != 0 {
		t.Fatalf("expected an empty outcome, got %+v", first)
	}

	modern.err = nil
	modern.docs = []domain.Document{
		{AccessionNumber: "ML24001A001", Title: "Steam Generator Report", Source: domain.SourceADAMSAPI},
	}

	second, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if modern.calls != 2 {
		t.Fatalf("expected the empty outcome to bypass the cache, backend called %d times", modern.calls)
	}
	if len(second.Results) != 1 {
		t.Fatalf("expected the recovered backend to serve results, got %d", len(second.Results))
	}
}

func TestSearchRejectsInvalidQueries(t *testing.T) {
	svc := newTestService(&stubBackend{name: domain.SourceADAMSAPI, auth: true}, nil, nil)

	for _, q := range []string{"", " ", "x"} {
		if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: q}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", q, err)
		}
	}
}
