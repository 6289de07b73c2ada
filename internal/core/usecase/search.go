package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/core/ports"
)

const (
	serviceName = "adams-mcp"

	defaultTopN     = 5
	maxTopN         = 50
	defaultMaxPages = 1
	maxMaxPages     = 10

	dateLayout = "2006-01-02"
)

// SearchService runs one federated search: compile the request into the
// neutral filter model, drive every enabled backend through the shared
// paginator, deduplicate, score, sort, and trim. Backend failures skip
// that source and the search continues with whatever the others return.
type SearchService struct {
	modern  ports.SearchBackend
	legacy  ports.SearchBackend
	web     ports.SearchBackend
	results ports.ResultCache
	scorer  *Scorer
	stats   ports.Telemetry
	logger  *slog.Logger

	docsBaseURL string
	now         func() time.Time
}

func NewSearchService(
	modern ports.SearchBackend,
	legacy ports.SearchBackend,
	web ports.SearchBackend,
	results ports.ResultCache,
	scorer *Scorer,
	stats ports.Telemetry,
	logger *slog.Logger,
	docsBaseURL string,
) *SearchService {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		modern:      modern,
		legacy:      legacy,
		web:         web,
		results:     results,
		scorer:      scorer,
		stats:       stats,
		logger:      logger,
		docsBaseURL: docsBaseURL,
		now:         time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *SearchService) WithClock(now func() time.Time) *SearchService {
	s.now = now
	return s
}

func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchOutcome, error) {
	started := s.now()
	searchID := uuid.NewString()
	logger := s.logger.With("search_id", searchID)

	outcome, err := s.search(ctx, logger, req)
	if s.stats != nil {
		s.stats.FinishSearch(serviceName, s.now().Sub(started), err)
	}
	if err != nil {
		logger.Error("search_failed", "error", err)
		return domain.SearchOutcome{}, err
	}

	logger.Info("search_completed",
		"returned", outcome.Returned,
		"fetched", outcome.Fetched,
		"after_dedup", outcome.AfterDedup,
		"sources", outcome.Sources,
		"skipped_sources", outcome.SkippedSources,
		"duration", s.now().Sub(started).String(),
	)
	return outcome, nil
}

func (s *SearchService) search(ctx context.Context, logger *slog.Logger, req domain.SearchRequest) (domain.SearchOutcome, error) {
	if err := domain.ValidateQuery(req.Query); err != nil {
		return domain.SearchOutcome{}, err
	}
	req = applyDefaults(req)

	if s.results != nil {
		if cached, ok := s.results.Get(req); ok {
			if s.stats != nil {
				s.stats.RecordCacheLookup(serviceName, true)
			}
			logger.Debug("cache_hit")
			return cached, nil
		}
		if s.stats != nil {
			s.stats.RecordCacheLookup(serviceName, false)
		}
	}

	model, err := s.buildFilterModel(req)
	if err != nil {
		return domain.SearchOutcome{}, err
	}

	var (
		cands   []candidate
		sources []string
		skipped []string
	)
	for _, backend := range s.enabledBackends(req, model) {
		docs, err := Paginator{
			PageSize:          backend.PageSize(),
			MaxPages:          req.MaxPages,
			MaxResults:        collectionTarget(req.TopN),
			StopOnEmpty:       true,
			AdvanceByReturned: true,
		}.Collect(ctx, backend, model)
		if err != nil {
			if ctx.Err() != nil {
				return domain.SearchOutcome{}, err
			}
			logger.Warn("backend_skipped", "backend", backend.Name(), "error", err)
			if s.stats != nil {
				s.stats.RecordBackendFailure(serviceName, backend.Name())
			}
			skipped = append(skipped, backend.Name())
			continue
		}
		sources = append(sources, backend.Name())
		for _, doc := range docs {
			cands = append(cands, candidate{doc: doc, authoritative: backend.Authoritative()})
		}
	}

	total := len(cands)
	cands = dedupe(cands, s.docsBaseURL)

	results := make([]domain.ScoredResult, 0, len(cands))
	for _, c := range cands {
		score, rationale := s.scorer.Score(req.Query, c.doc, c.authoritative)
		results = append(results, domain.ScoredResult{
			Document:    c.doc,
			Score:       score,
			Rationale:   rationale,
			Fingerprint: fingerprintOf(c.doc, s.docsBaseURL),
		})
	}

	sortResults(results, req.SortBy, req.SortDesc)
	results = applyPostFilters(results, req)
	if len(results) > req.TopN {
		results = results[:req.TopN]
	}

	outcome := domain.SearchOutcome{
		Results:        results,
		Returned:       len(results),
		Fetched:        total,
		AfterDedup:     len(cands),
		FiltersApplied: len(model.AllOf) + len(model.AnyOf) + len(model.Dates),
		LegacyUsed:     model.Scope.IncludeLegacy || model.Scope.Library == domain.LibraryLegacy,
		Sources:        sources,
		SkippedSources: skipped,
	}
	// A run where every backend was skipped says nothing about the
	// query; caching it would mask recovered backends for a full TTL.
	if s.results != nil && len(sources) > 0 {
		s.results.Set(req, outcome)
	}
	return outcome, nil
}

func applyDefaults(req domain.SearchRequest) domain.SearchRequest {
	if req.TopN <= 0 {
		req.TopN = defaultTopN
	}
	if req.TopN > maxTopN {
		req.TopN = maxTopN
	}
	if req.MaxPages <= 0 {
		req.MaxPages = defaultMaxPages
	}
	if req.MaxPages > maxMaxPages {
		req.MaxPages = maxMaxPages
	}
	if !req.IncludeLegacy && queryImpliesPre1999(req.Query) {
		req.IncludeLegacy = true
	}
	return req
}

// collectionTarget oversamples each backend so deduplication and
// post-filters still leave enough results to fill the final page.
func collectionTarget(topN int) int {
	target := topN * 3
	if target < 25 {
		target = 25
	}
	return target
}

func (s *SearchService) enabledBackends(req domain.SearchRequest, model domain.FilterModel) []ports.SearchBackend {
	backends := make([]ports.SearchBackend, 0, 3)
	if s.modern != nil {
		backends = append(backends, s.modern)
	}
	if s.legacy != nil && (model.Scope.IncludeLegacy || model.Scope.Library == domain.LibraryLegacy) {
		backends = append(backends, s.legacy)
	}
	if s.web != nil && req.UseWeb {
		backends = append(backends, s.web)
	}
	return backends
}

// buildFilterModel compiles convenience request fields into neutral
// filter clauses. Explicit date bounds win over a year range implied by
// the query text.
func (s *SearchService) buildFilterModel(req domain.SearchRequest) (domain.FilterModel, error) {
	model := domain.FilterModel{
		FreeText: strings.TrimSpace(req.Query),
		Combine:  domain.CombineAll,
		Scope: domain.Scope{
			Library:       domain.LibraryMain,
			IncludeLegacy: req.IncludeLegacy,
		},
	}

	if req.DocketNumber != "" {
		model.AllOf = append(model.AllOf, domain.NewClause("DocketNumber", domain.OpStartsWith, req.DocketNumber))
	}
	if req.DocumentType != "" {
		model.AllOf = append(model.AllOf, domain.NewClause("DocumentType", domain.OpContains, req.DocumentType))
	}

	if req.DaysBack > 0 {
		cutoff := s.now().AddDate(0, 0, -req.DaysBack).Format(dateLayout)
		model.Dates = append(model.Dates, domain.DateClause{Field: "DateAddedTimestamp", From: cutoff})
	}

	switch {
	case req.DateFrom != "" || req.DateTo != "":
		if err := validateDates(req.DateFrom, req.DateTo); err != nil {
			return domain.FilterModel{}, err
		}
		model.Dates = append(model.Dates, domain.DateClause{Field: "DocumentDate", From: req.DateFrom, To: req.DateTo})
	default:
		if from, to, ok := extractYearRange(req.Query); ok {
			dateFrom, dateTo := yearRangeToDates(from, to)
			model.Dates = append(model.Dates, domain.DateClause{Field: "DocumentDate", From: dateFrom, To: dateTo})
		}
	}

	if err := model.Validate(); err != nil {
		return domain.FilterModel{}, err
	}
	return model, nil
}

func validateDates(bounds ...string) error {
	for _, b := range bounds {
		if b == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, b); err != nil {
			return domain.WrapError(domain.ErrValidation, "date_filter", err)
		}
	}
	return nil
}

func sortResults(results []domain.ScoredResult, sortBy string, desc bool) {
	less := func(a, b domain.ScoredResult) bool { return a.Score < b.Score }
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "":
		// Best match first unless the caller asked for something else.
		desc = true
	case "score":
	case "title":
		less = func(a, b domain.ScoredResult) bool {
			return strings.ToLower(a.Document.Title) < strings.ToLower(b.Document.Title)
		}
	case "document_date":
		less = func(a, b domain.ScoredResult) bool { return a.Document.DocumentDate < b.Document.DocumentDate }
	case "added_date":
		less = func(a, b domain.ScoredResult) bool { return a.Document.AddedDate < b.Document.AddedDate }
	}
	sort.SliceStable(results, func(i, j int) bool {
		if desc {
			return less(results[j], results[i])
		}
		return less(results[i], results[j])
	})
}

func applyPostFilters(results []domain.ScoredResult, req domain.SearchRequest) []domain.ScoredResult {
	if !req.HasMinScore && req.SourceOnly == "" {
		return results
	}
	kept := results[:0]
	for _, r := range results {
		if req.HasMinScore && r.Score < req.MinScore {
			continue
		}
		if req.SourceOnly != "" && !strings.EqualFold(r.Document.Source, req.SourceOnly) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
