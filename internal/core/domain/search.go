package domain

import (
	"fmt"
	"strings"
)

const (
	maxQueryLen = 500
	minQueryLen = 2
)

// SearchRequest is the single federated-search input. Convenience
// fields (DocketNumber, DocumentType, DaysBack, DateFrom/DateTo) are
// compiled into Filters by the orchestrator before any backend runs.
type SearchRequest struct {
	Query         string
	TopN          int
	MaxPages      int
	UseWeb        bool
	IncludeLegacy bool

	DocketNumber string
	DocumentType string
	DaysBack     int
	DateFrom     string
	DateTo       string

	MinScore    float64
	HasMinScore bool
	SourceOnly  string

	SortBy   string
	SortDesc bool
}

// ValidateQuery applies the boundary rules shared by every entry point.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return WrapError(ErrValidation, "query", fmt.Errorf("query cannot be empty"))
	}
	if len(trimmed) < minQueryLen {
		return WrapError(ErrValidation, "query", fmt.Errorf("query must be at least %d characters", minQueryLen))
	}
	if len(query) > maxQueryLen {
		return WrapError(ErrValidation, "query", fmt.Errorf("query is too long (max %d characters)", maxQueryLen))
	}
	return nil
}

// ScoredResult is one ranked federated hit.
type ScoredResult struct {
	Document    Document `json:"document"`
	Score       float64  `json:"score"`
	Rationale   string   `json:"rationale"`
	Fingerprint string   `json:"-"`
}

// SearchOutcome is what a federated search returns. Partial failure is
// the normal operating mode: Sources lists the backends that
// contributed and SkippedSources the ones excluded after errors.
// Returned counts the final ranked slice; Fetched counts the raw
// records pulled from backends before deduplication.
type SearchOutcome struct {
	Results        []ScoredResult `json:"results"`
	Returned       int            `json:"returned"`
	Fetched        int            `json:"fetched"`
	AfterDedup     int            `json:"after_dedup"`
	FiltersApplied int            `json:"api_filters_applied"`
	LegacyUsed     bool           `json:"legacy_lib_used"`
	Sources        []string       `json:"sources"`
	SkippedSources []string       `json:"skipped_sources,omitempty"`
}

// Empty reports the explicit "no results from any source" outcome.
func (o SearchOutcome) Empty() bool {
	return len(o.Results) == 0
}

// DownloadResult is one batch-retrieval item, keyed by accession.
type DownloadResult struct {
	AccessionNumber string `json:"accession_number"`
	Status          string `json:"status"`
	Path            string `json:"path,omitempty"`
	URL             string `json:"url,omitempty"`
	SizeBytes       int64  `json:"size_bytes,omitempty"`
	Error           string `json:"error,omitempty"`
}

const (
	DownloadSuccess = "success"
	DownloadInvalid = "invalid"
	DownloadFailed  = "failed"
)
