package ports

import (
	"context"
	"io"
	"time"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

// SearchBackend executes one page window of a compiled query against a
// single external source. Offset semantics are backend-defined: the
// legacy grammar treats it as a row offset, the modern protocol as a
// running skip counter. Returned records are already normalized to the
// canonical Document shape.
type SearchBackend interface {
	Name() string
	// Authoritative backends are driven first and earn the
	// source-trust score boost.
	Authoritative() bool
	// PageSize is the source's native window size; the paginator
	// never requests more per call.
	PageSize() int
	FetchPage(ctx context.Context, model domain.FilterModel, offset, size int) ([]domain.Document, error)
}

// DocumentLookup retrieves a single record by accession number.
// A missing document yields domain.ErrNotFound, not a transport error.
type DocumentLookup interface {
	GetDocument(ctx context.Context, accession string) (*domain.Document, error)
}

// ResultCache memoizes full federated searches with bounded staleness,
// keyed by the canonical encoding of the request. Key derivation is the
// implementation's concern.
type ResultCache interface {
	Get(req domain.SearchRequest) (domain.SearchOutcome, bool)
	Set(req domain.SearchRequest, value domain.SearchOutcome)
}

// Telemetry records operational counters for searches and downloads.
type Telemetry interface {
	FinishSearch(service string, elapsed time.Duration, err error)
	RecordBackendFailure(service, backend string)
	RecordCacheLookup(service string, hit bool)
	RecordDownload(service, status string, bytes int64)
}

// RateLimiter serializes all outbound calls to a minimum inter-call
// interval, shared across backends and concurrent callers.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// FileFetcher retrieves a document binary, enforcing content-type and
// size policy before anything is persisted.
type FileFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ObjectStorage stores fetched document files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Path(key string) string
}

// TextExtractor pulls plain text from a stored document file.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (text string, pages int, err error)
}

// ResultExporter writes a result set to a local file.
type ResultExporter interface {
	Export(results []domain.ScoredResult, path string) error
}
