package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/core/ports"
)

const (
	MaxBatchSize           = 50
	defaultDownloadWorkers = 4

	// Legacy mirror of the public document store, tried last.
	fallbackDocsBase = "https://pbadupws.nrc.gov/docs"
)

// DownloadService retrieves document files by accession number and
// stores them locally. Candidate URLs form a ladder: the URI reported
// by the API, then the public document store, then its legacy mirror.
type DownloadService struct {
	lookup  ports.DocumentLookup
	fetcher ports.FileFetcher
	store   ports.ObjectStorage
	stats   ports.Telemetry
	logger  *slog.Logger

	docsBaseURL string
	workers     int
}

func NewDownloadService(
	lookup ports.DocumentLookup,
	fetcher ports.FileFetcher,
	store ports.ObjectStorage,
	stats ports.Telemetry,
	logger *slog.Logger,
	docsBaseURL string,
	workers int,
) *DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	if docsBaseURL == "" {
		docsBaseURL = "https://www.nrc.gov/docs"
	}
	if workers <= 0 {
		workers = defaultDownloadWorkers
	}
	return &DownloadService{
		lookup:      lookup,
		fetcher:     fetcher,
		store:       store,
		stats:       stats,
		logger:      logger,
		docsBaseURL: docsBaseURL,
		workers:     workers,
	}
}

// DownloadOne fetches a single document. An invalid accession is an
// "invalid" result, not an error; fetch failures across the whole URL
// ladder yield a "failed" result carrying the last error.
func (s *DownloadService) DownloadOne(ctx context.Context, accession string) domain.DownloadResult {
	acc, err := domain.NormalizeAccession(accession)
	if err != nil {
		return domain.DownloadResult{
			AccessionNumber: accession,
			Status:          domain.DownloadInvalid,
			Error:           err.Error(),
		}
	}

	result := domain.DownloadResult{AccessionNumber: acc, Status: domain.DownloadFailed}
	var lastErr error
	for _, url := range s.candidateURLs(ctx, acc) {
		data, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			lastErr = err
			s.logger.Debug("fetch_attempt_failed", "accession", acc, "url", url, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		key := acc + ".pdf"
		if err := s.store.Save(ctx, key, bytes.NewReader(data)); err != nil {
			lastErr = err
			break
		}
		result.Status = domain.DownloadSuccess
		result.Path = s.store.Path(key)
		result.URL = url
		result.SizeBytes = int64(len(data))
		break
	}

	if result.Status != domain.DownloadSuccess {
		if lastErr == nil {
			lastErr = fmt.Errorf("no download URL available")
		}
		result.Error = lastErr.Error()
	}
	if s.stats != nil {
		s.stats.RecordDownload(serviceName, result.Status, result.SizeBytes)
	}
	return result
}

// DownloadBatch fetches up to MaxBatchSize documents concurrently.
// Results keep the order of the input accessions.
func (s *DownloadService) DownloadBatch(ctx context.Context, accessions []string) ([]domain.DownloadResult, error) {
	if len(accessions) == 0 {
		return nil, domain.WrapError(domain.ErrValidation, "download_batch", fmt.Errorf("no accession numbers given"))
	}
	if len(accessions) > MaxBatchSize {
		return nil, domain.WrapError(domain.ErrValidation, "download_batch",
			fmt.Errorf("batch of %d exceeds the maximum of %d", len(accessions), MaxBatchSize))
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]domain.DownloadResult, len(accessions))
	var wg sync.WaitGroup
	for i, acc := range accessions {
		i, acc := i, acc
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.DownloadOne(ctx, acc)
		}); err != nil {
			wg.Done()
			results[i] = domain.DownloadResult{
				AccessionNumber: acc,
				Status:          domain.DownloadFailed,
				Error:           err.Error(),
			}
		}
	}
	wg.Wait()

	return results, nil
}

// candidateURLs builds the fetch ladder for an accession. The document
// record is consulted first: its native URI is the authoritative
// location when present. Lookup failures just shorten the ladder.
func (s *DownloadService) candidateURLs(ctx context.Context, accession string) []string {
	var urls []string
	seen := make(map[string]struct{}, 3)
	add := func(url string) {
		if url == "" {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}

	if s.lookup != nil {
		doc, err := s.lookup.GetDocument(ctx, accession)
		if err == nil {
			add(doc.DownloadURL(s.docsBaseURL))
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("document_lookup_failed", "accession", accession, "error", err)
		}
	}

	if folder := domain.AccessionFolder(accession); folder != "" {
		add(fmt.Sprintf("%s/%s/%s.pdf", strings.TrimRight(s.docsBaseURL, "/"), folder, accession))
		add(fmt.Sprintf("%s/%s/%s.pdf", fallbackDocsBase, folder, accession))
	}
	return urls
}
