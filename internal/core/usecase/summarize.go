package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/core/ports"
)

const (
	defaultSummaryChars = 2000
	minSummaryChars     = 200
	maxSummaryChars     = 20000
)

// Summary is the extracted-text digest of a stored document.
type Summary struct {
	Path      string `json:"path"`
	Pages     int    `json:"pages"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

// SummarizeService extracts text from documents already present in
// local storage. Paths are confined to the storage base directory so a
// tool call can never read outside it.
type SummarizeService struct {
	store     ports.ObjectStorage
	extractor ports.TextExtractor
	basePath  string
}

func NewSummarizeService(store ports.ObjectStorage, extractor ports.TextExtractor, basePath string) *SummarizeService {
	return &SummarizeService{store: store, extractor: extractor, basePath: basePath}
}

func (s *SummarizeService) Summarize(ctx context.Context, path string, maxChars int) (Summary, error) {
	resolved, err := s.confine(path)
	if err != nil {
		return Summary{}, err
	}
	if maxChars <= 0 {
		maxChars = defaultSummaryChars
	}
	if maxChars < minSummaryChars {
		maxChars = minSummaryChars
	}
	if maxChars > maxSummaryChars {
		maxChars = maxSummaryChars
	}

	text, pages, err := s.extractor.Extract(ctx, resolved)
	if err != nil {
		return Summary{}, domain.WrapError(domain.ErrParse, "summarize", err)
	}

	truncated := false
	if len(text) > maxChars {
		text = truncateAtWord(text, maxChars)
		truncated = true
	}
	return Summary{Path: resolved, Pages: pages, Text: text, Truncated: truncated}, nil
}

// SummarizeAccession summarizes a previously downloaded document.
func (s *SummarizeService) SummarizeAccession(ctx context.Context, accession string, maxChars int) (Summary, error) {
	acc, err := domain.NormalizeAccession(accession)
	if err != nil {
		return Summary{}, err
	}
	return s.Summarize(ctx, s.store.Path(acc+".pdf"), maxChars)
}

// confine resolves the path and rejects anything outside the storage
// base directory.
func (s *SummarizeService) confine(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", domain.WrapError(domain.ErrValidation, "summarize", fmt.Errorf("path cannot be empty"))
	}
	base, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", domain.WrapError(domain.ErrValidation, "summarize", err)
	}
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", domain.WrapError(domain.ErrValidation, "summarize", err)
	}
	if resolved != base && !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
		return "", domain.WrapError(domain.ErrValidation, "summarize",
			fmt.Errorf("path must stay inside the download directory"))
	}
	return resolved, nil
}

func truncateAtWord(text string, maxChars int) string {
	cut := text[:maxChars]
	if i := strings.LastIndexByte(cut, ' '); i > maxChars/2 {
		cut = cut[:i]
	}
	return cut
}
