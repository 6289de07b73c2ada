package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/infrastructure/httpapi"
)

const DefaultMaxBytes = 50_000_000

// Fetcher retrieves document binaries. The content type must indicate
// the expected document format and oversized payloads are rejected
// before anything is persisted.
type Fetcher struct {
	caller   *httpapi.Caller
	maxBytes int64
}

func NewFetcher(caller *httpapi.Caller, maxBytes int64) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{caller: caller, maxBytes: maxBytes}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var payload []byte
	err := f.caller.Do(ctx,
		"fetch_document",
		func(ctx context.Context) (*http.Request, error) {
			return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		},
		func(resp *http.Response) error {
			contentType := strings.ToLower(resp.Header.Get("Content-Type"))
			if !strings.Contains(contentType, "pdf") {
				return domain.WrapError(domain.ErrValidation, "fetch_document",
					fmt.Errorf("unexpected content type %q", contentType))
			}
			if resp.ContentLength > f.maxBytes {
				return domain.WrapError(domain.ErrValidation, "fetch_document",
					fmt.Errorf("payload of %d bytes exceeds the %d byte ceiling", resp.ContentLength, f.maxBytes))
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
			if err != nil {
				return domain.WrapError(domain.ErrTransport, "fetch_document", err)
			}
			if int64(len(body)) > f.maxBytes {
				return domain.WrapError(domain.ErrValidation, "fetch_document",
					fmt.Errorf("payload exceeds the %d byte ceiling", f.maxBytes))
			}
			payload = body
			return nil
		},
	)
	if err != nil {
		return nil, httpapi.WrapOutcome("fetch_document", err)
	}
	return payload, nil
}
