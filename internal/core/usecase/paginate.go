package usecase

import (
	"context"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/core/ports"
)

// Paginator drives one backend through successive windows. It never
// issues more than MaxPages calls and always trims the accumulation to
// MaxResults. AdvanceByReturned moves the offset by the size actually
// returned, which keeps a short last page from skipping records on
// protocols with a running skip counter.
type Paginator struct {
	PageSize          int
	MaxPages          int
	MaxResults        int
	StopOnEmpty       bool
	AdvanceByReturned bool
}

func (p Paginator) Collect(ctx context.Context, backend ports.SearchBackend, model domain.FilterModel) ([]domain.Document, error) {
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}
	maxResults := p.MaxResults
	if maxResults <= 0 {
		maxResults = pageSize
	}

	var accumulated []domain.Document
	offset := 0

	for page := 0; page < maxPages; page++ {
		batch, err := backend.FetchPage(ctx, model, offset, pageSize)
		if err != nil {
			return nil, err
		}

		if len(batch) == 0 {
			if p.StopOnEmpty {
				break
			}
			offset += pageSize
			continue
		}

		accumulated = append(accumulated, batch...)
		if len(accumulated) >= maxResults {
			break
		}

		// A short page means the source is exhausted.
		if len(batch) < pageSize {
			break
		}

		if p.AdvanceByReturned {
			offset += len(batch)
		} else {
			offset += pageSize
		}
	}

	if len(accumulated) > maxResults {
		accumulated = accumulated[:maxResults]
	}
	return accumulated, nil
}
