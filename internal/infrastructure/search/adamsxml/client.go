package adamsxml

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/infrastructure/httpapi"
)

const (
	DefaultBaseURL = "https://adams.nrc.gov/wba/services/search/advanced/nrc"

	// The legacy service pages with start/rows row offsets.
	PageSize = 50
)

// Client talks to the legacy sectioned-grammar XML search service.
type Client struct {
	baseURL string
	caller  *httpapi.Caller
	now     func() time.Time
}

func New(baseURL string, caller *httpapi.Caller) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		caller:  caller,
		now:     time.Now,
	}
}

// WithClock substitutes the time source used for the "today"/"this
// month" pseudo-scope folder names.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

func (c *Client) Name() string { return domain.SourceLegacyXML }

func (c *Client) Authoritative() bool { return true }

func (c *Client) PageSize() int { return PageSize }

func (c *Client) FetchPage(ctx context.Context, model domain.FilterModel, offset, size int) ([]domain.Document, error) {
	params, err := buildQuery(model, c.now)
	if err != nil {
		return nil, err
	}
	if size <= 0 || size > PageSize {
		size = PageSize
	}
	params.Set("start", strconv.Itoa(offset))
	params.Set("rows", strconv.Itoa(size))

	body, err := c.caller.GetText(ctx, "legacy_search", c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, httpapi.WrapOutcome("legacy_search", err)
	}

	return parseResults(body)
}
