package googlecse

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/infrastructure/httpapi"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

	// The API caps a single request at ten items.
	MaxResults = 10
)

// Client is the auxiliary free-text web search backend. Queries are
// restricted to the configured document-server domain; results are
// title/link/snippet triples with no authoritative metadata.
type Client struct {
	baseURL string
	apiKey  string
	cx      string
	domain  string
	caller  *httpapi.Caller
}

func New(baseURL, apiKey, cx, siteDomain string, caller *httpapi.Caller) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		cx:      cx,
		domain:  siteDomain,
		caller:  caller,
	}
}

func (c *Client) Name() string { return domain.SourceWebSearch }

func (c *Client) Authoritative() bool { return false }

func (c *Client) PageSize() int { return MaxResults }

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.cx != ""
}

func (c *Client) FetchPage(ctx context.Context, model domain.FilterModel, offset, size int) ([]domain.Document, error) {
	if !c.Configured() {
		return nil, domain.WrapError(domain.ErrValidation, "web_search",
			fmt.Errorf("web search API key and engine id not configured"))
	}
	if model.FreeText == "" {
		return nil, nil
	}
	if size <= 0 || size > MaxResults {
		size = MaxResults
	}

	query := model.FreeText
	if c.domain != "" {
		query = "site:" + c.domain + " " + query
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(size))
	if offset > 0 {
		// The API indexes results from 1.
		params.Set("start", strconv.Itoa(offset+1))
	}

	var response searchResponse
	err := c.caller.GetJSON(ctx, "web_search", c.baseURL+"?"+params.Encode(), nil, &response)
	if err != nil {
		return nil, httpapi.WrapOutcome("web_search", err)
	}

	docs := make([]domain.Document, 0, len(response.Items))
	for _, item := range response.Items {
		if !usableLink(item.Link) {
			continue
		}
		docs = append(docs, domain.Document{
			Title:           item.Title,
			URI:             item.Link,
			Snippet:         item.Snippet,
			AccessionNumber: accessionFromLink(item.Link),
			Source:          domain.SourceWebSearch,
		})
	}
	return docs, nil
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// usableLink discards mail-type and non-HTTP(S) links.
func usableLink(link string) bool {
	if link == "" || strings.Contains(link, "@") || strings.HasPrefix(link, "mailto:") {
		return false
	}
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

// accessionFromLink recovers an accession number embedded in a document
// URL path, when present. Short folder segments like /ML1234/ are
// skipped in favor of the full accession that follows.
func accessionFromLink(link string) string {
	rest := link
	for {
		idx := strings.Index(rest, "/ML")
		if idx < 0 {
			return ""
		}
		candidate := rest[idx+1:]
		end := 0
		for end < len(candidate) && end < 12 && isAlphaNum(candidate[end]) {
			end++
		}
		if acc, err := domain.NormalizeAccession(candidate[:end]); err == nil {
			return acc
		}
		rest = rest[idx+1:]
	}
}

func isAlphaNum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
