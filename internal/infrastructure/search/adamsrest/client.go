package adamsrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/infrastructure/httpapi"
)

const (
	DefaultBaseURL = "https://adams-api.nrc.gov/aps/api/search"

	// API maximum per request.
	PageSize = 100

	defaultSort           = "DateAddedTimestamp"
	sortDescending        = 1
	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
)

// Client talks to the modern APS REST search protocol: JSON request
// bodies with structured filters, subscription-key authentication,
// GET-by-accession single-document lookup.
type Client struct {
	baseURL string
	apiKey  string
	caller  *httpapi.Caller
}

func New(baseURL, apiKey string, caller *httpapi.Caller) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		caller:  caller,
	}
}

func (c *Client) Name() string { return domain.SourceADAMSAPI }

func (c *Client) Authoritative() bool { return true }

func (c *Client) PageSize() int { return PageSize }

func (c *Client) FetchPage(ctx context.Context, model domain.FilterModel, offset, size int) ([]domain.Document, error) {
	payload, err := buildPayload(model, offset)
	if err != nil {
		return nil, err
	}

	header, err := c.authHeader()
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := c.caller.PostJSON(ctx, "aps_search", c.baseURL, header, payload, &response); err != nil {
		return nil, httpapi.WrapOutcome("aps_search", err)
	}

	docs := make([]domain.Document, 0, len(response.Results))
	for _, r := range response.Results {
		docs = append(docs, normalizeDocument(r.Document))
	}
	if size > 0 && len(docs) > size {
		docs = docs[:size]
	}
	return docs, nil
}

// GetDocument retrieves a single record by accession number. A 404 is
// "not found", not a transport error.
func (c *Client) GetDocument(ctx context.Context, accession string) (*domain.Document, error) {
	acc, err := domain.NormalizeAccession(accession)
	if err != nil {
		return nil, err
	}

	header, err := c.authHeader()
	if err != nil {
		return nil, err
	}

	var response documentResponse
	err = c.caller.GetJSON(ctx, "aps_get_document", c.baseURL+"/"+acc, header, &response)
	if err != nil {
		var statusErr *httpapi.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, domain.WrapError(domain.ErrNotFound, "aps_get_document", err)
		}
		return nil, httpapi.WrapOutcome("aps_get_document", err)
	}

	doc := normalizeDocument(response.Document)
	return &doc, nil
}

func (c *Client) authHeader() (http.Header, error) {
	if c.apiKey == "" {
		return nil, domain.WrapError(domain.ErrValidation, "aps_auth",
			fmt.Errorf("API subscription key not configured"))
	}
	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set(subscriptionKeyHeader, c.apiKey)
	return header, nil
}

type searchResponse struct {
	Results []struct {
		Document apiDocument `json:"document"`
	} `json:"results"`
}

type documentResponse struct {
	Document apiDocument
}

// The lookup endpoint sometimes wraps the record in {"document": ...}
// and sometimes returns it bare.
func (r *documentResponse) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Document *apiDocument `json:"document"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Document != nil {
		r.Document = *wrapped.Document
		return nil
	}
	return json.Unmarshal(data, &r.Document)
}
