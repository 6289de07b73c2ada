package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/core/ports"
	"github.com/tamu-aesl/adams/internal/infrastructure/resilience"
)

const errorBodyLimit = 2048

// Caller is the shared outbound transport: every request first acquires
// the process-wide rate limiter, then runs under the retry/breaker
// executor. Backends build requests; Caller owns issuance policy.
type Caller struct {
	httpClient *http.Client
	limiter    ports.RateLimiter
	exec       *resilience.Executor
}

func NewCaller(httpClient *http.Client, limiter ports.RateLimiter, exec *resilience.Executor) *Caller {
	return &Caller{
		httpClient: httpClient,
		limiter:    limiter,
		exec:       exec,
	}
}

// Do issues one call under the rate-limit and retry policy. build must
// return a fresh request per attempt; handle consumes a 2xx response.
func (c *Caller) Do(
	ctx context.Context,
	operation string,
	build func(ctx context.Context) (*http.Request, error),
	handle func(resp *http.Response) error,
) error {
	return c.exec.Execute(ctx, operation, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := build(ctx)
		if err != nil {
			return fmt.Errorf("create %s request: %w", operation, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return domain.WrapError(domain.ErrTransport, operation, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return newStatusError(operation, resp)
		}
		return handle(resp)
	}, Classify)
}

// GetJSON performs a GET and decodes a JSON body.
func (c *Caller) GetJSON(ctx context.Context, operation, url string, header http.Header, out any) error {
	return c.Do(ctx,
		operation,
		func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			copyHeader(req, header)
			return req, nil
		},
		func(resp *http.Response) error {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return domain.WrapError(domain.ErrParse, operation, err)
			}
			return nil
		},
	)
}

// PostJSON performs a POST with a JSON payload and decodes a JSON body.
func (c *Caller) PostJSON(ctx context.Context, operation, url string, header http.Header, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	return c.Do(ctx,
		operation,
		func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			copyHeader(req, header)
			return req, nil
		},
		func(resp *http.Response) error {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return domain.WrapError(domain.ErrParse, operation, err)
			}
			return nil
		},
	)
}

// GetText performs a GET and returns the raw body.
func (c *Caller) GetText(ctx context.Context, operation, url string) (string, error) {
	var body string
	err := c.Do(ctx,
		operation,
		func(ctx context.Context) (*http.Request, error) {
			return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		},
		func(resp *http.Response) error {
			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return domain.WrapError(domain.ErrTransport, operation, err)
			}
			body = string(raw)
			return nil
		},
	)
	return body, err
}

func copyHeader(req *http.Request, header http.Header) {
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
}
