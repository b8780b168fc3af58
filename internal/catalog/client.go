// Package catalog fetches product listings from the upstream products API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Rajarajeshwaran-2003/eshop/internal/domain"
	"github.com/Rajarajeshwaran-2003/eshop/internal/filter"
	apperrors "github.com/Rajarajeshwaran-2003/eshop/pkg/errors"
	"github.com/Rajarajeshwaran-2003/eshop/pkg/httpclient"
)

// productsPath is the fixed listing endpoint on the upstream catalog service.
const productsPath = "/api/products"

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client fetches product listings from the catalog backend. Each fetch is
// independent: no retries, no circuit breaking. A caller that supersedes a
// request cancels its context.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// New creates a catalog client for the given base URL.
func New(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// FetchProducts issues a GET to the products endpoint with the non-default
// filter fields serialized as query parameters. Non-2xx statuses are returned
// as *errors.AppError wrapping ErrUpstream; cancellation surfaces unchanged
// as the context's error.
func (c *Client) FetchProducts(ctx context.Context, st filter.State) (*domain.ProductList, error) {
	u := c.baseURL + productsPath
	if q := st.Query().Encode(); q != "" {
		u += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create products request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			fetchesTotal.WithLabelValues(outcomeCancelled).Inc()
			return nil, ctx.Err()
		}
		fetchesTotal.WithLabelValues(outcomeTransportError).Inc()
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		fetchesTotal.WithLabelValues(outcomeStatusError).Inc()
		c.logger.WarnContext(ctx, "catalog returned error status",
			slog.Int("status", resp.StatusCode),
			slog.String("url", u),
		)
		return nil, apperrors.Upstream(resp.StatusCode)
	}

	var list domain.ProductList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		if ctx.Err() != nil {
			fetchesTotal.WithLabelValues(outcomeCancelled).Inc()
			return nil, ctx.Err()
		}
		fetchesTotal.WithLabelValues(outcomeTransportError).Inc()
		return nil, fmt.Errorf("decode products response: %w", err)
	}

	fetchesTotal.WithLabelValues(outcomeOK).Inc()
	fetchDuration.Observe(time.Since(start).Seconds())

	return &list, nil
}

// Ping checks that the products endpoint answers at all. Registered as the
// readiness check for the upstream catalog.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+productsPath, nil)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("ping catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 500 {
		return apperrors.Upstream(resp.StatusCode)
	}
	return nil
}

// compile-time check that pkg/httpclient satisfies HTTPDoer.
var _ HTTPDoer = (*httpclient.Client)(nil)
