// Package vectorsearch implements domain.VectorIndex against a Pinecone
// index over its data-plane REST API, plus an in-process index.
package vectorsearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
	"github.com/furnishly/backend/internal/metrics"
)

const (
	maxAttempts    = 3
	maxUpsertBatch = 100
	apiVersion     = "2024-07"
)

// Options configures a Pinecone client
type Options struct {
	Host          string
	APIKey        string
	Namespace     string
	Timeout       time.Duration
	RatePerSecond float64
}

// Client talks to a single Pinecone index
type Client struct {
	httpClient  *http.Client
	host        string
	apiKey      string
	namespace   string
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[any]
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a client for the index served at opts.Host
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	perSecond := opts.RatePerSecond
	if perSecond <= 0 {
		perSecond = 5
	}

	host := strings.TrimRight(opts.Host, "/")
	if host != "" && !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		host:        host,
		apiKey:      opts.APIKey,
		namespace:   opts.Namespace,
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), 10),
		breaker:     newBreaker("pinecone"),
		backoff:     exponentialBackoff,
	}
}

// SetDebug toggles request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Upsert writes records in batches of at most 100 vectors
func (c *Client) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	for start := 0; start < len(records); start += maxUpsertBatch {
		batch := records[start:min(start+maxUpsertBatch, len(records))]
		req := upsertRequest{Vectors: toWireVectors(batch), Namespace: c.namespace}

		_, err := execute(c.breaker, func() (*upsertResponse, error) {
			var resp upsertResponse
			if err := c.post(ctx, "/vectors/upsert", req, &resp); err != nil {
				return nil, err
			}
			return &resp, nil
		})
		metrics.RecordVectorRequest("upsert", err)
		if err != nil {
			return err
		}
	}
	return nil
}

// Query returns the topK nearest vectors with their metadata
func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	req := queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       c.namespace,
	}

	resp, err := execute(c.breaker, func() (*queryResponse, error) {
		var resp queryResponse
		if err := c.post(ctx, "/query", req, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	metrics.RecordVectorRequest("query", err)
	if err != nil {
		return nil, err
	}
	return fromWireMatches(resp.Matches), nil
}

// Stats reports the index dimension and the vector count of the namespace
func (c *Client) Stats(ctx context.Context) (*domain.IndexStats, error) {
	resp, err := execute(c.breaker, func() (*statsResponse, error) {
		var resp statsResponse
		if err := c.post(ctx, "/describe_index_stats", struct{}{}, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	metrics.RecordVectorRequest("stats", err)
	if err != nil {
		return nil, err
	}
	return resp.toDomain(c.namespace), nil
}

// post sends body as JSON to path and decodes the reply into out.
// Transport errors, 429 and 5xx are retried; other statuses fail at once.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	log := logging.Component("vectorsearch")

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		status, respBody, err := c.do(ctx, path, payload)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Str("path", path).Int("attempt", attempt).Msg("request failed")
			lastErr = fmt.Errorf("%w: %v", domain.ErrVectorSearchFailure, err)
			continue
		}

		if c.debug {
			log.Debug().Str("path", path).Int("status", status).Int("bytes", len(respBody)).Msg("pinecone response")
		}

		if status != http.StatusOK {
			lastErr = &StatusError{Path: path, Code: status, Body: truncate(respBody, 200)}
			if !retryable(status) {
				return lastErr
			}
			log.Warn().Str("path", path).Int("status", status).Int("attempt", attempt).Msg("retryable status")
			continue
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: decoding %s response: %v", domain.ErrVectorSearchFailure, path, err)
		}
		return nil
	}

	log.Error().Err(lastErr).Str("path", path).Msg("all retries failed")
	return lastErr
}

func (c *Client) do(ctx context.Context, path string, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Pinecone-API-Version", apiVersion)
	req.Header.Set("User-Agent", "Furnishly/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// StatusError is a non-200 reply from the index
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d: %s", domain.ErrVectorSearchFailure, e.Path, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return domain.ErrVectorSearchFailure
}

// isClientError reports whether err came from a non-retryable 4xx reply
// or a cancelled context; neither says anything about index health.
func isClientError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && !retryable(se.Code)
}
