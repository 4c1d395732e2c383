package registry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/mvnq/mvnq/pkg/errors"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRetries   = 2
	DefaultConcurrency  = 10
	DefaultMaxBodyBytes = 2_000_000

	retryBaseDelay = 250 * time.Millisecond
)

// Config controls the transport policy of a [Client].
type Config struct {
	// Timeout bounds each individual HTTP request.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first for
	// transient failures. Zero means DefaultMaxRetries; use a negative
	// value to disable retries entirely.
	MaxRetries int

	// Concurrency bounds in-flight requests across all callers of this
	// client. Callers beyond the bound queue; they are never rejected.
	Concurrency int

	// MaxBodyBytes is the hard ceiling on response body size. Responses
	// exceeding it fail with a SIZE_LIMIT_EXCEEDED error before full
	// buffering.
	MaxBodyBytes int64

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// Client performs bounded, retrying HTTP GETs. All methods are safe for
// concurrent use by multiple goroutines.
type Client struct {
	http      *http.Client
	sem       *semaphore.Weighted
	maxBody   int64
	attempts  int
	userAgent string
}

// New creates a Client with the given transport policy.
// Zero-valued Config fields fall back to package defaults.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		sem:       semaphore.NewWeighted(int64(cfg.Concurrency)),
		maxBody:   cfg.MaxBodyBytes,
		attempts:  cfg.MaxRetries + 1,
		userAgent: cfg.UserAgent,
	}
}

// MaxBodyBytes returns the configured response size ceiling.
func (c *Client) MaxBodyBytes() int64 { return c.maxBody }

// Fetch performs an HTTP GET and returns the response body, retrying
// transient failures. The body is read through the size ceiling; a
// response exceeding it fails with SIZE_LIMIT_EXCEEDED.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry(ctx, c.attempts, retryBaseDelay, func() error {
		var attemptErr error
		body, attemptErr = c.fetchOnce(ctx, url)
		return attemptErr
	})
	return body, err
}

// FetchJSON performs an HTTP GET and decodes the JSON response into v.
// Unknown fields in the response are ignored.
func (c *Client) FetchJSON(ctx context.Context, url string, v any) error {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "malformed response from %s", url)
	}
	return nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request URL")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, retryable(transportError(err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	// Read one byte past the ceiling so an oversized body is detected
	// without buffering it whole.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, retryable(transportError(err))
	}
	if int64(len(data)) > c.maxBody {
		return nil, apperrors.New(apperrors.ErrCodeSizeLimit, "response exceeds %d byte limit", c.maxBody)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return apperrors.New(apperrors.ErrCodeNotFound, "resource not found")
	case code == http.StatusTooManyRequests:
		return retryable(apperrors.New(apperrors.ErrCodeRateLimited, "rate limited"))
	case code >= 500:
		return retryable(apperrors.New(apperrors.ErrCodeNetwork, "status %d", code))
	default:
		return apperrors.New(apperrors.ErrCodeNetwork, "status %d", code)
	}
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "request timed out")
	}
	return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "request failed")
}
