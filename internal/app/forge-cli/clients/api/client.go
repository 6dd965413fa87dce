package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"pkg.world.dev/forge-cli/internal/pkg/logger"
)

const (
	jitterDivisor     = 2 // Divisor used to calculate maximum jitter range
	sessionCookieName = "forge_session"
	requestIDHeader   = "X-Request-ID"
)

// Option customises client instantiation.
type Option func(*Client)

// WithSessionCookie attaches the dashboard session cookie to every request.
func WithSessionCookie(value string) Option {
	return func(c *Client) {
		c.SessionCookie = value
	}
}

// WithHTTPClient overrides both the unary and the streaming HTTP client.
func WithHTTPClient(h HTTPClientInterface) Option {
	return func(c *Client) {
		if h != nil {
			c.HTTPClient = h
			c.StreamClient = h
		}
	}
}

// WithRequestConfig overrides the retry policy.
func WithRequestConfig(cfg RequestConfig) Option {
	return func(c *Client) {
		c.Retry = cfg
	}
}

// NewClient creates a new API client with the given base URL.
func NewClient(baseURL string, opts ...Option) ClientInterface {
	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)
	config := DefaultRequestConfig()
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: config.Timeout,
			Jar:     jar,
		},
		StreamClient: &http.Client{Jar: jar},
		Retry:        config,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken updates the client's authentication credentials.
func (c *Client) SetAuthToken(token string) {
	c.Token = token
}

// DefaultRequestConfig returns sensible defaults.
func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		MaxRetries:  5,
		BaseDelay:   100 * time.Millisecond,
		Timeout:     30 * time.Second,
		ContentType: "application/json",
	}
}

// sendRequest sends an HTTP request with auth token and returns the response body.
// Transient failures are retried.
func (c *Client) sendRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	return c.send(ctx, method, endpoint, body, max(c.Retry.MaxRetries, 1))
}

// sendRequestOnce sends a request that must reach the server at most once, such as one that
// creates a resource. A timeout or 5xx may still have been applied by the server.
func (c *Client) sendRequestOnce(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	return c.send(ctx, method, endpoint, body, 1)
}

func (c *Client) send(
	ctx context.Context,
	method, endpoint string,
	body interface{},
	attempts int,
) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, eris.Wrap(err, "Failed to marshal request body")
		}
	}

	return c.makeRequestWithRetries(ctx, attempts, func() (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := c.prepareRequest(ctx, method, endpoint, reader)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", c.contentType())
		}
		return req, nil
	})
}

func (c *Client) contentType() string {
	if c.Retry.ContentType == "" {
		return "application/json"
	}
	return c.Retry.ContentType
}

// prepareRequest creates an HTTP request with proper headers and authentication.
func (c *Client) prepareRequest(
	ctx context.Context,
	method, endpoint string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return nil, eris.Wrap(err, "Failed to create request")
	}

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.SessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.SessionCookie})
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	return req, nil
}

// makeRequestWithRetries executes the HTTP request with exponential backoff retry logic.
// build is called once per attempt so request bodies are never reused.
func (c *Client) makeRequestWithRetries(
	ctx context.Context,
	maxRetries int,
	build func() (*http.Request, error),
) ([]byte, error) {
	var lastErr error

	for i := range maxRetries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := build()
		if err != nil {
			return nil, err
		}

		respBody, err := c.doRequest(req)
		if err == nil {
			return respBody, nil
		}
		lastErr = err

		if ctx.Err() != nil || maxRetries == 1 || !c.isRetryableError(err) {
			return nil, err
		}

		if i < maxRetries-1 {
			delay := c.exponentialBackoffWithJitter(c.Retry.BaseDelay, i)
			logger.Warnf("request %s %s failed (%s), retrying in %s", req.Method, req.URL.Path, err, delay)

			// Use timer instead of Sleep to handle cancellation
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, eris.Wrapf(lastErr, "Failed after %d retries", maxRetries)
}

// doRequest executes a single HTTP request.
func (c *Client) doRequest(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newHTTPError(resp)
	}

	return io.ReadAll(resp.Body)
}

func newHTTPError(resp *http.Response) *HTTPError {
	httpErr := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return httpErr
	}
	for _, field := range []string{"message", "error", "detail"} {
		if msg := gjson.GetBytes(body, field).String(); msg != "" {
			httpErr.Message = msg
			return httpErr
		}
	}
	if !gjson.ValidBytes(body) {
		httpErr.Message = strings.TrimSpace(string(body))
	}
	return httpErr
}

// isRetryableError checks if the error is transient and should be retried.
func (c *Client) isRetryableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// exponentialBackoffWithJitter calculates delay with exponential backoff and jitter.
func (c *Client) exponentialBackoffWithJitter(base time.Duration, attempt int) time.Duration {
	backoff := base * (1 << attempt) // Exponential growth
	if backoff/jitterDivisor <= 0 {
		return backoff
	}
	jitter := time.Duration(rand.Int63n(int64(backoff / jitterDivisor))) //nolint:gosec // it's safe to use rand here
	return backoff + jitter
}

// parseResponse is a generic version that returns the parsed data.
func parseResponse[T any](body []byte) (T, error) {
	result := gjson.GetBytes(body, "data")
	if !result.Exists() {
		return *new(T), eris.New("Missing data field in response")
	}

	var data T
	if err := json.Unmarshal([]byte(result.Raw), &data); err != nil {
		return *new(T), eris.Wrap(err, "Failed to parse response")
	}

	return data, nil
}
