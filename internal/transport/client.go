package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// DefaultRetryAfter is used when a 429 response carries no usable hint.
const DefaultRetryAfter = 60 * time.Second

// MaxRetryAfter caps any wait a server asks for.
const MaxRetryAfter = time.Hour

// Config describes one API endpoint family.
type Config struct {
	BaseURL string
	Token   string
	// Throttle is the fixed delay between consecutive requests.
	Throttle time.Duration
	// MaxRateLimitRetries caps re-issued requests after 429 responses.
	// Zero follows the server's Retry-After guidance without a cap.
	MaxRateLimitRetries int
	Headers             map[string]string
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithSleeper overrides how Retry-After waits are performed.
func WithSleeper(sleep Sleeper) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxRateLimitRetries caps how many 429 responses are retried. Zero
// keeps the Config value.
func WithMaxRateLimitRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithClock overrides the time source used for HTTP-date Retry-After values.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client issues JSON requests with bearer auth, a fixed throttle and
// Retry-After handling. Requests are sequential; the client is not meant to
// be shared across goroutines.
type Client struct {
	http       *http.Client
	baseURL    string
	token      string
	headers    map[string]string
	limiter    *rate.Limiter
	maxRetries int
	sleep      Sleeper
	now        func() time.Time
	logger     interfaces.Logger
}

// Request is a single API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header map[string]string
}

// Response is a completed 2xx response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the body into out. Empty bodies (204) are ignored.
func (r *Response) Decode(out any) error {
	if r == nil || out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// New constructs a Client.
func New(cfg Config, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.Throttle > 0 {
		limit = rate.Every(cfg.Throttle)
	}
	c := &Client{
		http:       &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		headers:    cfg.Headers,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRateLimitRetries,
		sleep:      sleepContext,
		now:        time.Now,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends the request. Non-2xx responses other than 429 return an
// *APIError wrapped as an external error. 429 responses wait for the
// Retry-After hint and re-issue the request.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	var payload []byte
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, req.Path, err)
		}
		payload = encoded
	}

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.send(ctx, method, req, payload)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, requestError(method, req.Path, err)
		}

		if resp.Status == http.StatusTooManyRequests {
			if c.maxRetries > 0 && attempt > c.maxRetries {
				return nil, rateLimitError(method, req.Path, attempt)
			}
			wait := RetryAfter(resp.Header.Get("Retry-After"), c.now())
			c.logger.Warn("transport.rate_limited", "method", method, "path", req.Path, "retry_after", wait.String(), "attempt", attempt)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		if resp.Status < 200 || resp.Status >= 300 {
			return nil, externalError(&APIError{
				Method: method,
				Path:   req.Path,
				Status: resp.Status,
				Body:   strings.TrimSpace(string(resp.Body)),
			})
		}
		return resp, nil
	}
}

// JSON sends the request and decodes a successful body into out.
func (c *Client) JSON(ctx context.Context, req Request, out any) (*Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Decode(out); err != nil {
		return resp, err
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method string, req Request, payload []byte) (*Response, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Header {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// RetryAfter parses a Retry-After header given as seconds or an HTTP date.
// The result never exceeds MaxRetryAfter.
func RetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultRetryAfter
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return DefaultRetryAfter
		}
		if seconds > int(MaxRetryAfter/time.Second) {
			return MaxRetryAfter
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if wait := at.Sub(now); wait > 0 {
			return min(wait, MaxRetryAfter)
		}
		return 0
	}
	return DefaultRetryAfter
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
