package httpclient

import (
	"context"
	"fmt"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"time"
)

// maxBody caps how much of a response body is kept in memory.
const maxBody = 2 << 20

// Response defines the parts of an HTTP response the scanners look at.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
	URL        string // Final URL after redirects.
}

// Client is a rate limited HTTP client shared by the scanners.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// Options defines the client settings.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	RateLimit float64 // Requests per second, 0 disables limiting.
}

// New returns a new *Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	c := &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// Get performs a GET request with optional extra headers. Redirects are followed.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(body),
		URL:        resp.Request.URL.String(),
	}, nil
}
