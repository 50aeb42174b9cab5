package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"feeddigest/internal/resilience/circuitbreaker"
	"feeddigest/internal/resilience/retry"
)

// Result is the outcome of a fetch. When the origin answers 304 Not Modified,
// NotModified is true and Body is empty; validators then keep their previous
// values. Otherwise Body holds the (size-limited) payload and ETag /
// LastModified carry whatever validators the origin returned, nil when absent.
type Result struct {
	StatusCode   int
	NotModified  bool
	Body         []byte
	ETag         *string
	LastModified *string
}

// Client fetches feed and page payloads over HTTP. It validates URLs before
// requesting, retries transient failures with backoff, routes requests through
// a circuit breaker, and blacklists hosts whose connections are refused or
// whose names do not resolve so the rest of the run skips them.
//
// Thread safety: Client is safe for concurrent use.
type Client struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	config  Config
	retry   retry.Config

	mu          sync.Mutex
	blacklisted map[string]struct{}
}

// New creates a fetch client with the given configuration. Redirect targets
// are re-validated so a redirect cannot escape into a private network.
func New(cfg Config, retryCfg retry.Config, breakerCfg circuitbreaker.Config) *Client {
	c := &Client{
		breaker:     circuitbreaker.New(breakerCfg),
		config:      cfg,
		retry:       retryCfg,
		blacklisted: make(map[string]struct{}),
	}
	for _, host := range cfg.BlockedHosts {
		c.blacklisted[strings.ToLower(host)] = struct{}{}
	}

	c.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return c
}

// Get fetches the URL without cache validators.
func (c *Client) Get(ctx context.Context, urlStr string) (*Result, error) {
	return c.GetConditional(ctx, urlStr, nil, nil)
}

// GetConditional fetches the URL, sending If-None-Match / If-Modified-Since
// when the stored validators are present. A 304 answer yields a Result with
// NotModified set and is never treated as a failure.
func (c *Client) GetConditional(ctx context.Context, urlStr string, etag, lastModified *string) (*Result, error) {
	if err := validateURL(urlStr, c.config.DenyPrivateIPs); err != nil {
		return nil, err
	}

	host, err := hostOf(urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if c.isBlacklisted(host) {
		return nil, fmt.Errorf("%w: %s", ErrHostBlacklisted, host)
	}

	var result *Result
	err = retry.WithBackoff(ctx, c.retry, func() error {
		value, execErr := c.breaker.Execute(func() (interface{}, error) {
			return c.doGet(ctx, urlStr, etag, lastModified)
		})
		if execErr != nil {
			return execErr
		}
		result = value.(*Result)
		return nil
	})
	if err != nil {
		if retry.IsConnectionRefused(err) {
			c.blacklist(host)
			slog.Warn("host blacklisted for remainder of run",
				slog.String("host", host),
				slog.Any("error", err))
		}
		return nil, err
	}

	return result, nil
}

// doGet performs one HTTP request. Non-2xx statuses other than 304 become
// *retry.HTTPError so the backoff layer can classify them.
func (c *Client) doGet(ctx context.Context, urlStr string, etag, lastModified *string) (*Result, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	if etag != nil && *etag != "" {
		req.Header.Set("If-None-Match", *etag)
	}
	if lastModified != nil && *lastModified != "" {
		req.Header.Set("If-Modified-Since", *lastModified)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Unwrap url.Error so redirect validation errors surface directly.
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotModified {
		return &Result{
			StatusCode:  resp.StatusCode,
			NotModified: true,
		}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	limitedReader := io.LimitReader(resp.Body, c.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, c.config.MaxBodySize)
	}

	return &Result{
		StatusCode:   resp.StatusCode,
		Body:         body,
		ETag:         headerValue(resp.Header, "ETag"),
		LastModified: headerValue(resp.Header, "Last-Modified"),
	}, nil
}

// BlacklistedHosts returns the hosts blacklisted so far in this run,
// for end-of-run reporting.
func (c *Client) BlacklistedHosts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	hosts := make([]string, 0, len(c.blacklisted))
	for host := range c.blacklisted {
		hosts = append(hosts, host)
	}
	return hosts
}

func (c *Client) isBlacklisted(host string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.blacklisted[host]
	return ok
}

func (c *Client) blacklist(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blacklisted[host] = struct{}{}
}

func hostOf(urlStr string) (string, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	return strings.ToLower(u.Hostname()), nil
}

func headerValue(h http.Header, key string) *string {
	if v := h.Get(key); v != "" {
		return &v
	}
	return nil
}
