// Package fetch downloads Grokipedia/Wikipedia article pairs into the raw
// data directory. Requests are polite: robots.txt is honored per host,
// requests are rate limited per host and every request carries a browser
// user agent, since Grokipedia serves a reduced page to unknown agents.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	robotsTTL     = time.Hour
	robotsCleanup = 2 * time.Hour
)

// ErrDisallowed reports a URL that robots.txt forbids for our user agent.
var ErrDisallowed = errors.New("fetch disallowed by robots.txt")

// Client is a polite HTTP fetcher with per-host rate limiting and a cached
// robots.txt check.
type Client struct {
	http      *http.Client
	userAgent string

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
	perHost   rate.Limit
	burst     int

	robots *gocache.Cache
}

// NewClientParams configures NewClient. Zero values fall back to defaults:
// a 30 second timeout, one request per second per host and a browser agent.
type NewClientParams struct {
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	UserAgent      string
}

func NewClient(params NewClientParams) *Client {
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	if params.RequestsPerSec <= 0 {
		params.RequestsPerSec = 1
	}
	if params.Burst <= 0 {
		params.Burst = 2
	}
	if params.UserAgent == "" {
		params.UserAgent = defaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: params.Timeout},
		userAgent: params.UserAgent,
		limiters:  make(map[string]*rate.Limiter),
		perHost:   rate.Limit(params.RequestsPerSec),
		burst:     params.Burst,
		robots:    gocache.New(robotsTTL, robotsCleanup),
	}
}

// Get fetches a URL and returns the response body. It waits for per-host
// rate limit clearance, checks robots.txt and fails on any non-2xx status.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}

	allowed, err := c.allowed(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}

	if err := c.hostLimiter(parsed.Host).Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", res.StatusCode, rawURL)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (c *Client) hostLimiter(host string) *rate.Limiter {
	c.limiterMu.Lock()
	defer c.limiterMu.Unlock()
	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(c.perHost, c.burst)
		c.limiters[host] = limiter
	}
	return limiter
}

// allowed checks robots.txt for the URL's host, caching the parsed rules.
// An unreachable robots.txt allows the fetch; a present one is binding.
func (c *Client) allowed(ctx context.Context, parsed *url.URL) (bool, error) {
	data, err := c.robotsData(ctx, parsed)
	if err != nil {
		return true, nil
	}
	return data.TestAgent(parsed.Path, c.userAgent), nil
}

func (c *Client) robotsData(ctx context.Context, parsed *url.URL) (*robotstxt.RobotsData, error) {
	if cached, ok := c.robots.Get(parsed.Host); ok {
		return cached.(*robotstxt.RobotsData), nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := robotstxt.FromResponse(res)
	if err != nil {
		return nil, err
	}
	c.robots.Set(parsed.Host, data, gocache.DefaultExpiration)
	return data, nil
}
