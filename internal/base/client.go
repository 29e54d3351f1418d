// Package base provides the shared HTTP client for the Ministry of
// Legislation OPEN API. Category clients (law, precedent, committee, …)
// embed it and add their own endpoints on top.
package base

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ChangooLee/mcp-kr-legislation/internal/config"
	"github.com/ChangooLee/mcp-kr-legislation/internal/envelope"
	apierr "github.com/ChangooLee/mcp-kr-legislation/internal/errors"
	"github.com/ChangooLee/mcp-kr-legislation/internal/infra"
	"github.com/ChangooLee/mcp-kr-legislation/metrics"
)

const (
	// DefaultCacheTTL for cached search responses.
	DefaultCacheTTL = 5 * time.Minute

	// MaxConcurrentRequests limits parallel upstream calls.
	MaxConcurrentRequests = 5

	// requestInterval paces upstream calls; the API dislikes bursts.
	requestInterval = 300 * time.Millisecond
)

// slowTargets routinely take the better part of a minute upstream.
var slowTargets = map[string]bool{
	"lsHstInf": true,
	"lsStmd":   true,
	"lawHst":   true,
}

// noResultCodeTargets omit resultCode from their LawSearch envelope, so its
// absence there is not an error.
var noResultCodeTargets = map[string]bool{
	"elaw":       true,
	"lsHstInf":   true,
	"lsJoHstInf": true,
}

// Client is the shared upstream client: caching, pacing, circuit breaking,
// and request deduplication around plain GETs to lawSearch.do/lawService.do.
type Client struct {
	Config         *config.Config
	HTTPClient     *http.Client
	Logger         *slog.Logger
	Cache          *infra.Cache
	DiskCache      *infra.DiskCache
	Dedup          *infra.RequestDeduplicator
	CircuitBreaker *infra.CircuitBreaker
	Limiter        *rate.Limiter
	semaphore      chan struct{}
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTPClient = h }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// WithCache sets a custom in-memory cache.
func WithCache(cache *infra.Cache) Option {
	return func(c *Client) { c.Cache = cache }
}

// WithDiskCache sets the on-disk detail cache.
func WithDiskCache(d *infra.DiskCache) Option {
	return func(c *Client) { c.DiskCache = d }
}

// WithLimiter overrides the request pacer; tests pass rate.NewLimiter(rate.Inf, 1).
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.Limiter = l }
}

// NewClient creates a client for the given configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		Config:         cfg,
		HTTPClient:     newHTTPClient(),
		Logger:         slog.Default(),
		Cache:          infra.NewCache(infra.DefaultMaxCacheEntries),
		Dedup:          infra.NewRequestDeduplicator(),
		CircuitBreaker: infra.NewCircuitBreaker(),
		Limiter:        rate.NewLimiter(rate.Every(requestInterval), 1),
		semaphore:      make(chan struct{}, MaxConcurrentRequests),
	}
	if cfg.CacheDir != "" {
		c.DiskCache = infra.NewDiskCache(cfg.CacheDir, cfg.DetailCacheTTL, c.Logger)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases client resources.
func (c *Client) Close() {
	if c.Cache != nil {
		c.Cache.Close()
	}
}

// SearchURL builds the lawSearch.do URL for a target. OC, target, and
// type=JSON are always set; law-name search defaults section=lawNm.
func (c *Client) SearchURL(target string, params url.Values) string {
	return c.buildURL(c.Config.SearchURL, target, params, "JSON", true)
}

// ServiceURL builds the lawService.do URL for a detail request.
func (c *Client) ServiceURL(target string, params url.Values) string {
	return c.buildURL(c.Config.ServiceURL, target, params, "JSON", false)
}

// ServiceHTMLURL builds a lawService.do URL requesting HTML, used both for
// the HTML-only detail endpoints and for fallback links in reports.
func (c *Client) ServiceHTMLURL(target string, params url.Values) string {
	return c.buildURL(c.Config.ServiceURL, target, params, "HTML", false)
}

func (c *Client) buildURL(baseURL, target string, params url.Values, typ string, isSearch bool) string {
	q := url.Values{}
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	q.Set("OC", c.Config.OC)
	q.Set("target", target)
	q.Set("type", typ)
	if isSearch && target == "law" && q.Get("query") != "" && q.Get("section") == "" {
		q.Set("section", "lawNm")
	}
	return baseURL + "?" + q.Encode()
}

// Search performs a lawSearch.do request and decodes the JSON response.
func (c *Client) Search(ctx context.Context, target string, params url.Values) (map[string]any, error) {
	return c.getJSON(ctx, target, c.SearchURL(target, params))
}

// Service performs a lawService.do request and decodes the JSON response.
func (c *Client) Service(ctx context.Context, target string, params url.Values) (map[string]any, error) {
	return c.getJSON(ctx, target, c.ServiceURL(target, params))
}

// getJSON fetches a URL and applies the upstream response conventions:
// empty bodies, HTML-instead-of-JSON, and resultCode errors.
func (c *Client) getJSON(ctx context.Context, target, reqURL string) (map[string]any, error) {
	body, statusCode, err := c.get(ctx, target, reqURL)
	if err != nil {
		return nil, err
	}

	if statusCode == http.StatusNotFound {
		return nil, &apierr.NotFoundError{Target: target, Identifier: reqURL}
	}
	if statusCode >= 400 {
		return nil, &apierr.APIError{Target: target, StatusCode: statusCode, Message: truncate(string(body), 200)}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil, &apierr.EmptyResponseError{Target: target}
	}

	if looksLikeHTML(text) {
		if strings.Contains(text, "사용자인증에 실패") || strings.Contains(text, "페이지 접속에 실패") {
			metrics.AuthFailures.Inc()
			return nil, &apierr.AuthError{Detail: "upstream rejected the OC code"}
		}
		return nil, &apierr.HTMLOnlyError{Target: target, Body: text}
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", target, err)
	}

	if err := checkResultCode(target, data); err != nil {
		return nil, err
	}

	return data, nil
}

// checkResultCode surfaces the LawSearch resultCode/resultMsg error
// convention. Targets known to omit resultCode are exempt.
func checkResultCode(target string, data map[string]any) error {
	if noResultCodeTargets[target] {
		return nil
	}
	outer, ok := data["LawSearch"].(map[string]any)
	if !ok {
		return nil
	}
	code, ok := outer["resultCode"].(string)
	if !ok || code == "" || code == "00" {
		return nil
	}
	msg, _ := outer["resultMsg"].(string)
	if msg == "" {
		msg = "unknown upstream error"
	}
	return &apierr.APIError{Target: target, ResultCode: code, Message: msg}
}

// get performs the paced, breaker-guarded, retried GET and returns the raw
// body with the final status code.
func (c *Client) get(ctx context.Context, target, reqURL string) ([]byte, int, error) {
	if !c.CircuitBreaker.Allow() {
		stats := c.CircuitBreaker.Stats()
		return nil, 0, &infra.ErrCircuitOpen{
			RetryAt:  stats.LastFailure.Add(30 * time.Second),
			Failures: stats.ConsecutiveFails,
		}
	}

	select {
	case c.semaphore <- struct{}{}:
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("context canceled while waiting for request slot: %w", ctx.Err())
	}
	defer func() { <-c.semaphore }()

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("context canceled while pacing request: %w", err)
	}

	timeout := c.Config.Timeout
	if slowTargets[target] {
		timeout = c.Config.SlowTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	maxRetry := c.Config.MaxRetries
	if maxRetry <= 0 {
		maxRetry = 1
	}

	category := string(envelope.CategoryOf(target))
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt < maxRetry; attempt++ {
		if attempt > 0 {
			metrics.UpstreamRetries.WithLabelValues(category, target).Inc()
			backoff := time.Duration(attempt*attempt) * 100 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, 0, fmt.Errorf("context canceled during backoff: %w", ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Referer", c.Config.Referer)
		req.Header.Set("User-Agent", c.Config.UserAgent)

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			c.Logger.Warn("Upstream request failed, retrying",
				"target", target, "attempt", attempt+1, "error", err)
			continue
		}

		body, err := readAndClose(resp)
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if wait, ok := retryAfter(resp); ok {
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				}
				continue
			}
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, truncate(string(body), 200))
			continue
		}

		// The upstream answered, whatever the payload says; upstream
		// response conventions (resultCode, HTML bodies) are not service
		// outages and must not keep the breaker open.
		c.CircuitBreaker.RecordSuccess()
		metrics.RecordUpstreamCall(category, target, time.Since(start).Seconds(), true)
		return body, resp.StatusCode, nil
	}

	c.CircuitBreaker.RecordFailure()
	metrics.RecordUpstreamCall(category, target, time.Since(start).Seconds(), false)
	return nil, 0, lastErr
}

func retryAfter(resp *http.Response) (time.Duration, bool) {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(header)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// looksLikeHTML sniffs a trimmed body for markup. Content-Type is not
// reliable upstream, the body is.
func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") ||
		strings.HasPrefix(lower, "<head") || strings.HasPrefix(lower, "<meta")
}

func readAndClose(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return body, err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// newHTTPClient builds the shared transport. The client carries no Timeout
// of its own: timeouts are per-request context deadlines in get, because a
// client-level timeout would cap slow targets at the base timeout too.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       120 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 90 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport}
}
