// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing shared by every provider:
// a GET client with status checking and an in-process response cache, and
// the request pacing policies providers apply before calling out.
package httputil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/litharvest/pkg/types"
)

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 32 << 20

const defaultTimeout = 60 * time.Second

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
	// Snippet is the start of the response body, for diagnostics.
	Snippet string
}

func (e *StatusError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Snippet)
	}
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Client issues GET requests and returns whole response bodies. Successful
// bodies are cached by URL and headers for CacheTTL so a keyword repeated in
// one run does not hit the provider twice.
type Client struct {
	http      *http.Client
	userAgent string
	cache     *gocache.Cache
	ttl       time.Duration
}

// NewClient builds a Client from cfg. hc may be nil, in which case a client
// with cfg.Timeout (default 60s) is created.
func NewClient(hc *http.Client, cfg types.HTTPConfig) *Client {
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	c := &Client{http: hc, userAgent: cfg.UserAgent, ttl: cfg.CacheTTL}
	if cfg.CacheTTL > 0 {
		c.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// Get fetches rawURL with the given extra headers. The client's User-Agent
// is set unless header overrides it. Non-2xx responses yield *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	key := cacheKey(rawURL, header)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.([]byte), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, vs := range header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(ue.URL)
		}
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        redact(rawURL),
			Snippet:    snippet(body),
		}
	}

	if c.cache != nil {
		c.cache.Set(key, body, c.ttl)
	}
	return body, nil
}

// cacheKey hashes the URL together with the request headers.
func cacheKey(rawURL string, header http.Header) string {
	h := sha256.New()
	io.WriteString(h, rawURL)
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "\n%s=%s", k, strings.Join(header[k], ","))
	}
	return "litharvest:v1:" + hex.EncodeToString(h.Sum(nil))
}

// redact hides credential query parameters before a URL reaches an error.
func redact(rawURL string) string {
	i := strings.IndexByte(rawURL, '?')
	if i < 0 {
		return rawURL
	}
	base, query := rawURL[:i], rawURL[i+1:]
	parts := strings.Split(query, "&")
	for j, p := range parts {
		if name, _, ok := strings.Cut(p, "="); ok && strings.EqualFold(name, "api_key") {
			parts[j] = name + "=REDACTED"
		}
	}
	return base + "?" + strings.Join(parts, "&")
}

func snippet(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
