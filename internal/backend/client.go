// Package backend is the HTTP client for the beverage management REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/metrics"
	"go.uber.org/zap"
)

const maxBodyBytes = 8 << 20

// TokenSource supplies bearer tokens. The session implements it.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(access string)
	Expire()
}

type Config struct {
	BaseURL string
	// Timeout applies to every call; zero leaves it to the transport.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.ZapLogger

	mu     sync.RWMutex
	tokens TokenSource

	refreshMu sync.Mutex
}

func NewClient(cfg *Config, log logger.ZapLogger) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{baseURL: base, http: hc, logger: log}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

func (c *Client) tokenSource() TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	noAuth bool
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query, out: out})
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body, out: out})
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPatch, path: path, body: body, out: out})
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path})
}

// do sends r and, on a 401, refreshes the access token once and replays.
func (c *Client) do(ctx context.Context, r request) error {
	err := c.send(ctx, r)
	if r.noAuth || StatusCode(err) != http.StatusUnauthorized {
		return err
	}
	if rerr := c.refresh(ctx); rerr != nil {
		return rerr
	}
	return c.send(ctx, r)
}

func (c *Client) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	ts := c.tokenSource()
	if ts == nil || ts.RefreshToken() == "" {
		return ErrNotAuthenticated
	}

	var out struct {
		Access string `json:"access"`
	}
	err := c.send(ctx, request{
		method: http.MethodPost,
		path:   "/token/refresh/",
		body:   map[string]string{"refresh": ts.RefreshToken()},
		out:    &out,
		noAuth: true,
	})
	if err != nil {
		if IsNetworkError(err) {
			return err
		}
		c.logger.Warn("Token refresh rejected, ending session", zap.Error(err))
		ts.Expire()
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	if out.Access == "" {
		ts.Expire()
		return ErrSessionExpired
	}
	ts.SetAccessToken(out.Access)
	return nil
}

func (c *Client) resolve(path string, query url.Values) (string, string) {
	target := path
	label := path
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		if u, err := url.Parse(path); err == nil {
			label = strings.TrimPrefix(u.Path, "/api")
		}
	} else {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		target = c.baseURL + path
		label = path
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + query.Encode()
	}
	return target, label
}

func (c *Client) send(ctx context.Context, r request) error {
	target, label := c.resolve(r.path, r.query)

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.noAuth {
		if ts := c.tokenSource(); ts != nil {
			if tok := ts.AccessToken(); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveBackend(r.method, label, "network_error", time.Since(start))
		return fmt.Errorf("%s %s: %w", r.method, label, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ObserveBackend(r.method, label, "network_error", time.Since(start))
		return fmt.Errorf("failed to read %s response: %w", label, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveBackend(r.method, label, "http_"+strconv.Itoa(resp.StatusCode), time.Since(start))
		apiErr := newAPIError(r.method, label, resp.StatusCode, data)
		c.logger.Debug("Backend rejected request",
			zap.String("method", r.method),
			zap.String("path", label),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}
	metrics.ObserveBackend(r.method, label, "ok", time.Since(start))

	if r.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", label, err)
	}
	return nil
}

// Ping issues the lightweight health request. Any HTTP answer means the
// backend is reachable; only transport failures are returned.
func (c *Client) Ping(ctx context.Context) error {
	err := c.send(ctx, request{method: http.MethodGet, path: "/core/health/", noAuth: true})
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return nil
	}
	return err
}
