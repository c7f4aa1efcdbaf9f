// Package api is a client for the retail-management REST API. Sessions are
// cookie based: Login stores the auth cookie in the client's jar.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// Client calls the API synchronously, one request at a time, without retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit caps requests per second. Zero or less means unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login authenticates and keeps the session cookie for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.call(ctx, http.MethodPost, "/api/auth/login", body, nil)
}

// SearchProducts returns products whose name, code or barcode contains q.
func (c *Client) SearchProducts(ctx context.Context, q string) ([]Product, error) {
	var out []Product
	if err := c.call(ctx, http.MethodGet, "/api/products?q="+url.QueryEscape(q), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct creates a product and returns it with its new id.
func (c *Client) CreateProduct(ctx context.Context, p ProductUpsert) (*Product, error) {
	var out Product
	if err := c.call(ctx, http.MethodPost, "/api/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStockEntry posts a stock entry and returns the raw response.
func (c *Client) CreateStockEntry(ctx context.Context, e StockEntry) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(ctx, http.MethodPost, "/api/stock/entries", e, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentCashSession returns the caller's open cash session, or nil.
func (c *Client) CurrentCashSession(ctx context.Context) (*CashSession, error) {
	var out *CashSession
	if err := c.call(ctx, http.MethodGet, "/api/cash/current", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenCashSession opens a cash session with the given opening amount.
func (c *Client) OpenCashSession(ctx context.Context, openingAmount float64) (*CashSession, error) {
	var out CashSession
	body := map[string]float64{"openingAmount": openingAmount}
	if err := c.call(ctx, http.MethodPost, "/api/cash/open", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCashMovement records a movement in the current cash session.
func (c *Client) CreateCashMovement(ctx context.Context, m CashMovement) error {
	return c.call(ctx, http.MethodPost, "/api/cash/movement", m, nil)
}

func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
