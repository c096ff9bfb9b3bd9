package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is where the scraper backend listens unless configured otherwise
const DefaultBaseURL = "http://localhost:8001"

const (
	scrapePath      = "/scrape"
	scrapedDataPath = "/scraped-data"
)

// Client talks to the external scraper backend
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the client's HTTP client.
// Applied after WithHTTPClient it modifies the caller's *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend host the client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Scrape asks the backend to scrape url. The request body is a multipart
// form with a single "url" field.
func (c *Client) Scrape(ctx context.Context, url string) (*ScrapeResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("url", url); err != nil {
		return nil, newInvalidResponseError("failed to encode form", 0, err)
	}
	if err := mw.Close(); err != nil {
		return nil, newInvalidResponseError("failed to encode form", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+scrapePath, &buf)
	if err != nil {
		return nil, &ScraperError{Type: ErrorTypeNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result ScrapeResponse
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ScrapedData fetches the most recently scraped content
func (c *Client) ScrapedData(ctx context.Context) (*ScrapedData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+scrapedDataPath, nil)
	if err != nil {
		return nil, &ScraperError{Type: ErrorTypeNetwork, Message: "failed to create request", Cause: err}
	}

	var result ScrapedData
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs the request and decodes the JSON body into result.
// Non-2xx responses are decoded like any other: the backend reports
// failures in the body, and only an undecodable body is an error.
func (c *Client) do(ctx context.Context, req *http.Request, result interface{}) error {
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		serr := classifyTransportError(ctx, err)
		c.log.Debug("scraper request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("type", string(serr.Type)),
			zap.Bool("retryable", serr.IsRetryable()),
			zap.Error(err),
		)
		return serr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newInvalidResponseError("failed to read response", resp.StatusCode, err)
	}

	c.log.Debug("scraper request done",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	// the backend always answers with an object; a bare null carries no fields
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return newInvalidResponseError("empty JSON response", resp.StatusCode, nil)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return newInvalidResponseError("failed to decode response", resp.StatusCode, err)
	}
	return nil
}
