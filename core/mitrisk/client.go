// Package mitrisk syncs the MIT AI Risk Repository into TavoAI rule
// documents. The repository is published as a Google Sheet; the sync
// downloads it as CSV, maps each risk record through static domain tables,
// and emits one hybrid rule per risk.
//
// MIT AI Risk Repository: https://airisk.mit.edu
package mitrisk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSheetID is the Google Sheets document ID of the public MIT AI Risk
// Repository database.
const DefaultSheetID = "1zbIPiSIAu6v9MI98HtB4gyM_sI4JsOSuAlVLWAIqw_U"

const defaultBaseURL = "https://docs.google.com/spreadsheets/d"

// Client downloads the risk database sheet.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sheetID    string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithSheetID overrides the sheet document ID.
func WithSheetID(id string) Option {
	return func(c *Client) { c.sheetID = id }
}

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the sheets endpoint. Intended for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRateLimit throttles download requests to r per second.
func WithRateLimit(r rate.Limit) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, 1) }
}

// NewClient returns a Client for the public risk database.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		sheetID:    DefaultSheetID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Download fetches the sheet as CSV and returns its content. Any failure is
// fatal to the sync; there is no partial output to salvage.
func (c *Client) Download(ctx context.Context) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	url := fmt.Sprintf("%s/%s/export?format=csv", c.baseURL, c.sheetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading risk database: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading risk database: HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading risk database response: %w", err)
	}
	return string(data), nil
}
