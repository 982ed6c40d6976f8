package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"newsbrief/internal/config"
	"newsbrief/internal/ports"
)

const maxPageBytes = 4 << 20

// Client talks to the external page-rendering/scraping service.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.PageScraper = (*Client)(nil)

// NewClient creates a reusable HTTP client from configuration.
func NewClient(cfg config.ScrapeConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// ScrapePage requests the rendered page for pageURL with plain-text-capable
// output and returns the raw markup body.
func (c *Client) ScrapePage(ctx context.Context, pageURL string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"url":     pageURL,
		"getText": true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal scrape payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("scrape %s: unexpected status %s", pageURL, resp.Status)
	}

	markup, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read scrape response: %w", err)
	}

	return string(markup), nil
}
