// Package catalog provides clients for the public catalog APIs the tracker
// reads from: MangaDex for manga metadata, chapters and page URLs, and
// Jikan for anime metadata.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const userAgent = "mangalog/1.0"

// Options bound remote calls: a per-request timeout and a small fixed
// retry budget with a fixed inter-retry delay.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultOptions returns the limits used against the public APIs.
func DefaultOptions() Options {
	return Options{
		Timeout:    10 * time.Second,
		MaxRetries: 2,
		RetryDelay: 1 * time.Second,
	}
}

// Client is the shared HTTP layer beneath the catalog API clients.
type Client struct {
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultOptions().RetryDelay
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}
}

// getJSON fetches url and decodes the response body into dest. Failed
// attempts are retried up to the configured budget; context cancellation
// aborts the wait between attempts.
func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
		if lastErr = c.fetchOnce(ctx, url, dest); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
