// Package sources implements the five provider adapters. Each one
// normalizes a provider's idiosyncratic response into a shared item shape
// and applies provider-specific relevance filtering. Adapters return an
// empty list on "reachable but zero results" and an error only on genuine
// I/O failure, non-2xx status, or a malformed payload.
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// statusError reports a non-2xx provider response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.code)
}

// isRateLimited reports whether err is a provider 429
func isRateLimited(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusTooManyRequests
}

// fetchBody performs a GET and returns the raw body for a 2xx response
func fetchBody(ctx context.Context, client *http.Client, userAgent, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// getJSON performs a GET and decodes the JSON response into out
func getJSON(ctx context.Context, client *http.Client, userAgent, rawURL string, out interface{}) error {
	body, err := fetchBody(ctx, client, userAgent, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// termOverlap counts how many of terms appear in text (case-insensitive)
func termOverlap(text string, terms []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			n++
		}
	}
	return n
}
