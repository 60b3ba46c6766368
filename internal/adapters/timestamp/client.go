package timestamp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
)

// maxBodySize caps how much of the clock service response is read.
const maxBodySize = 4 << 10

// Client fetches opaque timestamps from a remote clock service over HTTP.
// The service is consulted informationally when transactions are recorded;
// callers treat failures as a missing timestamp, never as a transfer error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a clock service client. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ portssvc.ClockSourceSvc = (*Client)(nil)

// Now returns the current timestamp as reported by the remote service. The
// response is accepted either as a JSON object with a "timestamp" field or as
// a plain string body.
func (c *Client) Now(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build clock request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("clock service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("clock service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read clock response: %w", err)
	}

	var payload struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Timestamp != "" {
		return payload.Timestamp, nil
	}

	ts := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(body)), `"`))
	if ts == "" {
		return "", fmt.Errorf("clock service returned an empty timestamp")
	}
	return ts, nil
}
