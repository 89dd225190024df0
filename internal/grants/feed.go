package grants

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"grantwriter-backend/internal/shared/telemetry"
)

// Feed fetches sample opportunities from an external listing API. The feed is
// advisory: any failure degrades to an empty sample set so generation can
// proceed from the profile alone.
type Feed struct {
	URL    string
	APIKey string
	HTTP   *http.Client
}

// NewFeed constructs a Feed with a bounded default timeout.
func NewFeed(url, apiKey string) *Feed {
	return &Feed{URL: url, APIKey: apiKey, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// Fetch returns the feed's opportunity records, or an empty slice on any
// error, non-2xx status, or non-list payload.
func (f *Feed) Fetch(ctx context.Context) []map[string]any {
	samples, err := f.fetch(ctx)
	if err != nil {
		telemetry.Error("grants.feed_failed", map[string]any{"url": f.URL, "err": err.Error()})
		return []map[string]any{}
	}
	return samples
}

func (f *Feed) fetch(ctx context.Context) ([]map[string]any, error) {
	if f.URL == "" {
		return []map[string]any{}, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.APIKey)
	req.Header.Set("Content-Type", "application/json")

	httpClient := f.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var samples []map[string]any
	if err := json.Unmarshal(body, &samples); err != nil {
		return nil, fmt.Errorf("feed payload is not a list: %w", err)
	}
	return samples, nil
}
