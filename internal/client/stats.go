package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"snakepit/internal/session"
)

// PostStats hands the terminal session summary to the external stats
// service. Best effort: callers log the error and move on, never retry.
func PostStats(ctx context.Context, httpClient *http.Client, baseURL string, stats session.Stats) error {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	body, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/save-stats", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("save stats: status %d", resp.StatusCode)
	}
	return nil
}
