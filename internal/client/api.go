// Package client talks to the world service: the snapshot endpoint,
// the live event stream, and the position/recall/reset calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/neha-pm/npc-learn/pkg/wire"
)

// API issues HTTP requests against the world service. Transport
// failures are never fatal to the caller: the snapshot degrades to an
// empty roster and position saves are fire-and-forget.
type API struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewAPI creates an API client for the given base URL.
func NewAPI(baseURL string, timeout time.Duration, logger *slog.Logger) *API {
	return &API{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Health probes the service's health endpoint.
func (a *API) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Snapshot fetches the full roster. On any failure (network error,
// non-success status, malformed body) it returns an empty roster: the
// canvas still renders and waits for the stream to populate it. The
// call is idempotent and is re-issued after every reset.
func (a *API) Snapshot(ctx context.Context) []wire.SnapshotRow {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v1/snapshot", nil)
	if err != nil {
		a.logger.Warn("failed to build snapshot request", "error", err)
		return nil
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("snapshot request failed", "error", err)
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		a.logger.Warn("snapshot returned non-success status", "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Warn("failed to read snapshot body", "error", err)
		return nil
	}

	var rows []wire.SnapshotRow
	if err := json.Unmarshal(body, &rows); err != nil {
		a.logger.Warn("malformed snapshot body", "error", err)
		return nil
	}
	return rows
}

// SavePosition persists a drag placement. Failures are logged and
// swallowed; the local optimistic position is never rolled back.
func (a *API) SavePosition(ctx context.Context, id int, x, y float64) {
	payload, err := json.Marshal(wire.PositionRequest{ID: id, X: x, Y: y})
	if err != nil {
		a.logger.Warn("failed to marshal position", "id", id, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/position", bytes.NewReader(payload))
	if err != nil {
		a.logger.Warn("failed to build position request", "id", id, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("position save failed", "id", id, "error", err)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= http.StatusBadRequest {
		a.logger.Warn("position save rejected", "id", id, "status", resp.StatusCode)
	}
}

// Recall fetches the remembered items for one NPC.
func (a *API) Recall(ctx context.Context, id int) ([]string, error) {
	url := a.baseURL + "/v1/recall?id=" + strconv.Itoa(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build recall request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recall request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read recall response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp wire.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("recall returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("recall failed: %s", errResp.Error)
	}

	var recall wire.RecallResponse
	if err := json.Unmarshal(body, &recall); err != nil {
		return nil, fmt.Errorf("failed to parse recall response: %w", err)
	}
	return recall.Memories, nil
}

// Reset asks the world service to clear the world. The caller clears
// local state only when this succeeds (or when the RESET frame
// arrives on the stream).
func (a *API) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/reset", nil)
	if err != nil {
		return fmt.Errorf("failed to build reset request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("reset request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("reset returned status %d", resp.StatusCode)
	}
	return nil
}
