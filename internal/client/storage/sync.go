package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/amezhov/filekeeper/internal/models"
)

// StartAutoSync syncs the manifest with the server on a ticker until ctx
// is cancelled.
func StartAutoSync(ctx context.Context, client *http.Client, baseURL string, m *Manifest, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := SyncWithServer(client, baseURL, m); err != nil {
					log.Error("sync failed", zap.Error(err))
				}
			}
		}
	}()
}

// SyncWithServer pushes the manifest to the server, merges back whatever
// the server holds newer, and persists the result.
func SyncWithServer(client *http.Client, baseURL string, m *Manifest) error {
	files, _ := m.snapshot()
	payload := map[string]any{
		"files":    files,
		"versions": m.Versions(),
	}

	b, _ := json.Marshal(payload)
	resp, err := client.Post(baseURL+"/api/sync", "application/json", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync failed: server returned %s", resp.Status)
	}

	var result struct {
		Files   []models.FileRecord `json:"files"`
		Version int64               `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	m.merge(result.Files, result.Version)
	return m.Save()
}
