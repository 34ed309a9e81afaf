package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/amezhov/filekeeper/internal/middleware"
	"github.com/amezhov/filekeeper/internal/models"
)

// SyncService defines the interface for synchronization operations
// required by the SyncHandler.
type SyncService interface {
	// Sync merges the client's file records and version map with the
	// store, returning a map with keys "version", "files", "updated"
	// and "skipped".
	Sync(ctx context.Context, userID string, files []models.FileRecord, versions map[string]int64) (map[string]any, error)
}

// SyncHandler handles HTTP requests for file-record synchronization.
type SyncHandler struct {
	SyncService SyncService
}

// Sync handles POST /api/sync requests.
// It decodes a JSON body with "files" and "versions",
// invokes the SyncService, and writes the resulting map as JSON.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	var req struct {
		Files    []models.FileRecord `json:"files"`
		Versions map[string]int64    `json:"versions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	// Perform synchronization
	result, err := h.SyncService.Sync(ctx, userID, req.Files, req.Versions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Write response
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
