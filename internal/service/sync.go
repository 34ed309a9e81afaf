package service

import (
	"context"

	"github.com/amezhov/filekeeper/internal/models"
)

// FileRepository defines the persistence operations needed by the SyncService.
type FileRepository interface {
	// GetMaxVersion returns the highest version number of file records for
	// the given user. If no records exist, it should return 0.
	GetMaxVersion(ctx context.Context, userID string) (int64, error)
	// GetFilesByUser retrieves all live file records belonging to the user.
	GetFilesByUser(ctx context.Context, userID string) ([]models.FileRecord, error)
	// UpsertIfNewer writes records carrying a higher version than stored,
	// returning written and skipped IDs.
	UpsertIfNewer(ctx context.Context, userID string, files []models.FileRecord) ([]string, []string, error)
	// GetNewerFiles returns records newer than the versions the client holds.
	GetNewerFiles(ctx context.Context, userID string, versions map[string]int64) ([]models.FileRecord, error)
	// DeleteFiles soft-deletes the records with the given IDs.
	DeleteFiles(ctx context.Context, userID string, ids []string) error
	// GetFileByID fetches a single record by ID.
	GetFileByID(ctx context.Context, userID string, id string) (*models.FileRecord, error)
}

// SyncService implements synchronization business logic for file records.
type SyncService struct {
	// repo is the underlying persistence repository.
	repo FileRepository
}

// NewSyncService constructs a SyncService with the provided FileRepository.
func NewSyncService(repo FileRepository) *SyncService {
	return &SyncService{repo: repo}
}

// Sync merges client-provided file records with the data store using
// last-writer-wins on the version number. Records newer on the client are
// written; records newer in the store are returned to the client along
// with the store's current version.
// Returns a map with keys "version" (int64), "files" ([]models.FileRecord),
// "updated" and "skipped" ([]string record IDs).
func (s *SyncService) Sync(ctx context.Context, userID string, files []models.FileRecord, versions map[string]int64) (map[string]any, error) {
	updated, skipped, err := s.repo.UpsertIfNewer(ctx, userID, files)
	if err != nil {
		return nil, err
	}

	newer, err := s.repo.GetNewerFiles(ctx, userID, versions)
	if err != nil {
		return nil, err
	}

	currentVersion, err := s.repo.GetMaxVersion(ctx, userID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"version": currentVersion,
		"files":   newer,
		"updated": updated,
		"skipped": skipped,
	}, nil
}

// Delete soft-deletes the specified records for the user.
func (s *SyncService) Delete(ctx context.Context, userID string, ids []string) error {
	return s.repo.DeleteFiles(ctx, userID, ids)
}

// GetByID retrieves a single file record by its ID for the given user.
func (s *SyncService) GetByID(ctx context.Context, userID string, id string) (*models.FileRecord, error) {
	return s.repo.GetFileByID(ctx, userID, id)
}
