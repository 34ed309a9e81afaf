package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/amezhov/filekeeper/internal/models"
)

// PostgresFileRepository implements file-record synchronization operations
// against a PostgreSQL database.
type PostgresFileRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresFileRepository creates a new PostgresFileRepository using the provided *sql.DB.
// db must be a valid connection to a PostgreSQL instance.
func NewPostgresFileRepository(db *sql.DB) *PostgresFileRepository {
	return &PostgresFileRepository{DB: db}
}

// GetMaxVersion retrieves the highest version number among the live file
// records belonging to the given user. If no records exist, it returns 0.
func (s *PostgresFileRepository) GetMaxVersion(ctx context.Context, userID string) (int64, error) {
	var version int64
	err := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) FROM files WHERE user_login = $1 AND deleted = false
	`, userID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("GetMaxVersion failed: %w", err)
	}
	return version, nil
}

// GetFilesByUser fetches all live file records for the specified user.
func (s *PostgresFileRepository) GetFilesByUser(ctx context.Context, userID string) ([]models.FileRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, path, hash, size, mtime, version, deleted FROM files WHERE user_login = $1 AND deleted = false
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("GetFilesByUser: %w", err)
	}
	defer rows.Close()

	var files []models.FileRecord
	for rows.Next() {
		var f models.FileRecord
		if err := rows.Scan(&f.ID, &f.Path, &f.Hash, &f.Size, &f.ModTime, &f.Version, &f.Deleted); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteFiles soft-deletes the records with the given IDs for the specified user.
func (s *PostgresFileRepository) DeleteFiles(ctx context.Context, userID string, ids []string) error {
	query := `UPDATE files SET deleted = true WHERE user_login = $1 AND id = ANY($2)`
	_, err := s.DB.ExecContext(ctx, query, userID, pq.Array(ids))
	return err
}

// GetFileByID retrieves a single live file record by ID for the given user.
func (s *PostgresFileRepository) GetFileByID(ctx context.Context, userID string, id string) (*models.FileRecord, error) {
	var f models.FileRecord
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, path, hash, size, mtime, version, deleted FROM files
		WHERE user_login = $1 AND id = $2 AND deleted = false
	`, userID, id).Scan(&f.ID, &f.Path, &f.Hash, &f.Size, &f.ModTime, &f.Version, &f.Deleted)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UpsertIfNewer writes only those records which carry a higher version than
// the stored one, returning the IDs that were written and those skipped.
func (s *PostgresFileRepository) UpsertIfNewer(ctx context.Context, userID string, files []models.FileRecord) ([]string, []string, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	updated := make([]string, 0, len(files))
	skipped := make([]string, 0, len(files))

	for _, f := range files {
		// Tombstones take part in the version race like any other write,
		// so the check must see deleted rows too.
		var existingVersion int64
		err := tx.QueryRowContext(ctx, `
			SELECT version FROM files WHERE id = $1 AND user_login = $2
		`, f.ID, userID).Scan(&existingVersion)
		if err != nil && err != sql.ErrNoRows {
			return nil, nil, fmt.Errorf("check version: %w", err)
		}
		if err == nil && existingVersion >= f.Version {
			skipped = append(skipped, f.ID)
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO files (id, user_login, path, hash, size, mtime, version, deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				path = EXCLUDED.path,
				hash = EXCLUDED.hash,
				size = EXCLUDED.size,
				mtime = EXCLUDED.mtime,
				version = EXCLUDED.version,
				deleted = EXCLUDED.deleted
		`, f.ID, userID, f.Path, f.Hash, f.Size, f.ModTime, f.Version, f.Deleted)
		if err != nil {
			return nil, nil, fmt.Errorf("upsert: %w", err)
		}
		updated = append(updated, f.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return updated, skipped, nil
}

// GetNewerFiles returns all records with versions newer than those the client
// knows. Tombstones are included so other clients learn about deletions.
func (s *PostgresFileRepository) GetNewerFiles(ctx context.Context, userID string, versions map[string]int64) ([]models.FileRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, path, hash, size, mtime, version, deleted FROM files WHERE user_login = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("GetNewerFiles: %w", err)
	}
	defer rows.Close()

	var newer []models.FileRecord
	for rows.Next() {
		var f models.FileRecord
		if err := rows.Scan(&f.ID, &f.Path, &f.Hash, &f.Size, &f.ModTime, &f.Version, &f.Deleted); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if clientVer, ok := versions[f.ID]; !ok || f.Version > clientVer {
			newer = append(newer, f)
		}
	}
	return newer, rows.Err()
}
