package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/amezhov/filekeeper/internal/models"
	"github.com/amezhov/filekeeper/internal/tempfile"
)

// ScanDir walks root and refreshes the manifest: new files get fresh
// records, changed files get a bumped version, and records whose file is
// gone are soft-deleted. Paths classified as temp or backup artifacts are
// skipped entirely so editor noise never enters the manifest.
func ScanDir(root string, m *Manifest) error {
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if tempfile.IsTempFile(path) || tempfile.IsBackupFile(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		hash, err := hashFile(path)
		if err != nil {
			return err
		}
		seen[rel] = true

		if existing := m.GetByPath(rel); existing != nil {
			if existing.Hash == hash {
				return nil
			}
			m.update(existing.ID, hash, info.Size(), info.ModTime())
			return nil
		}

		m.Add(models.FileRecord{
			ID:      uuid.NewString(),
			Path:    rel,
			Hash:    hash,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Version: time.Now().Unix(),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	// files that disappeared since the last scan
	files, _ := m.snapshot()
	for _, f := range files {
		if !f.Deleted && !seen[f.Path] {
			m.Delete(f.ID)
		}
	}

	return nil
}

// update rewrites the stored state of one record and bumps its version.
func (m *Manifest) update(id, hash string, size int64, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Files {
		if m.Files[i].ID == id {
			m.Files[i].Hash = hash
			m.Files[i].Size = size
			m.Files[i].ModTime = modTime
			m.Files[i].Version = time.Now().Unix()
			return
		}
	}
}

// hashFile returns the hex SHA-256 of the file contents.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
