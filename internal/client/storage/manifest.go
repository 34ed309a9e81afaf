// Package storage keeps the client's local view of the watched directory:
// a JSON manifest of file records, the scanner that refreshes it, and the
// mTLS transport used to sync it with the server.
package storage

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/amezhov/filekeeper/internal/models"
)

// Manifest is the client's local index of synced files.
type Manifest struct {
	Files   []models.FileRecord `json:"files"`
	Version int64               `json:"version"`

	mu   sync.Mutex
	path string
}

// NewManifest returns a Manifest persisted at the given path.
func NewManifest(path string) *Manifest {
	return &Manifest{path: path}
}

// Load reads the manifest from disk. A missing file yields an empty manifest.
func (m *Manifest) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.Files = nil
			m.Version = 0
			return nil
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(m)
}

// Save writes the manifest to disk.
func (m *Manifest) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.Create(m.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(m)
}

// Add appends a record and advances the manifest version.
func (m *Manifest) Add(f models.FileRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files = append(m.Files, f)
	if f.Version > m.Version {
		m.Version = f.Version
	}
}

// GetByPath returns the live record for the given relative path, or nil.
func (m *Manifest) GetByPath(path string) *models.FileRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Files {
		if m.Files[i].Path == path && !m.Files[i].Deleted {
			f := m.Files[i]
			return &f
		}
	}
	return nil
}

// Delete soft-deletes the record with the given ID. Returns false when no
// live record matches.
func (m *Manifest) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Files {
		if m.Files[i].ID == id && !m.Files[i].Deleted {
			m.Files[i].Deleted = true
			m.Files[i].Version = time.Now().Unix()
			return true
		}
	}
	return false
}

// Versions returns the record ID to version map the server uses to decide
// which records the client is missing.
func (m *Manifest) Versions() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	versions := make(map[string]int64, len(m.Files))
	for _, f := range m.Files {
		versions[f.ID] = f.Version
	}
	return versions
}

// snapshot returns a copy of the records and the manifest version.
func (m *Manifest) snapshot() ([]models.FileRecord, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := make([]models.FileRecord, len(m.Files))
	copy(files, m.Files)
	return files, m.Version
}

// merge folds server records into the manifest, keeping whichever side
// carries the higher version.
func (m *Manifest) merge(files []models.FileRecord, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range files {
		found := false
		for i := range m.Files {
			if m.Files[i].ID == f.ID {
				if f.Version > m.Files[i].Version {
					m.Files[i] = f
				}
				found = true
				break
			}
		}
		if !found {
			m.Files = append(m.Files, f)
		}
	}
	if version > m.Version {
		m.Version = version
	}
}
