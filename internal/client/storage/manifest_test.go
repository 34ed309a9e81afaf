package storage

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amezhov/filekeeper/internal/models"
)

func TestManifestLoadMissingFile(t *testing.T) {
	m := NewManifest(filepath.Join(t.TempDir(), "manifest.json"))
	require.NoError(t, m.Load())
	assert.Empty(t, m.Files)
	assert.Zero(t, m.Version)
}

func TestManifestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	m := NewManifest(path)
	m.Add(models.FileRecord{ID: "f1", Path: "docs/a.md", Hash: "aaa", Version: 3})
	m.Add(models.FileRecord{ID: "f2", Path: "docs/b.md", Hash: "bbb", Version: 7})
	require.NoError(t, m.Save())

	loaded := NewManifest(path)
	require.NoError(t, loaded.Load())
	require.Len(t, loaded.Files, 2)
	assert.Equal(t, int64(7), loaded.Version)
	assert.Equal(t, "docs/a.md", loaded.Files[0].Path)
}

func TestManifestLoadSafeForConcurrentUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	m := NewManifest(path)
	m.Add(models.FileRecord{ID: "f1", Path: "a.md", Version: 1})
	require.NoError(t, m.Save())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.Load())
			_ = m.Versions()
		}()
	}
	wg.Wait()
}

func TestManifestGetByPath(t *testing.T) {
	m := NewManifest("")
	m.Add(models.FileRecord{ID: "f1", Path: "a.md"})

	got := m.GetByPath("a.md")
	require.NotNil(t, got)
	assert.Equal(t, "f1", got.ID)

	assert.Nil(t, m.GetByPath("missing.md"))
}

func TestManifestDelete(t *testing.T) {
	m := NewManifest("")
	m.Add(models.FileRecord{ID: "f1", Path: "a.md", Version: 1})

	require.True(t, m.Delete("f1"))
	assert.Nil(t, m.GetByPath("a.md"), "deleted record must not be returned")
	assert.False(t, m.Delete("f1"), "second delete must report not found")
	assert.GreaterOrEqual(t, m.Files[0].Version, time.Now().Add(-time.Minute).Unix())
}

func TestManifestMergeKeepsNewest(t *testing.T) {
	m := NewManifest("")
	m.Add(models.FileRecord{ID: "f1", Path: "a.md", Hash: "local", Version: 5})

	m.merge([]models.FileRecord{
		{ID: "f1", Path: "a.md", Hash: "stale", Version: 3},
		{ID: "f2", Path: "b.md", Hash: "new", Version: 8},
	}, 8)

	assert.Equal(t, "local", m.Files[0].Hash, "older server record must not overwrite")
	require.Len(t, m.Files, 2)
	assert.Equal(t, "new", m.Files[1].Hash)
	assert.Equal(t, int64(8), m.Version)
}

func TestManifestMergeAppliesRemoteDeletion(t *testing.T) {
	m := NewManifest("")
	m.Add(models.FileRecord{ID: "f1", Path: "a.md", Hash: "local", Version: 5})

	m.merge([]models.FileRecord{
		{ID: "f1", Path: "a.md", Hash: "local", Version: 9, Deleted: true},
	}, 9)

	require.Len(t, m.Files, 1)
	assert.True(t, m.Files[0].Deleted, "newer tombstone must win over the live record")
	assert.Nil(t, m.GetByPath("a.md"))
}

func TestManifestVersions(t *testing.T) {
	m := NewManifest("")
	m.Add(models.FileRecord{ID: "f1", Version: 2})
	m.Add(models.FileRecord{ID: "f2", Version: 6})

	assert.Equal(t, map[string]int64{"f1": 2, "f2": 6}, m.Versions())
}
