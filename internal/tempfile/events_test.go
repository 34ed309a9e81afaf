package tempfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindRealFileMostRecentNonTemp(t *testing.T) {
	events := []Event{
		{Path: "a.txt.tmp.1"},
		{Path: "a.txt"},
	}
	assert.Equal(t, "a.txt", FindRealFile(events))
}

func TestFindRealFilePrefersNewest(t *testing.T) {
	events := []Event{
		{Path: "old.txt"},
		{Path: "new.txt"},
	}
	assert.Equal(t, "new.txt", FindRealFile(events))
}

func TestFindRealFileDestPathWins(t *testing.T) {
	// A rename out of a temp name: the destination is the real file.
	events := []Event{
		{Path: "/data/.doc.md.tmp.42", DestPath: "/data/doc.md"},
	}
	assert.Equal(t, "/data/doc.md", FindRealFile(events))
}

func TestFindRealFileTempDestFallsToPath(t *testing.T) {
	events := []Event{
		{Path: "/data/doc.md", DestPath: "/data/doc.md.bak"},
	}
	assert.Equal(t, "/data/doc.md", FindRealFile(events))
}

func TestFindRealFileRecoversFromTempOnly(t *testing.T) {
	// Every path looks temporary, so the forward scan has to reverse the
	// atomic-write naming to find the sibling the artifact shadows.
	events := []Event{
		{Path: "/watch/.draft.md.tmp.9fe1"},
	}
	assert.Equal(t, filepath.Join("/watch", "draft.md"), FindRealFile(events))
}

func TestFindRealFileRecoversOldestFirst(t *testing.T) {
	events := []Event{
		{Path: "/watch/.first.md.tmp.1"},
		{Path: "/watch/.second.md.tmp.2"},
	}
	assert.Equal(t, filepath.Join("/watch", "first.md"), FindRealFile(events))
}

func TestFindRealFileRecoversFromDestPath(t *testing.T) {
	events := []Event{
		{Path: "/watch/tmpupload", DestPath: "/watch/.notes.txt.tmp.77"},
	}
	assert.Equal(t, filepath.Join("/watch", "notes.txt"), FindRealFile(events))
}

func TestFindRealFileUndeterminable(t *testing.T) {
	assert.Equal(t, "", FindRealFile(nil))
	assert.Equal(t, "", FindRealFile([]Event{}))

	// Temp-looking names with no recoverable pattern.
	events := []Event{
		{Path: "/watch/tmp"},
	}
	assert.Equal(t, "", FindRealFile(events))
}
