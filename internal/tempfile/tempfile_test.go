package tempfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTempFile(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		// atomic-write convention, checked before everything else
		{"atomic write suffix", "report.docx.tmp.58231", true},
		{"atomic write vscode variant", ".notes.txt.tmp.a1b2", true},
		{"atomic write nested dir", "/srv/data/report.docx.tmp.58231", true},

		{"tmp prefix", "tmpXyZ123", true},
		{"dot tmp prefix", ".tmp-upload", true},
		{"tmp suffix", "archive.tar.tmp", true},
		{"temp suffix", "render.temp", true},
		{"tilde suffix", "main.go~", true},

		{"vim swp", ".main.go.swp", true},
		{"vim swo", ".main.go.swo", true},
		{"vim swx", ".main.go.swx", true},
		{"vim swn suffix", ".main.go.swn", true},

		{"emacs lockfile", ".#notes.org", true},
		{"emacs autosave", "#notes.org#", true},

		{"bak suffix", "config.yaml.bak", true},
		{"backup suffix", "config.yaml.backup", true},
		{"orig suffix", "patchfile.orig", true},
		{"old suffix", "schema.sql.old", true},

		{"windows temp marker", "doc.$tm", true},
		{"office temp prefix", "~$budget.xlsx", true},
		{"cache infix", "thumbs.cache.db", true},

		{"mixed case", "REPORT.DOCX.TMP.1", true},

		{"plain file", "main.go", false},
		{"dotfile", ".bashrc", false},
		{"tarball", "backup-tools.tar.gz", false},
		{"empty path", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTempFile(tt.path), "path %q", tt.path)
		})
	}
}

// An embedded ".lock." marks a transient artifact, but a name that simply
// ends in ".lock" is a legitimate lockfile and must not be flagged.
func TestIsTempFileLockAsymmetry(t *testing.T) {
	assert.False(t, IsTempFile("package.lock"))
	assert.False(t, IsTempFile("yarn.lock"))
	assert.True(t, IsTempFile("package.lock.123"))
	assert.True(t, IsTempFile("db.lock.tmp"))
}

func TestIsTempFileIsPure(t *testing.T) {
	for _, p := range []string{"a.txt.tmp.1", "a.txt", "package.lock"} {
		first := IsTempFile(p)
		assert.Equal(t, first, IsTempFile(p), "second call disagreed for %q", p)
	}
}

func TestIsBackupFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"config.yaml.bak", true},
		{"config.yaml.backup", true},
		{"patchfile.orig", true},
		{"main.go~", true},
		{"db.bak.2024-01-01", true},
		{"CONFIG.YAML.BAK", true},
		{"config.yaml", false},
		{"bakery-orders.csv", false},
		// temp but not backup: the predicates are independent
		{"report.docx.tmp.58231", false},
		{".main.go.swp", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBackupFile(tt.path), "path %q", tt.path)
	}
}

func TestExtractBaseName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"vscode atomic write", ".notes.txt.tmp.a1b2", "notes.txt"},
		{"vscode numeric suffix", ".config.yaml.tmp.8412", "config.yaml"},
		{"emacs autosave", "#draft.md#", "draft.md"},
		{"vim swap dotfile", "..bashrc.swp", ".bashrc"},
		{"vim swap regular", ".config.yaml.swp", "config.yaml"},
		{"vim swo regular", ".main.go.swo", "main.go"},
		{"suffix tmp", "upload.bin.tmp", "upload.bin"},
		{"suffix temp", "render.png.temp", "render.png"},
		{"suffix bak", "config.yaml.bak", "config.yaml"},
		{"suffix backup", "config.yaml.backup", "config.yaml"},
		{"suffix orig", "patchfile.orig", "patchfile"},
		{"suffix tilde", "main.go~", "main.go"},
		{"prefix tmp", "tmpupload.bin", "upload.bin"},
		{"prefix dot tmp", ".tmpupload.bin", "upload.bin"},
		{"prefix emacs lock", ".#notes.org", "notes.org"},
		{"trailing temp id without leading dot", "report.docx.tmp.84", "report.docx"},
		{"full path input", "/var/spool/.notes.txt.tmp.a1b2", "notes.txt"},

		// nothing recognizable, or stripping changes nothing
		{"plain file", "plainfile.txt", ""},
		{"dotfile", ".bashrc", ""},
		{"empty emacs wrapper", "##", ""},
		{"lone hash", "#", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBaseName(tt.path), "path %q", tt.path)
		})
	}
}

// Only one suffix is ever stripped, then at most one prefix, then the
// trailing ".tmp.<id>" cleanup.
func TestExtractBaseNameSingleStrip(t *testing.T) {
	// ".bak" matches after ".tmp" failed, and no second suffix is removed.
	assert.Equal(t, "data.tmp", ExtractBaseName("data.tmp.bak"))
	// prefix strip then the cleanup regex both apply
	assert.Equal(t, "upload.bin", ExtractBaseName("tmpupload.bin.tmp.7"))
}

func TestExtractBaseNameKeepsCase(t *testing.T) {
	assert.Equal(t, "Notes.TXT", ExtractBaseName(".Notes.TXT.tmp.a9"))
}
