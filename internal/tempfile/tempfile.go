// Package tempfile classifies filesystem paths as temporary or backup
// artifacts by naming convention, and recovers the original filename a
// temp artifact was derived from. Editors and atomic-write implementations
// leave behind names like ".config.yaml.tmp.8412", "#draft.md#" or
// "..bashrc.swp"; the watcher and client scanner use these helpers to
// correlate such artifacts with the durable file they shadow.
//
// All functions are pure and operate on the final path segment only.
package tempfile

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// VSCode-style atomic write: ".name.ext.tmp.<suffix>".
	vscodeTempRe = regexp.MustCompile(`^\.(.+)\.tmp\.\w+$`)
	// Vim swap for a dotfile: "..bashrc.swp" shadows ".bashrc".
	vimDotfileSwapRe = regexp.MustCompile(`^\.\.(.+)\.(swp|swo|swx)$`)
	// Vim swap for a regular file: ".config.yaml.swp" shadows "config.yaml".
	vimSwapRe = regexp.MustCompile(`^\.(.+)\.(swp|swo|swx)$`)
	// Leftover atomic-write suffix, e.g. "report.docx.tmp.84".
	trailingTempRe = regexp.MustCompile(`\.tmp\.\w+$`)
)

// IsTempFile reports whether the path names a transient artifact: an editor
// swap file, an atomic-write intermediate, or a generic temp convention.
// Matching is case-insensitive over the final path segment.
func IsTempFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))

	// Atomic-write convention ("name.ext.tmp.<pid>") subsumes the most
	// common patterns, including the VSCode leading-dot variant.
	if strings.Contains(name, ".tmp.") {
		return true
	}

	return strings.HasPrefix(name, ".tmp") ||
		strings.HasPrefix(name, "tmp") ||
		strings.HasSuffix(name, ".tmp") ||
		strings.HasSuffix(name, ".temp") ||
		strings.HasSuffix(name, "~") ||
		strings.Contains(name, ".swp") ||
		strings.Contains(name, ".swx") ||
		strings.Contains(name, ".swo") ||
		strings.HasSuffix(name, ".swn") ||
		strings.Contains(name, ".#") ||
		(strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#")) ||
		strings.HasSuffix(name, ".bak") ||
		strings.HasSuffix(name, ".backup") ||
		strings.HasSuffix(name, ".orig") ||
		strings.HasSuffix(name, ".old") ||
		strings.Contains(name, ".$") ||
		strings.HasPrefix(name, "~$") ||
		strings.Contains(name, ".cache") ||
		// "app.lock.123" is transient, a plain "app.lock" is a lockfile.
		(strings.Contains(name, ".lock") && !strings.HasSuffix(name, ".lock"))
}

// IsBackupFile reports whether the path names a saved prior copy of a file.
// Narrower than IsTempFile and independently callable.
func IsBackupFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, ".bak") ||
		strings.HasSuffix(name, ".backup") ||
		strings.HasSuffix(name, ".orig") ||
		strings.HasSuffix(name, "~") ||
		strings.Contains(name, ".bak.")
}

// suffixes stripped by ExtractBaseName, first match wins.
var baseNameSuffixes = []string{".tmp", ".temp", ".bak", ".backup", ".orig", "~"}

// prefixes stripped by ExtractBaseName, first match wins.
var baseNamePrefixes = []string{"tmp", ".tmp", ".#"}

// ExtractBaseName recovers the filename of the original file a temp or
// backup artifact was derived from. It returns the recovered name (a bare
// filename, not a path), or "" when no recognized pattern applies or when
// stripping would leave the name unchanged.
//
// Rules are checked in order and the first match wins; the VSCode pattern
// must run before the others so its leading dot is read as part of the
// temp wrapper rather than as a dotfile marker.
func ExtractBaseName(path string) string {
	name := filepath.Base(path)

	if m := vscodeTempRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}

	if strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#") {
		if len(name) < 2 {
			return ""
		}
		return name[1 : len(name)-1]
	}

	if m := vimDotfileSwapRe.FindStringSubmatch(name); m != nil {
		// The original file was itself a dotfile, so one dot comes back.
		if recovered := "." + m[1]; recovered != name {
			return recovered
		}
		return ""
	}

	if m := vimSwapRe.FindStringSubmatch(name); m != nil {
		if recovered := m[1]; recovered != name {
			return recovered
		}
		return ""
	}

	recovered := name
	for _, s := range baseNameSuffixes {
		if strings.HasSuffix(recovered, s) {
			recovered = strings.TrimSuffix(recovered, s)
			break
		}
	}
	for _, p := range baseNamePrefixes {
		if strings.HasPrefix(recovered, p) {
			recovered = strings.TrimPrefix(recovered, p)
			break
		}
	}
	recovered = trailingTempRe.ReplaceAllString(recovered, "")

	if recovered == "" || recovered == name {
		return ""
	}
	return recovered
}
