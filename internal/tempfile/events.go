package tempfile

import "path/filepath"

// Event is the slice of a filesystem change event this package cares
// about: the affected path and, for rename/move events, the destination.
// An empty DestPath means the event had no destination.
type Event struct {
	Path     string
	DestPath string
}

// FindRealFile determines the single durable path a chronological burst of
// events refers to. It scans newest-first for any path not classified as a
// temp file; if every observed path looks temporary it falls back to an
// oldest-first scan that recovers the original name via ExtractBaseName and
// rebuilds it as a sibling of the temp artifact. Returns "" when no real
// file can be determined.
func FindRealFile(events []Event) string {
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.DestPath != "" && !IsTempFile(ev.DestPath) {
			return ev.DestPath
		}
		if ev.Path != "" && !IsTempFile(ev.Path) {
			return ev.Path
		}
	}

	for _, ev := range events {
		if ev.DestPath != "" {
			if base := ExtractBaseName(ev.DestPath); base != "" {
				if candidate := filepath.Join(filepath.Dir(ev.DestPath), base); candidate != ev.DestPath {
					return candidate
				}
			}
		}
		if ev.Path != "" {
			if base := ExtractBaseName(ev.Path); base != "" {
				if candidate := filepath.Join(filepath.Dir(ev.Path), base); candidate != ev.Path {
					return candidate
				}
			}
		}
	}

	return ""
}
