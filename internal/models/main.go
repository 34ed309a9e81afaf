// Package models defines the core data structures for users and synced files.
package models

import "time"

// User represents a registered client identity.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Login is the name the client registered under; it becomes the
	// CommonName of the issued client certificate.
	Login string
}

// FileRecord describes one synced file, along with sync metadata.
type FileRecord struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// Path is the file's path relative to the watched directory root.
	Path string `json:"path"`
	// Hash is the hex-encoded SHA-256 of the file contents.
	Hash string `json:"hash"`
	// Size is the file size in bytes at the time of the last scan.
	Size int64 `json:"size"`
	// ModTime is the file's modification time at the time of the last scan.
	ModTime time.Time `json:"mtime"`
	// Version is the sync version number for concurrency control.
	Version int64 `json:"version"`
	// Deleted marks a record that was soft-deleted on the client.
	Deleted bool `json:"deleted"`
}

// ChangeType identifies the kind of filesystem change behind a record update.
type ChangeType string

const (
	// ChangeAdded is a file seen for the first time.
	ChangeAdded ChangeType = "added"
	// ChangeModified is a content or metadata change to a known file.
	ChangeModified ChangeType = "modified"
	// ChangeRemoved is a deleted file.
	ChangeRemoved ChangeType = "removed"
	// ChangeRenamed is a move within the watched tree.
	ChangeRenamed ChangeType = "renamed"
)
