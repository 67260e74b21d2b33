package model

import (
	"path"
	"time"

	"github.com/google/uuid"
)

// FileID is a UUID-based identifier for FileArtifact
type FileID string

// NewFileID generates a new UUID v4 FileID
func NewFileID() FileID {
	return FileID(uuid.New().String())
}

// FileArtifact is the metadata of one binary object extracted from a
// memory image (a dumped process, a carved file, a registry hive). The
// payload itself lives in blob storage under StorageKey; it is streamed,
// never materialized whole. The ID is assigned by the store independently
// of the checksum, so two puts of identical content yield distinct
// artifacts.
type FileArtifact struct {
	ID        FileID
	SessionID SessionID
	SHA256    string
	Filename  string
	PID       *int
	Size      int64
	CreatedAt time.Time
}

// StorageKey returns the blob-storage object key for the artifact payload
func (f *FileArtifact) StorageKey() string {
	return path.Join("artifacts", string(f.SessionID), string(f.ID))
}
