package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

// SessionID is a UUID-based identifier for Session
type SessionID string

// NewSessionID generates a new UUID v4 SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// Session represents one memory-image analysis effort. The image file is
// owned externally and referenced by path; by convention there is one
// session per image, but nothing enforces it.
type Session struct {
	ID          SessionID
	Name        string
	ImagePath   string
	Profile     string // declared OS/architecture signature, or AutoDetectProfile
	Description string
	Metadata    map[string]string
	Status      types.SessionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SessionUpdate carries a partial-field update. Nil fields are left
// untouched by the store.
type SessionUpdate struct {
	Name        *string
	Profile     *string
	Description *string
	Metadata    map[string]string // merged key by key when non-nil
}
