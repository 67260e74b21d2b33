package model

import (
	"time"

	"github.com/google/uuid"
)

// CommentID is a UUID-based identifier for Comment
type CommentID string

// NewCommentID generates a new UUID v4 CommentID
func NewCommentID() CommentID {
	return CommentID(uuid.New().String())
}

// Comment is a free-text analyst note scoped to a session. All fields are
// full-text indexed.
type Comment struct {
	ID        CommentID
	SessionID SessionID
	Text      string
	CreatedAt time.Time
}
