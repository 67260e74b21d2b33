package interfaces

import (
	"context"

	"github.com/volutil-lab/volutil/pkg/domain/model"
)

// CommentRepository defines the interface for Comment data access
type CommentRepository interface {
	// Create creates a new comment with auto-generated ID
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)

	// Get retrieves a comment by ID
	Get(ctx context.Context, id model.CommentID) (*model.Comment, error)

	// ListBySession retrieves all comments of a session, newest first
	ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.Comment, error)

	// Search runs a free-text query over all comment fields. A non-empty
	// sessionID narrows the result to one session.
	Search(ctx context.Context, query string, sessionID model.SessionID) ([]*model.Comment, error)

	// Delete removes a comment by ID
	Delete(ctx context.Context, id model.CommentID) error

	// DeleteBySession removes every comment of a session
	DeleteBySession(ctx context.Context, sessionID model.SessionID) error
}
