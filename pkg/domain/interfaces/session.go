package interfaces

import (
	"context"

	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

// SessionRepository defines the interface for Session data access
type SessionRepository interface {
	// Create creates a new session with auto-generated ID
	Create(ctx context.Context, s *model.Session) (*model.Session, error)

	// Get retrieves a session by ID
	Get(ctx context.Context, id model.SessionID) (*model.Session, error)

	// List retrieves all sessions, newest first
	List(ctx context.Context) ([]*model.Session, error)

	// Update applies a partial-field update; only supplied fields change.
	// Concurrent updates to the same session are last-writer-wins.
	Update(ctx context.Context, id model.SessionID, update *model.SessionUpdate) (*model.Session, error)

	// UpdateStatus sets the lifecycle status of a session
	UpdateStatus(ctx context.Context, id model.SessionID, status types.SessionStatus) error

	// Delete removes the session document only. Dependent records are the
	// cascade coordinator's concern.
	Delete(ctx context.Context, id model.SessionID) error
}
