package interfaces

import (
	"context"

	"github.com/volutil-lab/volutil/pkg/domain/model"
)

// FileRepository defines the interface for FileArtifact metadata access.
// Payload bytes live in BlobStorage under the artifact's StorageKey; the
// usecase layer keeps the two in step.
type FileRepository interface {
	// Create creates artifact metadata with auto-generated ID
	Create(ctx context.Context, f *model.FileArtifact) (*model.FileArtifact, error)

	// Get retrieves artifact metadata by ID
	Get(ctx context.Context, id model.FileID) (*model.FileArtifact, error)

	// ListBySession retrieves all artifact metadata of a session, newest first
	ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.FileArtifact, error)

	// Delete removes artifact metadata by ID
	Delete(ctx context.Context, id model.FileID) error
}
