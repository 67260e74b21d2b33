package interfaces

import (
	"context"

	"github.com/volutil-lab/volutil/pkg/domain/model"
)

// RecordRepository defines the interface for DataRecord data access
type RecordRepository interface {
	// Create creates a new record with auto-generated ID
	Create(ctx context.Context, r *model.DataRecord) (*model.DataRecord, error)

	// Get retrieves a record by ID
	Get(ctx context.Context, id model.RecordID) (*model.DataRecord, error)

	// Find retrieves records whose fields equal every filter entry. An
	// empty filter returns everything.
	Find(ctx context.Context, filter model.RecordFilter) ([]*model.DataRecord, error)

	// Update replaces the fields of matching records with merge semantics
	Update(ctx context.Context, filter model.RecordFilter, fields map[string]any) error

	// Delete removes a record by ID
	Delete(ctx context.Context, id model.RecordID) error

	// DeleteByFilter removes every record matching the filter
	DeleteByFilter(ctx context.Context, filter model.RecordFilter) error

	// DeleteBySession removes every record of a session
	DeleteBySession(ctx context.Context, sessionID model.SessionID) error
}
