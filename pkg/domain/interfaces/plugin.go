package interfaces

import (
	"context"

	"github.com/volutil-lab/volutil/pkg/domain/model"
)

// PluginRepository defines the interface for PluginResult data access
type PluginRepository interface {
	// Create creates a new plugin result with auto-generated ID
	Create(ctx context.Context, r *model.PluginResult) (*model.PluginResult, error)

	// Get retrieves a plugin result by ID
	Get(ctx context.Context, id model.PluginID) (*model.PluginResult, error)

	// GetBySessionAndName retrieves the most recent result a plugin produced
	// for a session. Returns nil, nil when the plugin has not been run.
	GetBySessionAndName(ctx context.Context, sessionID model.SessionID, pluginName string) (*model.PluginResult, error)

	// ListBySession retrieves all results of a session, newest first
	ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.PluginResult, error)

	// Search runs a free-text query over all result fields. A non-empty
	// sessionID narrows the result to one session.
	Search(ctx context.Context, query string, sessionID model.SessionID) ([]*model.PluginResult, error)

	// Update applies a partial-field update; only supplied fields change
	Update(ctx context.Context, id model.PluginID, update *model.PluginResultUpdate) (*model.PluginResult, error)

	// Delete removes a plugin result by ID
	Delete(ctx context.Context, id model.PluginID) error

	// DeleteBySession removes every plugin result of a session
	DeleteBySession(ctx context.Context, sessionID model.SessionID) error
}
