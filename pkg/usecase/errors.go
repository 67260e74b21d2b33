package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrSessionNameRequired = goerr.New("session name is required")
	ErrImagePathRequired   = goerr.New("image path is required")

	// Lifecycle errors
	ErrSessionDeleting = goerr.New("session is being deleted")

	// ErrPartialCascade means a session delete stopped partway. The
	// session is marked deleting and a retry resumes at the failed step.
	ErrPartialCascade = goerr.New("session delete incomplete")
)

// Context keys for error values
const (
	SessionIDKey = "session_id"
	PluginKey    = "plugin"
	StepKey      = "step"
)
