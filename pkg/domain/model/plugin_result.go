package model

import (
	"time"

	"github.com/google/uuid"
)

// PluginID is a UUID-based identifier for PluginResult
type PluginID string

// NewPluginID generates a new UUID v4 PluginID
func NewPluginID() PluginID {
	return PluginID(uuid.New().String())
}

// RunParams are the run-time parameters one plugin execution was invoked
// with. They are stored with the result so a run can be reproduced.
type RunParams struct {
	PID        *int
	DumpDir    string
	HiveOffset *int64
	Options    map[string]string
}

// PluginResult is the durable record of one plugin execution against a
// session's image. Immutable once created except for explicit Update calls.
// All fields are full-text indexed.
type PluginResult struct {
	ID         PluginID
	SessionID  SessionID
	PluginName string
	Envelope   *Envelope
	Params     *RunParams
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PluginResultUpdate carries a partial-field update for a stored result
type PluginResultUpdate struct {
	Envelope *Envelope
	Params   *RunParams
}
