package types

import "fmt"

// SessionStatus represents the lifecycle state of an analysis session
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "ACTIVE"

	// SessionStatusDeleting marks a session whose cascading delete has
	// started. A session in this state may be partially removed and the
	// delete can be re-invoked safely.
	SessionStatusDeleting SessionStatus = "DELETING"
)

// AllSessionStatuses returns all valid session statuses
func AllSessionStatuses() []SessionStatus {
	return []SessionStatus{
		SessionStatusActive,
		SessionStatusDeleting,
	}
}

// IsValid checks if the session status is valid
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive,
		SessionStatusDeleting:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as SessionStatusActive for
// documents written before the status field existed.
func (s SessionStatus) Normalize() SessionStatus {
	if s == "" {
		return SessionStatusActive
	}
	return s
}

// String returns the string representation of the session status
func (s SessionStatus) String() string {
	return string(s)
}

// ParseSessionStatus parses a string into a SessionStatus
func ParseSessionStatus(s string) (SessionStatus, error) {
	status := SessionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid session status: %s", s)
	}
	return status, nil
}
