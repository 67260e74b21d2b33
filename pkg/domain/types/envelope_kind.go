package types

import "fmt"

// EnvelopeKind identifies the normalized shape of stored plugin output
type EnvelopeKind string

const (
	// EnvelopeGraph is a DOT graph rendering (process trees)
	EnvelopeGraph EnvelopeKind = "graph"

	// EnvelopeText is a single preformatted cell holding the plugin's raw text
	EnvelopeText EnvelopeKind = "text"

	// EnvelopeStructured is the plugin's own row-oriented rendering decoded
	// into generic fields
	EnvelopeStructured EnvelopeKind = "structured"
)

// AllEnvelopeKinds returns all valid envelope kinds
func AllEnvelopeKinds() []EnvelopeKind {
	return []EnvelopeKind{
		EnvelopeGraph,
		EnvelopeText,
		EnvelopeStructured,
	}
}

// IsValid checks if the envelope kind is valid
func (k EnvelopeKind) IsValid() bool {
	switch k {
	case EnvelopeGraph,
		EnvelopeText,
		EnvelopeStructured:
		return true
	default:
		return false
	}
}

// String returns the string representation of the envelope kind
func (k EnvelopeKind) String() string {
	return string(k)
}

// ParseEnvelopeKind parses a string into an EnvelopeKind
func ParseEnvelopeKind(s string) (EnvelopeKind, error) {
	kind := EnvelopeKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid envelope kind: %s", s)
	}
	return kind, nil
}
