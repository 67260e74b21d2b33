package types

import "fmt"

// OutputStyle is the rendering a caller requests for a plugin run.
// Plugins with a fixed output shape (pstree, imageinfo) ignore it.
type OutputStyle string

const (
	OutputStyleJSON OutputStyle = "json"
	OutputStyleText OutputStyle = "text"
)

// AllOutputStyles returns all valid output styles
func AllOutputStyles() []OutputStyle {
	return []OutputStyle{
		OutputStyleJSON,
		OutputStyleText,
	}
}

// IsValid checks if the output style is valid
func (s OutputStyle) IsValid() bool {
	switch s {
	case OutputStyleJSON,
		OutputStyleText:
		return true
	default:
		return false
	}
}

// Normalize returns the style, treating empty as OutputStyleJSON.
func (s OutputStyle) Normalize() OutputStyle {
	if s == "" {
		return OutputStyleJSON
	}
	return s
}

// String returns the string representation of the output style
func (s OutputStyle) String() string {
	return string(s)
}

// ParseOutputStyle parses a string into an OutputStyle
func ParseOutputStyle(s string) (OutputStyle, error) {
	style := OutputStyle(s)
	if !style.IsValid() {
		return "", fmt.Errorf("invalid output style: %s", s)
	}
	return style, nil
}
