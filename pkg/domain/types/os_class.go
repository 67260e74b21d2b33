package types

import "strings"

// OSClass is the operating-system family a plugin or profile belongs to.
// Plugin compatibility is decided by matching the plugin's class against
// the class of the session's profile.
type OSClass string

const (
	OSClassAny     OSClass = "any"
	OSClassWindows OSClass = "windows"
	OSClassLinux   OSClass = "linux"
	OSClassMac     OSClass = "mac"
)

// OSClassForProfile derives the OS family from a profile name. Profile
// names follow the upstream convention: Linux and Mac profiles carry an
// explicit prefix, everything else is a Windows build signature.
func OSClassForProfile(profile string) OSClass {
	switch {
	case strings.HasPrefix(profile, "Linux"):
		return OSClassLinux
	case strings.HasPrefix(profile, "Mac"):
		return OSClassMac
	default:
		return OSClassWindows
	}
}

// Accepts reports whether a plugin of class c applies to the given profile
// class.
func (c OSClass) Accepts(profile OSClass) bool {
	return c == OSClassAny || c == profile
}

// String returns the string representation of the OS class
func (c OSClass) String() string {
	return string(c)
}
