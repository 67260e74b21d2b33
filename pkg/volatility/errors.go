package volatility

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the execution layer
var (
	// ErrUnknownPlugin is returned when a plugin name is not registered
	ErrUnknownPlugin = goerr.New("not a valid plugin")

	// ErrInvalidProfile is returned when a session declares a profile the
	// registry does not know
	ErrInvalidProfile = goerr.New("not a valid profile")

	// ErrMissingParameter is returned when a plugin requires a parameter
	// (pid, physoffset) the caller did not supply. The plugin is not
	// invoked in that case.
	ErrMissingParameter = goerr.New("missing required parameter")

	// ErrPluginFailed wraps any error raised inside an invoked plugin,
	// including ones surfaced through the redirected fatal-error channel
	ErrPluginFailed = goerr.New("plugin execution failed")
)
