package volatility

import "context"

// RenderMode is the rendering asked of the analysis backend for one run
type RenderMode string

const (
	RenderJSON RenderMode = "json"
	RenderText RenderMode = "text"
	RenderDot  RenderMode = "dot"
)

// RunRequest describes one plugin invocation. Config is the private
// snapshot built for this run; the runner must not retain it.
type RunRequest struct {
	Plugin string
	Config Config
	Render RenderMode
}

// Runner invokes one analysis plugin and returns its raw rendering. A
// plugin's own fatal-error channel is the runner's responsibility: every
// failure comes back as an error wrapping ErrPluginFailed with the
// plugin's message, never as a process exit. Each request computes the
// plugin output exactly once.
type Runner interface {
	Run(ctx context.Context, req RunRequest) ([]byte, error)
}
