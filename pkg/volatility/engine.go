package volatility

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

// Engine runs analysis plugins against a session's image and normalizes
// their output into envelopes.
type Engine struct {
	registry *Registry
	runner   Runner
	builder  *ConfigBuilder
}

// NewEngine creates an Engine over a plugin registry and a runner
func NewEngine(registry *Registry, runner Runner) *Engine {
	return &Engine{
		registry: registry,
		runner:   runner,
		builder:  NewConfigBuilder(),
	}
}

// Registry returns the engine's plugin catalog
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Forget drops the cached run configuration of a session. Call it after
// the session's profile changes or the session is deleted.
func (e *Engine) Forget(id model.SessionID) {
	e.builder.Forget(id)
}

// ExecuteInput is the call contract of one plugin run
type ExecuteInput struct {
	Session    *model.Session
	Plugin     string
	PID        *int
	DumpDir    string
	HiveOffset *int64
	Options    map[string]string
	Style      types.OutputStyle
}

// Execute runs one plugin by name and returns its normalized envelope.
//
// The plugin is resolved against the full registry, so a direct request
// may run plugins the catalog never lists. The run sees a private
// configuration snapshot with the input's parameters overlaid. Plugins
// with a fixed output shape keep it regardless of the requested style;
// plugins with a required parameter fail with ErrMissingParameter before
// any invocation. Every backend failure comes back wrapping
// ErrPluginFailed with the plugin's message.
func (e *Engine) Execute(ctx context.Context, in ExecuteInput) (*model.Envelope, error) {
	desc, ok := e.registry.Lookup(in.Plugin)
	if !ok {
		return nil, goerr.Wrap(ErrUnknownPlugin, "plugin is not registered", goerr.V("plugin", in.Plugin))
	}

	cfg := e.builder.For(in.Session).With(Overlay{
		PID:        in.PID,
		DumpDir:    in.DumpDir,
		HiveOffset: in.HiveOffset,
		Options:    in.Options,
	})

	if desc.RequiresPID && in.PID == nil {
		return nil, goerr.Wrap(ErrMissingParameter, "plugin requires a process id",
			goerr.V("plugin", in.Plugin),
			goerr.V("parameter", "pid"),
		)
	}
	if desc.RequiredOption != "" && !hasOption(in.Options, desc.RequiredOption) {
		return nil, goerr.Wrap(ErrMissingParameter, "plugin requires a run option",
			goerr.V("plugin", in.Plugin),
			goerr.V("parameter", desc.RequiredOption),
		)
	}

	kind := kindFor(desc, in.Style)

	raw, err := e.runner.Run(ctx, RunRequest{
		Plugin: in.Plugin,
		Config: cfg,
		Render: renderFor(kind),
	})
	if err != nil {
		if errors.Is(err, ErrPluginFailed) {
			return nil, err
		}
		return nil, goerr.Wrap(ErrPluginFailed, err.Error(), goerr.V("plugin", in.Plugin))
	}

	return adaptOutput(kind, raw)
}

// hasOption matches option keys case-insensitively, the same way the run
// config folds them.
func hasOption(options map[string]string, name string) bool {
	for key := range options {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}

// kindFor resolves the envelope shape of a run: a descriptor hint wins,
// otherwise the requested style decides.
func kindFor(desc Descriptor, style types.OutputStyle) types.EnvelopeKind {
	if desc.OutputHint != "" {
		return desc.OutputHint
	}
	if style.Normalize() == types.OutputStyleText {
		return types.EnvelopeText
	}
	return types.EnvelopeStructured
}
