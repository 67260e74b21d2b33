package volatility

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/utils/logging"
)

// ExecRunner invokes a Volatility command-line binary as a subprocess.
// The subprocess boundary is what turns the backend's fatal-error channel
// into a recoverable failure: a plugin that would abort the interpreter
// only kills its own process, and the exit status plus stderr come back
// as an ErrPluginFailed.
type ExecRunner struct {
	binary     string
	pluginDirs string
}

// ExecRunnerOption configures an ExecRunner
type ExecRunnerOption func(*ExecRunner)

// WithPluginDirs passes extra plugin directories to the binary
func WithPluginDirs(dirs string) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.pluginDirs = dirs
	}
}

// NewExecRunner creates a runner around the given Volatility binary path
func NewExecRunner(binary string, opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{binary: binary}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ Runner = &ExecRunner{}

// Run executes one plugin and captures its rendering from stdout
func (r *ExecRunner) Run(ctx context.Context, req RunRequest) ([]byte, error) {
	args := r.buildArgs(req)

	logging.From(ctx).Debug("invoking volatility",
		"binary", r.binary,
		"plugin", req.Plugin,
		"render", string(req.Render),
	)

	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, goerr.Wrap(ErrPluginFailed, lastStderrLine(stderr.String()),
			goerr.V("plugin", req.Plugin),
			goerr.V("error", err.Error()),
		)
	}

	return stdout.Bytes(), nil
}

func (r *ExecRunner) buildArgs(req RunRequest) []string {
	cfg := req.Config

	args := []string{"-f", cfg.ImagePath()}
	if profile := cfg.Profile(); profile != "" && profile != AutoDetectProfile {
		args = append(args, "--profile="+profile)
	}
	if r.pluginDirs != "" {
		args = append(args, "--plugins="+r.pluginDirs)
	}

	args = append(args, req.Plugin, "--output="+string(req.Render))

	if pid, ok := cfg.Value(keyPID); ok {
		args = append(args, fmt.Sprintf("--pid=%v", pid))
	}
	if dir, ok := cfg.Value(keyDumpDir); ok {
		args = append(args, fmt.Sprintf("--dump-dir=%v", dir))
	}
	if offset, ok := cfg.Value(keyHiveOffset); ok {
		args = append(args, fmt.Sprintf("--hive-offset=%v", offset))
	}
	if offset, ok := cfg.Value("physoffset"); ok {
		args = append(args, fmt.Sprintf("--physoffset=%v", offset))
	}

	return args
}

// lastStderrLine picks the final non-empty stderr line, which is where the
// backend prints its fatal-error message.
func lastStderrLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "plugin exited with failure"
}
