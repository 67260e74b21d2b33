package volatility

import (
	"sort"
	"strings"
	"sync"

	"github.com/volutil-lab/volutil/pkg/domain/model"
)

// Option keys shared between the base configuration and per-run overlays
const (
	keyProfile    = "profile"
	keyLocation   = "location"
	keyPID        = "pid"
	keyDumpDir    = "dump_dir"
	keyHiveOffset = "hive_offset"
)

// Config is an immutable set of named Volatility options. The base value
// seeds every module-agnostic switch with its documented default; overlays
// always yield a new value and never touch the origin, so concurrent runs
// against the same session cannot observe each other's parameters.
type Config struct {
	values map[string]any
}

// NewConfig builds the base configuration for an image. The caller's
// profile, when supplied and not auto-detect, overrides the default.
func NewConfig(imagePath, profile string) Config {
	values := map[string]any{
		keyProfile:        "WinXPSP2x86",
		"use_old_as":      nil,
		"kdbg":            nil,
		"help":            false,
		"kpcr":            nil,
		"tz":              nil,
		keyPID:            nil,
		"output_file":     nil,
		"physical_offset": nil,
		"conf_file":       nil,
		"dtb":             nil,
		"output":          nil,
		"info":            nil,
		keyLocation:       "file://" + imagePath,
		"plugins":         nil,
		"debug":           4,
		"cache_dtb":       true,
		"filename":        nil,
		"cache_directory": nil,
		"verbose":         nil,
		"write":           false,
	}

	if profile != "" && profile != AutoDetectProfile {
		values[keyProfile] = profile
	}

	return Config{values: values}
}

// Overlay carries the per-run parameters applied on top of the base
// configuration immediately before an execution.
type Overlay struct {
	PID        *int
	DumpDir    string
	HiveOffset *int64
	Options    map[string]string
}

// With returns a private deep copy of the configuration with the overlay
// applied. The receiver is never mutated.
func (c Config) With(o Overlay) Config {
	values := make(map[string]any, len(c.values)+len(o.Options))
	for k, v := range c.values {
		values[k] = v
	}

	if o.PID != nil {
		values[keyPID] = *o.PID
	}
	if o.DumpDir != "" {
		values[keyDumpDir] = o.DumpDir
	}
	if o.HiveOffset != nil {
		values[keyHiveOffset] = *o.HiveOffset
	}
	for key, value := range o.Options {
		values[strings.ToLower(key)] = value
	}

	return Config{values: values}
}

// Profile returns the configured profile name
func (c Config) Profile() string {
	profile, _ := c.values[keyProfile].(string)
	return profile
}

// ImagePath returns the memory image path extracted from the location URI
func (c Config) ImagePath() string {
	location, _ := c.values[keyLocation].(string)
	return strings.TrimPrefix(location, "file://")
}

// Value returns one option value and whether it is set to a non-nil value
func (c Config) Value(key string) (any, bool) {
	v, ok := c.values[strings.ToLower(key)]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Keys returns every option key in sorted order
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConfigBuilder memoizes the base configuration per session: once built it
// is returned unchanged on subsequent calls, mirroring the idempotent init
// of the upstream interface.
type ConfigBuilder struct {
	mu    sync.Mutex
	cache map[model.SessionID]Config
}

// NewConfigBuilder creates an empty builder
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cache: make(map[model.SessionID]Config),
	}
}

// For returns the base configuration of a session, building it on first use
func (b *ConfigBuilder) For(s *model.Session) Config {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cfg, ok := b.cache[s.ID]; ok {
		return cfg
	}

	cfg := NewConfig(s.ImagePath, s.Profile)
	b.cache[s.ID] = cfg
	return cfg
}

// Forget drops the memoized configuration of a session
func (b *ConfigBuilder) Forget(id model.SessionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.cache, id)
}
