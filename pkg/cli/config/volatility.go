package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/domain/types"
	"github.com/volutil-lab/volutil/pkg/utils/logging"
	"github.com/volutil-lab/volutil/pkg/volatility"
)

// Volatility holds CLI flags for the analysis engine configuration
type Volatility struct {
	binary     string
	pluginDirs string
	configPath string
}

// Flags returns CLI flags for engine configuration
func (v *Volatility) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vol-binary",
			Usage:       "Path to the Volatility executable",
			Value:       "vol.py",
			Sources:     cli.EnvVars("VOLUTIL_VOL_BINARY"),
			Destination: &v.binary,
		},
		&cli.StringFlag{
			Name:        "vol-plugin-dirs",
			Usage:       "Additional plugin directories, colon separated",
			Sources:     cli.EnvVars("VOLUTIL_VOL_PLUGIN_DIRS"),
			Destination: &v.pluginDirs,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to a TOML file extending the plugin catalog",
			Sources:     cli.EnvVars("VOLUTIL_CONFIG"),
			Destination: &v.configPath,
		},
	}
}

// Configure builds the analysis engine from the flags and the optional
// catalog file.
func (v *Volatility) Configure() (*volatility.Engine, error) {
	var opts []volatility.RegistryOption

	if v.configPath != "" {
		catalog, err := LoadCatalog(v.configPath)
		if err != nil {
			return nil, err
		}
		opts = catalog.RegistryOptions()
		logging.Default().Info("Loaded plugin catalog overrides",
			"path", v.configPath,
			"profiles", len(catalog.Profiles),
			"exclusions", len(catalog.Exclusions),
			"plugins", len(catalog.Plugins),
		)
	}

	var runnerOpts []volatility.ExecRunnerOption
	if v.pluginDirs != "" {
		runnerOpts = append(runnerOpts, volatility.WithPluginDirs(v.pluginDirs))
	}

	registry := volatility.NewRegistry(opts...)
	runner := volatility.NewExecRunner(v.binary, runnerOpts...)

	return volatility.NewEngine(registry, runner), nil
}

// Catalog is the TOML representation of plugin-catalog overrides. It only
// extends the built-in registry; nothing built in can be removed except
// through the exclusion list.
type Catalog struct {
	Profiles   []string        `toml:"profiles"`
	Exclusions []string        `toml:"exclusions"`
	Plugins    []CatalogPlugin `toml:"plugin"`
}

// CatalogPlugin declares one extra plugin
type CatalogPlugin struct {
	Name           string `toml:"name"`
	Help           string `toml:"help"`
	Class          string `toml:"class"`
	Output         string `toml:"output"`
	RequiresPID    bool   `toml:"requires_pid"`
	RequiredOption string `toml:"required_option"`
}

// Validate checks if the CatalogPlugin is valid
func (p *CatalogPlugin) Validate() error {
	if p.Name == "" {
		return goerr.New("plugin name is required")
	}
	if p.Class != "" {
		if c := types.OSClass(p.Class); c != types.OSClassAny && c != types.OSClassWindows &&
			c != types.OSClassLinux && c != types.OSClassMac {
			return goerr.New("invalid plugin class", goerr.V("name", p.Name), goerr.V("class", p.Class))
		}
	}
	if p.Output != "" {
		if _, err := types.ParseEnvelopeKind(p.Output); err != nil {
			return goerr.Wrap(err, "invalid plugin output", goerr.V("name", p.Name))
		}
	}
	return nil
}

func (p *CatalogPlugin) descriptor() volatility.Descriptor {
	class := types.OSClass(p.Class)
	if p.Class == "" {
		class = types.OSClassAny
	}
	return volatility.Descriptor{
		Name:           p.Name,
		Help:           p.Help,
		Class:          class,
		OutputHint:     types.EnvelopeKind(p.Output),
		RequiresPID:    p.RequiresPID,
		RequiredOption: p.RequiredOption,
	}
}

// RegistryOptions converts the catalog into registry construction options
func (c *Catalog) RegistryOptions() []volatility.RegistryOption {
	var opts []volatility.RegistryOption
	if len(c.Profiles) > 0 {
		opts = append(opts, volatility.WithProfiles(c.Profiles))
	}
	if len(c.Exclusions) > 0 {
		opts = append(opts, volatility.WithExclusions(c.Exclusions))
	}
	if len(c.Plugins) > 0 {
		descriptors := make([]volatility.Descriptor, 0, len(c.Plugins))
		for _, p := range c.Plugins {
			descriptors = append(descriptors, p.descriptor())
		}
		opts = append(opts, volatility.WithPlugins(descriptors))
	}
	return opts
}

// LoadCatalog reads and validates a catalog file
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}

	var catalog Catalog
	if err := toml.Unmarshal(raw, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse catalog file", goerr.V("path", path))
	}

	for i := range catalog.Plugins {
		if err := catalog.Plugins[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid catalog plugin", goerr.V("path", path))
		}
	}

	return &catalog, nil
}
