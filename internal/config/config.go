// Package config provides configuration loading and management.
package config

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// Built-in defaults.
const (
	DefaultBaseDir     = "includes"
	DefaultConcurrency = 4
	DefaultLazy        = true
	DefaultTimestamps  = true
	DefaultArtifact    = "wplizard.config.yaml"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the wplizard CLI configuration.
// Loaded from ~/.wplizard/config.yaml.
type Config struct {
	// BaseDir is the folder, relative to the plugin root, the structure is
	// created in.
	// Env: WPLIZARD_BASE_DIR, Default: includes
	BaseDir string `mapstructure:"baseDir" yaml:"baseDir,omitempty"`

	// Concurrency bounds how many sibling folders are created at once.
	// Env: WPLIZARD_CONCURRENCY, Default: 4
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency,omitempty"`

	// Lazy defers filesystem changes until every step has been selected.
	// Env: WPLIZARD_LAZY, Default: true
	Lazy *bool `mapstructure:"lazy" yaml:"lazy,omitempty"`

	// Artifact is the name of the configuration file written to the plugin root.
	// Env: WPLIZARD_ARTIFACT, Default: wplizard.config.yaml
	Artifact string `mapstructure:"artifact" yaml:"artifact,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

// DefaultConfig returns a Config with all default values populated.
// Used by `wplizard config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:     DefaultBaseDir,
		Concurrency: DefaultConcurrency,
		Lazy:        boolPtr(DefaultLazy),
		Artifact:    DefaultArtifact,
		Log:         LogConfig{Timestamps: boolPtr(DefaultTimestamps)},
	}
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c *Config) WithDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.BaseDir == "" {
		out.BaseDir = def.BaseDir
	}
	if out.Concurrency == 0 {
		out.Concurrency = def.Concurrency
	}
	if out.Lazy == nil {
		out.Lazy = def.Lazy
	}
	if out.Artifact == "" {
		out.Artifact = def.Artifact
	}
	if out.Log.Timestamps == nil {
		out.Log.Timestamps = def.Log.Timestamps
	}
	return &out
}

// GlobalConfig holds CLI-wide settings resolved during PersistentPreRunE.
// It is populated once at startup and passed into every sub-command
// constructor.
type GlobalConfig struct {
	// Settings is nil until the root command has resolved the configuration.
	Settings *Settings

	// ResolveErr is why Settings could not be resolved, if it is nil.
	// Commands that do not need settings, such as config vet, still run.
	ResolveErr error

	// ConfigFlag is the raw --config flag value.
	ConfigFlag string

	Verbose bool
}

// Resolved returns the settings, or the error that prevented resolving them.
func (g *GlobalConfig) Resolved() (*Settings, error) {
	if g.Settings == nil {
		if g.ResolveErr != nil {
			return nil, g.ResolveErr
		}
		return nil, errors.New("configuration has not been resolved")
	}
	return g.Settings, nil
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
