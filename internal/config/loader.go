package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for wplizard configuration.
const envPrefix = "WPLIZARD"

// Config keys, as written in the config file.
const (
	KeyBaseDir       = "baseDir"
	KeyConcurrency   = "concurrency"
	KeyLazy          = "lazy"
	KeyArtifact      = "artifact"
	KeyLogTimestamps = "log.timestamps"
)

// envNames maps each key to its environment variable.
var envNames = map[string]string{
	KeyBaseDir:       envPrefix + "_BASE_DIR",
	KeyConcurrency:   envPrefix + "_CONCURRENCY",
	KeyLazy:          envPrefix + "_LAZY",
	KeyArtifact:      envPrefix + "_ARTIFACT",
	KeyLogTimestamps: envPrefix + "_LOG_TIMESTAMPS",
}

// EnvName returns the environment variable bound to key.
func EnvName(key string) string {
	return envNames[key]
}

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader. Environment variables take
// precedence over file values.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envNames {
		_ = v.BindEnv(key, env)
	}

	return &Loader{v: v}
}

// NewFileLoader returns a loader that reads only the file and ignores the
// environment.
func NewFileLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// A missing file is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration, validates it, and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg.WithDefaults(), nil
}
