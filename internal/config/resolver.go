package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/wplizard/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records how one setting was resolved.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// resolveString picks the first non-empty value in the order
// flag > env > config > default.
func resolveString(key, flag, config, def string) ResolvedValue {
	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, flag},
		{SourceEnv, os.Getenv(EnvName(key))},
		{SourceConfig, config},
		{SourceDefault, def},
	}

	result := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}
	return result
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) WPLIZARD_CONFIG env, (3) ~/.wplizard/config.yaml default
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	if opts.FlagValue != "" {
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	} else if envValue != "" {
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	} else {
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// Flags carries command-line overrides. Empty strings and nil pointers mean
// the flag was not given.
type Flags struct {
	Config      string
	BaseDir     string
	Concurrency string
	Lazy        *bool
	Timestamps  *bool
}

// Settings is the fully resolved configuration of one invocation.
type Settings struct {
	ConfigPath  string
	BaseDir     string
	Concurrency int
	Lazy        bool
	Timestamps  bool
	Artifact    string

	// Values records the resolution of every setting, in key order.
	Values []ResolvedValue
}

func boolString(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// Resolve loads the config file named by the flags (or the default path)
// and resolves every setting with precedence flag > env > config > default.
func Resolve(flags Flags) (*Settings, error) {
	pathResult, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: flags.Config})
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	file, err := NewFileLoader().Load(pathResult.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := Validate(file); err != nil {
		return nil, err
	}

	concurrency := ""
	if file.Concurrency != 0 {
		concurrency = strconv.Itoa(file.Concurrency)
	}

	values := []ResolvedValue{
		resolveString(KeyBaseDir, flags.BaseDir, file.BaseDir, DefaultBaseDir),
		resolveString(KeyConcurrency, flags.Concurrency, concurrency, strconv.Itoa(DefaultConcurrency)),
		resolveString(KeyLazy, boolString(flags.Lazy), boolString(file.Lazy), strconv.FormatBool(DefaultLazy)),
		resolveString(KeyArtifact, "", file.Artifact, DefaultArtifact),
		resolveString(KeyLogTimestamps, boolString(flags.Timestamps), boolString(file.Log.Timestamps), strconv.FormatBool(DefaultTimestamps)),
	}

	s := &Settings{
		ConfigPath: pathResult.ConfigPath,
		BaseDir:    values[0].Value,
		Artifact:   values[3].Value,
		Values:     values,
	}

	var errs ValidationErrors
	if s.Concurrency, err = strconv.Atoi(values[1].Value); err != nil || s.Concurrency < 1 {
		errs = append(errs, ValidationError{
			Field:   KeyConcurrency,
			Message: fmt.Sprintf("must be an integer of at least 1, got %q from %s", values[1].Value, values[1].Source),
		})
	}
	if s.Lazy, err = strconv.ParseBool(values[2].Value); err != nil {
		errs = append(errs, ValidationError{
			Field:   KeyLazy,
			Message: fmt.Sprintf("must be true or false, got %q from %s", values[2].Value, values[2].Source),
		})
	}
	if s.Timestamps, err = strconv.ParseBool(values[4].Value); err != nil {
		errs = append(errs, ValidationError{
			Field:   KeyLogTimestamps,
			Message: fmt.Sprintf("must be true or false, got %q from %s", values[4].Value, values[4].Source),
		})
	}
	if err := Validate(&Config{BaseDir: s.BaseDir, Artifact: s.Artifact}); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return s, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
