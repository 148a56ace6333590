package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears every wplizard variable.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfig, "")
	for _, env := range envNames {
		t.Setenv(env, "")
	}
	return home
}

func TestResolveConfigPath_FlagPrecedence(t *testing.T) {
	home := isolate(t)
	t.Setenv(EnvConfig, "/env/config.yaml")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: "/flag/config.yaml"})

	require.NoError(t, err)
	assert.Equal(t, "/flag/config.yaml", result.ConfigPath)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])
	assert.Equal(t, filepath.Join(home, ".wplizard", "config.yaml"), result.Shadowed[SourceDefault])
}

func TestResolveConfigPath_EnvPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv(EnvConfig, "/env/config.yaml")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{})

	require.NoError(t, err)
	assert.Equal(t, "/env/config.yaml", result.ConfigPath)
	assert.Equal(t, SourceEnv, result.Source)
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolveConfigPath_Default(t *testing.T) {
	home := isolate(t)

	result, err := ResolveConfigPath(ResolveConfigPathOptions{})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".wplizard", "config.yaml"), result.ConfigPath)
	assert.Equal(t, SourceDefault, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestResolveString(t *testing.T) {
	isolate(t)
	t.Setenv(EnvName(KeyBaseDir), "env-dir")

	v := resolveString(KeyBaseDir, "flag-dir", "file-dir", "includes")

	assert.Equal(t, "flag-dir", v.Value)
	assert.Equal(t, SourceFlag, v.Source)
	assert.Equal(t, map[ConfigSource]string{
		SourceEnv:     "env-dir",
		SourceConfig:  "file-dir",
		SourceDefault: "includes",
	}, v.Shadowed)
}

func TestResolve_Defaults(t *testing.T) {
	home := isolate(t)

	s, err := Resolve(Flags{})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".wplizard", "config.yaml"), s.ConfigPath)
	assert.Equal(t, DefaultBaseDir, s.BaseDir)
	assert.Equal(t, DefaultConcurrency, s.Concurrency)
	assert.True(t, s.Lazy)
	assert.True(t, s.Timestamps)
	assert.Equal(t, DefaultArtifact, s.Artifact)
	for _, v := range s.Values {
		assert.Equal(t, SourceDefault, v.Source, v.Key)
	}
}

func TestResolve_Precedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
baseDir: file-dir
concurrency: 2
lazy: false
artifact: file.yaml
`), 0o644))
	t.Setenv(EnvName(KeyConcurrency), "6")

	lazy := true
	s, err := Resolve(Flags{Config: path, BaseDir: "flag-dir", Lazy: &lazy})

	require.NoError(t, err)
	assert.Equal(t, path, s.ConfigPath)
	assert.Equal(t, "flag-dir", s.BaseDir, "flag beats config")
	assert.Equal(t, 6, s.Concurrency, "env beats config")
	assert.True(t, s.Lazy, "flag beats config")
	assert.Equal(t, "file.yaml", s.Artifact, "config beats default")

	byKey := make(map[string]ResolvedValue)
	for _, v := range s.Values {
		byKey[v.Key] = v
	}
	assert.Equal(t, SourceFlag, byKey[KeyBaseDir].Source)
	assert.Equal(t, "file-dir", byKey[KeyBaseDir].Shadowed[SourceConfig])
	assert.Equal(t, SourceEnv, byKey[KeyConcurrency].Source)
	assert.Equal(t, "2", byKey[KeyConcurrency].Shadowed[SourceConfig])
	assert.Equal(t, SourceConfig, byKey[KeyArtifact].Source)
}

func TestResolve_InvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv(EnvName(KeyLazy), "sometimes")

	_, err := Resolve(Flags{Concurrency: "0", BaseDir: "/abs"})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{KeyConcurrency, KeyLazy, KeyBaseDir}, fields)
}
