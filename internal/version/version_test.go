package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()

	require.NotEmpty(t, info.GoVersion, "GoVersion should be populated")
	assert.Equal(t, Version, info.Version)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc123",
		BuildDate: "2026-01-29",
		GoVersion: "go1.25",
	}

	str := info.String()

	assert.Contains(t, str, "v1.0.0")
	assert.Contains(t, str, "abc123")
	assert.Contains(t, str, "2026-01-29")
	assert.Contains(t, str, "go1.25")
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{name: "composer 2 banner", output: "Composer version 2.7.1 2024-02-09 15:26:28", want: "2.7.1"},
		{name: "prerelease", output: "Composer version 2.8.0-RC1 2024-09-01", want: "2.8.0-RC1"},
		{name: "leading warnings", output: "PHP Warning: x\nComposer version 1.10.26 2022-04-13", want: "1.10.26"},
		{name: "garbage", output: "command not found", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractVersion(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposerSupported(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"2.7.1", true},
		{"v2.0.0", true},
		{"3.0.0", true},
		{"1.10.26", false},
		{"2", false},
		{"", false},
		{"x.y.z", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposerSupported(tt.version))
		})
	}
}

func TestComposerInfoString(t *testing.T) {
	assert.Contains(t, ComposerInfo{}.String(), "not found")

	ok := ComposerInfo{Version: "2.7.1", Path: "/usr/bin/composer", Found: true, Supported: true}
	assert.Contains(t, ok.String(), "2.7.1 (supported)")
	assert.Contains(t, ok.String(), "/usr/bin/composer")

	old := ComposerInfo{Version: "1.10.0", Path: "/usr/bin/composer", Found: true, Message: "unsupported"}
	assert.Contains(t, old.String(), "1.10.0 (unsupported)")
}

func TestFullVersionString(t *testing.T) {
	s := FullVersionString(Info{Version: "v1.2.3"}, ComposerInfo{})
	assert.Contains(t, s, "v1.2.3")
	assert.Contains(t, s, "Composer:")
	assert.Contains(t, s, "not found")
}
