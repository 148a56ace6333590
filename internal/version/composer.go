package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// composerVersionRegex matches output like "Composer version 2.7.1 2024-02-09 15:26:28".
var composerVersionRegex = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// MinComposerMajor is the oldest composer major version the installers step supports.
const MinComposerMajor = 2

// ComposerInfo describes the composer installation found on PATH.
type ComposerInfo struct {
	// Version is the composer version.
	Version string `json:"version"`

	// Path is the path to the composer binary.
	Path string `json:"path"`

	// Supported indicates the major version is at least MinComposerMajor.
	Supported bool `json:"supported"`

	// Found indicates the binary was found.
	Found bool `json:"found"`

	// Message provides additional information.
	Message string `json:"message,omitempty"`
}

// DetectComposer finds composer on PATH and reads its version.
func DetectComposer(ctx context.Context) ComposerInfo {
	path, err := exec.LookPath("composer")
	if err != nil {
		return ComposerInfo{Message: "composer not found in PATH"}
	}

	cmd := exec.CommandContext(ctx, path, "--version", "--no-ansi")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return ComposerInfo{Path: path, Found: true, Message: "failed to get composer version: " + err.Error()}
	}

	v, err := extractVersion(out.String())
	if err != nil {
		return ComposerInfo{Path: path, Found: true, Message: err.Error()}
	}

	info := ComposerInfo{Version: v, Path: path, Found: true, Supported: ComposerSupported(v)}
	if !info.Supported {
		info.Message = fmt.Sprintf("unsupported - composer %d.x or newer required", MinComposerMajor)
	}
	return info
}

// extractVersion pulls the first semantic version out of composer's banner.
func extractVersion(output string) (string, error) {
	match := composerVersionRegex.FindString(output)
	if match == "" {
		return "", fmt.Errorf("could not parse version from output: %s", strings.TrimSpace(output))
	}
	return match, nil
}

// ComposerSupported reports whether version's major component is at least
// MinComposerMajor.
func ComposerSupported(version string) bool {
	major, _, ok := strings.Cut(strings.TrimPrefix(version, "v"), ".")
	if !ok {
		return false
	}
	var n int
	if _, err := fmt.Sscanf(major, "%d", &n); err != nil {
		return false
	}
	return n >= MinComposerMajor
}

// String returns a human-readable description of the installation.
func (c ComposerInfo) String() string {
	if !c.Found {
		return "  Binary Version: not found\n  Binary Path:    -"
	}

	status := "supported"
	if !c.Supported {
		status = c.Message
	}

	return fmt.Sprintf("  Binary Version: %s (%s)\n  Binary Path:    %s", c.Version, status, c.Path)
}
