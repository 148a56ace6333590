// Package manifest reads and writes the configuration artifact a wizard run
// leaves in the plugin root.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wplizard/cli/internal/catalog"
	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/fsys"
)

// FileName is the default artifact name.
const FileName = "wplizard.config.yaml"

// Version is the artifact schema version this build writes and reads.
const Version = 1

// Setup modes recorded for the folder structure.
const (
	ModeGuided = "guided"
	ModeManual = "manual"
)

// Manifest is the persisted outcome of a wizard run.
type Manifest struct {
	Version        int       `yaml:"version"`
	Plugin         string    `yaml:"plugin"`
	Lazy           bool      `yaml:"lazy"`
	BaseDir        string    `yaml:"baseDir"`
	Structure      Structure `yaml:"structure"`
	CompletedSteps []string  `yaml:"completedSteps"`
}

// Structure records how the folders were chosen and which ones.
type Structure struct {
	Mode    string   `yaml:"mode"`
	Folders []Folder `yaml:"folders"`
}

// Folder is one selected folder, relative to the base directory.
type Folder struct {
	Path        string `yaml:"path"`
	Description string `yaml:"description,omitempty"`
}

// Paths returns the folder paths in creation order.
func (m *Manifest) Paths() []string {
	out := make([]string, 0, len(m.Structure.Folders))
	for _, f := range m.Structure.Folders {
		out = append(out, f.Path)
	}
	return out
}

// Validate checks the schema version, the mode, and every folder segment.
func (m *Manifest) Validate() error {
	if m.Version != Version {
		return oerrors.NewValidationError(
			fmt.Sprintf("unsupported artifact version %d", m.Version), "", "version",
			fmt.Sprintf("This build reads version %d", Version))
	}
	switch m.Structure.Mode {
	case "", ModeGuided, ModeManual:
	default:
		return oerrors.NewValidationError(
			fmt.Sprintf("unknown setup mode %q", m.Structure.Mode), "", "structure.mode", "")
	}

	seen := make(map[string]bool, len(m.Structure.Folders))
	for _, f := range m.Structure.Folders {
		if seen[f.Path] {
			return oerrors.NewValidationError(
				fmt.Sprintf("folder %q listed twice", f.Path), "", "structure.folders", "")
		}
		seen[f.Path] = true
		for _, part := range strings.Split(f.Path, "/") {
			if !catalog.NamePattern.MatchString(part) {
				return oerrors.NewValidationError(
					fmt.Sprintf("invalid folder path %q", f.Path), "", "structure.folders",
					"Folder names start with an uppercase letter and contain only letters, digits, and underscores")
			}
		}
	}
	return nil
}

// Marshal encodes m as YAML.
func Marshal(m *Manifest) ([]byte, error) {
	return yaml.Marshal(m)
}

// Unmarshal decodes and validates an artifact.
func Unmarshal(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("malformed artifact: %v", err), "", "", "")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Write stores m at path.
func Write(svc *fsys.Service, path string, m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	return svc.WriteFile(path, data)
}

// Read loads and validates the artifact at path.
func Read(svc *fsys.Service, path string) (*Manifest, error) {
	data, err := svc.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oerrors.NewNotFoundError("no configuration artifact found", path,
			"Run 'wplizard setup' in this directory first")
	}
	if err != nil {
		return nil, err
	}

	m, err := Unmarshal(data)
	if err != nil {
		var detail *oerrors.DetailError
		if errors.As(err, &detail) {
			detail.Location = path
		}
		return nil, err
	}
	return m, nil
}
