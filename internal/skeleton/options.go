// Package skeleton implements the pieces that lay down a plugin's skeleton:
// its folder structure, optional dependency installation, and the
// configuration artifact.
package skeleton

import (
	"io"
	"os"
	"path/filepath"

	"github.com/wplizard/cli/internal/catalog"
	"github.com/wplizard/cli/internal/folder"
	"github.com/wplizard/cli/internal/fsys"
	"github.com/wplizard/cli/internal/identity"
	"github.com/wplizard/cli/internal/manifest"
	"github.com/wplizard/cli/internal/prompt"
)

// DefaultBaseDir is where selected folders are created, relative to the root.
const DefaultBaseDir = "includes"

// Options configures the pieces of a run.
type Options struct {
	// Root is the plugin directory.
	Root string

	// BaseDir is the folder, relative to Root, the structure is created in.
	BaseDir string

	// Artifact is the configuration file name, relative to Root.
	Artifact string

	// Lazy defers filesystem changes until the run is applied.
	Lazy bool

	// Concurrency bounds sibling folder creation.
	Concurrency int

	// RunInstallers adds the dependency installation step.
	RunInstallers bool

	Prompter prompt.Prompter
	FS       *fsys.Service
	Catalog  *catalog.Catalog
	IDs      identity.Generator
	Runner   Runner

	// Out receives reports meant for stdout.
	Out io.Writer
}

func (o Options) withDefaults() Options {
	if o.BaseDir == "" {
		o.BaseDir = DefaultBaseDir
	}
	if o.Artifact == "" {
		o.Artifact = manifest.FileName
	}
	if o.Concurrency < 1 {
		o.Concurrency = folder.DefaultConcurrency
	}
	if o.FS == nil {
		o.FS = fsys.NewOS()
	}
	if o.Catalog == nil {
		o.Catalog = catalog.MustDefault()
	}
	if o.IDs == nil {
		o.IDs = identity.NewUUID()
	}
	if o.Runner == nil {
		o.Runner = ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	return o
}

func (o Options) basePath() string {
	return filepath.Join(o.Root, o.BaseDir)
}

func (o Options) artifactPath() string {
	return filepath.Join(o.Root, o.Artifact)
}
