package skeleton

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/manifest"
	"github.com/wplizard/cli/internal/output"
	"github.com/wplizard/cli/internal/piece"
)

// TerminalID is the ID of the step that finalizes the run. Once completed it
// can never be re-run.
const TerminalID piece.ID = "generate-config"

// Progress reports which steps of the run have completed, in order.
type Progress interface {
	Completed() []piece.ID
}

// GenerateConfig writes the configuration artifact describing the run.
type GenerateConfig struct {
	piece.Meta

	opts      Options
	log       *log.Logger
	structure *Structure
	progress  Progress
	wrote     bool
}

// NewGenerateConfig returns the terminal piece. It reads the selection from
// structure.
func NewGenerateConfig(opts Options, structure *Structure) *GenerateConfig {
	opts = opts.withDefaults()
	return &GenerateConfig{
		Meta: piece.Meta{
			PieceID:          TerminalID,
			PieceName:        "Generate config",
			PieceDescription: fmt.Sprintf("Saves the choices of the previous steps to %s.", opts.Artifact),
		},
		opts:      opts,
		log:       output.StepLogger(string(TerminalID)),
		structure: structure,
	}
}

// SetProgress wires the source of completed step IDs.
func (g *GenerateConfig) SetProgress(p Progress) {
	g.progress = p
}

// Manifest assembles the artifact from the current state of the run. The
// artifact always lists this step as completed, since writing it is what
// completes the step.
func (g *GenerateConfig) Manifest() *manifest.Manifest {
	m := &manifest.Manifest{
		Version:        manifest.Version,
		Plugin:         filepath.Base(filepath.Clean(g.opts.Root)),
		Lazy:           g.opts.Lazy,
		BaseDir:        g.opts.BaseDir,
		CompletedSteps: []string{},
		Structure:      manifest.Structure{Folders: []manifest.Folder{}},
	}
	if g.structure != nil {
		m.Structure.Mode = g.structure.Mode()
		desc := g.structure.Descriptions()
		for _, p := range g.structure.Paths() {
			m.Structure.Folders = append(m.Structure.Folders, manifest.Folder{Path: p, Description: desc[p]})
		}
	}
	if g.progress != nil {
		for _, id := range g.progress.Completed() {
			m.CompletedSteps = append(m.CompletedSteps, string(id))
		}
	}
	if !slices.Contains(m.CompletedSteps, string(g.ID())) {
		m.CompletedSteps = append(m.CompletedSteps, string(g.ID()))
	}
	return m
}

// Start implements piece.Piece. It shows the selected tree and asks for
// confirmation; declining aborts.
func (g *GenerateConfig) Start(ctx context.Context) error {
	if g.structure != nil {
		tree := output.RenderFolderTree(g.opts.BaseDir, g.structure.Paths(), g.structure.Descriptions())
		if tree != "" {
			fmt.Fprintln(g.opts.Out, tree)
		}
	}

	ok, err := g.opts.Prompter.Confirm(ctx, fmt.Sprintf("Write %s with this configuration?", g.opts.Artifact), true)
	if err != nil {
		return err
	}
	if !ok {
		g.log.Warn("configuration not confirmed")
		return fmt.Errorf("%w: configuration not confirmed", oerrors.ErrAborted)
	}
	return nil
}

// Action implements piece.Piece.
func (g *GenerateConfig) Action(_ context.Context) error {
	path := g.opts.artifactPath()
	existed := g.opts.FS.Exists(path)

	if err := manifest.Write(g.opts.FS, path, g.Manifest()); err != nil {
		return fmt.Errorf("writing %s: %w", g.opts.Artifact, err)
	}
	g.wrote = g.wrote || !existed

	fmt.Fprintln(g.opts.Out, output.FormatCheckmark("Wrote "+output.StyleNoun.Render(path)))
	return nil
}

// Rollback implements piece.Piece. A file this piece did not create is kept.
func (g *GenerateConfig) Rollback(_ context.Context) error {
	if !g.wrote {
		return nil
	}
	g.log.Info("removing configuration artifact")
	if err := g.opts.FS.Remove(g.opts.artifactPath()); err != nil {
		return err
	}
	g.wrote = false
	return nil
}
