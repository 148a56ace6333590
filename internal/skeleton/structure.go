package skeleton

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/charmbracelet/log"

	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/folder"
	"github.com/wplizard/cli/internal/fsys"
	"github.com/wplizard/cli/internal/manifest"
	"github.com/wplizard/cli/internal/output"
	"github.com/wplizard/cli/internal/piece"
	"github.com/wplizard/cli/internal/prompt"
	"github.com/wplizard/cli/internal/selection"
)

// StructureIDPrefix prefixes the generated ID of the structure piece.
const StructureIDPrefix = "plugin-structure"

// Setup type choices.
const (
	SetupGuided = "Guided setup"
	SetupManual = "Manual setup"
)

// Structure collects the plugin's folders and creates them under the base
// directory.
type Structure struct {
	piece.Meta

	opts  Options
	log   *log.Logger
	paths *selection.Paths
	mode  string

	tree     *folder.Node
	executed bool
}

// NewStructure returns the folder structure piece.
func NewStructure(opts Options) *Structure {
	opts = opts.withDefaults()
	return &Structure{
		Meta: piece.Meta{
			PieceID:          piece.ID(opts.IDs.New(StructureIDPrefix)),
			PieceName:        "Define plugin structure",
			PieceDescription: "Guides you through the folders that make up your plugin's architecture.",
		},
		opts:  opts,
		log:   output.StepLogger(StructureIDPrefix),
		paths: selection.NewPaths(),
	}
}

// Paths returns the selected folders in creation order.
func (s *Structure) Paths() []string {
	return s.paths.List()
}

// Mode returns manifest.ModeGuided or manifest.ModeManual once Start succeeded.
func (s *Structure) Mode() string {
	return s.mode
}

// Descriptions returns a description for every selected folder that has one,
// catalog descriptions first, then those typed by the user.
func (s *Structure) Descriptions() map[string]string {
	out := make(map[string]string)
	for _, p := range s.paths.List() {
		if n, ok := s.opts.Catalog.Find(p); ok {
			out[p] = n.Description
		}
	}
	maps.Copy(out, s.paths.Descriptions())
	return out
}

// Restore seeds the selection from a stored artifact so Action can run
// without the interactive phase.
func (s *Structure) Restore(m *manifest.Manifest) {
	s.paths.Reset()
	for _, f := range m.Structure.Folders {
		s.paths.Add(f.Path, f.Description)
	}
	s.mode = m.Structure.Mode
}

// Start implements piece.Piece.
func (s *Structure) Start(ctx context.Context) error {
	s.log.Info("defining plugin structure")

	choice, err := s.opts.Prompter.Select(ctx, "Choose a setup type:", []prompt.Choice{
		{Label: SetupGuided, Value: manifest.ModeGuided},
		{Label: SetupManual, Value: manifest.ModeManual},
	}, manifest.ModeGuided)
	if err != nil {
		return err
	}

	switch choice {
	case manifest.ModeGuided:
		s.log.Debug("starting guided setup")
		err = selection.NewGuided(s.opts.Prompter, s.paths, s.log).Select(ctx, s.opts.Catalog.Roots())
	case manifest.ModeManual:
		s.log.Debug("starting manual setup")
		err = selection.NewManual(s.opts.Prompter, s.paths, s.log).Run(ctx)
	default:
		s.log.Error("invalid setup type selected", "type", choice)
		return fmt.Errorf("%w: invalid setup type %q", oerrors.ErrAborted, choice)
	}
	if err != nil {
		return err
	}

	s.mode = choice
	s.log.Info(fmt.Sprintf("%d folders enlisted for creation.", s.paths.Len()))
	return nil
}

// Action implements piece.Piece. A second call after success only warns.
func (s *Structure) Action(ctx context.Context) error {
	if s.executed {
		s.log.Warn("this step has already been executed")
		return nil
	}

	tree := folder.NewRoot(s.opts.basePath())
	for _, p := range s.paths.List() {
		tree.Insert(p)
	}
	s.tree = tree

	err := output.RunWithSpinner(ctx, func(ctx context.Context) error {
		return tree.Materialize(ctx, s.opts.FS, s.opts.Concurrency)
	}, output.WithTitle("Creating selected folders..."))
	if err != nil {
		var fe *fsys.Error
		if errors.As(err, &fe) {
			s.log.Debug(output.FormatFolderLine(fe.Path, output.StatusFailed))
		}
		s.log.Error("could not create the plugin folders; check your permissions", "err", err)
		return fmt.Errorf("creating plugin folders: %w", err)
	}
	s.executed = true
	tree.Walk(func(n *folder.Node) bool {
		if n != tree {
			s.log.Debug(output.FormatFolderLine(n.Rel(tree), folderStatus(n)))
		}
		return true
	})

	created := tree.CreatedNodes()
	rows := make([]output.FolderStatus, 0, len(created))
	for _, n := range created {
		info, err := n.Stat(s.opts.FS)
		if err != nil {
			return err
		}
		rows = append(rows, output.FolderStatus{
			Name:        n.Rel(tree),
			CreatedAt:   info.CreatedAt,
			Permissions: info.Permissions,
			SizeBytes:   info.SizeBytes,
		})
		if n == tree {
			rows[len(rows)-1].Name = s.opts.BaseDir
		}
	}

	fmt.Fprintln(s.opts.Out, output.RenderFolderTable(rows))
	fmt.Fprintln(s.opts.Out, output.FormatCheckmark(fmt.Sprintf("Created %d folders", len(created))))
	return nil
}

// Rollback implements piece.Piece. It removes only what Action created.
func (s *Structure) Rollback(ctx context.Context) error {
	if s.tree == nil {
		return nil
	}
	s.log.Info("disposing of created folders")

	owned := s.tree.CreatedNodes()
	err := s.tree.Rollback(ctx, s.opts.FS, s.opts.Concurrency)
	s.executed = false
	if err != nil {
		return fmt.Errorf("rolling back plugin folders: %w", err)
	}
	for _, n := range owned {
		name := n.Rel(s.tree)
		if n == s.tree {
			name = s.opts.BaseDir
		}
		s.log.Debug(output.FormatFolderLine(name, output.StatusRemoved))
	}
	return nil
}

func folderStatus(n *folder.Node) string {
	if n.Created() {
		return output.StatusCreated
	}
	return output.StatusReused
}
