package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/wplizard/cli/internal/catalog"
	"github.com/wplizard/cli/internal/config"
	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/fsys"
	"github.com/wplizard/cli/internal/identity"
	"github.com/wplizard/cli/internal/manifest"
	"github.com/wplizard/cli/internal/output"
	"github.com/wplizard/cli/internal/piece"
	"github.com/wplizard/cli/internal/prompt"
	"github.com/wplizard/cli/internal/skeleton"
	"github.com/wplizard/cli/internal/wizard"
)

// QuestionReview is asked in lazy mode once every step has been completed.
const QuestionReview = "Do you want to revisit a completed step before saving?"

// Session holds everything one wizard run needs. Zero collaborators fall
// back to the terminal, the host filesystem, and the embedded catalog.
type Session struct {
	// Root is the plugin directory.
	Root string

	Lazy          bool
	RunInstallers bool
	Settings      *config.Settings

	Prompter prompt.Prompter
	FS       *fsys.Service
	Catalog  *catalog.Catalog
	IDs      identity.Generator
	Runner   skeleton.Runner

	// Out receives reports meant for stdout.
	Out io.Writer
}

func (s Session) options() skeleton.Options {
	opts := skeleton.Options{
		Root:          s.Root,
		Lazy:          s.Lazy,
		RunInstallers: s.RunInstallers,
		Prompter:      s.Prompter,
		FS:            s.FS,
		Catalog:       s.Catalog,
		IDs:           s.IDs,
		Runner:        s.Runner,
		Out:           s.Out,
	}
	if s.Settings != nil {
		opts.BaseDir = s.Settings.BaseDir
		opts.Artifact = s.Settings.Artifact
		opts.Concurrency = s.Settings.Concurrency
	}
	return opts
}

func (s Session) artifact() string {
	if s.Settings != nil && s.Settings.Artifact != "" {
		return s.Settings.Artifact
	}
	return manifest.FileName
}

// Run drives a complete wizard run in an empty plugin root. In lazy mode
// only the configuration artifact is written; folders wait for Apply.
func Run(ctx context.Context, s Session) error {
	if s.FS == nil {
		s.FS = fsys.NewOS()
	}
	if err := wizard.EnsureEmptyRoot(s.FS, s.Root); err != nil {
		return err
	}

	pipeline := skeleton.NewPipeline(s.options())
	orch, err := wizard.New(pipeline.Pieces(), wizard.Options{
		Lazy:       s.Lazy,
		TerminalID: skeleton.TerminalID,
		Prompter:   s.Prompter,
		Logger:     output.StepLogger("wizard"),
	})
	if err != nil {
		return err
	}
	pipeline.Config.SetProgress(orch)

	if err := orch.SelectStep(ctx); err != nil {
		return err
	}
	if err := orch.Run(ctx); err != nil {
		return err
	}

	if s.Lazy {
		for {
			again, err := s.Prompter.Confirm(ctx, QuestionReview, false)
			if err != nil {
				return err
			}
			if !again {
				break
			}
			if err := orch.SelectStep(ctx); err != nil {
				return err
			}
			if err := orch.Run(ctx); err != nil {
				return err
			}
		}

		// The artifact is the one thing a lazy run writes.
		if err := orch.Apply(ctx, skeleton.TerminalID); err != nil {
			return err
		}
	}

	printSummary(s.Out, orch)
	if s.Lazy {
		fmt.Fprintf(s.Out, "Folders were recorded but not created. Run 'wplizard setup apply %s' to create them.\n", s.Root)
	}
	return nil
}

// Apply materializes the folders recorded in the plugin root's artifact.
// With RunInstallers set, dependencies are installed afterwards.
func Apply(ctx context.Context, s Session) error {
	if s.FS == nil {
		s.FS = fsys.NewOS()
	}

	path := filepath.Join(s.Root, s.artifact())
	m, err := manifest.Read(s.FS, path)
	if err != nil {
		return err
	}
	output.Debug("artifact loaded", "path", path, "folders", len(m.Structure.Folders), "baseDir", m.BaseDir)

	opts := s.options()
	if m.BaseDir != "" {
		opts.BaseDir = m.BaseDir
	}

	structure := skeleton.NewStructure(opts)
	structure.Restore(m)

	steps := []piece.Piece{structure}
	if s.RunInstallers {
		steps = append(steps, skeleton.NewInstallers(opts))
	}

	orch, err := wizard.New(steps, wizard.Options{Lazy: true, Logger: output.StepLogger("apply")})
	if err != nil {
		return err
	}
	ids := make([]piece.ID, 0, len(steps))
	for _, p := range steps {
		ids = append(ids, p.ID())
	}
	if err := orch.Resume(ids...); err != nil {
		return err
	}
	if err := orch.Apply(ctx); err != nil {
		return err
	}

	fmt.Fprintln(s.Out, output.FormatCheckmark(fmt.Sprintf("Applied %s", output.StyleNoun.Render(path))))
	return nil
}

func printSummary(w io.Writer, orch *wizard.Orchestrator) {
	done := orch.Completed()
	fmt.Fprintln(w, output.FormatCheckmark(fmt.Sprintf("Setup complete: %d steps", len(done))))
	for i, p := range orch.Steps() {
		if orch.IsCompleted(p.ID()) {
			fmt.Fprintf(w, "  Step %d: %s\n", i+1, p.Name())
		}
	}
}

// Report logs why a run stopped and converts err into an ExitError the
// entry point will not print again.
func Report(err error) error {
	if err == nil {
		return nil
	}

	var halt *wizard.HaltError
	switch {
	case errors.As(err, &halt):
		output.Error(fmt.Sprintf("Setup halted at step %q during %s", halt.StepName, halt.Phase), "reason", halt.Err)
	case errors.Is(err, oerrors.ErrAborted):
		output.Error("Setup aborted", "reason", err)
	default:
		var detail *oerrors.DetailError
		if errors.As(err, &detail) {
			// Multi-line detail renders badly as a log value.
			output.Error("Setup failed")
			output.Details(detail.Error())
		} else {
			output.Error("Setup failed", "error", err)
		}
	}

	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}
