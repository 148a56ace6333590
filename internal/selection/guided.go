package selection

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/wplizard/cli/internal/catalog"
	"github.com/wplizard/cli/internal/prompt"
)

// CustomLabel is the trailing choice that lets the user type a folder the
// catalog does not suggest.
const CustomLabel = "Custom"

// Frame is the state of one level of a guided walk. It is passed by value so
// every level owns its candidate list.
type Frame struct {
	// Candidates are the folders offered at this level.
	Candidates []catalog.Node

	// Path is the slash-delimited path of the level, empty at the top.
	Path string

	// Position holds the index chosen at each enclosing level.
	Position []int
}

// Guided walks a suggestion tree level by level with multi-select prompts.
type Guided struct {
	prompter prompt.Prompter
	paths    *Paths
	log      *log.Logger
}

// NewGuided returns a guided selector that records into paths.
func NewGuided(p prompt.Prompter, paths *Paths, logger *log.Logger) *Guided {
	return &Guided{prompter: p, paths: paths, log: logger}
}

// Select walks candidates from the top level. The candidates are copied and
// never modified.
func (g *Guided) Select(ctx context.Context, candidates []catalog.Node) error {
	return g.descend(ctx, Frame{Candidates: catalog.CloneNodes(candidates)})
}

func (g *Guided) descend(ctx context.Context, f Frame) error {
	g.log.Debug("selecting folders", "path", "./"+f.Path, "position", f.Position)

	choices := make([]prompt.Choice, 0, len(f.Candidates)+1)
	for _, n := range f.Candidates {
		label := n.Name
		if n.Recommended {
			label += " (recommended)"
		}
		choices = append(choices, prompt.Choice{
			Label:       label,
			Description: n.Description,
			Checked:     n.Recommended || g.paths.Has(catalog.Join(f.Path, n.Name)),
		})
	}
	custom := len(f.Candidates)
	choices = append(choices, prompt.Choice{Label: CustomLabel})

	chosen, err := g.prompter.MultiSelect(ctx,
		fmt.Sprintf("Select the folders you want to create [path: ./%s]:", f.Path), choices, true)
	if err != nil {
		return err
	}

	if slices.Contains(chosen, custom) {
		node, err := g.custom(ctx, f.Path)
		if err != nil {
			return err
		}
		f.Candidates = append(slices.Clip(f.Candidates), node)
	}

	chosen = slices.Clone(chosen)
	slices.Sort(chosen)
	chosen = slices.Compact(chosen)

	for _, i := range chosen {
		if i == custom {
			continue
		}
		if i < 0 || i >= len(f.Candidates) {
			return fmt.Errorf("%w: choice %d out of range", prompt.ErrAborted, i)
		}

		node := f.Candidates[i]
		full := catalog.Join(f.Path, node.Name)

		if !node.HasChildren() {
			g.paths.Add(full, node.Description)
			continue
		}

		next := Frame{
			Candidates: catalog.CloneNodes(node.Children),
			Path:       full,
			Position:   append(slices.Clone(f.Position), i),
		}
		if err := g.descend(ctx, next); err != nil {
			return err
		}
	}

	return nil
}

// custom asks for a folder the catalog does not offer and records it at once.
func (g *Guided) custom(ctx context.Context, parent string) (catalog.Node, error) {
	message := "Enter the name of the folder you want to create:"
	if parent != "" {
		message = fmt.Sprintf("Enter the name of the subfolder you want to create [path: ./%s]:", parent)
	}

	name, err := g.prompter.Input(ctx, message, newFolderValidator(g.paths, parent))
	if err != nil {
		return catalog.Node{}, err
	}

	desc, err := g.prompter.LongInput(ctx, "Enter a description for the custom folder:", validateDescription)
	if err != nil {
		return catalog.Node{}, err
	}

	full := catalog.Join(parent, name)
	g.paths.Add(full, desc)
	g.log.Debug("custom folder added", "path", full)

	return catalog.Node{Name: name, Description: desc}, nil
}
