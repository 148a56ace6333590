package selection

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/wplizard/cli/internal/catalog"
	"github.com/wplizard/cli/internal/prompt"
)

// Questions asked while building folders by hand.
const (
	QuestionNest     = "Do you want to create subfolders for this folder?"
	QuestionTopLevel = "Do you want to add another top-level folder?"
)

// QuestionSibling is asked when backtracking to the folder at path.
func QuestionSibling(path string) string {
	return fmt.Sprintf("Do you want to create a sibling folder at this level? [path: ./%s]", path)
}

type frame struct {
	name   string
	parent string
}

func (f frame) path() string {
	return catalog.Join(f.parent, f.name)
}

// Manual builds a folder tree depth-first from typed names, keeping the open
// folders on a stack.
type Manual struct {
	prompter prompt.Prompter
	paths    *Paths
	log      *log.Logger
}

// NewManual returns a manual navigator that records into paths.
func NewManual(p prompt.Prompter, paths *Paths, logger *log.Logger) *Manual {
	return &Manual{prompter: p, paths: paths, log: logger}
}

// Run asks for folders until the user declines to add another top-level one.
// Only leaves are recorded; their parents are implied by the paths.
func (m *Manual) Run(ctx context.Context) error {
	var stack []frame
	current := ""

	for {
		message := "Enter the name of the folder you want to create:"
		if current != "" {
			message = fmt.Sprintf("Enter the name of the subfolder you want to create [path: ./%s]:", current)
		}

		validate := newFolderValidator(m.paths, current)
		name, err := m.prompter.Input(ctx, message, validate)
		if err != nil {
			return err
		}
		if err := validate(name); err != nil {
			m.log.Warn(err.Error())
			continue
		}
		full := catalog.Join(current, name)

		nest, err := m.prompter.Confirm(ctx, QuestionNest, false)
		if err != nil {
			return err
		}
		if nest {
			stack = append(stack, frame{name: name, parent: current})
			current = full
			continue
		}

		m.paths.Add(full, "")
		m.log.Debug("folder added", "path", full, "depth", len(stack))

		done, next, err := m.backtrack(ctx, &stack)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		current = next
	}
}

// backtrack pops frames until the user wants another folder at some level.
// It returns the path to continue naming at, or done when the user stops.
func (m *Manual) backtrack(ctx context.Context, stack *[]frame) (done bool, next string, err error) {
	for {
		if len(*stack) == 0 {
			more, err := m.prompter.Confirm(ctx, QuestionTopLevel, false)
			if err != nil {
				return false, "", err
			}
			return !more, "", nil
		}

		top := (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]

		sibling, err := m.prompter.Confirm(ctx, QuestionSibling(top.path()), false)
		if err != nil {
			return false, "", err
		}
		if sibling {
			*stack = append(*stack, top)
			return false, top.path(), nil
		}
	}
}
