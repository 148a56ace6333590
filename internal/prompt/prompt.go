// Package prompt defines the interactive prompt service the wizard talks to
// and its terminal implementation.
package prompt

import (
	"context"
	"fmt"

	oerrors "github.com/wplizard/cli/internal/errors"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = fmt.Errorf("prompt cancelled: %w", oerrors.ErrAborted)

// Choice is one option of a Select or MultiSelect prompt.
type Choice struct {
	// Label is what the user sees.
	Label string

	// Description is optional help shown next to the label.
	Description string

	// Value is returned by Select. MultiSelect returns indices instead.
	Value string

	// Checked pre-selects the choice in a MultiSelect.
	Checked bool

	// Disabled choices are shown but cannot be picked.
	Disabled bool
}

// Validator checks a text answer. A non-nil error is shown and the
// question is asked again.
type Validator func(string) error

// Prompter asks the user questions. Only one prompt is pending at a time.
type Prompter interface {
	// Select returns the Value of the chosen choice. def is the Value
	// highlighted initially.
	Select(ctx context.Context, message string, choices []Choice, def string) (string, error)

	// MultiSelect returns the indices of the chosen choices in display order.
	// With required set at least one choice must be picked.
	MultiSelect(ctx context.Context, message string, choices []Choice, required bool) ([]int, error)

	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, message string, def bool) (bool, error)

	// Input reads a single line.
	Input(ctx context.Context, message string, validate Validator) (string, error)

	// LongInput reads free-form multi-line text.
	LongInput(ctx context.Context, message string, validate Validator) (string, error)
}
