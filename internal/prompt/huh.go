package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/wplizard/cli/internal/output"
)

// labelWidth caps how much of a choice description is shown inline.
const labelWidth = 72

// errDisabled is shown when the user picks a disabled choice.
var errDisabled = errors.New("this option is not available right now")

// Huh is a Prompter backed by charmbracelet/huh forms.
type Huh struct {
	accessible bool
}

// NewHuh returns a terminal Prompter. Without a TTY it falls back to huh's
// accessible mode, which reads plain lines from stdin.
func NewHuh() *Huh {
	return &Huh{accessible: !output.IsTTY()}
}

func (h *Huh) run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(h.accessible).
		WithShowHelp(true).
		RunWithContext(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huh.ErrUserAborted), errors.Is(err, context.Canceled):
		return ErrAborted
	default:
		return fmt.Errorf("prompt: %w", err)
	}
}

func optionLabel(c Choice) string {
	if c.Description == "" {
		return c.Label
	}
	desc := c.Description
	if len(desc) > labelWidth {
		desc = strings.TrimSpace(desc[:labelWidth-3]) + "..."
	}
	return c.Label + "  " + output.StyleDim.Render(desc)
}

// Select implements Prompter.
func (h *Huh) Select(ctx context.Context, message string, choices []Choice, def string) (string, error) {
	disabled := make(map[string]bool)
	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		label := c.Label
		if c.Disabled {
			disabled[c.Value] = true
			label = output.StyleDim.Render(label)
		}
		opts = append(opts, huh.NewOption(label, c.Value))
	}

	value := def
	field := huh.NewSelect[string]().
		Title(message).
		Options(opts...).
		Value(&value).
		Validate(func(v string) error {
			if disabled[v] {
				return errDisabled
			}
			return nil
		})

	if err := h.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

// MultiSelect implements Prompter.
func (h *Huh) MultiSelect(ctx context.Context, message string, choices []Choice, required bool) ([]int, error) {
	disabled := make(map[int]bool)
	opts := make([]huh.Option[int], 0, len(choices))
	for i, c := range choices {
		if c.Disabled {
			disabled[i] = true
		}
		opts = append(opts, huh.NewOption(optionLabel(c), i).Selected(c.Checked))
	}

	var picked []int
	field := huh.NewMultiSelect[int]().
		Title(message).
		Options(opts...).
		Value(&picked).
		Validate(func(v []int) error {
			if required && len(v) == 0 {
				return errors.New("select at least one option")
			}
			for _, i := range v {
				if disabled[i] {
					return errDisabled
				}
			}
			return nil
		})

	if err := h.run(ctx, field); err != nil {
		return nil, err
	}
	return picked, nil
}

// Confirm implements Prompter.
func (h *Huh) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	value := def
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := h.run(ctx, field); err != nil {
		return false, err
	}
	return value, nil
}

// Input implements Prompter.
func (h *Huh) Input(ctx context.Context, message string, validate Validator) (string, error) {
	var value string
	field := huh.NewInput().
		Title(message).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := h.run(ctx, field); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// LongInput implements Prompter.
func (h *Huh) LongInput(ctx context.Context, message string, validate Validator) (string, error) {
	var value string
	field := huh.NewText().
		Title(message).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := h.run(ctx, field); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
