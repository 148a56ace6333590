// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/wplizard/cli/internal/prompt"
)

// ErrScriptExhausted is returned when a prompt is asked after the last
// scripted answer.
var ErrScriptExhausted = errors.New("script: no answers left")

type kind string

const (
	kindSelect kind = "select"
	kindMulti  kind = "multiselect"
	kindBool   kind = "confirm"
	kindText   kind = "text"
	kindAbort  kind = "abort"
)

// Answer is one scripted response.
type Answer struct {
	kind    kind
	value   string
	indices []int
	yes     bool
}

// Choose answers a Select with value.
func Choose(value string) Answer { return Answer{kind: kindSelect, value: value} }

// Pick answers a MultiSelect with indices.
func Pick(indices ...int) Answer { return Answer{kind: kindMulti, indices: indices} }

// Yes answers a Confirm with true.
func Yes() Answer { return Answer{kind: kindBool, yes: true} }

// No answers a Confirm with false.
func No() Answer { return Answer{kind: kindBool} }

// Text answers an Input or LongInput.
func Text(s string) Answer { return Answer{kind: kindText, value: s} }

// Abort cancels whatever prompt is asked next.
func Abort() Answer { return Answer{kind: kindAbort} }

// Call records one prompt shown to the user.
type Call struct {
	Kind    string
	Message string
	Choices []prompt.Choice
}

// Script is a prompt.Prompter that replays answers in order. Answers that a
// real prompt would reject (failed validation, disabled choices, an empty
// required selection) are recorded in Rejected and the prompt is asked again
// with the next answer.
type Script struct {
	answers  []Answer
	Calls    []Call
	Rejected []string
}

var _ prompt.Prompter = (*Script)(nil)

// NewScript returns a Script that replays answers.
func NewScript(answers ...Answer) *Script {
	return &Script{answers: answers}
}

// Push appends more answers.
func (s *Script) Push(answers ...Answer) {
	s.answers = append(s.answers, answers...)
}

// Remaining returns how many answers have not been consumed.
func (s *Script) Remaining() int {
	return len(s.answers)
}

// Messages returns the message of every prompt shown, in order.
func (s *Script) Messages() []string {
	out := make([]string, 0, len(s.Calls))
	for _, c := range s.Calls {
		out = append(out, c.Message)
	}
	return out
}

// Asked reports how many prompts contained substr.
func (s *Script) Asked(substr string) int {
	n := 0
	for _, c := range s.Calls {
		if strings.Contains(c.Message, substr) {
			n++
		}
	}
	return n
}

func (s *Script) next(ctx context.Context, want kind, message string, choices []prompt.Choice) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}
	s.Calls = append(s.Calls, Call{Kind: string(want), Message: message, Choices: slices.Clone(choices)})

	if len(s.answers) == 0 {
		return Answer{}, fmt.Errorf("%w (prompt %q)", ErrScriptExhausted, message)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]

	switch {
	case a.kind == kindAbort:
		return Answer{}, prompt.ErrAborted
	case a.kind != want:
		return Answer{}, fmt.Errorf("script: %s answer given to %s prompt %q", a.kind, want, message)
	}
	return a, nil
}

func (s *Script) reject(reason string) {
	s.Rejected = append(s.Rejected, reason)
}

// Select implements prompt.Prompter.
func (s *Script) Select(ctx context.Context, message string, choices []prompt.Choice, _ string) (string, error) {
	for {
		a, err := s.next(ctx, kindSelect, message, choices)
		if err != nil {
			return "", err
		}
		idx := slices.IndexFunc(choices, func(c prompt.Choice) bool { return c.Value == a.value })
		switch {
		case idx < 0:
			return "", fmt.Errorf("script: %q is not a choice of %q", a.value, message)
		case choices[idx].Disabled:
			s.reject(fmt.Sprintf("disabled: %s", a.value))
			continue
		}
		return a.value, nil
	}
}

// MultiSelect implements prompt.Prompter.
func (s *Script) MultiSelect(ctx context.Context, message string, choices []prompt.Choice, required bool) ([]int, error) {
	for {
		a, err := s.next(ctx, kindMulti, message, choices)
		if err != nil {
			return nil, err
		}
		if required && len(a.indices) == 0 {
			s.reject("required: " + message)
			continue
		}
		ok := true
		for _, i := range a.indices {
			if i < 0 || i >= len(choices) {
				return nil, fmt.Errorf("script: index %d out of range for %q", i, message)
			}
			if choices[i].Disabled {
				s.reject(fmt.Sprintf("disabled: %d", i))
				ok = false
			}
		}
		if !ok {
			continue
		}
		return slices.Clone(a.indices), nil
	}
}

// Confirm implements prompt.Prompter.
func (s *Script) Confirm(ctx context.Context, message string, _ bool) (bool, error) {
	a, err := s.next(ctx, kindBool, message, nil)
	if err != nil {
		return false, err
	}
	return a.yes, nil
}

// Input implements prompt.Prompter.
func (s *Script) Input(ctx context.Context, message string, validate prompt.Validator) (string, error) {
	return s.text(ctx, message, validate)
}

// LongInput implements prompt.Prompter.
func (s *Script) LongInput(ctx context.Context, message string, validate prompt.Validator) (string, error) {
	return s.text(ctx, message, validate)
}

func (s *Script) text(ctx context.Context, message string, validate prompt.Validator) (string, error) {
	for {
		a, err := s.next(ctx, kindText, message, nil)
		if err != nil {
			return "", err
		}
		if validate != nil {
			if err := validate(a.value); err != nil {
				s.reject(err.Error())
				continue
			}
		}
		return strings.TrimSpace(a.value), nil
	}
}
