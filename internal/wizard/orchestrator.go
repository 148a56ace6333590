// Package wizard sequences the pieces of a setup run.
//
// An Orchestrator walks an ordered list of pieces. Each piece is started
// (its interactive phase) and, unless the run is lazy, applied right away.
// A failed Action is rolled back and halts the run; a failed Start halts it
// without touching the filesystem. In lazy mode completed steps may be
// revisited through SelectStep and their effects are deferred to Apply.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/output"
	"github.com/wplizard/cli/internal/piece"
	"github.com/wplizard/cli/internal/prompt"
)

// QuestionRerun is asked before re-running a completed step in lazy mode.
const QuestionRerun = "This step has already been completed. Do you want to rerun it?"

// State is the lifecycle state of a run.
type State int

const (
	// StatePending means no piece is active.
	StatePending State = iota
	// StateSelecting means the current piece's Start is running.
	StateSelecting
	// StateApplying means a piece's Action is running.
	StateApplying
	// StateCompleted means every piece is done.
	StateCompleted
	// StateAborted means the run halted.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSelecting:
		return "selecting"
	case StateApplying:
		return "applying"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Phase names the part of a piece that was running when a run halted.
type Phase string

const (
	PhaseStart    Phase = "start"
	PhaseAction   Phase = "action"
	PhaseRollback Phase = "rollback"
)

// HaltError reports which step stopped the run, in which phase, and why.
type HaltError struct {
	StepID   piece.ID
	StepName string
	Phase    Phase
	Err      error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("setup halted at step %q during %s: %v", e.StepName, e.Phase, e.Err)
}

func (e *HaltError) Unwrap() error {
	return e.Err
}

// Options configures an Orchestrator.
type Options struct {
	// Lazy defers every Action until Apply.
	Lazy bool

	// TerminalID is the step that can never be revisited once completed.
	// Defaults to the ID of the last step.
	TerminalID piece.ID

	// Prompter renders the step menu. Only SelectStep needs it.
	Prompter prompt.Prompter

	Logger *log.Logger
}

// Orchestrator drives an ordered list of pieces. It is not safe for
// concurrent use; one piece is active at a time.
type Orchestrator struct {
	steps    []piece.Piece
	index    map[piece.ID]int
	lazy     bool
	terminal piece.ID
	prompter prompt.Prompter
	log      *log.Logger

	completed []piece.ID
	done      map[piece.ID]bool
	current   piece.Piece
	state     State
	halt      *HaltError
}

// New returns an Orchestrator positioned at the first step. Step IDs must be
// unique.
func New(steps []piece.Piece, opts Options) (*Orchestrator, error) {
	index := make(map[piece.ID]int, len(steps))
	for i, p := range steps {
		if p == nil {
			return nil, oerrors.NewValidationError(fmt.Sprintf("step %d is nil", i+1), "", "steps", "")
		}
		if _, dup := index[p.ID()]; dup {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("duplicate step id %q", p.ID()), "", "steps",
				"Every step of a run needs its own id")
		}
		index[p.ID()] = i
	}

	o := &Orchestrator{
		steps:    slices.Clone(steps),
		index:    index,
		lazy:     opts.Lazy,
		terminal: opts.TerminalID,
		prompter: opts.Prompter,
		log:      opts.Logger,
		done:     make(map[piece.ID]bool, len(steps)),
	}
	if o.log == nil {
		o.log = output.StepLogger("wizard")
	}
	if o.terminal == "" && len(steps) > 0 {
		o.terminal = steps[len(steps)-1].ID()
	}
	if len(o.steps) > 0 {
		o.current = o.steps[0]
	}
	return o, nil
}

// Steps returns the pieces in run order.
func (o *Orchestrator) Steps() []piece.Piece {
	return slices.Clone(o.steps)
}

// Completed returns the IDs of completed steps in completion order. It
// satisfies the progress source the terminal step reads.
func (o *Orchestrator) Completed() []piece.ID {
	return slices.Clone(o.completed)
}

// IsCompleted reports whether id has completed.
func (o *Orchestrator) IsCompleted(id piece.ID) bool {
	return o.done[id]
}

// Current returns the active piece or nil when the run finished or halted.
func (o *Orchestrator) Current() piece.Piece {
	return o.current
}

// State returns the lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Lazy reports whether Actions are deferred.
func (o *Orchestrator) Lazy() bool {
	return o.lazy
}

// TerminalID returns the ID of the step that cannot be revisited.
func (o *Orchestrator) TerminalID() piece.ID {
	return o.terminal
}

// Halt returns why the run stopped, or nil.
func (o *Orchestrator) Halt() *HaltError {
	return o.halt
}

// Advance runs one transition: it starts the current piece, applies it when
// the run is eager, and moves to the next step. more is false once the run
// completed or halted; err is the *HaltError in the latter case.
func (o *Orchestrator) Advance(ctx context.Context) (more bool, err error) {
	if o.state == StateAborted {
		return false, o.halt
	}
	if o.current == nil {
		o.state = StateCompleted
		return false, nil
	}

	p := o.current
	o.state = StateSelecting
	o.log.Debug("starting step", "id", p.ID(), "name", p.Name())
	if err := p.Start(ctx); err != nil {
		o.log.Warn("step was not completed", "step", p.Name(), "err", err)
		return false, o.abort(p, PhaseStart, err)
	}

	if !o.lazy {
		if err := o.apply(ctx, p); err != nil {
			return false, err
		}
	}

	o.complete(p.ID())
	o.current = o.next()
	if o.current == nil {
		o.state = StateCompleted
		return false, nil
	}
	o.state = StatePending
	return true, nil
}

// Run advances until no current piece remains.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		more, err := o.Advance(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Disabled reports whether the step menu must lock id. Steps not reached yet
// are locked; completed steps can be revisited only in lazy mode, and never
// the terminal one.
func (o *Orchestrator) Disabled(id piece.ID) bool {
	done := o.done[id]
	isCurrent := o.current != nil && o.current.ID() == id
	return (!done && !isCurrent) || (done && (!o.lazy || id == o.terminal))
}

// Activate makes the step with id current. It returns false for unknown IDs.
func (o *Orchestrator) Activate(id piece.ID) bool {
	i, ok := o.index[id]
	if !ok {
		return false
	}
	o.current = o.steps[i]
	if o.state != StateAborted {
		o.state = StatePending
	}
	return true
}

// Resume marks ids as completed, in order, without starting them, and moves
// the current step past them. It seeds a run whose selections were recorded
// by an earlier process so Apply can materialize them.
func (o *Orchestrator) Resume(ids ...piece.ID) error {
	for _, id := range ids {
		if _, ok := o.index[id]; !ok {
			return oerrors.NewNotFoundError(fmt.Sprintf("unknown step %q", id), "", "")
		}
	}
	for _, id := range ids {
		o.complete(id)
	}
	o.current = o.next()
	if o.current == nil && o.state != StateAborted {
		o.state = StateCompleted
	}
	return nil
}

// SelectStep shows the step menu and activates the chosen step. Choosing a
// completed step in lazy mode asks for confirmation first; declining shows
// the menu again.
func (o *Orchestrator) SelectStep(ctx context.Context) error {
	if o.prompter == nil {
		return errors.New("wizard: no prompter configured")
	}

	for {
		def := ""
		if o.current != nil {
			def = string(o.current.ID())
		}

		choices := make([]prompt.Choice, 0, len(o.steps))
		for i, p := range o.steps {
			label := fmt.Sprintf("Step %d: %s", i+1, p.Name())
			if o.done[p.ID()] {
				label += " ✔"
			}
			choices = append(choices, prompt.Choice{
				Label:       label,
				Description: p.Description(),
				Value:       string(p.ID()),
				Disabled:    o.Disabled(p.ID()),
			})
		}

		v, err := o.prompter.Select(ctx, "Select a step:", choices, def)
		if err != nil {
			return err
		}
		id := piece.ID(v)

		if o.lazy && o.done[id] && id != o.terminal {
			ok, err := o.prompter.Confirm(ctx, QuestionRerun, false)
			if err != nil {
				return err
			}
			if !ok {
				o.log.Info("Skipping step...")
				continue
			}
		}

		if !o.Activate(id) {
			return oerrors.NewNotFoundError(fmt.Sprintf("unknown step %q", id), "", "")
		}
		return nil
	}
}

// Apply runs the Action of completed steps in completion order: every one,
// or only those named by ids. A failing Action is rolled back and halts the
// run.
func (o *Orchestrator) Apply(ctx context.Context, ids ...piece.ID) error {
	if o.state == StateAborted {
		return o.halt
	}

	targets := o.completed
	if len(ids) > 0 {
		for _, id := range ids {
			if !o.done[id] {
				return oerrors.NewNotFoundError(
					fmt.Sprintf("step %q has not been completed", id), "",
					"Only completed steps can be applied")
			}
		}
		targets = slices.DeleteFunc(slices.Clone(o.completed), func(id piece.ID) bool {
			return !slices.Contains(ids, id)
		})
	}

	for _, id := range targets {
		if err := o.apply(ctx, o.steps[o.index[id]]); err != nil {
			return err
		}
	}

	if o.current == nil {
		o.state = StateCompleted
	} else {
		o.state = StatePending
	}
	return nil
}

func (o *Orchestrator) apply(ctx context.Context, p piece.Piece) error {
	o.state = StateApplying
	o.log.Debug("applying step", "id", p.ID(), "name", p.Name())

	err := p.Action(ctx)
	if err == nil {
		return nil
	}

	o.log.Error("step failed, rolling back", "step", p.Name(), "err", err)
	if rbErr := p.Rollback(ctx); rbErr != nil {
		o.log.Error("rollback failed", "step", p.Name(), "err", rbErr)
		return o.abort(p, PhaseRollback, errors.Join(err, rbErr))
	}
	return o.abort(p, PhaseAction, err)
}

func (o *Orchestrator) abort(p piece.Piece, phase Phase, err error) error {
	o.current = nil
	o.state = StateAborted
	o.halt = &HaltError{StepID: p.ID(), StepName: p.Name(), Phase: phase, Err: err}
	return o.halt
}

func (o *Orchestrator) complete(id piece.ID) {
	if o.done[id] {
		return
	}
	o.done[id] = true
	o.completed = append(o.completed, id)
}

func (o *Orchestrator) next() piece.Piece {
	if len(o.completed) >= len(o.steps) {
		return nil
	}
	return o.steps[len(o.completed)]
}
