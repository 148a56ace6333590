package wizard

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/piece"
	"github.com/wplizard/cli/internal/prompt"
	"github.com/wplizard/cli/internal/testutil"
)

// recorder counts calls on a piece.Func.
type recorder struct {
	*piece.Func
	starts, actions, rollbacks int
}

func newRecorder(id string) *recorder {
	r := &recorder{}
	r.Func = &piece.Func{
		Meta: piece.Meta{PieceID: piece.ID(id), PieceName: "Piece " + id, PieceDescription: "does " + id},
		StartFunc: func(context.Context) error {
			r.starts++
			return nil
		},
		ActionFunc: func(context.Context) error {
			r.actions++
			return nil
		},
		RollbackFunc: func(context.Context) error {
			r.rollbacks++
			return nil
		},
	}
	return r
}

func quiet() *log.Logger {
	return log.New(io.Discard)
}

func mustNew(t *testing.T, opts Options, steps ...*recorder) *Orchestrator {
	t.Helper()
	ps := make([]piece.Piece, 0, len(steps))
	for _, s := range steps {
		ps = append(ps, s)
	}
	opts.Logger = quiet()
	o, err := New(ps, opts)
	require.NoError(t, err)
	return o
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	_, err := New([]piece.Piece{newRecorder("a"), newRecorder("a")}, Options{Logger: quiet()})
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestNew_DefaultTerminalIsLast(t *testing.T) {
	o := mustNew(t, Options{}, newRecorder("a"), newRecorder("b"))
	assert.Equal(t, piece.ID("b"), o.TerminalID())
	assert.Equal(t, piece.ID("a"), o.Current().ID())
	assert.Equal(t, StatePending, o.State())
}

func TestAdvance_Lazy(t *testing.T) {
	p1, p2 := newRecorder("p1"), newRecorder("p2")
	o := mustNew(t, Options{Lazy: true}, p1, p2)
	ctx := context.Background()

	more, err := o.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, []piece.ID{"p1"}, o.Completed())
	assert.Equal(t, piece.ID("p2"), o.Current().ID())
	assert.Zero(t, p1.actions)

	more, err = o.Advance(ctx)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, []piece.ID{"p1", "p2"}, o.Completed())
	assert.Nil(t, o.Current())
	assert.Equal(t, StateCompleted, o.State())
	assert.Zero(t, p2.actions)
}

func TestRun_Eager(t *testing.T) {
	p1, p2, p3 := newRecorder("p1"), newRecorder("p2"), newRecorder("p3")
	o := mustNew(t, Options{}, p1, p2, p3)

	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, []piece.ID{"p1", "p2", "p3"}, o.Completed())
	for _, p := range []*recorder{p1, p2, p3} {
		assert.Equal(t, 1, p.starts, p.ID())
		assert.Equal(t, 1, p.actions, p.ID())
		assert.Zero(t, p.rollbacks, p.ID())
	}
	assert.Equal(t, StateCompleted, o.State())
	assert.Nil(t, o.Halt())
}

func TestRun_Empty(t *testing.T) {
	o := mustNew(t, Options{})
	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, StateCompleted, o.State())
}

func TestAdvance_StartFailureAborts(t *testing.T) {
	p1, p2 := newRecorder("p1"), newRecorder("p2")
	p1.StartFunc = func(context.Context) error { return prompt.ErrAborted }
	o := mustNew(t, Options{}, p1, p2)

	more, err := o.Advance(context.Background())
	assert.False(t, more)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrAborted)

	assert.Empty(t, o.Completed())
	assert.Nil(t, o.Current())
	assert.Equal(t, StateAborted, o.State())
	assert.Zero(t, p1.actions)
	assert.Zero(t, p1.rollbacks)

	halt := o.Halt()
	require.NotNil(t, halt)
	assert.Equal(t, piece.ID("p1"), halt.StepID)
	assert.Equal(t, PhaseStart, halt.Phase)
	assert.Equal(t, oerrors.ExitAborted, oerrors.ExitCodeFromError(err))

	// A halted run stays halted.
	more, err = o.Advance(context.Background())
	assert.False(t, more)
	assert.Same(t, halt, err)
}

func TestAdvance_ActionFailureRollsBack(t *testing.T) {
	p1, p2 := newRecorder("p1"), newRecorder("p2")
	boom := errors.New("disk full")
	p2.ActionFunc = func(context.Context) error { return boom }
	o := mustNew(t, Options{}, p1, p2)

	err := o.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []piece.ID{"p1"}, o.Completed())
	assert.Equal(t, 1, p2.rollbacks)
	assert.Zero(t, p1.rollbacks)
	assert.Nil(t, o.Current())
	assert.Equal(t, StateAborted, o.State())
	assert.Equal(t, PhaseAction, o.Halt().Phase)
	assert.Contains(t, err.Error(), `setup halted at step "Piece p2" during action`)
}

func TestAdvance_RollbackFailureIsJoined(t *testing.T) {
	p1 := newRecorder("p1")
	actionErr, rbErr := errors.New("action"), errors.New("rollback")
	p1.ActionFunc = func(context.Context) error { return actionErr }
	p1.RollbackFunc = func(context.Context) error { return rbErr }
	o := mustNew(t, Options{}, p1)

	err := o.Run(context.Background())
	assert.ErrorIs(t, err, actionErr)
	assert.ErrorIs(t, err, rbErr)
	assert.Equal(t, PhaseRollback, o.Halt().Phase)
}

func TestDisabled(t *testing.T) {
	a, b, c := newRecorder("a"), newRecorder("generate-config"), newRecorder("c")

	tests := []struct {
		name     string
		lazy     bool
		advances int
		want     map[piece.ID]bool
	}{
		{
			name: "fresh run locks everything but current",
			want: map[piece.ID]bool{"a": false, "generate-config": true, "c": true},
		},
		{
			name: "eager locks completed", advances: 1,
			want: map[piece.ID]bool{"a": true, "generate-config": false, "c": true},
		},
		{
			name: "lazy reopens completed", lazy: true, advances: 1,
			want: map[piece.ID]bool{"a": false, "generate-config": false, "c": true},
		},
		{
			name: "lazy never reopens the terminal step", lazy: true, advances: 2,
			want: map[piece.ID]bool{"a": false, "generate-config": true, "c": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := mustNew(t, Options{Lazy: tt.lazy, TerminalID: "generate-config"}, a, b, c)
			for range tt.advances {
				_, err := o.Advance(context.Background())
				require.NoError(t, err)
			}
			for id, want := range tt.want {
				assert.Equal(t, want, o.Disabled(id), id)
			}
		})
	}
}

func TestActivate(t *testing.T) {
	o := mustNew(t, Options{Lazy: true}, newRecorder("a"), newRecorder("b"))
	assert.True(t, o.Activate("b"))
	assert.Equal(t, piece.ID("b"), o.Current().ID())
	assert.False(t, o.Activate("nope"))
	assert.Equal(t, piece.ID("b"), o.Current().ID())
}

func TestSelectStep_RerunConfirmed(t *testing.T) {
	a, b := newRecorder("a"), newRecorder("b")
	script := testutil.NewScript(testutil.Choose("a"), testutil.Yes())
	o := mustNew(t, Options{Lazy: true, Prompter: script}, a, b)
	ctx := context.Background()

	require.NoError(t, o.Run(ctx))
	require.NoError(t, o.SelectStep(ctx))
	assert.Equal(t, piece.ID("a"), o.Current().ID())

	call := script.Calls[0]
	require.Len(t, call.Choices, 2)
	assert.Equal(t, "Step 1: Piece a ✔", call.Choices[0].Label)
	assert.False(t, call.Choices[0].Disabled)
	assert.True(t, call.Choices[1].Disabled, "terminal step stays locked")
	assert.Equal(t, 1, script.Asked(QuestionRerun))

	// Re-running does not duplicate the completion.
	require.NoError(t, o.Run(ctx))
	assert.Equal(t, 2, a.starts)
	assert.Equal(t, []piece.ID{"a", "b"}, o.Completed())
	assert.Nil(t, o.Current())
}

func TestSelectStep_DeclineRepresentsMenu(t *testing.T) {
	a, b := newRecorder("a"), newRecorder("b")
	script := testutil.NewScript(
		testutil.Choose("a"), testutil.No(),
		testutil.Choose("a"), testutil.Yes(),
	)
	o := mustNew(t, Options{Lazy: true, Prompter: script}, a, b)
	ctx := context.Background()

	require.NoError(t, o.Run(ctx))
	require.NoError(t, o.SelectStep(ctx))

	assert.Equal(t, []string{"Select a step:", QuestionRerun, "Select a step:", QuestionRerun}, script.Messages())
	assert.Equal(t, piece.ID("a"), o.Current().ID())
}

func TestSelectStep_DisabledChoiceIsRejected(t *testing.T) {
	a, b := newRecorder("a"), newRecorder("b")
	script := testutil.NewScript(testutil.Choose("b"), testutil.Choose("a"))
	o := mustNew(t, Options{Prompter: script}, a, b)

	require.NoError(t, o.SelectStep(context.Background()))
	assert.Equal(t, []string{"disabled: b"}, script.Rejected)
	assert.Equal(t, piece.ID("a"), o.Current().ID())
}

func TestSelectStep_NoPrompter(t *testing.T) {
	o := mustNew(t, Options{}, newRecorder("a"))
	assert.Error(t, o.SelectStep(context.Background()))
}

func TestApply(t *testing.T) {
	a, b, c := newRecorder("a"), newRecorder("b"), newRecorder("c")
	o := mustNew(t, Options{Lazy: true}, a, b, c)
	ctx := context.Background()
	require.NoError(t, o.Run(ctx))

	require.NoError(t, o.Apply(ctx, "c", "a"))
	assert.Equal(t, 1, a.actions)
	assert.Zero(t, b.actions)
	assert.Equal(t, 1, c.actions)

	require.NoError(t, o.Apply(ctx))
	assert.Equal(t, 2, a.actions)
	assert.Equal(t, 1, b.actions)
	assert.Equal(t, StateCompleted, o.State())
}

func TestApply_UnknownOrPending(t *testing.T) {
	o := mustNew(t, Options{Lazy: true}, newRecorder("a"), newRecorder("b"))
	err := o.Apply(context.Background(), "b")
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestApply_FailureRollsBackAndHalts(t *testing.T) {
	a, b := newRecorder("a"), newRecorder("b")
	a.ActionFunc = func(context.Context) error { return errors.New("nope") }
	o := mustNew(t, Options{Lazy: true}, a, b)
	ctx := context.Background()
	require.NoError(t, o.Run(ctx))

	err := o.Apply(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, a.rollbacks)
	assert.Zero(t, b.actions)
	assert.Equal(t, StateAborted, o.State())
	assert.Equal(t, piece.ID("a"), o.Halt().StepID)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "aborted", StateAborted.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestResume(t *testing.T) {
	a, b := newRecorder("a"), newRecorder("b")
	o := mustNew(t, Options{Lazy: true}, a, b)
	ctx := context.Background()

	require.NoError(t, o.Resume("a"))
	assert.Equal(t, []piece.ID{"a"}, o.Completed())
	assert.Equal(t, piece.ID("b"), o.Current().ID())
	assert.Zero(t, a.starts, "resumed steps are not started")

	require.NoError(t, o.Apply(ctx, "a"))
	assert.Equal(t, 1, a.actions)

	require.NoError(t, o.Resume("b"))
	assert.Nil(t, o.Current())
	assert.Equal(t, StateCompleted, o.State())
}

func TestResume_UnknownStep(t *testing.T) {
	o := mustNew(t, Options{Lazy: true}, newRecorder("a"))
	err := o.Resume("a", "zzz")
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
	assert.Empty(t, o.Completed(), "nothing is marked when an id is unknown")
}
