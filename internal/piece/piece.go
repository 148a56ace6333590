// Package piece defines the unit of work a wizard run is made of.
package piece

import "context"

// ID identifies a piece for completion tracking. It is unique within a run.
type ID string

// Piece is an independently startable, rollback-capable step.
type Piece interface {
	ID() ID
	Name() string
	Description() string

	// Optional pieces may be skipped without failing the run.
	Optional() bool

	// Start runs the interactive phase. A non-nil error wrapping
	// errors.ErrAborted means the user cancelled or picked an invalid
	// option.
	Start(ctx context.Context) error

	// Action applies what Start collected.
	Action(ctx context.Context) error

	// Rollback undoes whatever Action managed to do, including a partial run.
	Rollback(ctx context.Context) error
}

// Meta holds the read-only identity of a piece. Embed it to satisfy the
// metadata half of Piece.
type Meta struct {
	PieceID          ID
	PieceName        string
	PieceDescription string
	IsOptional       bool
}

// ID implements Piece.
func (m Meta) ID() ID { return m.PieceID }

// Name implements Piece.
func (m Meta) Name() string { return m.PieceName }

// Description implements Piece.
func (m Meta) Description() string { return m.PieceDescription }

// Optional implements Piece.
func (m Meta) Optional() bool { return m.IsOptional }

// Func is a Piece assembled from functions. Nil functions succeed.
type Func struct {
	Meta
	StartFunc    func(ctx context.Context) error
	ActionFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

// Start implements Piece.
func (f *Func) Start(ctx context.Context) error {
	if f.StartFunc == nil {
		return nil
	}
	return f.StartFunc(ctx)
}

// Action implements Piece.
func (f *Func) Action(ctx context.Context) error {
	if f.ActionFunc == nil {
		return nil
	}
	return f.ActionFunc(ctx)
}

// Rollback implements Piece.
func (f *Func) Rollback(ctx context.Context) error {
	if f.RollbackFunc == nil {
		return nil
	}
	return f.RollbackFunc(ctx)
}
