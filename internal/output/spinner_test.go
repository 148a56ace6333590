package output

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithSpinner_NoTTYRunsAction(t *testing.T) {
	called := false
	err := RunWithSpinner(context.Background(), func(context.Context) error {
		called = true
		return nil
	}, WithTitle("Working..."))

	require.NoError(t, err)
	assert.True(t, called)
}

func TestRunWithSpinner_TimeoutBoundsContext(t *testing.T) {
	err := RunWithSpinner(context.Background(), func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}, WithTimeout(time.Minute))
	require.NoError(t, err)
}

func TestRunJoined_ShowStopsWhenActionReturns(t *testing.T) {
	err := runJoined(context.Background(),
		func(context.Context) error { return nil },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	assert.NoError(t, err)
}

func TestRunJoined_ActionErrorWins(t *testing.T) {
	boom := errors.New("boom")
	err := runJoined(context.Background(),
		func(context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	assert.ErrorIs(t, err, boom)
}

func TestRunJoined_InterruptCancelsAndWaitsForAction(t *testing.T) {
	interrupted := errors.New("program was interrupted")
	var finished atomic.Bool

	err := runJoined(context.Background(),
		func(ctx context.Context) error {
			<-ctx.Done()
			finished.Store(true)
			return nil
		},
		func(context.Context) error { return interrupted })

	assert.True(t, finished.Load(), "action must finish before returning")
	assert.ErrorIs(t, err, interrupted)
}

func TestRunJoined_InterruptReportsActionError(t *testing.T) {
	err := runJoined(context.Background(),
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
		func(context.Context) error { return errors.New("interrupted") })

	assert.ErrorIs(t, err, context.Canceled)
}
