package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/facture/internal/clock"
	"github.com/smallbiznis/facture/internal/scheduler"
)

type stubQueue struct {
	drainedAt []time.Time
	err       error
}

func (s *stubQueue) Enqueue(ctx context.Context, quotationID, customerName string, amount float64, createdBy, reason string) error {
	return nil
}

func (s *stubQueue) Drain(ctx context.Context, now time.Time) (int, error) {
	s.drainedAt = append(s.drainedAt, now)
	return 1, s.err
}

func TestTickDrainsWithClockTime(t *testing.T) {
	queue := &stubQueue{}
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	sched, err := scheduler.New(scheduler.Params{
		Log:   zap.NewNop(),
		Queue: queue,
		Clock: fake,
	})
	require.NoError(t, err)

	sched.Tick(context.Background())
	require.Len(t, queue.drainedAt, 1)
	assert.Equal(t, fake.Now(), queue.drainedAt[0])

	fake.Advance(time.Minute)
	sched.Tick(context.Background())
	require.Len(t, queue.drainedAt, 2)
	assert.Equal(t, fake.Now(), queue.drainedAt[1])
}

func TestTickSurvivesDrainError(t *testing.T) {
	queue := &stubQueue{err: errors.New("db gone")}
	sched, err := scheduler.New(scheduler.Params{
		Log:   zap.NewNop(),
		Queue: queue,
		Clock: clock.New(),
	})
	require.NoError(t, err)

	sched.Tick(context.Background())
	sched.Tick(context.Background())
	assert.Len(t, queue.drainedAt, 2)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := scheduler.New(scheduler.Params{})
	assert.ErrorIs(t, err, scheduler.ErrInvalidConfig)
}

func TestRunForeverStopsOnCancel(t *testing.T) {
	queue := &stubQueue{}
	sched, err := scheduler.New(scheduler.Params{
		Log:    zap.NewNop(),
		Queue:  queue,
		Clock:  clock.New(),
		Config: scheduler.Config{Interval: 5 * time.Millisecond},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.RunForever(ctx)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.NotEmpty(t, queue.drainedAt)
}
