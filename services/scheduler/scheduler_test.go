package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotwatch/torgiwatch/pkg/errors"
)

func TestSchedulerRunsEagerly(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, func(ctx context.Context) { runs.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(1), runs.Load())
}

func TestSchedulerFiresOnInterval(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Second, func(ctx context.Context) { runs.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerSkipsOverlappingRuns(t *testing.T) {
	var runs atomic.Int32
	release := make(chan struct{})
	s := New(time.Second, func(ctx context.Context) {
		runs.Add(1)
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// the eager run holds the job past two ticks
	time.Sleep(2500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	close(release)
	cancel()
	<-done
}

func TestSchedulerWaitsForEagerRunOnStop(t *testing.T) {
	var finished atomic.Bool
	started := make(chan struct{})
	s := New(time.Hour, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-started
	cancel()
	require.NoError(t, <-done)
	assert.True(t, finished.Load())
}

func TestSchedulerRejectsZeroInterval(t *testing.T) {
	s := New(0, func(ctx context.Context) {})

	err := s.Run(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
}

func TestSpec(t *testing.T) {
	assert.Equal(t, "@every 30m0s", New(30*time.Minute, nil).Spec())
}
