package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsAfterDelay(t *testing.T) {
	s := New(context.Background())
	done := make(chan struct{})

	s.Schedule(1, 10*time.Millisecond, func(context.Context) { close(done) })
	assert.Equal(t, 1, s.Pending(1))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	assert.Eventually(t, func() bool { return s.Pending(1) == 0 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_Flush(t *testing.T) {
	s := New(context.Background())
	var ran atomic.Int32

	for range 3 {
		s.Schedule(7, time.Hour, func(context.Context) { ran.Add(1) })
	}
	s.Schedule(8, time.Hour, func(context.Context) { ran.Add(100) })

	s.Flush(7)
	assert.EqualValues(t, 3, ran.Load())
	assert.Equal(t, 0, s.Pending(7))
	assert.Equal(t, 1, s.Pending(8))

	s.Flush(7)
	assert.EqualValues(t, 3, ran.Load(), "flushed tasks run once")
}

func TestScheduler_Cancel(t *testing.T) {
	s := New(context.Background())
	var ran atomic.Int32

	s.Schedule(1, 20*time.Millisecond, func(context.Context) { ran.Add(1) })
	cancelOne := s.Schedule(2, 20*time.Millisecond, func(context.Context) { ran.Add(10) })
	s.Schedule(2, time.Hour, func(context.Context) { ran.Add(100) })

	s.Cancel(1)
	cancelOne()
	assert.Equal(t, 1, s.Pending(2))

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 0, ran.Load())
}

func TestScheduler_Stop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(ctx)
	cancel()

	var ctxErr error
	ran := make(chan struct{}, 1)
	s.Schedule(3, time.Hour, func(taskCtx context.Context) {
		ctxErr = taskCtx.Err()
		ran <- struct{}{}
	})

	s.Stop()
	require.Len(t, ran, 1)
	assert.NoError(t, ctxErr, "tasks outlive the parent context")

	s.Schedule(3, time.Millisecond, func(context.Context) { t.Error("scheduled after stop") })
	time.Sleep(10 * time.Millisecond)
}

func TestScheduler_StopWhileTimersFire(t *testing.T) {
	for range 20 {
		s := New(context.Background())
		var started, finished atomic.Int32

		for i := range 50 {
			s.Schedule(int64(i%5), time.Duration(i%3)*time.Millisecond, func(context.Context) {
				started.Add(1)
				time.Sleep(time.Millisecond)
				finished.Add(1)
			})
		}

		s.Stop()
		assert.Equal(t, started.Load(), finished.Load(), "stop returned while a task was running")
		assert.EqualValues(t, 50, finished.Load(), "every pending task runs exactly once")
		for user := range int64(5) {
			assert.Equal(t, 0, s.Pending(user))
		}
	}
}

func TestScheduler_CancelReleasesStop(t *testing.T) {
	s := New(context.Background())
	cancelTask := s.Schedule(1, time.Hour, func(context.Context) { t.Error("cancelled task ran") })
	s.Schedule(2, time.Hour, func(context.Context) { t.Error("cancelled task ran") })

	cancelTask()
	cancelTask()
	s.Cancel(2)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop waits for cancelled tasks")
	}
}
