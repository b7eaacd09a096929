package util

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSimpleTaskRunner_RunsEveryTask(t *testing.T) {
	r := NewSimpleTaskRunner(context.Background(), 3, 4)
	r.Run()

	var count atomic.Int32
	for i := 0; i < 20; i++ {
		require.NoError(t, r.AddTask(RunnableFunc(func(context.Context) error {
			count.Add(1)
			return nil
		})))
	}

	require.NoError(t, r.Stop())
	assert.EqualValues(t, 20, count.Load())
	goleak.VerifyNone(t)
}

func TestSimpleTaskRunner_LimitsConcurrency(t *testing.T) {
	const limit = 2
	r := NewSimpleTaskRunner(context.Background(), limit, 0)
	r.Run()

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		require.NoError(t, r.AddTask(RunnableFunc(func(context.Context) error {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return nil
		})))
	}
	wg.Wait()

	require.NoError(t, r.Stop())
	assert.LessOrEqual(t, peak.Load(), int32(limit))
	goleak.VerifyNone(t)
}

func TestSimpleTaskRunner_FirstErrorCancels(t *testing.T) {
	boom := errors.New("boom")
	r := NewSimpleTaskRunner(context.Background(), 2, 1)
	r.Run()

	blocked := make(chan struct{})
	require.NoError(t, r.AddTask(RunnableFunc(func(ctx context.Context) error {
		close(blocked)
		<-ctx.Done()
		return nil
	})))
	<-blocked
	require.NoError(t, r.AddTask(RunnableFunc(func(context.Context) error {
		return boom
	})))

	assert.ErrorIs(t, r.Stop(), boom)
	assert.Error(t, r.Context().Err())
	assert.ErrorIs(t, r.AddTask(RunnableFunc(func(context.Context) error { return nil })), ErrRunnerStopped)
	goleak.VerifyNone(t)
}

func TestSimpleTaskRunner_PeriodicTask(t *testing.T) {
	r := NewSimpleTaskRunner(context.Background(), 1, 0)
	r.Run()

	ticks := make(chan struct{}, 16)
	require.NoError(t, r.AddPeriodicTask(RunnableFunc(func(context.Context) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}), time.Millisecond))

	<-ticks
	<-ticks

	require.NoError(t, r.Stop())
	assert.ErrorIs(t, r.AddPeriodicTask(RunnableFunc(func(context.Context) error { return nil }), time.Second), ErrRunnerStopped)
	goleak.VerifyNone(t)
}

func TestSimpleTaskRunner_StopIsIdempotent(t *testing.T) {
	r := NewSimpleTaskRunner(context.Background(), 1, 0)
	r.Run()
	r.Run()

	require.NoError(t, r.Stop())
	require.NoError(t, r.Stop())
	goleak.VerifyNone(t)
}

func TestSimpleTaskRunner_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewSimpleTaskRunner(ctx, 2, 0)
	r.Run()

	cancel()
	assert.ErrorIs(t, r.AddTask(RunnableFunc(func(context.Context) error { return nil })), ErrRunnerStopped)
	require.NoError(t, r.Stop())
	goleak.VerifyNone(t)
}
