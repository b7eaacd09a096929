package util

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrRunnerStopped = errors.New("task runner stopped")

type Runnable interface {
	Run(ctx context.Context) error
}

// RunnableFunc adapts a plain function to Runnable.
type RunnableFunc func(ctx context.Context) error

func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type TaskManager interface {
	Run()
	AddTask(task Runnable) error
	AddPeriodicTask(task Runnable, interval time.Duration) error
	Stop() error
}

// SimpleTaskRunner executes queued tasks on a fixed number of workers. The
// first task error cancels the context handed to every other task and is
// returned by Stop.
type SimpleTaskRunner struct {
	tasks           chan Runnable
	maxRunningTasks int

	eg    *errgroup.Group
	egCtx context.Context
	done  chan struct{}

	// protected by lock
	lock    sync.RWMutex
	started bool
	stopped bool
}

func NewSimpleTaskRunner(ctx context.Context, maxRunningTasks, queueSize int) *SimpleTaskRunner {
	if maxRunningTasks < 1 {
		maxRunningTasks = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	return &SimpleTaskRunner{
		tasks:           make(chan Runnable, max(queueSize, 0)),
		maxRunningTasks: maxRunningTasks,
		eg:              eg,
		egCtx:           egCtx,
		done:            make(chan struct{}),
	}
}

// Run starts the workers. Calling it more than once has no effect.
func (r *SimpleTaskRunner) Run() {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true

	for i := 0; i < r.maxRunningTasks; i++ {
		r.eg.Go(r.run)
	}
}

func (r *SimpleTaskRunner) run() error {
	for {
		select {
		case <-r.egCtx.Done():
			return nil
		case task, ok := <-r.tasks:
			if !ok {
				return nil
			}
			if err := task.Run(r.egCtx); err != nil {
				return err
			}
		}
	}
}

// AddTask queues task, blocking while the queue is full.
func (r *SimpleTaskRunner) AddTask(task Runnable) error {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.stopped || r.egCtx.Err() != nil {
		return ErrRunnerStopped
	}

	select {
	case r.tasks <- task:
		return nil
	case <-r.egCtx.Done():
		return ErrRunnerStopped
	}
}

// AddPeriodicTask runs task every interval until the runner stops.
func (r *SimpleTaskRunner) AddPeriodicTask(task Runnable, interval time.Duration) error {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.stopped {
		return ErrRunnerStopped
	}

	r.eg.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.egCtx.Done():
				return nil
			case <-r.done:
				return nil
			case <-ticker.C:
				if err := task.Run(r.egCtx); err != nil {
					return err
				}
			}
		}
	})
	return nil
}

// Stop closes the queue, lets the workers drain it and waits for every
// goroutine the runner started. It returns the first task error.
func (r *SimpleTaskRunner) Stop() error {
	r.lock.Lock()
	if !r.stopped {
		r.stopped = true
		close(r.tasks)
		close(r.done)
	}
	r.lock.Unlock()
	return r.eg.Wait()
}

// Context is canceled once a task fails or the parent context is done.
func (r *SimpleTaskRunner) Context() context.Context {
	return r.egCtx
}
