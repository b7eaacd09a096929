package isolate

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/johnjamespj/corelib/pkg/logger"
	"github.com/rs/zerolog"
)

var (
	ErrQueueFull      = fmt.Errorf("isolate queue is full")
	ErrIsolateStopped = fmt.Errorf("isolate stopped")
)

// Entry is the first function run on a new isolate. msg is the isolate's
// own copy of the spawn message.
type Entry func(iso *Isolate, msg any) error

// Isolate is an execution context that shares nothing with other isolates.
// Messages for its ports are appended to an inbox of frames and delivered
// by its event loop.
type Isolate struct {
	id       uuid.UUID
	name     string
	registry *Registry
	log      zerolog.Logger

	wake     chan struct{}
	kill     chan struct{}
	exited   chan struct{}
	exitOnce sync.Once

	// protected by lock
	lock     sync.Mutex
	inbox    *bytes.Buffer
	frames   *FrameWriter
	pending  int
	stopping bool
	err      error
}

func newIsolate(registry *Registry, name string) *Isolate {
	iso := &Isolate{
		id:       uuid.New(),
		name:     name,
		registry: registry,
		wake:     make(chan struct{}, 1),
		kill:     make(chan struct{}),
		exited:   make(chan struct{}),
		inbox:    new(bytes.Buffer),
	}
	iso.frames = NewFrameWriter(iso.inbox)
	iso.log = logger.WithComponent(registry.base, "isolate").With().
		Str(logger.FieldIsolate, iso.String()).
		Logger()
	return iso
}

func (i *Isolate) ID() uuid.UUID { return i.id }

func (i *Isolate) Name() string { return i.name }

func (i *Isolate) String() string {
	return fmt.Sprintf("%s/%s", i.name, i.id.String()[:8])
}

// NewReceivePort opens a port whose messages are handled on this isolate.
func (i *Isolate) NewReceivePort(handler Handler) (*ReceivePort, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	return i.registry.openPort(i, handler)
}

// Kill stops the event loop after the message being handled, if any.
// Undelivered messages are dropped.
func (i *Isolate) Kill() {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.stopLocked()
}

func (i *Isolate) stopLocked() {
	if !i.stopping {
		i.stopping = true
		close(i.kill)
	}
}

// Done is closed once the isolate has exited and its ports are closed.
func (i *Isolate) Done() <-chan struct{} {
	return i.exited
}

// Err returns the error that killed the isolate, if any.
func (i *Isolate) Err() error {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.err
}

// Pending returns the number of queued, undelivered messages.
func (i *Isolate) Pending() int {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.pending
}

func (i *Isolate) fail(err error) {
	i.lock.Lock()
	if i.err == nil {
		i.err = err
	}
	i.stopLocked()
	i.lock.Unlock()
	i.log.Error().Err(err).Msg("isolate failed")
}

func (i *Isolate) stopped() bool {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.stopping
}

func (i *Isolate) enqueue(port int64, payload []byte) error {
	frame, err := (&envelope{Port: port, Payload: payload}).ToBytes()
	if err != nil {
		return err
	}

	i.lock.Lock()
	if i.stopping {
		i.lock.Unlock()
		i.log.Debug().Int64(logger.FieldPort, port).Msg("dropping message for stopped isolate")
		return nil
	}
	if i.pending >= i.registry.queueSize {
		i.lock.Unlock()
		return fmt.Errorf("%w: %s", ErrQueueFull, i)
	}
	if err := i.frames.WriteFrame(frame); err != nil {
		i.lock.Unlock()
		return err
	}
	i.pending++
	i.lock.Unlock()

	select {
	case i.wake <- struct{}{}:
	default:
	}
	return nil
}

// run executes entry and then the event loop until the isolate is killed
// or ctx is done. Only infrastructure failures are returned; handler and
// entry errors kill this isolate alone.
func (i *Isolate) run(ctx context.Context, entry Entry, msg any) error {
	defer i.exit()
	if i.stopped() {
		return nil
	}
	i.log.Info().Msg("isolate started")

	if entry != nil {
		if err := entry(i, msg); err != nil {
			i.fail(fmt.Errorf("entry: %w", err))
			return nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-i.kill:
			return nil
		case <-i.wake:
			if err := i.drain(); err != nil {
				i.fail(err)
				return fmt.Errorf("isolate %s: %w", i, err)
			}
		}
	}
}

// drain delivers a snapshot of the inbox in FIFO order. Messages sent while
// draining wait for the next wake-up.
func (i *Isolate) drain() error {
	i.lock.Lock()
	snapshot := i.inbox
	i.inbox = new(bytes.Buffer)
	i.frames = NewFrameWriter(i.inbox)
	count := i.pending
	i.pending = 0
	i.lock.Unlock()

	frames := NewFrameReader(snapshot).Frames()
	var failure error
	delivered := 0
	_, err := frames.Every(func(frame []byte) bool {
		if i.stopped() {
			return false
		}
		failure = i.deliver(frame)
		delivered++
		return failure == nil
	})
	if failure == nil {
		failure = err
	}

	i.log.Debug().Int("queued", count).Int("delivered", delivered).Msg("inbox drained")
	return failure
}

func (i *Isolate) deliver(frame []byte) error {
	env, err := envelopeFromBytes(frame)
	if err != nil {
		return err
	}

	port, ok := i.registry.lookupPort(env.Port)
	if !ok || port.IsClosed() || port.isolate != i {
		i.log.Debug().Int64(logger.FieldPort, env.Port).Msg("dropping message for closed port")
		return nil
	}

	msg, err := i.registry.Decode(env.Payload)
	if err != nil {
		return err
	}
	if err := port.handler(msg); err != nil {
		i.fail(fmt.Errorf("port %d handler: %w", env.Port, err))
	}
	return nil
}

func (i *Isolate) exit() {
	i.exitOnce.Do(func() {
		i.Kill()
		i.registry.removeIsolate(i)
		close(i.exited)
		i.log.Info().Msg("isolate exited")
	})
}
