package isolate

import (
	"fmt"
	"sync/atomic"

	"github.com/johnjamespj/corelib/pkg/logger"
)

var (
	ErrUnknownPort = fmt.Errorf("unknown port")
	ErrInvalidPort = fmt.Errorf("invalid send port")
)

// Handler receives a message on the isolate that owns the port. A non-nil
// error kills that isolate.
type Handler func(msg any) error

// ReceivePort delivers messages to its handler on the owning isolate's
// event loop, one at a time and in the order they were sent.
type ReceivePort struct {
	id      int64
	isolate *Isolate
	handler Handler
	closed  atomic.Bool
}

func (p *ReceivePort) ID() int64 { return p.id }

func (p *ReceivePort) SendPort() SendPort {
	return SendPort{id: p.id, registry: p.isolate.registry}
}

// Close stops delivery. Messages still queued for the port are dropped.
func (p *ReceivePort) Close() {
	p.isolate.registry.closePort(p)
}

func (p *ReceivePort) IsClosed() bool {
	return p.closed.Load()
}

// SendPort is the sendable half of a ReceivePort. It is a value type and
// may itself be sent in messages.
type SendPort struct {
	id       int64
	registry *Registry
}

func (p SendPort) ID() int64 { return p.id }

// Send deep-copies msg and queues it for the receiving isolate. Messages to
// a closed port are dropped without error.
func (p SendPort) Send(msg any) error {
	if p.registry == nil {
		return ErrInvalidPort
	}

	payload, err := p.registry.Encode(msg)
	if err != nil {
		return fmt.Errorf("send to port %d: %w", p.id, err)
	}

	target, ok := p.registry.lookupPort(p.id)
	if !ok || target.IsClosed() {
		p.registry.log.Debug().Int64(logger.FieldPort, p.id).Msg("dropping message for closed port")
		return nil
	}
	return target.isolate.enqueue(p.id, payload)
}
