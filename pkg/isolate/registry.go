package isolate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/johnjamespj/corelib/pkg/iterator"
	"github.com/johnjamespj/corelib/pkg/logger"
	"github.com/rs/zerolog"
)

// Registry tracks the isolates and receive ports of one group. Ports are
// addressed by small integer ids that are never reused.
type Registry struct {
	base      zerolog.Logger
	log       zerolog.Logger
	codec     *Codec
	functions *FunctionResolver
	queueSize int

	// protected by lock
	lock       sync.RWMutex
	isolates   map[uuid.UUID]*Isolate
	ports      map[int64]*ReceivePort
	nextPortID int64
}

func NewRegistry(cfg *Config, log zerolog.Logger) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	compression, err := CompressionByName(cfg.Compression)
	if err != nil {
		return nil, err
	}
	functions, err := NewFunctionResolver(cfg.FunctionCacheSize)
	if err != nil {
		return nil, err
	}

	return &Registry{
		base:       log,
		log:        logger.WithComponent(log, "registry"),
		codec:      NewCodec(compression),
		functions:  functions,
		queueSize:  cfg.QueueSize,
		isolates:   make(map[uuid.UUID]*Isolate),
		ports:      make(map[int64]*ReceivePort),
		nextPortID: 1,
	}, nil
}

// RegisterFunction makes fn sendable as Function{Name: name}.
func (r *Registry) RegisterFunction(name string, fn any) error {
	return r.functions.Register(name, fn)
}

func (r *Registry) hasFunction(name string) bool {
	return r.functions.Has(name)
}

// Encode serializes value into a self-contained message.
func (r *Registry) Encode(value any) ([]byte, error) {
	tree, err := newSerializer(r).serialize(value)
	if err != nil {
		return nil, err
	}
	return r.codec.Marshal(tree)
}

// Decode rebuilds a value from a message produced by Encode, resolving
// ports and functions against this registry.
func (r *Registry) Decode(payload []byte) (any, error) {
	tree, err := r.codec.Unmarshal(payload)
	if err != nil {
		return nil, err
	}
	return newDeserializer(r).deserialize(tree)
}

// Copy returns a deep copy of value as another isolate would receive it.
func (r *Registry) Copy(value any) (any, error) {
	payload, err := r.Encode(value)
	if err != nil {
		return nil, err
	}
	return r.Decode(payload)
}

func (r *Registry) Isolate(id uuid.UUID) (*Isolate, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	iso, ok := r.isolates[id]
	return iso, ok
}

// Isolates returns the live isolates ordered by name, then id.
func (r *Registry) Isolates() iterator.Iterable[*Isolate] {
	r.lock.RLock()
	list := iterator.NewGrowableList[*Isolate]()
	for _, iso := range r.isolates {
		_ = list.Add(iso)
	}
	r.lock.RUnlock()

	_ = list.Sort(func(a, b *Isolate) int {
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		return strings.Compare(a.id.String(), b.id.String())
	})
	return iterator.NewUnmodifiableList[*Isolate](list)
}

func (r *Registry) addIsolate(iso *Isolate) {
	r.lock.Lock()
	r.isolates[iso.id] = iso
	r.lock.Unlock()
	r.log.Debug().Str(logger.FieldIsolate, iso.String()).Msg("isolate registered")
}

// removeIsolate drops iso and closes every port it owns.
func (r *Registry) removeIsolate(iso *Isolate) {
	r.lock.Lock()
	delete(r.isolates, iso.id)
	closed := 0
	for id, port := range r.ports {
		if port.isolate == iso {
			port.closed.Store(true)
			delete(r.ports, id)
			closed++
		}
	}
	r.lock.Unlock()

	r.log.Debug().
		Str(logger.FieldIsolate, iso.String()).
		Int("closed_ports", closed).
		Msg("isolate removed")
}

func (r *Registry) openPort(iso *Isolate, handler Handler) (*ReceivePort, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.isolates[iso.id]; !ok {
		return nil, ErrIsolateStopped
	}

	port := &ReceivePort{id: r.nextPortID, isolate: iso, handler: handler}
	r.ports[port.id] = port
	r.nextPortID++

	r.log.Debug().
		Str(logger.FieldIsolate, iso.String()).
		Int64(logger.FieldPort, port.id).
		Msg("port opened")
	return port, nil
}

func (r *Registry) closePort(port *ReceivePort) {
	if port.closed.Swap(true) {
		return
	}
	r.lock.Lock()
	delete(r.ports, port.id)
	r.lock.Unlock()
	r.log.Debug().Int64(logger.FieldPort, port.id).Msg("port closed")
}

func (r *Registry) lookupPort(id int64) (*ReceivePort, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	port, ok := r.ports[id]
	return port, ok
}

// sendPort resolves a port id received in a message. Ids this registry
// never issued are rejected; closed ports resolve to a SendPort whose
// messages are dropped.
func (r *Registry) sendPort(id int64) (SendPort, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if id <= 0 || id >= r.nextPortID {
		return SendPort{}, fmt.Errorf("%w: %d", ErrUnknownPort, id)
	}
	return SendPort{id: id, registry: r}, nil
}
