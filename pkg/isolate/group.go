package isolate

import (
	"context"
	"errors"
	"fmt"

	"github.com/johnjamespj/corelib/pkg/logger"
	"github.com/johnjamespj/corelib/pkg/util"
	"github.com/rs/zerolog"
)

// Group runs isolates that share a Registry. Each isolate occupies one
// runner slot for its lifetime. An infrastructure failure in any isolate
// (a corrupt inbox, an undecodable message) cancels the whole group.
type Group struct {
	registry *Registry
	runner   *util.SimpleTaskRunner
	log      zerolog.Logger
}

// NewGroup builds a group whose logger comes from cfg.Logging.
func NewGroup(ctx context.Context, cfg *Config) (*Group, error) {
	return NewGroupWithLogger(ctx, cfg, logger.New(&cfg.Logging, ""))
}

func NewGroupWithLogger(ctx context.Context, cfg *Config, log zerolog.Logger) (*Group, error) {
	registry, err := NewRegistry(cfg, log)
	if err != nil {
		return nil, err
	}

	runner := util.NewSimpleTaskRunner(ctx, cfg.MaxIsolates, cfg.MaxIsolates)
	runner.Run()
	return &Group{
		registry: registry,
		runner:   runner,
		log:      logger.WithComponent(log, "group"),
	}, nil
}

func (g *Group) Registry() *Registry {
	return g.registry
}

// Spawn starts an isolate running entry with a copy of msg. msg is
// serialized before Spawn returns, so later changes by the caller are not
// seen by the isolate.
func (g *Group) Spawn(name string, entry Entry, msg any) (*Isolate, error) {
	payload, err := g.registry.Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}

	iso := newIsolate(g.registry, name)
	g.registry.addIsolate(iso)

	err = g.runner.AddTask(util.RunnableFunc(func(ctx context.Context) error {
		copied, err := g.registry.Decode(payload)
		if err != nil {
			iso.exit()
			return fmt.Errorf("spawn %s: %w", name, err)
		}
		return iso.run(ctx, entry, copied)
	}))
	if err != nil {
		iso.exit()
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}

	g.log.Debug().Str(logger.FieldIsolate, iso.String()).Msg("isolate spawned")
	return iso, nil
}

// Close kills every isolate, waits for them to exit and returns the
// infrastructure errors met on the way, joined.
func (g *Group) Close() error {
	kill := func(iso *Isolate) { iso.Kill() }
	killErr := g.registry.Isolates().ForEach(kill)

	stopErr := g.runner.Stop()

	// Isolates still queued when the runner was canceled never ran.
	exitErr := g.registry.Isolates().ForEach(func(iso *Isolate) { iso.exit() })
	return errors.Join(killErr, stopErr, exitErr)
}
