package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

// Observer receives the duration and outcome of every storage call
type Observer interface {
	ObservePersistence(op string, duration time.Duration, err error)
}

// Guarded routes every call to a backend through a circuit breaker. A
// refused delete and a missing config are answers, not failures.
type Guarded struct {
	backend  Backend
	breaker  *resilience.Breaker
	observer Observer
}

// NewGuarded wraps backend. Settings.IsFailure is replaced.
func NewGuarded(backend Backend, settings resilience.Settings) *Guarded {
	settings.IsFailure = IsBackendFailure
	return &Guarded{
		backend: backend,
		breaker: resilience.New("persistence", settings),
	}
}

// WithObserver attaches a call observer
func (g *Guarded) WithObserver(o Observer) *Guarded {
	g.observer = o
	return g
}

// IsBackendFailure reports whether err says the backend is unhealthy.
// Answers about the request and abandoned callers do not count.
func IsBackendFailure(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrNoTrash),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// Breaker exposes the breaker for health reporting
func (g *Guarded) Breaker() *resilience.Breaker {
	return g.breaker
}

func observe[T any](ctx context.Context, g *Guarded, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	result, err := resilience.Do(ctx, g.breaker, fn)
	if g.observer != nil {
		g.observer.ObservePersistence(op, time.Since(start), err)
	}
	return result, err
}

func (g *Guarded) ListConfigs(ctx context.Context) ([]string, error) {
	return observe(ctx, g, "list", g.backend.ListConfigs)
}

func (g *Guarded) LoadConfig(ctx context.Context, name string) (*types.Config, error) {
	return observe(ctx, g, "load", func(ctx context.Context) (*types.Config, error) {
		return g.backend.LoadConfig(ctx, name)
	})
}

func (g *Guarded) SaveConfig(ctx context.Context, cfg *types.Config) error {
	_, err := observe(ctx, g, "save", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.backend.SaveConfig(ctx, cfg)
	})
	return err
}

func (g *Guarded) DeleteConfig(ctx context.Context, name string) (types.DeleteResponse, error) {
	return observe(ctx, g, "delete", func(ctx context.Context) (types.DeleteResponse, error) {
		return g.backend.DeleteConfig(ctx, name)
	})
}

// LatestTrashed reads the newest archived snapshot of name
func (g *Guarded) LatestTrashed(ctx context.Context, name string) (*types.Config, error) {
	trash, ok := g.backend.(Trash)
	if !ok {
		return nil, ErrNoTrash
	}
	return observe(ctx, g, "trash", func(ctx context.Context) (*types.Config, error) {
		return trash.LatestTrashed(ctx, name)
	})
}

func (g *Guarded) Close() error {
	return g.backend.Close()
}
