package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

// Trash reads archived snapshots of deleted configs
type Trash interface {
	LatestTrashed(ctx context.Context, name string) (*types.Config, error)
}

// Restore brings back the newest archived snapshot of a deleted config.
// The restored config is persisted and loaded but not activated.
func (m *Manager) Restore(ctx context.Context, name string) (*types.Config, error) {
	trash, ok := m.persist.(Trash)
	if !ok {
		m.record(Result{Op: OpRestore, Config: name, State: StateRejected})
		return nil, ErrNoTrash
	}
	if err := m.ensureUnique(ctx, name); err != nil {
		m.record(Result{Op: OpRestore, Config: name, State: StateRejected})
		return nil, err
	}

	cfg, err := trash.LatestTrashed(ctx, name)
	if err != nil {
		m.record(Result{Op: OpRestore, Config: name, State: StateFailed})
		return nil, fmt.Errorf("failed to read archive of %s: %w", name, err)
	}
	cfg.Properties.Name = name
	if err := validateConfig(cfg); err != nil {
		m.record(Result{Op: OpRestore, Config: name, State: StateRejected})
		return nil, err
	}

	if err := m.persist.SaveConfig(ctx, cfg); err != nil {
		m.record(Result{Op: OpRestore, Config: name, State: StateFailed})
		return nil, fmt.Errorf("failed to save config %s: %w", name, err)
	}
	m.store.Load(cfg)

	m.notify(restoredNotification(name))
	m.record(Result{Op: OpRestore, Config: name, State: StateCommitted})
	m.logger.Info("Config restored", zap.String("config", name), zap.Int("widgets", len(cfg.Widgets)))
	return cfg, nil
}
