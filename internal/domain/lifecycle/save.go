package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
)

// Save writes the store's current copy of a config to persistence
func (m *Manager) Save(ctx context.Context, name string) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	// a delete that finished while we waited took the config with it
	cfg, ok := m.store.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrConfigNotFound, name)
	}
	if err := m.persist.SaveConfig(ctx, cfg); err != nil {
		m.record(Result{Op: OpSave, Config: name, State: StateFailed})
		return fmt.Errorf("failed to save config %s: %w", name, err)
	}

	m.record(Result{Op: OpSave, Config: name, State: StateCommitted})
	m.logger.Debug("Config saved", zap.String("config", name), zap.Int("widgets", len(cfg.Widgets)))
	return nil
}

// AutoSave returns a store subscriber that persists every widget mutation.
// Saves run on the mutating goroutine, so a change is stored by the time
// the mutation returns.
func (m *Manager) AutoSave(ctx context.Context) store.Subscriber {
	return func(ev store.Event) {
		switch ev.Kind {
		case store.EventWidgetAdded, store.EventWidgetUpdated, store.EventWidgetRemoved:
		default:
			return
		}

		err := m.Save(ctx, ev.Config)
		switch {
		case err == nil:
		case errors.Is(err, store.ErrConfigNotFound):
			m.logger.Debug("Skipping save of removed config", zap.String("config", ev.Config))
		default:
			m.logger.Error("Failed to persist widget change",
				zap.String("config", ev.Config),
				zap.String("event", string(ev.Kind)),
				zap.Error(err))
			m.notify(saveFailedNotification(ev.Config))
		}
	}
}
