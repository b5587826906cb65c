package lifecycle

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/utils"
)

// CreateCopy saves a deep copy of the active config under a new name and
// loads it into the store. The active config does not change.
func (m *Manager) CreateCopy(ctx context.Context, newName string) (*types.Config, error) {
	if err := utils.ValidateConfigName(newName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	source, err := m.active()
	if err != nil {
		return nil, err
	}
	if err := m.ensureUnique(ctx, newName); err != nil {
		return nil, err
	}

	cfg := source.Clone()
	cfg.Properties.Name = newName

	if err := m.persist.SaveConfig(ctx, cfg); err != nil {
		m.record(Result{Op: OpCopy, Config: newName, State: StateFailed})
		return nil, fmt.Errorf("failed to save config %s: %w", newName, err)
	}
	m.store.Load(cfg)

	m.notify(savedNotification(newName))
	m.record(Result{Op: OpCopy, Config: newName, State: StateCommitted})
	m.logger.Info("Config copied", zap.String("from", source.Name()), zap.String("to", newName))
	return cfg, nil
}

// ensureUnique fails when name is taken in the store or in persistence
func (m *Manager) ensureUnique(ctx context.Context, name string) error {
	if m.store.Has(name) {
		return fmt.Errorf("%w: %s", ErrConfigExists, name)
	}
	names, err := m.persist.ListConfigs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list configs: %w", err)
	}
	if slices.Contains(names, name) {
		return fmt.Errorf("%w: %s", ErrConfigExists, name)
	}
	return nil
}

// validateConfig checks a config that came from outside the process
func validateConfig(cfg *types.Config) error {
	if err := utils.ValidateConfigName(cfg.Name()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if cfg.Layout.Columns < 0 {
		return fmt.Errorf("%w: negative column count", ErrInvalidDocument)
	}

	seen := make(map[string]struct{}, len(cfg.Widgets))
	for _, w := range cfg.Widgets {
		if err := utils.ValidateID(w.ID, "widget id", true); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("%w: duplicate widget id %s", ErrInvalidDocument, w.ID)
		}
		seen[w.ID] = struct{}{}

		if w.Type == "" {
			return fmt.Errorf("%w: widget %s has no type", ErrInvalidDocument, w.ID)
		}
		if err := utils.ValidateDepth(w.Properties, utils.MaxDocumentDepth); err != nil {
			return fmt.Errorf("%w: widget %s: %v", ErrInvalidDocument, w.ID, err)
		}
	}
	return nil
}
