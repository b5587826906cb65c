package lifecycle

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

// DefaultColumns is the grid width of a freshly created config
const DefaultColumns = 12

// Bootstrap loads every persisted config into the store and activates
// defaultName. When persistence is empty a blank config named defaultName
// is created first. Configs that fail to load are skipped.
func (m *Manager) Bootstrap(ctx context.Context, defaultName string) error {
	names, err := m.persist.ListConfigs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list configs: %w", err)
	}

	if !slices.Contains(names, defaultName) {
		cfg := &types.Config{
			Properties: types.ConfigProperties{Name: defaultName},
			Widgets:    []types.WidgetInstance{},
			Layout:     types.Layout{Columns: DefaultColumns},
		}
		if err := m.persist.SaveConfig(ctx, cfg); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
		m.logger.Info("Created default config", zap.String("config", defaultName))
		names = append(names, defaultName)
	}

	loaded := 0
	for _, name := range names {
		cfg, err := m.persist.LoadConfig(ctx, name)
		if err != nil {
			m.logger.Warn("Skipping unreadable config", zap.String("config", name), zap.Error(err))
			continue
		}
		if err := validateConfig(cfg); err != nil {
			m.logger.Warn("Skipping invalid config", zap.String("config", name), zap.Error(err))
			continue
		}
		m.store.Load(cfg)
		loaded++
	}

	if m.store.Has(defaultName) {
		if err := m.store.SetActive(defaultName); err != nil {
			return err
		}
	}

	m.logger.Info("Configs loaded", zap.Int("count", loaded), zap.String("active", m.store.ActiveName()))
	return nil
}

// Reload replaces a stored config with its persisted version. It is used
// when the backing storage changes outside the process.
func (m *Manager) Reload(ctx context.Context, name string) error {
	cfg, err := m.persist.LoadConfig(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to reload config %s: %w", name, err)
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if cfg.Name() != name {
		return fmt.Errorf("%w: file %s holds config %s", ErrInvalidDocument, name, cfg.Name())
	}
	m.store.Load(cfg)
	m.logger.Info("Config reloaded", zap.String("config", name))
	return nil
}

// Forget drops a config that disappeared from the backing storage. A config
// locked by a running delete is left to that delete.
func (m *Manager) Forget(name string) {
	if m.store.IsLocked(name) {
		return
	}
	if m.store.RemoveConfig(name) {
		m.logger.Info("Config removed externally", zap.String("config", name))
	}
}
