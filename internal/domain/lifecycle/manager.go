package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

var (
	ErrConfigExists      = errors.New("config already exists")
	ErrInvalidName       = errors.New("invalid config name")
	ErrInvalidDocument   = errors.New("invalid config document")
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrNoTrash           = errors.New("config storage keeps no trash")
)

// Persistence stores named configs outside the process
type Persistence interface {
	ListConfigs(ctx context.Context) ([]string, error)
	LoadConfig(ctx context.Context, name string) (*types.Config, error)
	SaveConfig(ctx context.Context, cfg *types.Config) error
	// DeleteConfig removes a config. A response carrying a Message means
	// the backend refused; an error means it could not be asked.
	DeleteConfig(ctx context.Context, name string) (types.DeleteResponse, error)
}

// Notifier shows a toast to the user
type Notifier interface {
	Notify(n types.Notification)
}

// FileSaver hands exported content to the user as a file
type FileSaver interface {
	SaveFile(content []byte, filename string) error
}

// ModalOpener asks the presentation layer to open a modal
type ModalOpener interface {
	OpenModal(modal string, innerProps any, opts types.ModalOptions)
}

// DefinitionLookup resolves widget definitions by type
type DefinitionLookup interface {
	Lookup(typeID string) (types.WidgetDefinition, bool)
}

// ConfigStore is the slice of the config store lifecycle actions use
type ConfigStore interface {
	Active() (*types.Config, bool)
	ActiveName() string
	Get(name string) (*types.Config, bool)
	Has(name string) bool
	Names() []string
	Load(cfg *types.Config)
	SetActive(name string) error
	RemoveConfig(name string) bool
	Lock(name string) (func(), error)
	IsLocked(name string) bool
}

// MetricsRecorder counts lifecycle outcomes
type MetricsRecorder interface {
	RecordLifecycle(op string, state string)
}

// Manager runs lifecycle actions against a store and a persistence backend
type Manager struct {
	store    ConfigStore
	persist  Persistence
	notifier Notifier
	opener   ModalOpener
	defs     DefinitionLookup
	logger   *zap.Logger
	metrics  MetricsRecorder

	// writeMu orders document saves against deletes
	writeMu sync.Mutex
}

// NewManager creates a lifecycle manager
func NewManager(s ConfigStore, persist Persistence, notifier Notifier, opener ModalOpener, defs DefinitionLookup, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    s,
		persist:  persist,
		notifier: notifier,
		opener:   opener,
		defs:     defs,
		logger:   logger,
	}
}

// WithMetrics attaches a metrics recorder
func (m *Manager) WithMetrics(metrics MetricsRecorder) *Manager {
	m.metrics = metrics
	return m
}

func (m *Manager) record(r Result) Result {
	if m.metrics != nil {
		m.metrics.RecordLifecycle(r.Op, string(r.State))
	}
	return r
}

func (m *Manager) notify(n types.Notification) {
	if m.notifier != nil {
		m.notifier.Notify(n)
	}
}

// active returns a copy of the active config
func (m *Manager) active() (*types.Config, error) {
	cfg, ok := m.store.Active()
	if !ok {
		return nil, store.ErrNoActiveConfig
	}
	return cfg, nil
}

// Delete removes a config from persistence and then from the store.
// The store is only touched once the backend acknowledged the removal.
// Cancelling ctx does not abort a delete that has started.
func (m *Manager) Delete(ctx context.Context, name string) Result {
	res := Result{Op: OpDelete, Config: name, State: StatePending}

	unlock, err := m.store.Lock(name)
	if err != nil {
		res.State = StateFailed
		res.Err = err
		return m.record(res)
	}
	defer unlock()

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.logger.Info("Deleting config", zap.String("config", name))

	resp, err := m.persist.DeleteConfig(context.WithoutCancel(ctx), name)
	if err != nil {
		m.logger.Error("Config delete failed", zap.String("config", name), zap.Error(err))
		m.notify(deleteFailedNotification())
		res.State = StateFailed
		res.Err = fmt.Errorf("failed to delete config %s: %w", name, err)
		return m.record(res)
	}

	if resp.Message != nil && *resp.Message != "" {
		m.logger.Warn("Config delete rejected", zap.String("config", name), zap.String("reason", *resp.Message))
		m.notify(deleteRejectedNotification(*resp.Message))
		res.State = StateRejected
		res.Message = *resp.Message
		return m.record(res)
	}

	m.notify(deletedNotification(name))
	m.store.RemoveConfig(name)
	res.State = StateCommitted

	m.logger.Info("Config deleted", zap.String("config", name))
	return m.record(res)
}

// DeleteActive deletes the active config
func (m *Manager) DeleteActive(ctx context.Context) Result {
	name := m.store.ActiveName()
	if name == "" {
		return m.record(Result{Op: OpDelete, State: StateFailed, Err: store.ErrNoActiveConfig})
	}
	return m.Delete(ctx, name)
}

// Duplicate opens the naming prompt for a copy of the active config
func (m *Manager) Duplicate(ctx context.Context) error {
	return m.DuplicateWith(ctx, m.opener)
}

// DuplicateWith is Duplicate with the prompt sent through opener
func (m *Manager) DuplicateWith(ctx context.Context, opener ModalOpener) error {
	cfg, err := m.active()
	if err != nil {
		return err
	}
	opener.OpenModal(types.ModalConfigCopy, types.CopyConfigRequest{
		InitialConfigName: cfg.Name(),
	}, types.ModalOptions{})
	return nil
}

// Activate makes a config active, loading it from persistence if the store
// does not hold it yet.
func (m *Manager) Activate(ctx context.Context, name string) (*types.Config, error) {
	if !m.store.Has(name) {
		cfg, err := m.persist.LoadConfig(ctx, name)
		if err != nil {
			m.record(Result{Op: OpActivate, Config: name, State: StateFailed})
			return nil, fmt.Errorf("failed to load config %s: %w", name, err)
		}
		m.store.Load(cfg)
	}
	if err := m.store.SetActive(name); err != nil {
		return nil, err
	}

	cfg, _ := m.store.Get(name)
	m.record(Result{Op: OpActivate, Config: name, State: StateCommitted})
	m.logger.Info("Config activated", zap.String("config", name))
	return cfg, nil
}
