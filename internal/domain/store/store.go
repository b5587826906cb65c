package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

var (
	ErrConfigNotFound = errors.New("config not found")
	ErrNoActiveConfig = errors.New("no active config")
	ErrWidgetNotFound = errors.New("widget not found")
	ErrWidgetExists   = errors.New("widget already exists")
	ErrConfigBusy     = errors.New("config is locked by another operation")
)

// MetricsRecorder receives store size updates
type MetricsRecorder interface {
	SetConfigsLoaded(count int)
	SetWidgetsActive(count int)
}

// Store holds the loaded configs and the active one
type Store struct {
	mu           sync.RWMutex
	configs      map[string]*types.Config
	active       string
	columns      *int
	locked       map[string]struct{}
	lastMutation *time.Time

	subMu   sync.RWMutex
	subs    map[uint64]Subscriber
	nextSub uint64

	logger  *zap.Logger
	metrics MetricsRecorder
}

// New creates an empty store
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		configs: make(map[string]*types.Config),
		locked:  make(map[string]struct{}),
		subs:    make(map[uint64]Subscriber),
		logger:  logger,
	}
}

// WithMetrics attaches a metrics recorder
func (s *Store) WithMetrics(m MetricsRecorder) *Store {
	s.metrics = m
	return s
}

// Subscribe registers fn for every future event and returns a function
// that removes the subscription.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// publish delivers ev to all subscribers. Must be called without s.mu held.
func (s *Store) publish(ev Event) {
	s.subMu.RLock()
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	subs := make([]Subscriber, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// touch records a mutation and refreshes metrics. Caller holds s.mu.
func (s *Store) touch() {
	now := time.Now()
	s.lastMutation = &now

	if s.metrics == nil {
		return
	}
	s.metrics.SetConfigsLoaded(len(s.configs))
	if cfg, ok := s.configs[s.active]; ok {
		s.metrics.SetWidgetsActive(len(cfg.Widgets))
	} else {
		s.metrics.SetWidgetsActive(0)
	}
}

// Load inserts or replaces a config. The first config loaded into an
// empty store becomes active.
func (s *Store) Load(cfg *types.Config) {
	clone := cfg.Clone()
	name := clone.Name()

	s.mu.Lock()
	s.configs[name] = clone
	becameActive := false
	if s.active == "" {
		s.active = name
		becameActive = true
	}
	s.touch()
	s.mu.Unlock()

	s.logger.Debug("Config loaded", zap.String("config", name), zap.Int("widgets", len(clone.Widgets)))
	s.publish(Event{Kind: EventConfigLoaded, Config: name})
	if becameActive {
		s.publish(Event{Kind: EventActiveChanged, Config: name})
	}
}

// Get returns a copy of the named config
func (s *Store) Get(name string) (*types.Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[name]
	if !ok {
		return nil, false
	}
	return cfg.Clone(), true
}

// Has reports whether a config with this name is loaded
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	_, ok := s.configs[name]
	s.mu.RUnlock()
	return ok
}

// Active returns a copy of the active config
func (s *Store) Active() (*types.Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[s.active]
	if !ok {
		return nil, false
	}
	return cfg.Clone(), true
}

// ActiveName returns the name of the active config, or ""
func (s *Store) ActiveName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive switches the active config
func (s *Store) SetActive(name string) error {
	s.mu.Lock()
	if _, ok := s.configs[name]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	changed := s.active != name
	s.active = name
	s.touch()
	s.mu.Unlock()

	if changed {
		s.publish(Event{Kind: EventActiveChanged, Config: name})
	}
	return nil
}

// Names returns the loaded config names in sorted order
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.configs))
	for name := range s.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for every loaded config
func (s *Store) List() []types.ConfigMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]types.ConfigMetadata, 0, len(s.configs))
	for name, cfg := range s.configs {
		meta := cfg.ToMetadata()
		meta.Active = name == s.active
		list = append(list, meta)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// RemoveConfig drops a config from memory. It is the commit step of a
// lifecycle delete and does not honour the mutation lock, which the caller
// is expected to hold. When the active config is removed, the first
// remaining config (by name) becomes active.
func (s *Store) RemoveConfig(name string) bool {
	s.mu.Lock()
	if _, ok := s.configs[name]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.configs, name)

	activeChanged := false
	if s.active == name {
		s.active = ""
		if names := s.sortedNamesLocked(); len(names) > 0 {
			s.active = names[0]
		}
		activeChanged = true
	}
	newActive := s.active
	s.touch()
	s.mu.Unlock()

	s.logger.Info("Config removed from store", zap.String("config", name))
	s.publish(Event{Kind: EventConfigRemoved, Config: name})
	if activeChanged {
		s.publish(Event{Kind: EventActiveChanged, Config: newActive})
	}
	return true
}

func (s *Store) sortedNamesLocked() []string {
	names := make([]string, 0, len(s.configs))
	for name := range s.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lock marks a config as busy until the returned function is called.
// A second Lock on the same config fails with ErrConfigBusy.
func (s *Store) Lock(name string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.locked[name]; busy {
		return nil, fmt.Errorf("%w: %s", ErrConfigBusy, name)
	}
	s.locked[name] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.locked, name)
			s.mu.Unlock()
		})
	}, nil
}

// IsLocked reports whether a config is currently locked
func (s *Store) IsLocked(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, busy := s.locked[name]
	return busy
}

// SetColumnCount records the current grid width reported by the layout.
// A non-positive value marks the column count as unavailable.
func (s *Store) SetColumnCount(columns int) {
	s.mu.Lock()
	if columns > 0 {
		s.columns = &columns
	} else {
		s.columns = nil
	}
	name := s.active
	s.mu.Unlock()

	s.publish(Event{Kind: EventColumnsChanged, Config: name})
}

// ColumnCount returns the current grid width, if the layout reported one
func (s *Store) ColumnCount() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.columns == nil {
		return 0, false
	}
	return *s.columns, true
}

// Widget returns a copy of a widget of the active config
func (s *Store) Widget(id string) (types.WidgetInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[s.active]
	if !ok {
		return types.WidgetInstance{}, false
	}
	idx := cfg.WidgetIndex(id)
	if idx < 0 {
		return types.WidgetInstance{}, false
	}
	return cfg.Widgets[idx].Clone(), true
}

// mutateActive runs fn on the active config under the write lock and
// publishes the resulting event.
func (s *Store) mutateActive(kind EventKind, widgetID string, fn func(cfg *types.Config) error) error {
	s.mu.Lock()
	cfg, ok := s.configs[s.active]
	if !ok {
		s.mu.Unlock()
		return ErrNoActiveConfig
	}
	if _, busy := s.locked[s.active]; busy {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrConfigBusy, s.active)
	}
	if err := fn(cfg); err != nil {
		s.mu.Unlock()
		return err
	}
	name := s.active
	s.touch()
	s.mu.Unlock()

	s.publish(Event{Kind: kind, Config: name, WidgetID: widgetID})
	return nil
}

// AddWidget appends a widget to the active config
func (s *Store) AddWidget(w types.WidgetInstance) error {
	return s.mutateActive(EventWidgetAdded, w.ID, func(cfg *types.Config) error {
		if cfg.WidgetIndex(w.ID) >= 0 {
			return fmt.Errorf("%w: %s", ErrWidgetExists, w.ID)
		}
		cfg.Widgets = append(cfg.Widgets, w.Clone())
		return nil
	})
}

// UpdateWidgetProperties replaces the property values of a widget
func (s *Store) UpdateWidgetProperties(id string, props map[string]any) error {
	return s.mutateActive(EventWidgetUpdated, id, func(cfg *types.Config) error {
		idx := cfg.WidgetIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
		}
		cfg.Widgets[idx].Properties = types.CloneProperties(props)
		return nil
	})
}

// UpdateWidgetArea moves or resizes a widget
func (s *Store) UpdateWidgetArea(id string, area types.Area) error {
	return s.mutateActive(EventWidgetUpdated, id, func(cfg *types.Config) error {
		idx := cfg.WidgetIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
		}
		cfg.Widgets[idx].Area = area
		return nil
	})
}

// RemoveWidget deletes a widget from the active config
func (s *Store) RemoveWidget(id string) error {
	return s.mutateActive(EventWidgetRemoved, id, func(cfg *types.Config) error {
		idx := cfg.WidgetIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
		}
		cfg.Widgets = append(cfg.Widgets[:idx], cfg.Widgets[idx+1:]...)
		return nil
	})
}

// Stats returns store statistics
func (s *Store) Stats() types.StoreStats {
	s.mu.RLock()
	stats := types.StoreStats{
		TotalConfigs: len(s.configs),
		ActiveConfig: s.active,
		LastMutation: s.lastMutation,
	}
	if cfg, ok := s.configs[s.active]; ok {
		stats.ActiveWidgets = len(cfg.Widgets)
	}
	if s.columns != nil {
		columns := *s.columns
		stats.ColumnCount = &columns
	}
	s.mu.RUnlock()

	s.subMu.RLock()
	stats.Subscribers = len(s.subs)
	s.subMu.RUnlock()

	return stats
}
