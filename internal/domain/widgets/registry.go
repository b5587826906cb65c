package widgets

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/utils"
)

var (
	ErrFrozen    = errors.New("widget registry is frozen")
	ErrDuplicate = errors.New("widget type already registered")
)

// Registry maps widget type identifiers to definitions
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]types.WidgetDefinition
	frozen bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]types.WidgetDefinition),
	}
}

// NewBuiltinRegistry creates a frozen registry holding the builtin definitions
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	if err := r.RegisterAll(Builtins()); err != nil {
		panic(fmt.Sprintf("invalid builtin widget definitions: %v", err))
	}
	r.Freeze()
	return r
}

// Register adds a definition. It fails once the registry is frozen.
func (r *Registry) Register(def types.WidgetDefinition) error {
	if err := utils.ValidateTypeID(def.Type); err != nil {
		return err
	}
	for _, name := range def.OptionNames() {
		if err := def.Options[name].Validate(); err != nil {
			return fmt.Errorf("widget %s option %s: %w", def.Type, name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	if _, exists := r.defs[def.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, def.Type)
	}

	r.defs[def.Type] = def.Clone()
	return nil
}

// RegisterAll registers each definition, stopping at the first error
func (r *Registry) RegisterAll(defs []types.WidgetDefinition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Freeze makes the registry read-only
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Lookup returns the definition for typeID. Absence is not an error.
func (r *Registry) Lookup(typeID string) (types.WidgetDefinition, bool) {
	r.mu.RLock()
	def, ok := r.defs[typeID]
	r.mu.RUnlock()

	if !ok {
		return types.WidgetDefinition{}, false
	}
	return def.Clone(), true
}

// List returns all definitions sorted by type
func (r *Registry) List() []types.WidgetDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]types.WidgetDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def.Clone())
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Type < defs[j].Type
	})
	return defs
}

// Defaults returns default properties for a new instance of typeID.
// Unknown types get an empty map.
func (r *Registry) Defaults(typeID string) map[string]any {
	def, ok := r.Lookup(typeID)
	if !ok {
		return map[string]any{}
	}
	return def.Defaults()
}

// Stats returns registry statistics
func (r *Registry) Stats() types.RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := types.RegistryStats{TotalDefinitions: len(r.defs)}
	for _, def := range r.defs {
		if def.Editable() {
			stats.EditableDefinitions++
		}
	}
	return stats
}
