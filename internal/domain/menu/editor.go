package menu

import (
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/widgets"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/id"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

var (
	ErrUnknownWidgetType = errors.New("unknown widget type")
	ErrInvalidArea       = errors.New("invalid widget area")
)

// WidgetStore is the slice of the config store the editor mutates
type WidgetStore interface {
	Widget(id string) (types.WidgetInstance, bool)
	AddWidget(w types.WidgetInstance) error
	UpdateWidgetProperties(id string, props map[string]any) error
	UpdateWidgetArea(id string, area types.Area) error
	RemoveWidget(id string) error
	ColumnCount() (int, bool)
}

// Editor applies submitted modal results to the active config
type Editor struct {
	defs     DefinitionLookup
	store    WidgetStore
	sanitize *bluemonday.Policy
	logger   *zap.Logger
}

// NewEditor creates an editor
func NewEditor(defs DefinitionLookup, s WidgetStore, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		defs:     defs,
		store:    s,
		sanitize: bluemonday.StrictPolicy(),
		logger:   logger,
	}
}

// AddWidget places a new widget of the given type. Missing properties are
// filled from the definition defaults and a nil area gets the definition's
// default size at the origin.
func (e *Editor) AddWidget(typeID string, props map[string]any, area *types.Area) (types.WidgetInstance, error) {
	def, ok := e.defs.Lookup(typeID)
	if !ok {
		return types.WidgetInstance{}, fmt.Errorf("%w: %s", ErrUnknownWidgetType, typeID)
	}

	merged := def.Defaults()
	for k, v := range props {
		merged[k] = v
	}
	validated, err := e.clean(def, merged)
	if err != nil {
		return types.WidgetInstance{}, err
	}

	w := types.WidgetInstance{
		ID:         id.NewWidgetID().String(),
		Type:       typeID,
		Properties: validated,
		Area:       types.Area{Width: def.Size.Width, Height: def.Size.Height},
	}
	if area != nil {
		w.Area = *area
	}
	if err := e.checkArea(def, w.Area); err != nil {
		return types.WidgetInstance{}, err
	}

	if err := e.store.AddWidget(w); err != nil {
		return types.WidgetInstance{}, err
	}

	e.logger.Info("Widget added", zap.String("widget_id", w.ID), zap.String("type", typeID))
	return w, nil
}

// ApplyEdit replaces the properties of a widget with submitted values
func (e *Editor) ApplyEdit(widgetID string, props map[string]any) (types.WidgetInstance, error) {
	w, ok := e.store.Widget(widgetID)
	if !ok {
		return types.WidgetInstance{}, fmt.Errorf("%w: %s", store.ErrWidgetNotFound, widgetID)
	}
	def, ok := e.defs.Lookup(w.Type)
	if !canEdit(w, def, ok) {
		return types.WidgetInstance{}, ErrEditUnavailable
	}

	validated, err := e.clean(def, props)
	if err != nil {
		return types.WidgetInstance{}, err
	}
	if err := e.store.UpdateWidgetProperties(widgetID, validated); err != nil {
		return types.WidgetInstance{}, err
	}

	w.Properties = validated
	e.logger.Info("Widget edited", zap.String("widget_id", widgetID), zap.Int("properties", len(validated)))
	return w, nil
}

// ApplyArea moves or resizes a widget
func (e *Editor) ApplyArea(widgetID string, area types.Area) (types.WidgetInstance, error) {
	w, ok := e.store.Widget(widgetID)
	if !ok {
		return types.WidgetInstance{}, fmt.Errorf("%w: %s", store.ErrWidgetNotFound, widgetID)
	}
	def, _ := e.defs.Lookup(w.Type)
	if err := e.checkArea(def, area); err != nil {
		return types.WidgetInstance{}, err
	}
	if err := e.store.UpdateWidgetArea(widgetID, area); err != nil {
		return types.WidgetInstance{}, err
	}

	w.Area = area
	return w, nil
}

// Remove deletes a widget from the active config
func (e *Editor) Remove(widgetID string) error {
	if err := e.store.RemoveWidget(widgetID); err != nil {
		return err
	}
	e.logger.Info("Widget removed", zap.String("widget_id", widgetID))
	return nil
}

// clean validates values against the schema and strips markup from free text
func (e *Editor) clean(def types.WidgetDefinition, props map[string]any) (map[string]any, error) {
	validated, err := widgets.ValidateProperties(def, props)
	if err != nil {
		return nil, err
	}
	for name, value := range validated {
		if def.Options[name].Kind != types.OptionText {
			continue
		}
		if s, ok := value.(string); ok {
			validated[name] = e.stripMarkup(s)
		}
	}
	return validated, nil
}

// maxSanitizePasses bounds stripMarkup for nested entity encodings
const maxSanitizePasses = 8

// stripMarkup removes markup and decodes entities, repeating until the
// decoded text survives sanitizing unchanged. Text that never settles is
// kept in its escaped form.
func (e *Editor) stripMarkup(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		out := html.UnescapeString(e.sanitize.Sanitize(s))
		if out == s {
			return out
		}
		s = out
	}
	return e.sanitize.Sanitize(s)
}

// checkArea enforces positive sizes, the definition minimum and, when
// known, the current grid width.
func (e *Editor) checkArea(def types.WidgetDefinition, area types.Area) error {
	if area.X < 0 || area.Y < 0 {
		return fmt.Errorf("%w: negative position", ErrInvalidArea)
	}
	if area.Width < 1 || area.Height < 1 {
		return fmt.Errorf("%w: size must be positive", ErrInvalidArea)
	}
	if area.Width < def.Size.MinWidth || area.Height < def.Size.MinHeight {
		return fmt.Errorf("%w: below minimum %dx%d", ErrInvalidArea, def.Size.MinWidth, def.Size.MinHeight)
	}
	if columns, ok := e.store.ColumnCount(); ok && area.X+area.Width > columns {
		return fmt.Errorf("%w: exceeds %d columns", ErrInvalidArea, columns)
	}
	return nil
}
