package menu

import (
	"errors"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

// ErrEditUnavailable is returned when the widget has nothing to edit
var ErrEditUnavailable = errors.New("widget has no editable options")

// Action names reported by Menu.Actions
const (
	ActionEdit   = "edit"
	ActionResize = "resize"
	ActionRemove = "remove"
)

const (
	editTitle   = "descriptor.settings.title"
	removeTitle = "common:remove"
	editZIndex  = 5
	resizeSize  = "xl"
)

// DefinitionLookup resolves widget definitions by type
type DefinitionLookup interface {
	Lookup(typeID string) (types.WidgetDefinition, bool)
}

// ModalOpener asks the presentation layer to open a modal
type ModalOpener interface {
	OpenModal(modal string, innerProps any, opts types.ModalOptions)
}

// Dispatcher builds tile menus
type Dispatcher struct {
	defs   DefinitionLookup
	opener ModalOpener
}

// NewDispatcher creates a dispatcher
func NewDispatcher(defs DefinitionLookup, opener ModalOpener) *Dispatcher {
	return &Dispatcher{defs: defs, opener: opener}
}

// WithOpener returns a dispatcher whose menus open modals through opener
func (d *Dispatcher) WithOpener(opener ModalOpener) *Dispatcher {
	return &Dispatcher{defs: d.defs, opener: opener}
}

// Menu builds the menu for a widget. It returns nil when the widget or the
// column count is missing, in which case no action is available. An empty
// integration defaults to the widget type.
func (d *Dispatcher) Menu(integration string, widget *types.WidgetInstance, columnCount *int) *Menu {
	if widget == nil || columnCount == nil || *columnCount <= 0 {
		return nil
	}
	if integration == "" {
		integration = widget.Type
	}

	m := &Menu{
		integration: integration,
		widget:      widget.Clone(),
		columns:     *columnCount,
		opener:      d.opener,
	}
	if d.defs != nil {
		m.def, m.hasDef = d.defs.Lookup(widget.Type)
	}
	return m
}

// Menu is the set of actions available on one widget tile
type Menu struct {
	integration string
	widget      types.WidgetInstance
	columns     int
	def         types.WidgetDefinition
	hasDef      bool
	opener      ModalOpener
}

// State describes a menu for API consumers
type State struct {
	WidgetID    string   `json:"widgetId"`
	WidgetType  string   `json:"widgetType"`
	Actions     []string `json:"actions"`
	ColumnCount int      `json:"columnCount"`
}

// CanEdit reports whether the edit intent is enabled. Both the property
// values and a non-empty option schema are required.
func (m *Menu) CanEdit() bool {
	return canEdit(m.widget, m.def, m.hasDef)
}

// canEdit is the edit gate shared by the menu and the editor
func canEdit(w types.WidgetInstance, def types.WidgetDefinition, hasDef bool) bool {
	return w.Properties != nil && hasDef && def.Editable()
}

// Actions lists the enabled intents in display order
func (m *Menu) Actions() []string {
	actions := make([]string, 0, 3)
	if m.CanEdit() {
		actions = append(actions, ActionEdit)
	}
	return append(actions, ActionResize, ActionRemove)
}

// State returns a serializable view of the menu
func (m *Menu) State() State {
	return State{
		WidgetID:    m.widget.ID,
		WidgetType:  m.integration,
		Actions:     m.Actions(),
		ColumnCount: m.columns,
	}
}

// EditRequest builds the payload of the options modal
func (m *Menu) EditRequest() (types.EditRequest, error) {
	if !m.CanEdit() {
		return types.EditRequest{}, ErrEditUnavailable
	}
	def := m.def.Clone()
	return types.EditRequest{
		WidgetID:      m.widget.ID,
		WidgetType:    m.integration,
		Options:       types.CloneProperties(m.widget.Properties),
		WidgetOptions: def.Options,
	}, nil
}

// ResizeRequest builds the payload of the position modal
func (m *Menu) ResizeRequest() types.ChangePositionRequest {
	return types.ChangePositionRequest{
		WidgetID:           m.widget.ID,
		WidgetType:         m.integration,
		Widget:             m.widget.Clone(),
		WrapperColumnCount: m.columns,
	}
}

// RemoveRequest builds the payload of the remove confirmation
func (m *Menu) RemoveRequest() types.RemoveRequest {
	return types.RemoveRequest{
		WidgetID:   m.widget.ID,
		WidgetType: m.integration,
	}
}

// RequestEdit opens the options modal
func (m *Menu) RequestEdit() error {
	req, err := m.EditRequest()
	if err != nil {
		return err
	}
	m.opener.OpenModal(types.ModalWidgetEdit, req, types.ModalOptions{
		Title:  editTitle,
		ZIndex: editZIndex,
	})
	return nil
}

// RequestResize opens the position modal
func (m *Menu) RequestResize() {
	m.opener.OpenModal(types.ModalWidgetPosition, m.ResizeRequest(), types.ModalOptions{
		Size: resizeSize,
	})
}

// RequestRemove opens the remove confirmation
func (m *Menu) RequestRemove() {
	m.opener.OpenModal(types.ModalWidgetRemove, m.RemoveRequest(), types.ModalOptions{
		Title: removeTitle,
	})
}
