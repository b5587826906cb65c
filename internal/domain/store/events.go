package store

// EventKind identifies what changed in the store
type EventKind string

const (
	EventConfigLoaded   EventKind = "config_loaded"
	EventConfigRemoved  EventKind = "config_removed"
	EventActiveChanged  EventKind = "active_changed"
	EventWidgetAdded    EventKind = "widget_added"
	EventWidgetUpdated  EventKind = "widget_updated"
	EventWidgetRemoved  EventKind = "widget_removed"
	EventColumnsChanged EventKind = "columns_changed"
)

// Event describes a single store mutation
type Event struct {
	Kind     EventKind `json:"kind"`
	Config   string    `json:"config,omitempty"`
	WidgetID string    `json:"widget_id,omitempty"`
}

// Subscriber receives store events
type Subscriber func(Event)
