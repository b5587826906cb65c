package types

// Modal names understood by the presentation layer
const (
	ModalWidgetEdit     = "integrationOptions"
	ModalWidgetPosition = "changeIntegrationPositionModal"
	ModalWidgetRemove   = "integrationRemove"
	ModalConfigCopy     = "createConfigCopy"
)

// ModalOptions controls how the presentation layer shows a modal
type ModalOptions struct {
	Title  string `json:"title,omitempty"`
	Size   string `json:"size,omitempty"`
	ZIndex int    `json:"zIndex,omitempty"`
}

// EditRequest is the payload of the widget options modal
type EditRequest struct {
	WidgetID      string                `json:"widgetId"`
	WidgetType    string                `json:"widgetType"`
	Options       map[string]any        `json:"options"`
	WidgetOptions map[string]OptionSpec `json:"widgetOptions"`
}

// ChangePositionRequest is the payload of the resize/move modal
type ChangePositionRequest struct {
	WidgetID           string         `json:"widgetId"`
	WidgetType         string         `json:"widgetType"`
	Widget             WidgetInstance `json:"widget"`
	WrapperColumnCount int            `json:"wrapperColumnCount"`
}

// RemoveRequest is the payload of the remove confirmation modal
type RemoveRequest struct {
	WidgetID   string `json:"widgetId"`
	WidgetType string `json:"widgetType"`
}

// CopyConfigRequest is the payload of the config naming prompt
type CopyConfigRequest struct {
	InitialConfigName string `json:"initialConfigName"`
}

// Notification is a toast shown to the user
type Notification struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	AutoCloseMs int    `json:"autoClose,omitempty"`
	Radius      string `json:"radius,omitempty"`
}

// DeleteResponse is the persistence answer to a delete request.
// A nil Message means the deletion succeeded.
type DeleteResponse struct {
	Message *string `json:"message,omitempty"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string `json:"type"`
	Columns int    `json:"columns,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// WidgetCreateRequest is the body of an add-widget call
type WidgetCreateRequest struct {
	Type       string         `json:"type" binding:"required"`
	Properties map[string]any `json:"properties"`
	Area       *Area          `json:"area"`
}

// PropertiesUpdateRequest is the submitted body of the edit modal
type PropertiesUpdateRequest struct {
	Properties map[string]any `json:"properties" binding:"required"`
}

// ConfigNameRequest carries a config name
type ConfigNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// ColumnsRequest reports the current grid width
type ColumnsRequest struct {
	Columns int `json:"columns"`
}
