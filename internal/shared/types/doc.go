// Package types provides shared data structures for the dashboard backend.
//
// Core Types:
//   - WidgetDefinition: static option schema of a widget type
//   - OptionSpec: one option of a schema, tagged by OptionKind
//   - WidgetInstance: a placed tile with its property values
//   - Config: a named collection of widgets plus layout metadata
//
// Request Types:
//   - EditRequest, ChangePositionRequest, RemoveRequest: tile menu modals
//   - CopyConfigRequest: config naming prompt
//   - Notification: toast shown to the user
//   - DeleteResponse: persistence answer to a delete
//
// Example Usage:
//
//	w := types.WidgetInstance{
//	    ID:         "wdg_01J...",
//	    Type:       "weather",
//	    Properties: map[string]any{"location": "Berlin"},
//	}
package types
