// Package http provides the REST API of the dashboard backend.
//
// Endpoints:
//   - Health: / and /health
//   - Definitions: /widgets/definitions, /widgets/definitions/:type
//   - Configs: /configs, /configs/:name/activate, /configs/import
//   - Active config: /configs/active, its export, duplicate and copy
//   - Layout: /layout/columns
//   - Widgets: /widgets, /widgets/:id/{menu,edit,resize,remove,properties,area}
//
// The edit, resize and remove endpoints do not change anything. They ask the
// presentation layer to open the matching modal; the submitted modal comes
// back through the properties, area and DELETE endpoints.
//
// Domain errors are mapped to status codes in one table and returned as
// {"error": "..."}.
//
// Example Usage:
//
//	handlers := http.NewHandlers(registry, store, lifecycle, dispatcher, editor, logger)
//	handlers.Register(router)
package http
