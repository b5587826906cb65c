// Package ws provides the WebSocket hub the dashboard frontend listens on.
//
// The hub is the backend's presentation layer. Domain managers never talk to
// the browser directly: they call OpenModal or Notify, and the store's
// mutation events are forwarded as they happen.
//
// Message Types (Server → Client), each wrapped in an Envelope:
//   - system: connection greeting
//   - modal: open a named modal with innerProps and options
//   - notification: show a toast
//   - store_event: a config or widget changed
//   - pong, error
//
// Message Types (Client → Server):
//   - ping: keep-alive
//   - columns: report the current grid width ({"type":"columns","columns":12})
//
// Each client has a buffered send queue and a dedicated writer goroutine. A
// client that cannot keep up is disconnected rather than slowing the others.
//
// Example Usage:
//
//	hub := ws.NewHub(store, logger, cfg.Server.AllowedOrigins...)
//	unsubscribe := store.Subscribe(hub.HandleStoreEvent)
//	router.GET("/stream", hub.Handle)
package ws
