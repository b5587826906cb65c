// Package server wires the dashboard backend together: widget registry,
// config store, storage backend behind a circuit breaker, lifecycle manager,
// websocket hub, HTTP routes and the middleware stack.
package server
