// Package main is the entry point for the dashboard backend.
//
// The server keeps the dashboard configs, answers the REST API used by the
// dashboard frontend and pushes modal requests, notifications and config
// changes over a websocket stream.
//
// Configuration:
//   - Environment variables (12-factor), see internal/infrastructure/config
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	STORAGE_DIR=/var/lib/dashboard ./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
//	# SQLite storage
//	STORAGE_BACKEND=sqlite STORAGE_DSN=file:/var/lib/dashboard/configs.db ./server
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
