// Package persistence provides storage backends for named dashboard configs.
//
// Backends:
//   - FileBackend: one tab-indented JSON document per config, deleted
//     configs archived as gzip snapshots under .trash
//   - SQLiteBackend: configs and a zstd-compressed trash table in a sqlite database
//
// Guarded wraps any backend with a circuit breaker. Watcher follows a
// FileBackend directory with fsnotify and reports external edits.
//
// DeleteConfig distinguishes a refusal (a DeleteResponse carrying a
// Message, e.g. for the protected default config) from a failure to reach
// the storage (an error).
package persistence
