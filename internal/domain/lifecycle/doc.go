// Package lifecycle implements whole-config actions: export, delete,
// duplicate, copy, import, activate and startup bootstrap.
//
// Delete is two-phase. The config is locked in the store, the persistence
// backend is asked to remove it, and only an acknowledged removal is applied
// to the store. A backend that answers with a message rejects the delete and
// leaves the store untouched. A backend that cannot be reached fails the
// delete. Nothing is retried.
//
// Export writes the active config as tab-indented JSON through a FileSaver.
// Values of secret options are removed before serialization.
package lifecycle
