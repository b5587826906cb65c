// Package paths provides the on-disk layout of the config storage directory.
//
// Layout:
//
//	<root>/<name>.json                 persisted config documents
//	<root>/.trash/<name>-<ts>.json.gz  archived deleted configs
//	<root>/configs.db                  sqlite backend database
package paths
