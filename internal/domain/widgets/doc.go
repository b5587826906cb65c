// Package widgets provides the widget definition registry.
//
// The registry maps a widget type identifier to its static definition
// (option schema, default grid size). It is filled once at startup from
// the builtin set and optional definition packs on disk, then frozen.
// After Freeze the registry is read-only and safe for concurrent lookups.
//
// Components:
//   - Registry: O(1) type lookup, listing and default properties
//   - Seeder: loads *.yaml, *.yml and *.toml definition packs
//   - ValidateProperties: checks submitted values against a schema
//
// Example Usage:
//
//	reg := widgets.NewRegistry()
//	_ = reg.RegisterAll(widgets.Builtins())
//	_, _ = widgets.NewSeeder(reg, "./widgets.d", logger).Seed()
//	reg.Freeze()
//
//	def, ok := reg.Lookup("weather")
package widgets
