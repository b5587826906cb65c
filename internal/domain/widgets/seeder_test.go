package widgets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

const yamlPack = `widgets:
  - id: clock
    icon: clock
    options:
      showSeconds:
        type: switch
        defaultValue: true
      timezone:
        type: select
        defaultValue: UTC
        data:
          - value: UTC
          - value: Europe/Berlin
  - id: notes
    options: {}
`

const tomlPack = `[[widgets]]
id = "ping"
icon = "network"

[widgets.options.host]
type = "text"
defaultValue = "localhost"

[widgets.options.interval]
type = "slider"
defaultValue = 30.0
min = 5.0
max = 300.0
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSeedLoadsYAMLAndTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), yamlPack)
	writeFile(t, filepath.Join(dir, "network", "ping.toml"), tomlPack)
	writeFile(t, filepath.Join(dir, "README.md"), "not a pack")

	r := NewRegistry()
	loaded, err := NewSeeder(r, dir, nil).Seed()
	require.NoError(t, err)
	assert.Equal(t, 3, loaded)

	clock, ok := r.Lookup("clock")
	require.True(t, ok)
	assert.Equal(t, types.OptionSelect, clock.Options["timezone"].Kind)
	assert.Len(t, clock.Options["timezone"].Data, 2)

	notes, ok := r.Lookup("notes")
	require.True(t, ok)
	assert.False(t, notes.Editable())

	ping, ok := r.Lookup("ping")
	require.True(t, ok)
	require.NotNil(t, ping.Options["interval"].Max)
	assert.Equal(t, 300.0, *ping.Options["interval"].Max)
}

func TestSeedSkipsBrokenPacks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.yml"), yamlPack)
	writeFile(t, filepath.Join(dir, "broken.yaml"), "widgets: [::")

	r := NewRegistry()
	loaded, err := NewSeeder(r, dir, nil).Seed()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
}

func TestSeedDuplicateOfBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dup.yaml"), "widgets:\n  - id: weather\n    options: {}\n")

	r := NewRegistry()
	require.NoError(t, r.RegisterAll(Builtins()))

	loaded, err := NewSeeder(r, dir, nil).Seed()
	require.NoError(t, err)
	assert.Zero(t, loaded)

	def, _ := r.Lookup("weather")
	assert.True(t, def.Editable())
}

func TestSeedMissingDir(t *testing.T) {
	loaded, err := NewSeeder(NewRegistry(), filepath.Join(t.TempDir(), "absent"), nil).Seed()
	require.NoError(t, err)
	assert.Zero(t, loaded)
}

func TestSeedSkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "hooks.yaml"), yamlPack)
	writeFile(t, filepath.Join(dir, "a", "b", "ping.toml"), tomlPack)

	r := NewRegistry()
	loaded, err := NewSeeder(r, dir, nil).Seed()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	_, ok := r.Lookup("clock")
	assert.False(t, ok)
}
