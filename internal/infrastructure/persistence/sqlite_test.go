package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "db", "configs.db"), "default", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSQLiteBackendSaveLoad(t *testing.T) {
	b := newSQLiteBackend(t)
	ctx := context.Background()

	require.NoError(t, b.SaveConfig(ctx, sampleConfig("work")))
	require.NoError(t, b.SaveConfig(ctx, sampleConfig("default")))

	updated := sampleConfig("work")
	updated.Layout.Columns = 6
	require.NoError(t, b.SaveConfig(ctx, updated))

	names, err := b.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "work"}, names)

	cfg, err := b.LoadConfig(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, updated, cfg)

	_, err = b.LoadConfig(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteBackendDelete(t *testing.T) {
	b := newSQLiteBackend(t)
	ctx := context.Background()
	require.NoError(t, b.SaveConfig(ctx, sampleConfig("default")))
	require.NoError(t, b.SaveConfig(ctx, sampleConfig("work")))

	resp, err := b.DeleteConfig(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, resp.Message)
	assert.Equal(t, "cannot delete default", *resp.Message)

	resp, err = b.DeleteConfig(ctx, "work")
	require.NoError(t, err)
	assert.Nil(t, resp.Message)

	names, err := b.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, names)

	archived, err := b.LatestTrashed(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, "work", archived.Name())

	_, err = b.LatestTrashed(ctx, "default")
	assert.ErrorIs(t, err, ErrNotFound)

	resp, err = b.DeleteConfig(ctx, "work")
	require.NoError(t, err)
	require.NotNil(t, resp.Message)
}

func TestSQLiteFilePath(t *testing.T) {
	tests := []struct {
		dsn    string
		path   string
		onDisk bool
	}{
		{":memory:", "", false},
		{"file::memory:?cache=shared", "", false},
		{"file:/tmp/a.db?_pragma=foreign_keys(1)", "/tmp/a.db", true},
		{"data/configs.db", "data/configs.db", true},
	}
	for _, tt := range tests {
		path, onDisk := sqliteFilePath(tt.dsn)
		assert.Equal(t, tt.onDisk, onDisk, tt.dsn)
		assert.Equal(t, tt.path, path, tt.dsn)
	}
}
