package paths

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	l := Layout{Root: "/data"}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, filepath.Join("/data", "work.json"), l.ConfigFile("work"))
	assert.Equal(t, filepath.Join("/data", ".trash"), l.Trash())
	assert.Equal(t, filepath.Join("/data", ".trash", "work-20240501T120000.json.gz"), l.TrashFile("work", ts))
	assert.Equal(t, filepath.Join("/data", "configs.db"), l.Database())
}

func TestConfigName(t *testing.T) {
	tests := []struct {
		path string
		name string
		ok   bool
	}{
		{"/data/work.json", "work", true},
		{"/data/my board.json", "my board", true},
		{"/data/.work.json.swp", "", false},
		{"/data/.hidden.json", "", false},
		{"/data/notes.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			name, ok := ConfigName(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestTrashedName(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := Layout{Root: "/data"}

	name, ok := TrashedName(l.TrashFile("work-2", ts))
	assert.True(t, ok)
	assert.Equal(t, "work-2", name)

	for _, path := range []string{
		"/data/.trash/work.json.gz",
		"/data/.trash/-20240501T120000.json.gz",
		"/data/.trash/work-2024.json.gz",
		"/data/.trash/work-20240501T120000.json",
	} {
		_, ok := TrashedName(path)
		assert.False(t, ok, path)
	}
}
