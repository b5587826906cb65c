package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.Logging.Level = "error"
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	return cfg
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewServerFileBackend(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Shutdown(context.Background())) }()

	assert.Equal(t, "default", s.store.ActiveName())
	assert.FileExists(t, filepath.Join(cfg.Storage.Dir, "default.json"))

	w := serve(s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = serve(s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dashboard_configs_loaded 1")
}

func TestServerWatchesConfigDirectory(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	doc := `{"configProperties":{"name":"lab"},"widgets":[],"layout":{"columns":4}}`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Storage.Dir, "lab.json"), []byte(doc), 0o644))

	assert.Eventually(t, func() bool { return s.store.Has("lab") }, 3*time.Second, 20*time.Millisecond)
}

func TestNewServerSQLiteBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = config.StorageSQLite

	s, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.Storage.Dir, "configs.db"))
	assert.Equal(t, http.StatusConflict, serve(s, http.MethodDelete, "/configs/active").Code)

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))
}

func TestNewServerRejectsBadLogLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Level = "shouty"

	_, err := NewServer(context.Background(), cfg)
	assert.Error(t, err)
}
