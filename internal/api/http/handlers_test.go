package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/lifecycle"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/menu"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/widgets"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

type presenter struct {
	mu            sync.Mutex
	modals        []string
	notifications []types.Notification
}

func (p *presenter) OpenModal(modal string, innerProps any, opts types.ModalOptions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modals = append(p.modals, modal)
}

func (p *presenter) Notify(n types.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
}

type fixture struct {
	router    *gin.Engine
	store     *store.Store
	backend   *persistence.FileBackend
	presenter *presenter

	mu   sync.Mutex
	tabs map[string]*presenter
}

// tab returns the presenter standing in for one websocket client
func (f *fixture) tab(clientID string) *presenter {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.tabs[clientID]
	if !ok {
		p = &presenter{}
		f.tabs[clientID] = p
	}
	return p
}

func (p *presenter) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.modals...)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	backend, err := persistence.NewFileBackend(t.TempDir(), "default", nil)
	require.NoError(t, err)
	require.NoError(t, backend.SaveConfig(ctx, &types.Config{
		Properties: types.ConfigProperties{Name: "work"},
		Widgets: []types.WidgetInstance{{
			ID:         "w1",
			Type:       "weather",
			Properties: map[string]any{"location": "Berlin"},
			Area:       types.Area{X: 0, Y: 0, Width: 1, Height: 1},
		}},
		Layout: types.Layout{Columns: 12},
	}))

	registry := widgets.NewBuiltinRegistry()
	s := store.New(nil)
	p := &presenter{}
	lc := lifecycle.NewManager(s, backend, p, p, registry, nil)
	require.NoError(t, lc.Bootstrap(ctx, "default"))
	t.Cleanup(s.Subscribe(lc.AutoSave(ctx)))

	f := &fixture{store: s, backend: backend, presenter: p, tabs: make(map[string]*presenter)}
	h := NewHandlers(registry, s, lc,
		menu.NewDispatcher(registry, p),
		menu.NewEditor(registry, s, nil),
		nil,
	).WithBreaker(resilience.New("persistence", resilience.Settings{})).
		WithModalRouter(func(clientID string) menu.ModalOpener { return f.tab(clientID) })

	f.router = gin.New()
	h.Register(f.router)
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *fixture) lastModal() string {
	f.presenter.mu.Lock()
	defer f.presenter.mu.Unlock()
	if len(f.presenter.modals) == 0 {
		return ""
	}
	return f.presenter.modals[len(f.presenter.modals)-1]
}

func TestRootAndHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do("GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", decode(t, w)["status"])

	w = f.do("GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "closed", body["storage"].(map[string]any)["state"])
	assert.Equal(t, float64(2), body["store"].(map[string]any)["total_configs"])
}

func TestDefinitions(t *testing.T) {
	f := newFixture(t)

	w := f.do("GET", "/widgets/definitions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["definitions"])

	w = f.do("GET", "/widgets/definitions/weather", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Paris", decode(t, w)["defaults"].(map[string]any)["location"])

	w = f.do("GET", "/widgets/definitions/teleporter", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfigListingAndActivation(t *testing.T) {
	f := newFixture(t)

	w := f.do("GET", "/configs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default", decode(t, w)["active"])

	w = f.do("POST", "/configs/work/activate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "work", f.store.ActiveName())

	w = f.do("GET", "/configs/active", "")
	require.Equal(t, http.StatusOK, w.Code)
	cfg := decode(t, w)["config"].(map[string]any)
	assert.Equal(t, "work", cfg["configProperties"].(map[string]any)["name"])

	w = f.do("POST", "/configs/missing/activate", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do("POST", "/configs/..hidden/activate", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportConfig(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/configs/work/activate", "").Code)

	w := f.do("GET", "/configs/active/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=work.json`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "\n\t\"configProperties\"")

	cfg, err := lifecycle.Decode(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "work", cfg.Name())
}

func TestDeleteConfig(t *testing.T) {
	f := newFixture(t)

	w := f.do("DELETE", "/configs/active", "")
	require.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "cannot delete default", body["error"])
	assert.Equal(t, string(lifecycle.StateRejected), body["result"].(map[string]any)["state"])
	assert.True(t, f.store.Has("default"))

	require.Equal(t, http.StatusOK, f.do("POST", "/configs/work/activate", "").Code)
	w = f.do("DELETE", "/configs/active", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(lifecycle.StateCommitted), decode(t, w)["result"].(map[string]any)["state"])
	assert.False(t, f.store.Has("work"))
	assert.Equal(t, "default", f.store.ActiveName())

	f.presenter.mu.Lock()
	defer f.presenter.mu.Unlock()
	require.Len(t, f.presenter.notifications, 2)
	assert.Equal(t, "green", f.presenter.notifications[1].Color)
}

func TestDeleteConfigWhileLocked(t *testing.T) {
	f := newFixture(t)
	unlock, err := f.store.Lock("default")
	require.NoError(t, err)
	defer unlock()

	w := f.do("DELETE", "/configs/active", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(lifecycle.StateFailed), decode(t, w)["result"].(map[string]any)["state"])
}

func TestDuplicateAndCopy(t *testing.T) {
	f := newFixture(t)

	w := f.do("POST", "/configs/active/duplicate", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, types.ModalConfigCopy, f.lastModal())

	w = f.do("POST", "/configs/active/copy", `{"name":"default-copy"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, f.store.Has("default-copy"))
	assert.Equal(t, "default", f.store.ActiveName())

	w = f.do("POST", "/configs/active/copy", `{"name":"default-copy"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do("POST", "/configs/active/copy", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportConfig(t *testing.T) {
	f := newFixture(t)

	doc := `{"configProperties":{"name":"imported"},"widgets":[],"layout":{"columns":6}}`
	w := f.do("POST", "/configs/import", doc)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, f.store.Has("imported"))

	w = f.do("POST", "/configs/import", doc)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do("POST", "/configs/import", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = f.do("POST", "/configs/import", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetColumns(t *testing.T) {
	f := newFixture(t)

	w := f.do("PUT", "/layout/columns", `{"columns":12}`)
	require.Equal(t, http.StatusOK, w.Code)
	n, ok := f.store.ColumnCount()
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	w = f.do("PUT", "/layout/columns", `{"columns":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["available"])

	w = f.do("PUT", "/layout/columns", `{"columns":-3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWidgetMenu(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/configs/work/activate", "").Code)

	// no column count yet: no actions
	w := f.do("GET", "/widgets/w1/menu", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["actions"])
	assert.Equal(t, http.StatusConflict, f.do("POST", "/widgets/w1/resize", "").Code)

	f.store.SetColumnCount(12)

	w = f.do("GET", "/widgets/w1/menu", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []any{"edit", "resize", "remove"}, body["actions"])
	assert.Equal(t, "weather", body["widgetType"])

	w = f.do("GET", "/widgets/w1/menu?integration=forecast", "")
	assert.Equal(t, "forecast", decode(t, w)["widgetType"])

	assert.Equal(t, http.StatusNotFound, f.do("GET", "/widgets/nope/menu", "").Code)
}

func TestWidgetModalRequests(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/configs/work/activate", "").Code)
	f.store.SetColumnCount(12)

	tests := []struct {
		path  string
		modal string
	}{
		{"/widgets/w1/edit", types.ModalWidgetEdit},
		{"/widgets/w1/resize", types.ModalWidgetPosition},
		{"/widgets/w1/remove", types.ModalWidgetRemove},
	}
	for _, tt := range tests {
		t.Run(tt.modal, func(t *testing.T) {
			w := f.do("POST", tt.path, "")
			require.Equal(t, http.StatusAccepted, w.Code)
			assert.Equal(t, tt.modal, f.lastModal())
		})
	}

	// modal requests never mutate the config
	widget, ok := f.store.Widget("w1")
	require.True(t, ok)
	assert.Equal(t, "Berlin", widget.Properties["location"])
}

func TestModalsFollowClientHeader(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/configs/work/activate", "").Code)
	f.store.SetColumnCount(12)

	send := func(path, clientID string) int {
		req := httptest.NewRequest("POST", path, nil)
		req.Header.Set(clientHeader, clientID)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusAccepted, send("/widgets/w1/edit", "cli_a"))
	require.Equal(t, http.StatusAccepted, send("/widgets/w1/remove", "cli_b"))
	require.Equal(t, http.StatusAccepted, send("/configs/active/duplicate", "cli_a"))

	assert.Equal(t, []string{types.ModalWidgetEdit, types.ModalConfigCopy}, f.tab("cli_a").seen())
	assert.Equal(t, []string{types.ModalWidgetRemove}, f.tab("cli_b").seen())
	assert.Empty(t, f.presenter.seen())

	// requests without a client id reach the shared presenter
	require.Equal(t, http.StatusAccepted, f.do("POST", "/widgets/w1/resize", "").Code)
	assert.Equal(t, []string{types.ModalWidgetPosition}, f.presenter.seen())
}

func TestEditWithoutPropertiesIsUnavailable(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.AddWidget(types.WidgetInstance{ID: "bare", Type: "weather", Area: types.Area{Width: 1, Height: 1}}))
	f.store.SetColumnCount(12)

	w := f.do("POST", "/widgets/bare/edit", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, f.lastModal())

	w = f.do("PUT", "/widgets/bare/properties", `{"properties":{"location":"Rome"}}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	widget, _ := f.store.Widget("bare")
	assert.Nil(t, widget.Properties)
}

func TestWidgetMutationsArePersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.Equal(t, http.StatusOK, f.do("POST", "/configs/work/activate", "").Code)

	w := f.do("PUT", "/widgets/w1/properties", `{"properties":{"location":"&lt;script&gt;alert(1)&lt;/script&gt;Oslo"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do("POST", "/widgets", `{"type":"date"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	persisted, err := f.backend.LoadConfig(ctx, "work")
	require.NoError(t, err)
	require.Len(t, persisted.Widgets, 2)
	assert.Equal(t, "Oslo", persisted.Widgets[0].Properties["location"])
	assert.Equal(t, "date", persisted.Widgets[1].Type)
}

func TestRestoreConfig(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/configs/work/activate", "").Code)
	require.Equal(t, http.StatusOK, f.do("DELETE", "/configs/active", "").Code)

	w := f.do("POST", "/configs/work/restore", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "work", decode(t, w)["config"].(map[string]any)["name"])
	assert.True(t, f.store.Has("work"))
	assert.Equal(t, "default", f.store.ActiveName())

	assert.Equal(t, http.StatusConflict, f.do("POST", "/configs/work/restore", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do("POST", "/configs/ghost/restore", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/configs/..hidden/restore", "").Code)
}

func TestWidgetMutations(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/configs/work/activate", "").Code)
	f.store.SetColumnCount(4)

	w := f.do("PUT", "/widgets/w1/properties", `{"properties":{"location":"<b>Oslo</b>"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	widget, _ := f.store.Widget("w1")
	assert.Equal(t, "Oslo", widget.Properties["location"])

	w = f.do("PUT", "/widgets/w1/properties", `{"properties":{"location":42}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do("PUT", "/widgets/w1/area", `{"x":1,"y":2,"width":2,"height":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	widget, _ = f.store.Widget("w1")
	assert.Equal(t, types.Area{X: 1, Y: 2, Width: 2, Height: 1}, widget.Area)

	w = f.do("PUT", "/widgets/w1/area", `{"x":3,"y":0,"width":2,"height":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do("POST", "/widgets", `{"type":"date"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)["widget"].(map[string]any)
	assert.True(t, strings.HasPrefix(created["id"].(string), "wdg_"))

	w = f.do("POST", "/widgets", `{"type":"teleporter"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do("DELETE", "/widgets/w1", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do("DELETE", "/widgets/w1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", store.ErrConfigNotFound), http.StatusNotFound},
		{persistence.ErrNotFound, http.StatusNotFound},
		{store.ErrConfigBusy, http.StatusConflict},
		{lifecycle.ErrConfigExists, http.StatusConflict},
		{lifecycle.ErrInvalidName, http.StatusBadRequest},
		{widgets.ErrInvalidProperty, http.StatusBadRequest},
		{resilience.ErrCircuitOpen, http.StatusServiceUnavailable},
		{persistence.ErrNoTrash, http.StatusNotImplemented},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
