package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

func testConfig(name string, widgets ...types.WidgetInstance) *types.Config {
	return &types.Config{
		Properties: types.ConfigProperties{Name: name},
		Widgets:    widgets,
		Layout:     types.Layout{Columns: 12},
	}
}

func TestLoadFirstConfigBecomesActive(t *testing.T) {
	s := New(nil)

	s.Load(testConfig("default"))
	s.Load(testConfig("work"))

	assert.Equal(t, "default", s.ActiveName())
	assert.Equal(t, []string{"default", "work"}, s.Names())
}

func TestGetReturnsCopy(t *testing.T) {
	s := New(nil)
	s.Load(testConfig("default", types.WidgetInstance{
		ID:         "w1",
		Type:       "weather",
		Properties: map[string]any{"location": "Berlin"},
	}))

	cfg, ok := s.Get("default")
	require.True(t, ok)
	cfg.Widgets[0].Properties["location"] = "Paris"

	w, ok := s.Widget("w1")
	require.True(t, ok)
	assert.Equal(t, "Berlin", w.Properties["location"])
}

func TestSetActive(t *testing.T) {
	s := New(nil)
	s.Load(testConfig("default"))
	s.Load(testConfig("work"))

	require.NoError(t, s.SetActive("work"))
	assert.Equal(t, "work", s.ActiveName())

	err := s.SetActive("missing")
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Equal(t, "work", s.ActiveName())
}

func TestList(t *testing.T) {
	s := New(nil)
	s.Load(testConfig("work", types.WidgetInstance{ID: "w1", Type: "date"}))
	s.Load(testConfig("default"))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "default", list[0].Name)
	assert.False(t, list[0].Active)
	assert.Equal(t, "work", list[1].Name)
	assert.True(t, list[1].Active)
	assert.Equal(t, 1, list[1].WidgetCount)
}

func TestRemoveConfig(t *testing.T) {
	t.Run("inactive", func(t *testing.T) {
		s := New(nil)
		s.Load(testConfig("default"))
		s.Load(testConfig("work"))

		assert.True(t, s.RemoveConfig("work"))
		assert.Equal(t, []string{"default"}, s.Names())
		assert.Equal(t, "default", s.ActiveName())
	})

	t.Run("active falls back", func(t *testing.T) {
		s := New(nil)
		s.Load(testConfig("work"))
		s.Load(testConfig("default"))
		s.Load(testConfig("zeta"))

		assert.True(t, s.RemoveConfig("work"))
		assert.Equal(t, "default", s.ActiveName())
	})

	t.Run("last config", func(t *testing.T) {
		s := New(nil)
		s.Load(testConfig("work"))

		assert.True(t, s.RemoveConfig("work"))
		assert.Equal(t, "", s.ActiveName())
		_, ok := s.Active()
		assert.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		s := New(nil)
		assert.False(t, s.RemoveConfig("ghost"))
	})
}

func TestWidgetMutations(t *testing.T) {
	s := New(nil)
	s.Load(testConfig("default"))

	w := types.WidgetInstance{ID: "w1", Type: "weather", Properties: map[string]any{"location": "Berlin"}}
	require.NoError(t, s.AddWidget(w))
	assert.ErrorIs(t, s.AddWidget(w), ErrWidgetExists)

	require.NoError(t, s.UpdateWidgetProperties("w1", map[string]any{"location": "Oslo"}))
	got, ok := s.Widget("w1")
	require.True(t, ok)
	assert.Equal(t, "Oslo", got.Properties["location"])

	area := types.Area{X: 2, Y: 1, Width: 4, Height: 2}
	require.NoError(t, s.UpdateWidgetArea("w1", area))
	got, _ = s.Widget("w1")
	assert.Equal(t, area, got.Area)

	require.NoError(t, s.RemoveWidget("w1"))
	_, ok = s.Widget("w1")
	assert.False(t, ok)

	assert.ErrorIs(t, s.RemoveWidget("w1"), ErrWidgetNotFound)
	assert.ErrorIs(t, s.UpdateWidgetArea("w1", area), ErrWidgetNotFound)
	assert.ErrorIs(t, s.UpdateWidgetProperties("w1", nil), ErrWidgetNotFound)
}

func TestWidgetMutationWithoutActive(t *testing.T) {
	s := New(nil)
	err := s.AddWidget(types.WidgetInstance{ID: "w1", Type: "date"})
	assert.ErrorIs(t, err, ErrNoActiveConfig)
}

func TestLock(t *testing.T) {
	s := New(nil)
	s.Load(testConfig("default", types.WidgetInstance{ID: "w1", Type: "date"}))

	unlock, err := s.Lock("default")
	require.NoError(t, err)
	assert.True(t, s.IsLocked("default"))

	_, err = s.Lock("default")
	assert.ErrorIs(t, err, ErrConfigBusy)

	assert.ErrorIs(t, s.RemoveWidget("w1"), ErrConfigBusy)

	unlock()
	unlock()
	assert.False(t, s.IsLocked("default"))
	assert.NoError(t, s.RemoveWidget("w1"))
}

func TestColumnCount(t *testing.T) {
	s := New(nil)

	_, ok := s.ColumnCount()
	assert.False(t, ok)

	s.SetColumnCount(8)
	n, ok := s.ColumnCount()
	assert.True(t, ok)
	assert.Equal(t, 8, n)

	s.SetColumnCount(0)
	_, ok = s.ColumnCount()
	assert.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	s := New(nil)

	var mu sync.Mutex
	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	s.Load(testConfig("default"))
	require.NoError(t, s.AddWidget(types.WidgetInstance{ID: "w1", Type: "date"}))
	s.RemoveConfig("default")

	unsubscribe()
	s.Load(testConfig("work"))

	mu.Lock()
	defer mu.Unlock()
	kinds := make([]EventKind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []EventKind{
		EventConfigLoaded,
		EventActiveChanged,
		EventWidgetAdded,
		EventConfigRemoved,
		EventActiveChanged,
	}, kinds)
	assert.Equal(t, "w1", events[2].WidgetID)
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := New(nil)
	var seen []string
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventWidgetAdded {
			cfg, ok := s.Active()
			if ok {
				seen = append(seen, cfg.Widgets[len(cfg.Widgets)-1].ID)
			}
		}
	})

	s.Load(testConfig("default"))
	require.NoError(t, s.AddWidget(types.WidgetInstance{ID: "w1", Type: "date"}))

	assert.Equal(t, []string{"w1"}, seen)
}

type recordingMetrics struct {
	configs int
	widgets int
}

func (r *recordingMetrics) SetConfigsLoaded(count int) { r.configs = count }
func (r *recordingMetrics) SetWidgetsActive(count int) { r.widgets = count }

func TestStatsAndMetrics(t *testing.T) {
	m := &recordingMetrics{}
	s := New(nil).WithMetrics(m)

	s.Load(testConfig("default", types.WidgetInstance{ID: "w1", Type: "date"}))
	s.Load(testConfig("work"))
	s.SetColumnCount(6)
	s.Subscribe(func(Event) {})

	stats := s.Stats()
	assert.Equal(t, 2, stats.TotalConfigs)
	assert.Equal(t, "default", stats.ActiveConfig)
	assert.Equal(t, 1, stats.ActiveWidgets)
	require.NotNil(t, stats.ColumnCount)
	assert.Equal(t, 6, *stats.ColumnCount)
	assert.Equal(t, 1, stats.Subscribers)
	assert.NotNil(t, stats.LastMutation)

	assert.Equal(t, 2, m.configs)
	assert.Equal(t, 1, m.widgets)
}

func TestConcurrentAccess(t *testing.T) {
	s := New(nil)
	s.Load(testConfig("default"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := types.WidgetInstance{ID: string(rune('a' + i)), Type: "date"}
			_ = s.AddWidget(id)
			_, _ = s.Active()
			_ = s.List()
		}(i)
	}
	wg.Wait()

	cfg, ok := s.Active()
	require.True(t, ok)
	assert.Len(t, cfg.Widgets, 20)
}
