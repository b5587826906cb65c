package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/widgets"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

type mockOpener struct {
	mock.Mock
}

func (m *mockOpener) OpenModal(modal string, innerProps any, opts types.ModalOptions) {
	m.Called(modal, innerProps, opts)
}

func testRegistry(t *testing.T) *widgets.Registry {
	t.Helper()
	reg := widgets.NewRegistry()
	require.NoError(t, reg.RegisterAll([]types.WidgetDefinition{
		{
			Type:    "weather",
			Options: map[string]types.OptionSpec{"city": {Kind: types.OptionText, Default: "Paris"}},
			Size:    types.GridSize{MinWidth: 1, MinHeight: 1, Width: 1, Height: 1},
		},
		{Type: "usenet", Options: map[string]types.OptionSpec{}},
	}))
	reg.Freeze()
	return reg
}

func columns(n int) *int { return &n }

func TestMenuRequiresWidgetAndColumns(t *testing.T) {
	d := NewDispatcher(testRegistry(t), &mockOpener{})
	w := &types.WidgetInstance{ID: "w1", Type: "weather"}

	assert.Nil(t, d.Menu("weather", nil, columns(12)))
	assert.Nil(t, d.Menu("weather", w, nil))
	assert.Nil(t, d.Menu("weather", w, columns(0)))
	assert.NotNil(t, d.Menu("weather", w, columns(12)))
}

func TestCanEdit(t *testing.T) {
	d := NewDispatcher(testRegistry(t), &mockOpener{})

	tests := []struct {
		name   string
		widget types.WidgetInstance
		want   bool
	}{
		{"properties and options", types.WidgetInstance{ID: "w1", Type: "weather", Properties: map[string]any{"city": "Berlin"}}, true},
		{"empty properties still defined", types.WidgetInstance{ID: "w1", Type: "weather", Properties: map[string]any{}}, true},
		{"undefined properties", types.WidgetInstance{ID: "w1", Type: "weather"}, false},
		{"empty option schema", types.WidgetInstance{ID: "w1", Type: "usenet", Properties: map[string]any{}}, false},
		{"unknown type", types.WidgetInstance{ID: "w1", Type: "ghost", Properties: map[string]any{"a": 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.widget
			m := d.Menu("", &w, columns(12))
			require.NotNil(t, m)
			assert.Equal(t, tt.want, m.CanEdit())
		})
	}
}

func TestWithOpener(t *testing.T) {
	shared := &mockOpener{}
	tab := &mockOpener{}
	tab.On("OpenModal", types.ModalWidgetRemove, mock.Anything, mock.Anything).Return()

	d := NewDispatcher(testRegistry(t), shared)
	w := types.WidgetInstance{ID: "w1", Type: "weather"}
	d.WithOpener(tab).Menu("", &w, columns(4)).RequestRemove()

	tab.AssertExpectations(t)
	shared.AssertNotCalled(t, "OpenModal", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnknownTypeKeepsResizeAndRemove(t *testing.T) {
	opener := &mockOpener{}
	opener.On("OpenModal", mock.Anything, mock.Anything, mock.Anything).Return()
	d := NewDispatcher(testRegistry(t), opener)

	w := &types.WidgetInstance{ID: "w9", Type: "ghost", Properties: map[string]any{}}
	m := d.Menu("", w, columns(6))
	require.NotNil(t, m)

	assert.Equal(t, []string{ActionResize, ActionRemove}, m.Actions())
	assert.ErrorIs(t, m.RequestEdit(), ErrEditUnavailable)

	m.RequestResize()
	m.RequestRemove()
	opener.AssertNumberOfCalls(t, "OpenModal", 2)
	opener.AssertNotCalled(t, "OpenModal", types.ModalWidgetEdit, mock.Anything, mock.Anything)
}

func TestRequestEditPayload(t *testing.T) {
	opener := &mockOpener{}
	d := NewDispatcher(testRegistry(t), opener)

	w := &types.WidgetInstance{ID: "w1", Type: "weather", Properties: map[string]any{"city": "Berlin"}}
	m := d.Menu("weather-integration", w, columns(12))
	require.NotNil(t, m)

	want := types.EditRequest{
		WidgetID:   "w1",
		WidgetType: "weather-integration",
		Options:    map[string]any{"city": "Berlin"},
		WidgetOptions: map[string]types.OptionSpec{
			"city": {Kind: types.OptionText, Default: "Paris"},
		},
	}
	opener.On("OpenModal", types.ModalWidgetEdit, want, types.ModalOptions{Title: editTitle, ZIndex: 5}).Return().Once()

	require.NoError(t, m.RequestEdit())
	opener.AssertExpectations(t)
	opener.AssertNumberOfCalls(t, "OpenModal", 1)
}

func TestRequestResizePayload(t *testing.T) {
	opener := &mockOpener{}
	d := NewDispatcher(testRegistry(t), opener)

	w := &types.WidgetInstance{ID: "w1", Type: "weather", Area: types.Area{Width: 2, Height: 1}}
	m := d.Menu("", w, columns(10))

	want := types.ChangePositionRequest{
		WidgetID:           "w1",
		WidgetType:         "weather",
		Widget:             *w,
		WrapperColumnCount: 10,
	}
	opener.On("OpenModal", types.ModalWidgetPosition, want, types.ModalOptions{Size: "xl"}).Return().Once()

	m.RequestResize()
	opener.AssertExpectations(t)
}

func TestRequestRemovePayload(t *testing.T) {
	opener := &mockOpener{}
	d := NewDispatcher(testRegistry(t), opener)

	w := &types.WidgetInstance{ID: "w1", Type: "weather"}
	m := d.Menu("", w, columns(10))

	want := types.RemoveRequest{WidgetID: "w1", WidgetType: "weather"}
	opener.On("OpenModal", types.ModalWidgetRemove, want, types.ModalOptions{Title: removeTitle}).Return().Once()

	m.RequestRemove()
	opener.AssertExpectations(t)
}

func TestMenuHoldsCopy(t *testing.T) {
	d := NewDispatcher(testRegistry(t), &mockOpener{})

	w := &types.WidgetInstance{ID: "w1", Type: "weather", Properties: map[string]any{"city": "Berlin"}}
	m := d.Menu("", w, columns(12))
	w.Properties["city"] = "Rome"

	req, err := m.EditRequest()
	require.NoError(t, err)
	assert.Equal(t, "Berlin", req.Options["city"])
}

func TestState(t *testing.T) {
	d := NewDispatcher(testRegistry(t), &mockOpener{})

	w := &types.WidgetInstance{ID: "w1", Type: "weather", Properties: map[string]any{}}
	state := d.Menu("", w, columns(4)).State()

	assert.Equal(t, State{
		WidgetID:    "w1",
		WidgetType:  "weather",
		Actions:     []string{ActionEdit, ActionResize, ActionRemove},
		ColumnCount: 4,
	}, state)
}
