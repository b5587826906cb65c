package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ListConfigs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockBackend) LoadConfig(ctx context.Context, name string) (*types.Config, error) {
	args := m.Called(ctx, name)
	cfg, _ := args.Get(0).(*types.Config)
	return cfg, args.Error(1)
}

func (m *mockBackend) SaveConfig(ctx context.Context, cfg *types.Config) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *mockBackend) DeleteConfig(ctx context.Context, name string) (types.DeleteResponse, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(types.DeleteResponse), args.Error(1)
}

func (m *mockBackend) Close() error {
	return m.Called().Error(0)
}

type observation struct {
	op  string
	err error
}

type recordingObserver struct {
	calls []observation
}

func (r *recordingObserver) ObservePersistence(op string, _ time.Duration, err error) {
	r.calls = append(r.calls, observation{op: op, err: err})
}

func TestGuardedPassesThrough(t *testing.T) {
	backend := &mockBackend{}
	obs := &recordingObserver{}
	g := NewGuarded(backend, resilience.Settings{FailureThreshold: 2}).WithObserver(obs)
	ctx := context.Background()

	msg := "cannot delete default"
	backend.On("ListConfigs", ctx).Return([]string{"default"}, nil)
	backend.On("DeleteConfig", ctx, "default").Return(types.DeleteResponse{Message: &msg}, nil)

	names, err := g.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, names)

	resp, err := g.DeleteConfig(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, &msg, resp.Message)

	assert.Equal(t, []observation{{op: "list"}, {op: "delete"}}, obs.calls)
	backend.AssertExpectations(t)
}

func TestGuardedTripsOnFailures(t *testing.T) {
	backend := &mockBackend{}
	g := NewGuarded(backend, resilience.Settings{FailureThreshold: 2, Timeout: time.Minute})
	ctx := context.Background()

	diskErr := errors.New("disk I/O error")
	backend.On("SaveConfig", ctx, mock.Anything).Return(diskErr).Twice()

	cfg := &types.Config{Properties: types.ConfigProperties{Name: "work"}}
	assert.ErrorIs(t, g.SaveConfig(ctx, cfg), diskErr)
	assert.ErrorIs(t, g.SaveConfig(ctx, cfg), diskErr)

	_, err := g.DeleteConfig(ctx, "work")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, resilience.StateOpen, g.Breaker().State())
	backend.AssertNotCalled(t, "DeleteConfig", ctx, "work")
}

func TestGuardedNotFoundIsNotAFailure(t *testing.T) {
	backend := &mockBackend{}
	g := NewGuarded(backend, resilience.Settings{FailureThreshold: 1})
	ctx := context.Background()

	backend.On("LoadConfig", ctx, "ghost").Return(nil, ErrNotFound)

	for i := 0; i < 3; i++ {
		_, err := g.LoadConfig(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, resilience.StateClosed, g.Breaker().State())
}

func TestIsBackendFailure(t *testing.T) {
	assert.False(t, IsBackendFailure(nil))
	assert.False(t, IsBackendFailure(ErrNotFound))
	assert.False(t, IsBackendFailure(ErrInvalidName))
	assert.False(t, IsBackendFailure(ErrNoTrash))
	assert.False(t, IsBackendFailure(context.Canceled))
	assert.False(t, IsBackendFailure(fmt.Errorf("failed to save config work: %w", context.DeadlineExceeded)))
	assert.True(t, IsBackendFailure(ErrClosed))
}

func TestGuardedCancelledCallersDoNotTrip(t *testing.T) {
	backend := &mockBackend{}
	g := NewGuarded(backend, resilience.Settings{FailureThreshold: 1, Timeout: time.Minute})
	ctx := context.Background()

	backend.On("SaveConfig", ctx, mock.Anything).Return(fmt.Errorf("write aborted: %w", context.Canceled))

	cfg := &types.Config{Properties: types.ConfigProperties{Name: "work"}}
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, g.SaveConfig(ctx, cfg), context.Canceled)
	}
	assert.Equal(t, resilience.StateClosed, g.Breaker().State())
}

func TestGuardedTrashRequiresSupport(t *testing.T) {
	g := NewGuarded(&mockBackend{}, resilience.Settings{FailureThreshold: 1})

	_, err := g.LatestTrashed(context.Background(), "work")
	assert.ErrorIs(t, err, ErrNoTrash)
	assert.Equal(t, resilience.StateClosed, g.Breaker().State())
}
