package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

var (
	ErrNotFound    = errors.New("config not found in storage")
	ErrInvalidName = errors.New("invalid config name")
	ErrClosed      = errors.New("storage is closed")
	ErrNoTrash     = errors.New("storage keeps no trash")
)

// Backend stores named config documents
type Backend interface {
	ListConfigs(ctx context.Context) ([]string, error)
	LoadConfig(ctx context.Context, name string) (*types.Config, error)
	SaveConfig(ctx context.Context, cfg *types.Config) error
	// DeleteConfig answers with a Message when the delete is refused
	DeleteConfig(ctx context.Context, name string) (types.DeleteResponse, error)
	Close() error
}

// Trash reads archived snapshots of deleted configs
type Trash interface {
	LatestTrashed(ctx context.Context, name string) (*types.Config, error)
}

func encode(cfg *types.Config) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config %s: %w", cfg.Name(), err)
	}
	return data, nil
}

func decode(name string, data []byte) (*types.Config, error) {
	var cfg types.Config
	if err := sonic.ConfigStd.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", name, err)
	}
	if cfg.Properties.Name == "" {
		cfg.Properties.Name = name
	}
	if cfg.Widgets == nil {
		cfg.Widgets = []types.WidgetInstance{}
	}
	return &cfg, nil
}

func refused(format string, args ...any) types.DeleteResponse {
	msg := fmt.Sprintf(format, args...)
	return types.DeleteResponse{Message: &msg}
}
