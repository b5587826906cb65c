package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/utils"
)

// FileBackend keeps one JSON document per config in a directory. Deleted
// configs are archived as gzip snapshots in the trash directory.
type FileBackend struct {
	layout    paths.Layout
	protected string
	logger    *zap.Logger

	mu      sync.Mutex
	written map[string]string // name -> hash of the last document we wrote
	closed  bool
	now     func() time.Time
}

// NewFileBackend creates the storage directory if needed. Deleting the
// protected config is always refused.
func NewFileBackend(dir, protected string, logger *zap.Logger) (*FileBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBackend{
		layout:    paths.Layout{Root: dir},
		protected: protected,
		logger:    logger,
		written:   make(map[string]string),
		now:       time.Now,
	}, nil
}

// Dir returns the storage directory
func (b *FileBackend) Dir() string {
	return b.layout.Root
}

// ListConfigs returns the names of all stored configs
func (b *FileBackend) ListConfigs(ctx context.Context) ([]string, error) {
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(b.layout.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := paths.ConfigName(entry.Name()); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadConfig reads a stored config
func (b *FileBackend) LoadConfig(ctx context.Context, name string) (*types.Config, error) {
	if err := b.check(ctx); err != nil {
		return nil, err
	}
	if err := utils.ValidateConfigName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	data, err := os.ReadFile(b.layout.ConfigFile(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", name, err)
	}
	return decode(name, data)
}

// SaveConfig writes a config atomically
func (b *FileBackend) SaveConfig(ctx context.Context, cfg *types.Config) error {
	if err := b.check(ctx); err != nil {
		return err
	}
	name := cfg.Name()
	if err := utils.ValidateConfigName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	data, err := encode(cfg)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := writeAtomic(b.layout.ConfigFile(name), data); err != nil {
		return fmt.Errorf("failed to write config %s: %w", name, err)
	}
	b.written[name] = utils.HashBytes(data)

	b.logger.Debug("Config written", zap.String("config", name), zap.Int("bytes", len(data)))
	return nil
}

// DeleteConfig archives and removes a config. Deleting the protected or a
// missing config is refused with a message.
func (b *FileBackend) DeleteConfig(ctx context.Context, name string) (types.DeleteResponse, error) {
	if err := b.check(ctx); err != nil {
		return types.DeleteResponse{}, err
	}
	if name == b.protected {
		return refused("cannot delete %s", name), nil
	}
	if err := utils.ValidateConfigName(name); err != nil {
		return refused("invalid config name %q", name), nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.layout.ConfigFile(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return refused("config %s does not exist", name), nil
	}
	if err != nil {
		return types.DeleteResponse{}, fmt.Errorf("failed to read config %s: %w", name, err)
	}

	archive := b.layout.TrashFile(name, b.now())
	if err := writeGzip(archive, name, data); err != nil {
		return types.DeleteResponse{}, fmt.Errorf("failed to archive config %s: %w", name, err)
	}
	if err := os.Remove(path); err != nil {
		return types.DeleteResponse{}, fmt.Errorf("failed to remove config %s: %w", name, err)
	}
	delete(b.written, name)

	b.logger.Info("Config archived", zap.String("config", name), zap.String("archive", archive))
	return types.DeleteResponse{}, nil
}

// Trash lists archived snapshots in reverse lexical order, which puts the
// newest snapshot of each config first.
func (b *FileBackend) Trash() ([]string, error) {
	entries, err := os.ReadDir(b.layout.Trash())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read trash: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(b.layout.Trash(), entry.Name()))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// ReadArchive returns the config held by a trash snapshot
func (b *FileBackend) ReadArchive(path string) (*types.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, utils.MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress archive: %w", err)
	}
	if err := utils.ValidateSize(data, utils.MaxDocumentSize); err != nil {
		return nil, err
	}
	return decode(zr.Name, data)
}

// LatestTrashed returns the newest archived snapshot of name
func (b *FileBackend) LatestTrashed(ctx context.Context, name string) (*types.Config, error) {
	if err := b.check(ctx); err != nil {
		return nil, err
	}
	files, err := b.Trash()
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if trashed, ok := paths.TrashedName(file); ok && trashed == name {
			return b.ReadArchive(file)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// IsOwnWrite reports whether data is exactly what this backend last wrote
// for name.
func (b *FileBackend) IsOwnWrite(name string, data []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	hash, ok := b.written[name]
	return ok && hash == utils.HashBytes(data)
}

// Close marks the backend closed
func (b *FileBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

func (b *FileBackend) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func writeGzip(path, name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		f.Close()
		return err
	}
	zw.Name = name
	zw.ModTime = time.Now()
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
