package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS configs (
	name       TEXT PRIMARY KEY,
	document   BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS config_trash (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	document   BLOB NOT NULL,
	deleted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_config_trash_name ON config_trash(name);
`

// trash snapshots are zstd frames; encoder and decoder are safe for
// concurrent EncodeAll/DecodeAll
var (
	trashCodec, _   = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	trashDecoder, _ = zstd.NewReader(nil)
)

// SQLiteBackend stores configs in a sqlite database
type SQLiteBackend struct {
	db        *sql.DB
	protected string
	logger    *zap.Logger
}

// NewSQLiteBackend opens (and migrates) the database at dsn. Deleting the
// protected config is always refused.
func NewSQLiteBackend(dsn, protected string, logger *zap.Logger) (*SQLiteBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path, onDisk := sqliteFilePath(dsn); onDisk {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer; in-memory databases are per connection
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteBackend{db: db, protected: protected, logger: logger}, nil
}

func sqliteFilePath(dsn string) (string, bool) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return "", false
	}
	dsn = strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		dsn = dsn[:i]
	}
	return dsn, dsn != ""
}

// ListConfigs returns the names of all stored configs
func (b *SQLiteBackend) ListConfigs(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT name FROM configs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list configs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan config name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LoadConfig reads a stored config
func (b *SQLiteBackend) LoadConfig(ctx context.Context, name string) (*types.Config, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, `SELECT document FROM configs WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", name, err)
	}
	return decode(name, data)
}

// SaveConfig inserts or replaces a config
func (b *SQLiteBackend) SaveConfig(ctx context.Context, cfg *types.Config) error {
	name := cfg.Name()
	if err := utils.ValidateConfigName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	data, err := encode(cfg)
	if err != nil {
		return err
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO configs (name, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		name, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save config %s: %w", name, err)
	}

	b.logger.Debug("Config saved", zap.String("config", name), zap.Int("bytes", len(data)))
	return nil
}

// DeleteConfig moves a config to the trash table. Deleting the protected
// or a missing config is refused with a message.
func (b *SQLiteBackend) DeleteConfig(ctx context.Context, name string) (types.DeleteResponse, error) {
	if name == b.protected {
		return refused("cannot delete %s", name), nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return types.DeleteResponse{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var data []byte
	err = tx.QueryRowContext(ctx, `SELECT document FROM configs WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return refused("config %s does not exist", name), nil
	}
	if err != nil {
		return types.DeleteResponse{}, fmt.Errorf("failed to read config %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO config_trash (name, document, deleted_at) VALUES (?, ?, ?)`,
		name, trashCodec.EncodeAll(data, nil), time.Now().UnixMilli()); err != nil {
		return types.DeleteResponse{}, fmt.Errorf("failed to archive config %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM configs WHERE name = ?`, name); err != nil {
		return types.DeleteResponse{}, fmt.Errorf("failed to delete config %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return types.DeleteResponse{}, fmt.Errorf("failed to commit delete of %s: %w", name, err)
	}

	b.logger.Info("Config moved to trash", zap.String("config", name))
	return types.DeleteResponse{}, nil
}

// LatestTrashed returns the most recently archived snapshot of name
func (b *SQLiteBackend) LatestTrashed(ctx context.Context, name string) (*types.Config, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx,
		`SELECT document FROM config_trash WHERE name = ? ORDER BY id DESC LIMIT 1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read trash for %s: %w", name, err)
	}

	raw, err := trashDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress trash for %s: %w", name, err)
	}
	return decode(name, raw)
}

// Close closes the database
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
