package lifecycle

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-yaml"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/utils"
)

// Import parses an exported config document (JSON or YAML), validates it,
// persists it and loads it into the store. The active config does not
// change.
func (m *Manager) Import(ctx context.Context, data []byte) (*types.Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		m.record(Result{Op: OpImport, State: StateRejected})
		return nil, err
	}
	if err := m.ensureUnique(ctx, cfg.Name()); err != nil {
		m.record(Result{Op: OpImport, Config: cfg.Name(), State: StateRejected})
		return nil, err
	}

	if err := m.persist.SaveConfig(ctx, cfg); err != nil {
		m.record(Result{Op: OpImport, Config: cfg.Name(), State: StateFailed})
		return nil, fmt.Errorf("failed to save config %s: %w", cfg.Name(), err)
	}
	m.store.Load(cfg)

	m.notify(savedNotification(cfg.Name()))
	m.record(Result{Op: OpImport, Config: cfg.Name(), State: StateCommitted})
	m.logger.Info("Config imported",
		zap.String("config", cfg.Name()),
		zap.Int("widgets", len(cfg.Widgets)))
	return cfg, nil
}

// Decode parses and validates a config document. JSON is detected by
// content; any other text is read as YAML.
func Decode(data []byte) (*types.Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	if err := utils.ValidateSize(data, utils.MaxDocumentSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var err error
	mtype := mimetype.Detect(data)
	if !isText(mtype) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mtype.String())
	}

	if !utf8.Valid(data) {
		if data, err = toUTF8(data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		mtype = mimetype.Detect(data)
	}

	var cfg types.Config
	if mtype.Is("application/json") {
		if err = sonic.ConfigStd.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	} else {
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

// toUTF8 transcodes a text document in a legacy or UTF-16 encoding.
func toUTF8(data []byte) ([]byte, error) {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return nil, fmt.Errorf("unable to detect charset")
	}

	enc, name := charset.Lookup(strings.ToLower(result.Charset))
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %s", result.Charset)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return bytes.TrimPrefix(out, utf8BOM), nil
}

func isText(mtype *mimetype.MIME) bool {
	for t := mtype; t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return true
		}
	}
	return false
}
