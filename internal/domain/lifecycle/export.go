package lifecycle

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

// ExportIndent is the indentation of exported documents
const ExportIndent = "\t"

// Export is a serialized config ready to be saved as a file
type Export struct {
	Filename string
	Content  []byte
}

// Export serializes the active config and hands it to saver. Secret option
// values are removed first. The store is not modified.
func (m *Manager) Export(ctx context.Context, saver FileSaver) (Export, error) {
	cfg, err := m.active()
	if err != nil {
		return Export{}, err
	}

	out, err := m.Render(cfg)
	if err != nil {
		m.record(Result{Op: OpExport, Config: cfg.Name(), State: StateFailed})
		return Export{}, err
	}

	if err := saver.SaveFile(out.Content, out.Filename); err != nil {
		m.record(Result{Op: OpExport, Config: cfg.Name(), State: StateFailed})
		return Export{}, fmt.Errorf("failed to save export: %w", err)
	}

	m.record(Result{Op: OpExport, Config: cfg.Name(), State: StateCommitted})
	m.logger.Info("Config exported", zap.String("config", cfg.Name()), zap.Int("bytes", len(out.Content)))
	return out, nil
}

// Render produces the export document for cfg without saving it
func (m *Manager) Render(cfg *types.Config) (Export, error) {
	redacted := m.Redact(cfg)

	data, err := sonic.ConfigStd.MarshalIndent(redacted, "", ExportIndent)
	if err != nil {
		return Export{}, fmt.Errorf("failed to marshal config %s: %w", cfg.Name(), err)
	}

	return Export{
		Filename: cfg.Name() + ".json",
		Content:  data,
	}, nil
}

// Redact returns a copy of cfg without values of secret options
func (m *Manager) Redact(cfg *types.Config) *types.Config {
	out := cfg.Clone()
	if m.defs == nil {
		return out
	}

	for i := range out.Widgets {
		w := &out.Widgets[i]
		if w.Properties == nil {
			continue
		}
		def, ok := m.defs.Lookup(w.Type)
		if !ok {
			continue
		}
		for name, spec := range def.Options {
			if spec.IsSecret() {
				delete(w.Properties, name)
			}
		}
	}
	return out
}
