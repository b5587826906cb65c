package widgets

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

// PackPattern matches definition pack files below the seed directory
const PackPattern = "**/*.{yaml,yml,toml}"

// definitionPack is the on-disk shape of a definition file
type definitionPack struct {
	Widgets []types.WidgetDefinition `yaml:"widgets" toml:"widgets"`
}

// Seeder loads widget definition packs from disk
type Seeder struct {
	registry *Registry
	dir      string
	logger   *zap.Logger
}

// NewSeeder creates a seeder reading packs below dir
func NewSeeder(registry *Registry, dir string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		registry: registry,
		dir:      dir,
		logger:   logger,
	}
}

// Seed registers every definition found in the pack files and returns how
// many were registered. A missing directory is not an error; a broken pack
// is logged and skipped.
func (s *Seeder) Seed() (int, error) {
	if s.dir == "" {
		return 0, nil
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.logger.Info("Widget definition directory not found", zap.String("dir", s.dir))
		return 0, nil
	}

	matches, err := s.scan()
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", s.dir, err)
	}

	var loaded, failed int
	for _, match := range matches {
		defs, err := s.loadPack(filepath.Join(s.dir, filepath.FromSlash(match)))
		if err != nil {
			s.logger.Warn("Failed to load widget pack", zap.String("file", match), zap.Error(err))
			failed++
			continue
		}

		for _, def := range defs {
			if err := s.registry.Register(def); err != nil {
				s.logger.Warn("Failed to register widget",
					zap.String("file", match),
					zap.String("type", def.Type),
					zap.Error(err),
				)
				failed++
				continue
			}
			loaded++
		}
	}

	s.logger.Info("Widget definitions seeded",
		zap.Int("loaded", loaded),
		zap.Int("failed", failed),
	)
	return loaded, nil
}

// scan returns the slash-separated paths of pack files below the seed
// directory in lexical order, so registration order is stable.
func (s *Seeder) scan() ([]string, error) {
	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, s.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != s.dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(PackPattern, rel); ok {
			mu.Lock()
			matches = append(matches, rel)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

func (s *Seeder) loadPack(file string) ([]types.WidgetDefinition, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var pack definitionPack
	switch path.Ext(filepath.ToSlash(file)) {
	case ".toml":
		err = toml.Unmarshal(data, &pack)
	default:
		err = yaml.Unmarshal(data, &pack)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	for i := range pack.Widgets {
		if pack.Widgets[i].Options == nil {
			pack.Widgets[i].Options = map[string]types.OptionSpec{}
		}
	}
	return pack.Widgets, nil
}
