package paths

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// ConfigExt is the extension of persisted config documents
	ConfigExt = ".json"
	// TrashDir holds gzip snapshots of deleted configs
	TrashDir = ".trash"
	// DatabaseFile is the default sqlite file name inside the storage dir
	DatabaseFile = "configs.db"
)

// Layout resolves paths below a storage root
type Layout struct {
	Root string
}

// ConfigFile returns the document path of a named config
func (l Layout) ConfigFile(name string) string {
	return filepath.Join(l.Root, name+ConfigExt)
}

// Trash returns the directory of archived configs
func (l Layout) Trash() string {
	return filepath.Join(l.Root, TrashDir)
}

// trashStamp is the deletion time format embedded in archive names
const trashStamp = "20060102T150405"

// TrashFile returns the archive path for a config deleted at ts
func (l Layout) TrashFile(name string, ts time.Time) string {
	return filepath.Join(l.Trash(), fmt.Sprintf("%s-%s%s.gz", name, ts.UTC().Format(trashStamp), ConfigExt))
}

// Database returns the default sqlite database path
func (l Layout) Database() string {
	return filepath.Join(l.Root, DatabaseFile)
}

// ConfigName extracts the config name from a document path, reporting
// false for files that are not config documents.
func ConfigName(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ConfigExt {
		return "", false
	}
	return strings.TrimSuffix(base, ConfigExt), true
}

// TrashedName extracts the config name from an archive path written by
// TrashFile.
func TrashedName(path string) (string, bool) {
	stem, ok := strings.CutSuffix(filepath.Base(path), ConfigExt+".gz")
	cut := len(stem) - len(trashStamp) - 1
	if !ok || cut < 1 || stem[cut] != '-' {
		return "", false
	}
	if _, err := time.Parse(trashStamp, stem[cut+1:]); err != nil {
		return "", false
	}
	return stem[:cut], true
}
