package plugins

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/andrei-cloud/plugload/internal/fsutil"
	"github.com/andrei-cloud/plugload/internal/registry"
)

// SettingsFile is the per-plugin default settings document.
const SettingsFile = "settings.yaml"

// Entry describes one plugin directory found during discovery.
type Entry struct {
	Name        string // directory name, also the plugin name
	Dir         string // path of the plugin directory
	HasSettings bool
	HasConfig   bool
}

// SettingsPath returns the path of the plugin's settings document.
func (e Entry) SettingsPath() string {
	return filepath.Join(e.Dir, SettingsFile)
}

// ConfigPath returns the path of the plugin's own configuration document.
func (e Entry) ConfigPath() string {
	return filepath.Join(e.Dir, e.Name+".yaml")
}

// LanguagePath returns the path of the plugin's translation file for locale.
func (e Entry) LanguagePath(locale string) string {
	return filepath.Join(e.Dir, "languages", locale+".yaml")
}

// Qualifies reports whether the entry contributes to the fingerprint.
func (e Entry) Qualifies() bool {
	return e.HasSettings && e.HasConfig
}

// Fingerprint identifies one state of the plugin tree.
type Fingerprint string

// discover inspects each named directory under root.
func discover(fs *fsutil.FS, root string, names []string) []Entry {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		e := Entry{Name: name, Dir: filepath.Join(root, name)}
		e.HasSettings = fs.Exists(e.SettingsPath())
		e.HasConfig = fs.Exists(e.ConfigPath())
		entries = append(entries, e)
	}

	return entries
}

// fingerprint collects the mtimes of every qualifying entry and hashes them.
func fingerprint(fs *fsutil.FS, root string, entries []Entry) (Fingerprint, error) {
	mtimes := make([]time.Time, 0, 2*len(entries))
	for _, e := range entries {
		if !e.Qualifies() {
			continue
		}
		for _, p := range []string{e.SettingsPath(), e.ConfigPath()} {
			mt, err := fs.ModTime(p)
			if err != nil {
				return "", err
			}
			mtimes = append(mtimes, mt)
		}
	}

	return FingerprintOf(root, mtimes), nil
}

// FingerprintOf hashes the namespace, root and mtimes into a fingerprint.
// mtimes are encoded as base-10 Unix nanoseconds in the order given and the
// result is 16 lowercase hex digits.
func FingerprintOf(root string, mtimes []time.Time) Fingerprint {
	var b strings.Builder
	b.WriteString(registry.PluginsPath)
	b.WriteString(root)
	b.WriteString("/")
	for _, mt := range mtimes {
		b.WriteString(strconv.FormatInt(mt.UnixNano(), 10))
	}

	return Fingerprint(fmt.Sprintf("%016x", xxhash.Sum64String(b.String())))
}
