package plugins

import (
	"github.com/andrei-cloud/plugload/internal/fsutil"
	"github.com/andrei-cloud/plugload/internal/registry"
	"github.com/andrei-cloud/plugload/internal/yamldoc"
)

// mergeAll builds the configuration record of every entry. A missing document
// counts as an empty mapping; a malformed one aborts the merge.
func mergeAll(fs *fsutil.FS, entries []Entry) (map[string]registry.Config, error) {
	merged := make(map[string]registry.Config, len(entries))
	for _, e := range entries {
		settings, err := readOptional(fs, e.SettingsPath())
		if err != nil {
			return nil, err
		}
		cfg, err := readOptional(fs, e.ConfigPath())
		if err != nil {
			return nil, err
		}

		merged[e.Name] = registry.Merge(settings, cfg)
	}

	return merged, nil
}

func readOptional(fs *fsutil.FS, path string) (map[string]any, error) {
	if !fs.Exists(path) {
		return map[string]any{}, nil
	}

	return yamldoc.ParseFile(fs.Afero(), path)
}
