// Package cli contains utilities for CLI operations.
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cast"

	"github.com/andrei-cloud/plugload/internal/registry"
	"github.com/andrei-cloud/plugload/internal/yamldoc"
)

// YesNo renders a flag for tables.
func YesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

// NewTable returns a tabwriter aligned the way every command prints tables.
func NewTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

// Keys returns the sorted top-level keys of a record.
func Keys(cfg registry.Config) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// FormatValue renders a configuration value on one line.
func FormatValue(v any) string {
	switch v.(type) {
	case map[string]any, registry.Config, []any:
		data, err := yamldoc.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return strings.Join(strings.Fields(strings.TrimSpace(string(data))), " ")
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return s
	}
}

// PrintRecord writes a plugin record as YAML.
func PrintRecord(w io.Writer, name string, cfg registry.Config) error {
	data, err := yamldoc.Marshal(map[string]any{name: map[string]any(cfg)})
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
