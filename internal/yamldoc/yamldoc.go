// Package yamldoc parses plugin settings, config and language files into
// plain mappings.
package yamldoc

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/andrei-cloud/plugload/internal/errorcodes"
)

// ParseFile reads and parses the YAML document at path.
func ParseFile(fs afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return Parse(data, path)
}

// Parse decodes a YAML document whose top level must be a mapping. An empty
// document yields an empty mapping. source is only used in error messages.
func Parse(data []byte, source string) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errorcodes.ErrMalformedDocument.Wrap(fmt.Errorf("%s: %w", source, err))
	}

	switch v := doc.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return normalizeMap(v), nil
	case map[any]any:
		return normalizeAnyMap(v), nil
	default:
		return nil, errorcodes.ErrInvalidDocument.Wrap(fmt.Errorf("%s: top level is %T", source, doc))
	}
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Normalize converts nested map[any]any values, which yaml.v3 produces for
// non-string keys, into map[string]any.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		return normalizeAnyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}

		return out
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}

	return out
}

func normalizeAnyMap(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = Normalize(v)
	}

	return out
}
