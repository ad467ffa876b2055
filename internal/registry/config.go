package registry

import (
	"reflect"
)

// EnabledKey is the configuration field that gates plugin activation.
const EnabledKey = "enabled"

// Config is the merged configuration record of a single plugin.
type Config map[string]any

// Enabled reports whether the record's enabled field is truthy. A missing
// field counts as disabled.
func (c Config) Enabled() bool {
	return Truthy(c[EnabledKey])
}

// Truthy reports whether v is a set value: nil, false, zero numbers, "",
// "0" and empty maps or lists are false, everything else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// Clone returns a deep copy of the record.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}

	return Config(cloneMap(c))
}

// Merge shallow-merges config over settings: keys of config win on conflict.
// Neither input is modified.
func Merge(settings, config map[string]any) Config {
	out := make(Config, len(settings)+len(config))
	for k, v := range settings {
		out[k] = cloneValue(v)
	}
	for k, v := range config {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Config:
		return t.Clone()
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}

		return out
	default:
		return v
	}
}

// asMap views v as a string-keyed map when it is one.
func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case Config:
		return t, true
	case map[string]any:
		return t, true
	default:
		return nil, false
	}
}
